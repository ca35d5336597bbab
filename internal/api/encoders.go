package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/nvencd/internal/api/models"
	"github.com/smazurov/nvencd/internal/encoder"
	"github.com/smazurov/nvencd/internal/encoder/nvenc"
)

// variantFromInput validates a path parameter against the known variants.
func variantFromInput(name string) (encoder.Variant, error) {
	v := encoder.Variant(name)
	if !v.Valid() {
		return "", huma.Error404NotFound("unknown encoder variant: " + name)
	}
	return v, nil
}

// registerEncoderRoutes registers the encoder list, property form, and
// preview endpoints.
func (s *Server) registerEncoderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-encoders",
		Method:      http.MethodGet,
		Path:        "/api/encoders",
		Summary:     "List Encoders",
		Description: "List supported NVENC encoder variants",
		Tags:        []string{"encoders"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.EncoderListResponse, error) {
		variants := encoder.Variants()
		list := make([]models.EncoderInfo, len(variants))
		for i, v := range variants {
			list[i] = models.EncoderInfo{
				Name:        v.Name(),
				DisplayName: v.DisplayName(),
			}
		}
		return &models.EncoderListResponse{
			Body: models.EncoderListData{Encoders: list, Count: len(list)},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-encoder-properties",
		Method:      http.MethodGet,
		Path:        "/api/encoders/{variant}/properties",
		Summary:     "Encoder Property Form",
		Description: "Get the property form for an encoder variant with visibility resolved against the current settings. While a session runs, every control except the bitrate fields is disabled.",
		Tags:        []string{"encoders"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(ctx context.Context, input *struct {
		Variant string `path:"variant" example:"h264_nvenc" doc:"Encoder variant"`
	}) (*models.PropertyFormResponse, error) {
		variant, err := variantFromInput(input.Variant)
		if err != nil {
			return nil, err
		}

		form := nvenc.NewForm(variant)
		s.storeMu.Lock()
		nvenc.ApplyVisibility(form, s.store)
		s.storeMu.Unlock()

		locked := s.manager != nil && s.manager.Active()
		if locked {
			nvenc.ApplyRuntimeLockdown(form)
		}

		return &models.PropertyFormResponse{
			Body: models.PropertyFormData{
				Variant:    variant.Name(),
				Locked:     locked,
				Properties: form.Properties(),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "preview-encoder-args",
		Method:      http.MethodGet,
		Path:        "/api/encoders/{variant}/preview",
		Summary:     "Preview Encoder Arguments",
		Description: "Translate the current settings without starting a session and return the resulting FFmpeg codec arguments plus the effective-configuration report",
		Tags:        []string{"encoders"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(ctx context.Context, input *struct {
		Variant string `path:"variant" example:"h264_nvenc" doc:"Encoder variant"`
	}) (*models.PreviewResponse, error) {
		variant, err := variantFromInput(input.Variant)
		if err != nil {
			return nil, err
		}

		s.storeMu.Lock()
		cctx := s.manager.BuildContext(variant)
		s.storeMu.Unlock()

		return &models.PreviewResponse{
			Body: models.PreviewData{
				Variant:     variant.Name(),
				Args:        cctx.Args(),
				Diagnostics: nvenc.Report(cctx),
			},
		}, nil
	})
}
