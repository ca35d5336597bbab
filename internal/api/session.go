package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/nvencd/internal/api/models"
	"github.com/smazurov/nvencd/internal/metrics"
	"github.com/smazurov/nvencd/internal/session"
)

// registerSessionRoutes registers the encode session lifecycle endpoints.
func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "start-session",
		Method:      http.MethodPost,
		Path:        "/api/session",
		Summary:     "Start Session",
		Description: "Translate the current settings and start the encoder. Fails when a session is already active.",
		Tags:        []string{"session"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 409},
	}, func(ctx context.Context, input *models.SessionStartRequest) (*models.SessionStatusResponse, error) {
		variant, err := variantFromInput(input.Body.Variant)
		if err != nil {
			return nil, err
		}

		s.storeMu.Lock()
		err = s.manager.Start(variant)
		s.storeMu.Unlock()
		if err != nil {
			if errors.Is(err, session.ErrSessionActive) {
				return nil, huma.Error409Conflict("a session is already active")
			}
			return nil, huma.Error500InternalServerError("failed to start session", err)
		}

		return s.sessionStatus(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/api/session",
		Summary:     "Session Status",
		Description: "Get the state of the encode session and the latest progress sample",
		Tags:        []string{"session"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.SessionStatusResponse, error) {
		return s.sessionStatus(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "stop-session",
		Method:      http.MethodDelete,
		Path:        "/api/session",
		Summary:     "Stop Session",
		Description: "Stop the encoder gracefully and wait for it to exit",
		Tags:        []string{"session"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(ctx context.Context, input *struct{}) (*models.SessionStatusResponse, error) {
		if err := s.manager.Stop(); err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return nil, huma.Error404NotFound("no active session")
			}
			return nil, huma.Error500InternalServerError("failed to stop session", err)
		}
		return s.sessionStatus(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-session-diagnostics",
		Method:      http.MethodGet,
		Path:        "/api/session/diagnostics",
		Summary:     "Session Diagnostics",
		Description: "Get the effective-configuration report captured when the current session started",
		Tags:        []string{"session"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(ctx context.Context, input *struct{}) (*models.DiagnosticsResponse, error) {
		lines, err := s.manager.Diagnostics()
		if err != nil {
			return nil, huma.Error404NotFound("no active session")
		}
		return &models.DiagnosticsResponse{
			Body: models.DiagnosticsData{Lines: lines},
		}, nil
	})
}

func (s *Server) sessionStatus() *models.SessionStatusResponse {
	status := s.manager.Status()
	data := models.SessionStatusData{
		State:   string(status.State),
		Variant: status.Variant,
		PID:     status.PID,
		Started: status.Started,
		Error:   status.Error,
	}

	if p := metrics.LastProgress(); p != nil {
		data.Progress = &models.SessionProgress{
			Frame:     p.Frame,
			FPS:       p.FPS,
			Bitrate:   p.Bitrate,
			TotalSize: p.TotalSize,
			OutTimeUS: p.OutTimeUS,
			Speed:     p.Speed,
			Dropped:   p.Dropped,
			Duplicate: p.Duplicate,
		}
	}

	return &models.SessionStatusResponse{Body: data}
}
