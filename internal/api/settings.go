package api

import (
	"context"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/nvencd/internal/api/models"
	"github.com/smazurov/nvencd/internal/encoder"
	"github.com/smazurov/nvencd/internal/encoder/nvenc"
	"github.com/smazurov/nvencd/internal/events"
	"github.com/smazurov/nvencd/internal/settings"
)

// registerSettingsRoutes registers the settings read, patch, and reset
// endpoints.
func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/api/settings",
		Summary:     "Get Settings",
		Description: "Get the effective value of every settings key plus the explicit user overrides",
		Tags:        []string{"settings"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.SettingsResponse, error) {
		s.storeMu.Lock()
		defer s.storeMu.Unlock()
		return &models.SettingsResponse{
			Body: models.SettingsData{
				Values: s.store.Snapshot(),
				User:   s.store.UserSnapshot(),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "patch-settings",
		Method:      http.MethodPatch,
		Path:        "/api/settings",
		Summary:     "Update Settings",
		Description: "Write user values for one or more settings keys. While a session runs, only the bitrate fields may change; a bitrate change restarts the encoder with the new rate.",
		Tags:        []string{"settings"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 409},
	}, func(ctx context.Context, input *models.SettingsPatchRequest) (*models.SettingsResponse, error) {
		s.storeMu.Lock()
		locked := s.manager != nil && s.manager.Active()

		keys := make([]string, 0, len(input.Body.Values))
		for key, raw := range input.Body.Values {
			if locked && !runtimeEditable(key) {
				s.storeMu.Unlock()
				return nil, huma.Error409Conflict("only bitrate settings can change while a session is active: " + key)
			}
			if err := writeValue(s.store, key, raw); err != nil {
				s.storeMu.Unlock()
				return nil, err
			}
			keys = append(keys, key)
		}
		sort.Strings(keys)

		if s.options.SettingsPath != "" {
			if err := settings.SaveFile(s.options.SettingsPath, s.store); err != nil {
				s.logger.Error("Failed to persist settings", "error", err)
			}
		}

		resp := &models.SettingsResponse{
			Body: models.SettingsData{
				Values: s.store.Snapshot(),
				User:   s.store.UserSnapshot(),
			},
		}
		s.storeMu.Unlock()

		s.publishSettingsChanged(keys, "api")

		if locked {
			if err := s.manager.UpdateBitrate(); err != nil {
				s.logger.Warn("Failed to apply live bitrate change", "error", err)
			}
		}

		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "reset-settings",
		Method:      http.MethodPost,
		Path:        "/api/settings/reset",
		Summary:     "Reset Settings",
		Description: "Remove every user override, reverting all settings to their defaults",
		Tags:        []string{"settings"},
		Security:    withAuth(),
		Errors:      []int{401, 409},
	}, func(ctx context.Context, input *struct{}) (*models.SettingsResetResponse, error) {
		s.storeMu.Lock()
		if s.manager != nil && s.manager.Active() {
			s.storeMu.Unlock()
			return nil, huma.Error409Conflict("cannot reset settings while a session is active")
		}

		keys := make([]string, 0)
		for key := range s.store.UserSnapshot() {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		s.store.Reset()

		if s.options.SettingsPath != "" {
			if err := settings.SaveFile(s.options.SettingsPath, s.store); err != nil {
				s.logger.Error("Failed to persist settings", "error", err)
			}
		}
		s.storeMu.Unlock()

		s.publishSettingsChanged(keys, "reset")

		resp := &models.SettingsResetResponse{}
		resp.Body.Message = "Settings reset to defaults"
		return resp, nil
	})
}

// ReloadSettings replaces the user layer with the values from a freshly
// loaded store. The settings-file watcher calls this after the file
// changes on disk.
func (s *Server) ReloadSettings(path string, fresh *settings.Store) {
	incoming := fresh.UserSnapshot()

	s.storeMu.Lock()
	seen := make(map[string]struct{})
	for key := range s.store.UserSnapshot() {
		seen[key] = struct{}{}
	}
	for key := range incoming {
		seen[key] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	s.store.Reset()
	for key, raw := range incoming {
		switch v := raw.(type) {
		case int64:
			s.store.SetInt(key, v)
		case float64:
			s.store.SetFloat(key, v)
		case bool:
			s.store.SetBool(key, v)
		}
	}
	s.storeMu.Unlock()

	s.logger.Info("Settings reloaded from disk", "path", path, "keys", len(incoming))
	if s.bus != nil {
		s.bus.Publish(events.ConfigReloadedEvent{
			Path:      path,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
	s.publishSettingsChanged(keys, "reload")
}

// publishSettingsChanged emits the settings event plus a form
// invalidation for every variant so UI clients re-fetch visibility.
func (s *Server) publishSettingsChanged(keys []string, source string) {
	if s.bus == nil || len(keys) == 0 {
		return
	}
	now := time.Now().UTC().Format(time.RFC3339)
	s.bus.Publish(events.SettingsChangedEvent{
		Keys:      keys,
		Source:    source,
		Timestamp: now,
	})
	for _, v := range encoder.Variants() {
		s.bus.Publish(events.FormInvalidatedEvent{
			Variant:   v.Name(),
			Timestamp: now,
		})
	}
}

// runtimeEditable reports whether a key may change while a session runs.
// This mirrors the form lockdown: the bitrate group stays editable.
func runtimeEditable(key string) bool {
	switch key {
	case nvenc.KeyGroupBitrate, nvenc.KeyBitrateTarget,
		nvenc.KeyBitrateMaximum, nvenc.KeyBufferSize:
		return true
	}
	return false
}

// writeValue stores one JSON value under a settings key, picking the
// stored kind from the JSON type. Integral numbers become ints so enum
// ordinals and tristates round-trip exactly.
func writeValue(store *settings.Store, key string, raw any) error {
	switch v := raw.(type) {
	case bool:
		store.SetBool(key, v)
	case float64:
		if v == math.Trunc(v) && !isFloatKey(key) {
			store.SetInt(key, int64(v))
		} else {
			store.SetFloat(key, v)
		}
	default:
		return huma.Error400BadRequest("settings values must be numbers or booleans: " + key)
	}
	return nil
}

// isFloatKey reports whether a key stores a float even for whole values.
func isFloatKey(key string) bool {
	return key == nvenc.KeyQualityTarget
}
