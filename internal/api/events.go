package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/nvencd/internal/events"
)

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time event stream for settings changes, session state, encode progress, and update availability",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"settings-changed":      events.SettingsChangedEvent{},
		"form-invalidated":      events.FormInvalidatedEvent{},
		"session-state-changed": events.SessionStateChangedEvent{},
		"diagnostics-ready":     events.DiagnosticsReadyEvent{},
		"config-reloaded":       events.ConfigReloadedEvent{},
		"metrics-updated":       events.MetricsUpdatedEvent{},
		"update-available":      events.UpdateAvailableEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		// Create event channel for this connection
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.SettingsChangedEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.FormInvalidatedEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.SessionStateChangedEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.DiagnosticsReadyEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.ConfigReloadedEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.MetricsUpdatedEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.UpdateAvailableEvent](s.bus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// Keep connection alive and forward events
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					// Connection failed, clean up and exit
					return
				}
			}
		}
	})
}
