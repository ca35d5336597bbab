package events

// Event type constants for kelindar/event.
const (
	TypeSettingsChanged uint32 = iota + 1
	TypeFormInvalidated
	TypeSessionStateChanged
	TypeDiagnosticsReady
	TypeConfigReloaded
	TypeMetricsUpdated
	TypeLogEntry
	TypeUpdateAvailable
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// SettingsChangedEvent is published after user settings are written,
// reset, or reloaded from disk.
type SettingsChangedEvent struct {
	Keys      []string `json:"keys" doc:"Settings keys that changed"`
	Source    string   `json:"source" example:"api" doc:"What wrote the change: api, reset, reload"`
	Timestamp string   `json:"timestamp" example:"2026-08-25T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SettingsChangedEvent.
func (e SettingsChangedEvent) Type() uint32 { return TypeSettingsChanged }

// FormInvalidatedEvent tells UI clients to re-fetch the property form
// because the visibility of one or more controls changed.
type FormInvalidatedEvent struct {
	Variant   string `json:"variant" example:"h264_nvenc" doc:"Encoder variant whose form changed"`
	Timestamp string `json:"timestamp" example:"2026-08-25T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for FormInvalidatedEvent.
func (e FormInvalidatedEvent) Type() uint32 { return TypeFormInvalidated }

// SessionStateChangedEvent is published on every encode-session state
// transition.
type SessionStateChangedEvent struct {
	Variant   string `json:"variant" example:"h264_nvenc" doc:"Encoder variant of the session"`
	State     string `json:"state" example:"running" doc:"New state: starting, running, stopping, stopped, failed"`
	PID       int    `json:"pid,omitempty" doc:"Encoder process ID while running"`
	Error     string `json:"error,omitempty" doc:"Failure reason for the failed state"`
	Timestamp string `json:"timestamp" example:"2026-08-25T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SessionStateChangedEvent.
func (e SessionStateChangedEvent) Type() uint32 { return TypeSessionStateChanged }

// DiagnosticsReadyEvent carries the effective-configuration report
// produced when a session starts.
type DiagnosticsReadyEvent struct {
	Variant   string   `json:"variant" example:"h264_nvenc" doc:"Encoder variant reported on"`
	Lines     []string `json:"lines" doc:"Human-readable report lines"`
	Timestamp string   `json:"timestamp" example:"2026-08-25T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DiagnosticsReadyEvent.
func (e DiagnosticsReadyEvent) Type() uint32 { return TypeDiagnosticsReady }

// ConfigReloadedEvent is published when the watched settings file
// changes on disk and has been re-read.
type ConfigReloadedEvent struct {
	Path      string `json:"path" doc:"File that was reloaded"`
	Timestamp string `json:"timestamp" example:"2026-08-25T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ConfigReloadedEvent.
func (e ConfigReloadedEvent) Type() uint32 { return TypeConfigReloaded }

// MetricsUpdatedEvent carries one FFmpeg progress sample from the
// running session.
type MetricsUpdatedEvent struct {
	Frame     int64   `json:"frame" doc:"Frames encoded so far"`
	FPS       float64 `json:"fps" doc:"Current encode rate"`
	Bitrate   string  `json:"bitrate" example:"6000.2kbits/s" doc:"Current output bitrate"`
	TotalSize int64   `json:"total_size" doc:"Bytes written so far"`
	OutTimeUS int64   `json:"out_time_us" doc:"Encoded duration in microseconds"`
	Speed     string  `json:"speed" example:"1.01x" doc:"Encode speed relative to realtime"`
	Dropped   int64   `json:"dropped" doc:"Dropped frames"`
	Duplicate int64   `json:"duplicate" doc:"Duplicated frames"`
}

// Type returns the event type identifier for MetricsUpdatedEvent.
func (e MetricsUpdatedEvent) Type() uint32 { return TypeMetricsUpdated }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2026-08-25T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"nvenc" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }

// UpdateAvailableEvent is published when the updater finds a newer
// release.
type UpdateAvailableEvent struct {
	Current   string `json:"current" example:"1.2.0" doc:"Running version"`
	Latest    string `json:"latest" example:"1.3.0" doc:"Latest released version"`
	URL       string `json:"url,omitempty" doc:"Release page"`
	Timestamp string `json:"timestamp" example:"2026-08-25T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for UpdateAvailableEvent.
func (e UpdateAvailableEvent) Type() uint32 { return TypeUpdateAvailable }
