// Package session drives encode sessions: it materializes the current
// settings into a codec context, renders the FFmpeg invocation, runs the
// encoder process, and feeds its progress and log output back into
// metrics and logging. At most one session is active at a time.
package session

import (
	"errors"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/smazurov/nvencd/internal/encoder"
	"github.com/smazurov/nvencd/internal/encoder/nvenc"
	"github.com/smazurov/nvencd/internal/events"
	"github.com/smazurov/nvencd/internal/logging"
	"github.com/smazurov/nvencd/internal/metrics"
	"github.com/smazurov/nvencd/internal/settings"
)

var (
	// ErrSessionActive is returned when a session is already running.
	ErrSessionActive = errors.New("encode session already active")
	// ErrNoSession is returned when no session is running.
	ErrNoSession = errors.New("no active encode session")
)

// State is the lifecycle state of the session.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateFailed   State = "failed"
)

// Config carries the non-settings parts of an encode session: where
// ffmpeg lives, what it encodes, and where the output goes.
type Config struct {
	FFmpegPath string
	InputArgs  []string
	Output     string
}

// Status is a snapshot of the session for API consumers.
type Status struct {
	State   State  `json:"state"`
	Variant string `json:"variant,omitempty"`
	PID     int    `json:"pid,omitempty"`
	Started string `json:"started,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Manager owns the single encode session.
type Manager struct {
	mu      sync.Mutex
	store   *settings.Store
	bus     *events.Bus
	cfg     Config
	logger  logging.Logger
	runner  *Runner
	state   State
	variant encoder.Variant
	report  []string
	pid     int
	started time.Time
	lastErr string
	done    chan struct{}
}

// NewManager creates a session manager over the given settings store.
func NewManager(store *settings.Store, bus *events.Bus, cfg Config) *Manager {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	return &Manager{
		store:  store,
		bus:    bus,
		cfg:    cfg,
		logger: logging.GetLogger("session"),
		state:  StateIdle,
	}
}

// BuildContext materializes the current settings into a fresh codec
// context for the variant: translation first, then the surface/delay
// derivation that depends on the translated B-frame count.
func (m *Manager) BuildContext(variant encoder.Variant) *encoder.Context {
	ctx := encoder.NewContext(variant)
	nvenc.Apply(m.store, ctx)
	nvenc.ApplyOverrides(ctx)
	return ctx
}

// buildArgs renders the complete FFmpeg invocation for a context.
func (m *Manager) buildArgs(ctx *encoder.Context) []string {
	args := []string{m.cfg.FFmpegPath, "-hide_banner", "-nostats",
		"-loglevel", "level+info", "-progress", "pipe:1"}
	args = append(args, m.cfg.InputArgs...)
	args = append(args, ctx.Args()...)
	args = append(args, "-y", m.cfg.Output)
	return args
}

// Active reports whether a session is running or starting.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateStarting || m.state == StateRunning || m.state == StateStopping
}

// Status returns a snapshot of the session.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Status{State: m.state, Error: m.lastErr}
	if m.state != StateIdle && m.state != StateFailed {
		s.Variant = m.variant.Name()
		s.PID = m.pid
		s.Started = m.started.UTC().Format(time.RFC3339)
	}
	return s
}

// Diagnostics returns the effective-configuration report captured when
// the current session started.
func (m *Manager) Diagnostics() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.report == nil {
		return nil, ErrNoSession
	}
	out := make([]string, len(m.report))
	copy(out, m.report)
	return out, nil
}

// Start translates the settings and launches the encoder. Returns
// ErrSessionActive if a session is already running.
func (m *Manager) Start(variant encoder.Variant) error {
	m.mu.Lock()
	if m.state == StateStarting || m.state == StateRunning || m.state == StateStopping {
		m.mu.Unlock()
		return ErrSessionActive
	}

	ctx := m.BuildContext(variant)
	report := nvenc.Report(ctx)
	args := m.buildArgs(ctx)

	runner := NewRunner(args, m.logger)
	runner.SetProgressHandler(func(r io.Reader) {
		m.collectProgress(variant, r)
	})
	runner.OnStart(func(pid int) {
		m.mu.Lock()
		m.pid = pid
		m.state = StateRunning
		m.mu.Unlock()
		m.publishState(StateRunning, pid, "")
	})

	m.runner = runner
	m.state = StateStarting
	m.variant = variant
	m.report = report
	m.started = time.Now()
	m.lastErr = ""
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	m.publishState(StateStarting, 0, "")
	for _, line := range report {
		m.logger.Info(line)
	}
	m.bus.Publish(events.DiagnosticsReadyEvent{
		Variant:   variant.Name(),
		Lines:     report,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})

	go func() {
		exitCode := runner.Run()
		metrics.ClearSession(variant.Name())

		m.mu.Lock()
		failed := exitCode != 0 && m.state != StateStopping
		if failed {
			m.state = StateFailed
			m.lastErr = "encoder exited with code " + strconv.Itoa(exitCode)
		} else {
			m.state = StateIdle
		}
		m.runner = nil
		m.report = nil
		m.pid = 0
		errText := m.lastErr
		m.mu.Unlock()

		if failed {
			m.publishState(StateFailed, 0, errText)
		} else {
			m.publishState(StateIdle, 0, "")
		}
		close(done)
	}()

	return nil
}

// Stop shuts the session down gracefully and waits for the process to
// exit.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if m.runner == nil {
		m.mu.Unlock()
		return ErrNoSession
	}
	m.state = StateStopping
	runner := m.runner
	done := m.done
	m.mu.Unlock()

	m.publishState(StateStopping, 0, "")
	runner.Shutdown()
	<-done
	return nil
}

// UpdateBitrate re-translates the settings and restarts the encoder
// with the new invocation. Only the bitrate fields are editable while a
// session runs, so this is the live-bitrate path the replay buffer uses.
func (m *Manager) UpdateBitrate() error {
	m.mu.Lock()
	if m.runner == nil {
		m.mu.Unlock()
		return ErrNoSession
	}
	ctx := m.BuildContext(m.variant)
	m.report = nvenc.Report(ctx)
	args := m.buildArgs(ctx)
	runner := m.runner
	m.mu.Unlock()

	m.logger.Info("Applying live bitrate change",
		"bitrate", m.store.Int(nvenc.KeyBitrateTarget))
	runner.RequestRestart(args)
	return nil
}

// collectProgress feeds -progress samples into metrics and the bus.
func (m *Manager) collectProgress(variant encoder.Variant, r io.Reader) {
	err := metrics.CollectProgress(r, func(p metrics.Progress) {
		metrics.RecordProgress(variant.Name(), p)
		m.bus.Publish(events.MetricsUpdatedEvent{
			Frame:     p.Frame,
			FPS:       p.FPS,
			Bitrate:   p.Bitrate,
			TotalSize: p.TotalSize,
			OutTimeUS: p.OutTimeUS,
			Speed:     p.Speed,
			Dropped:   p.Dropped,
			Duplicate: p.Duplicate,
		})
	})
	if err != nil {
		m.logger.Warn("Progress stream ended with error", "error", err)
	}
}

func (m *Manager) publishState(state State, pid int, errText string) {
	m.bus.Publish(events.SessionStateChangedEvent{
		Variant:   m.variant.Name(),
		State:     string(state),
		PID:       pid,
		Error:     errText,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
