package session

import (
	"errors"
	"slices"
	"testing"

	"github.com/smazurov/nvencd/internal/encoder"
	"github.com/smazurov/nvencd/internal/encoder/nvenc"
	"github.com/smazurov/nvencd/internal/events"
	"github.com/smazurov/nvencd/internal/settings"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store := settings.New()
	nvenc.ApplyDefaults(store)
	return NewManager(store, events.New(), Config{
		FFmpegPath: "/usr/bin/ffmpeg",
		InputArgs:  []string{"-f", "lavfi", "-i", "testsrc2=size=1280x720:rate=30"},
		Output:     "/tmp/out.mp4",
	})
}

func TestBuildArgsOrder(t *testing.T) {
	m := newTestManager(t)
	ctx := m.BuildContext(encoder.VariantH264)
	args := m.buildArgs(ctx)

	if args[0] != "/usr/bin/ffmpeg" {
		t.Errorf("args[0] = %q", args[0])
	}
	if args[len(args)-1] != "/tmp/out.mp4" {
		t.Errorf("last arg = %q, want output path", args[len(args)-1])
	}

	progress := slices.Index(args, "-progress")
	input := slices.Index(args, "-i")
	codec := slices.Index(args, "-c:v")
	if progress == -1 || input == -1 || codec == -1 {
		t.Fatalf("missing expected flags in %v", args)
	}
	if !(progress < input && input < codec) {
		t.Errorf("flag order wrong: progress=%d input=%d codec=%d", progress, input, codec)
	}
	if args[progress+1] != "pipe:1" {
		t.Errorf("-progress arg = %q, want pipe:1", args[progress+1])
	}
	if args[codec+1] != "h264_nvenc" {
		t.Errorf("-c:v arg = %q", args[codec+1])
	}
}

func TestBuildContextAppliesDefaults(t *testing.T) {
	m := newTestManager(t)
	ctx := m.BuildContext(encoder.VariantHEVC)

	// CBR (high quality) defaults: 6000 kbit/s target, derived surfaces.
	if ctx.BitRate != 6000000 {
		t.Errorf("BitRate = %d, want 6000000", ctx.BitRate)
	}
	if surfaces, ok := ctx.Priv.Int("surfaces"); !ok || surfaces != 12 {
		t.Errorf("surfaces = %d (present=%v), want 12", surfaces, ok)
	}
}

func TestStatusWhenIdle(t *testing.T) {
	m := newTestManager(t)
	s := m.Status()
	if s.State != StateIdle {
		t.Errorf("state = %q, want idle", s.State)
	}
	if s.Variant != "" || s.PID != 0 {
		t.Errorf("idle status carries session fields: %+v", s)
	}
}

func TestDiagnosticsWithoutSession(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Diagnostics(); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestStopWithoutSession(t *testing.T) {
	m := newTestManager(t)
	if err := m.Stop(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Stop err = %v, want ErrNoSession", err)
	}
	if err := m.UpdateBitrate(); !errors.Is(err, ErrNoSession) {
		t.Errorf("UpdateBitrate err = %v, want ErrNoSession", err)
	}
}

func TestStartRejectsSecondSession(t *testing.T) {
	m := newTestManager(t)
	m.state = StateRunning
	if err := m.Start(encoder.VariantH264); !errors.Is(err, ErrSessionActive) {
		t.Errorf("err = %v, want ErrSessionActive", err)
	}
}
