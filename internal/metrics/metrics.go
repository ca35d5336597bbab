// Package metrics exposes Prometheus metrics for the encode session and
// the settings translator, plus the parser for FFmpeg progress output.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionFPS = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nvencd",
		Subsystem: "session",
		Name:      "fps",
		Help:      "Current encode rate in frames per second",
	}, []string{"variant"})

	sessionFrames = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nvencd",
		Subsystem: "session",
		Name:      "frames_total",
		Help:      "Frames encoded so far",
	}, []string{"variant"})

	sessionBitrate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nvencd",
		Subsystem: "session",
		Name:      "bitrate_kbits",
		Help:      "Current output bitrate in kbit/s",
	}, []string{"variant"})

	sessionSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nvencd",
		Subsystem: "session",
		Name:      "output_bytes",
		Help:      "Bytes written so far",
	}, []string{"variant"})

	sessionSpeed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nvencd",
		Subsystem: "session",
		Name:      "speed",
		Help:      "Encode speed relative to realtime",
	}, []string{"variant"})

	sessionDropped = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nvencd",
		Subsystem: "session",
		Name:      "dropped_frames_total",
		Help:      "Dropped frames",
	}, []string{"variant"})

	sessionDuplicate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nvencd",
		Subsystem: "session",
		Name:      "duplicate_frames_total",
		Help:      "Duplicated frames",
	}, []string{"variant"})

	translationApplies = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nvencd",
		Subsystem: "translate",
		Name:      "applies_total",
		Help:      "Settings-to-context translations performed",
	})

	translationWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nvencd",
		Subsystem: "translate",
		Name:      "warnings_total",
		Help:      "Incompatible option combinations resolved during translation",
	})

	// Cache of the last progress sample for API readers.
	lastProgress   *Progress
	lastProgressMu sync.RWMutex
)

// RecordProgress publishes one progress sample for the session.
func RecordProgress(variant string, p Progress) {
	sessionFPS.WithLabelValues(variant).Set(p.FPS)
	sessionFrames.WithLabelValues(variant).Set(float64(p.Frame))
	sessionBitrate.WithLabelValues(variant).Set(p.BitrateKbits)
	sessionSize.WithLabelValues(variant).Set(float64(p.TotalSize))
	sessionSpeed.WithLabelValues(variant).Set(p.SpeedX)
	sessionDropped.WithLabelValues(variant).Set(float64(p.Dropped))
	sessionDuplicate.WithLabelValues(variant).Set(float64(p.Duplicate))

	lastProgressMu.Lock()
	dup := p
	lastProgress = &dup
	lastProgressMu.Unlock()
}

// ClearSession removes the session gauges when the session ends.
func ClearSession(variant string) {
	sessionFPS.DeleteLabelValues(variant)
	sessionFrames.DeleteLabelValues(variant)
	sessionBitrate.DeleteLabelValues(variant)
	sessionSize.DeleteLabelValues(variant)
	sessionSpeed.DeleteLabelValues(variant)
	sessionDropped.DeleteLabelValues(variant)
	sessionDuplicate.DeleteLabelValues(variant)

	lastProgressMu.Lock()
	lastProgress = nil
	lastProgressMu.Unlock()
}

// LastProgress returns the most recent sample, or nil outside a session.
func LastProgress() *Progress {
	lastProgressMu.RLock()
	defer lastProgressMu.RUnlock()
	if lastProgress == nil {
		return nil
	}
	dup := *lastProgress
	return &dup
}

// CountTranslationApply records one translator run.
func CountTranslationApply() { translationApplies.Inc() }

// CountTranslationWarning records one auto-resolved option conflict.
func CountTranslationWarning() { translationWarnings.Inc() }
