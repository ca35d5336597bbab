package nvenc

import (
	"github.com/smazurov/nvencd/internal/encoder"
	"github.com/smazurov/nvencd/internal/logging"
	"github.com/smazurov/nvencd/internal/metrics"
	"github.com/smazurov/nvencd/internal/settings"
)

// Apply translates the settings onto the codec context. Call it after
// ApplyDefaults and before the session opens the encoder; it may run
// again to reconfigure before the next start. Step order matters: later
// writes override earlier numeric fields.
//
// Nothing here fails. Unmapped enum ordinals are skipped so the encoder
// falls back to its own default, and the one incompatible combination
// (B-frames with weighted prediction) is resolved with a warning.
func Apply(s *settings.Store, ctx *encoder.Context) {
	log := logging.GetLogger("nvenc")
	priv := ctx.Priv
	metrics.CountTranslationApply()

	if token, ok := Preset(s.Int(KeyPreset)).Token(); ok {
		priv.Set(optPreset, token)
	} else {
		priv.Delete(optPreset)
	}

	mode := RateControlMode(s.Int(KeyRateControlMode))
	if token, ok := mode.Token(); ok {
		priv.Set(optRC, token)
	}

	// Legacy flag some consumers still read; only the CBR family sets it.
	priv.SetInt(optCBR, 0)
	if mode.IsCBR() {
		priv.SetInt(optCBR, 1)
	}
	n := mode.fieldNeeds()

	if tp := TristateOf(s.Int(KeyTwoPass)); tp.IsSet() {
		priv.SetInt(optTwoPass, tp.Int64())
	}

	lookahead := s.Int(KeyLookAhead)
	priv.SetInt(optRCLookahead, lookahead)
	if lookahead > 0 {
		if ai := TristateOf(s.Int(KeyAdaptiveI)); ai.IsSet() {
			priv.SetInt(optNoScenecut, ai.Int64())
		}
		// Adaptive B-frames only exist on h264_nvenc; the form never
		// offers the control elsewhere.
		if ctx.Variant.IsH264() {
			if ab := TristateOf(s.Int(KeyAdaptiveB)); ab.IsSet() {
				priv.SetInt(optBAdapt, ab.Int64())
			}
		}
	}

	if n.bitrate {
		target := s.Int(KeyBitrateTarget)
		ctx.BitRate = target * 1000
		// The replay buffer reads the live target from the flat key.
		s.SetInt(KeyLegacyBitrate, target)
	}
	if n.bitrateMax {
		ctx.RCMaxRate = s.Int(KeyBitrateMaximum) * 1000
	}
	if n.bitrate || n.bitrateMax {
		ctx.RCBufferSize = s.Int(KeyBufferSize) * 1000
	}

	if n.quality && s.Bool(KeyGroupQuality) {
		qmin := int(s.Int(KeyQualityMinimum))
		ctx.QMin = qmin
		if qmin >= 0 {
			ctx.QMax = int(s.Int(KeyQualityMaximum))
		}
	}

	if cq := s.Float(KeyQualityTarget) / 100.0 * 51.0; cq > 0 {
		priv.SetFloat(optCQ, cq)
	}

	switch {
	case n.qp:
		// Constant-QP runs start at the steady-state quantizers.
		priv.SetInt(optInitQPI, s.Int(KeyQPI))
		priv.SetInt(optInitQPP, s.Int(KeyQPP))
		priv.SetInt(optInitQPB, s.Int(KeyQPB))
	case n.qpInit:
		priv.SetInt(optInitQPI, s.Int(KeyQPIInitial))
		priv.SetInt(optInitQPP, s.Int(KeyQPPInitial))
		priv.SetInt(optInitQPB, s.Int(KeyQPBInitial))
	}

	spatialOpt, temporalOpt := aqOptionNames(ctx.Variant.IsH264())
	saq := TristateOf(s.Int(KeyAQSpatial))
	if saq.IsSet() {
		priv.SetInt(spatialOpt, saq.Int64())
	}
	if taq := TristateOf(s.Int(KeyAQTemporal)); taq.IsSet() {
		priv.SetInt(temporalOpt, taq.Int64())
	}
	if saq == TristateEnabled {
		priv.SetInt(optAQStrength, s.Int(KeyAQStrength))
	}

	ctx.MaxBFrames = int(s.Int(KeyBFrames))

	if zl := TristateOf(s.Int(KeyZeroLatency)); zl.IsSet() {
		priv.SetInt(optZeroLatency, zl.Int64())
	}
	if nrp := TristateOf(s.Int(KeyNonReferencePFrames)); nrp.IsSet() {
		priv.SetInt(optNonRefP, nrp.Int64())
	}

	wp := TristateOf(s.Int(KeyWeightedPrediction))
	if ctx.MaxBFrames != 0 && wp == TristateEnabled {
		log.Warn("weighted prediction disabled because B-frames are in use",
			"codec", ctx.Variant.Name(), "b_frames", ctx.MaxBFrames)
		metrics.CountTranslationWarning()
		priv.SetInt(optWeightedPred, 0)
	} else if wp.IsSet() {
		priv.SetInt(optWeightedPred, wp.Int64())
	}

	if token, ok := BRefMode(s.Int(KeyBFrameReferenceMode)).Token(); ok {
		priv.Set(optBRefMode, token)
	}
}

// ApplyOverrides derives the decoder surface count and frame delay from
// the already-translated context. Must run after Apply so max_b_frames
// is current. An explicit user surfaces value is left alone.
func ApplyOverrides(ctx *encoder.Context) {
	lookahead, _ := ctx.Priv.Int(optRCLookahead)
	surfaces, _ := ctx.Priv.Int(optSurfaces)
	asyncDepth, _ := ctx.Priv.Int(optAsyncDepth)

	if surfaces == 0 {
		bframes := int64(ctx.MaxBFrames)
		surfaces = max(4, (bframes+1)*4)
		if lookahead > 0 {
			surfaces = max(1, max(surfaces, lookahead+bframes+5))
		}
		ctx.Priv.SetInt(optSurfaces, surfaces)
	}

	ctx.Delay = int(min(max(asyncDepth, 3), surfaces-1))
}
