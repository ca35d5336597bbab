package nvenc

import (
	"testing"

	"github.com/smazurov/nvencd/internal/encoder"
	"github.com/smazurov/nvencd/internal/settings"
)

func newStore(t *testing.T) *settings.Store {
	t.Helper()
	s := settings.New()
	ApplyDefaults(s)
	return s
}

func privInt(t *testing.T, ctx *encoder.Context, key string) int64 {
	t.Helper()
	v, ok := ctx.Priv.Int(key)
	if !ok {
		t.Fatalf("option %q not written", key)
	}
	return v
}

func TestApplyPresetToken(t *testing.T) {
	s := newStore(t)
	s.SetInt(KeyPreset, int64(PresetHighQuality))
	ctx := encoder.NewContext(encoder.VariantH264)
	Apply(s, ctx)

	if got, _ := ctx.Priv.Get(optPreset); got != "hq" {
		t.Errorf("preset = %q, want %q", got, "hq")
	}
}

func TestApplyUnmappedPresetClearsOption(t *testing.T) {
	s := newStore(t)
	ctx := encoder.NewContext(encoder.VariantH264)
	Apply(s, ctx)
	if !ctx.Priv.Has(optPreset) {
		t.Fatal("mapped preset not written")
	}

	s.SetInt(KeyPreset, 99)
	Apply(s, ctx)
	if ctx.Priv.Has(optPreset) {
		t.Error("unmapped preset left a stale preset option")
	}
}

func TestApplyRateControlCBRFlag(t *testing.T) {
	cases := []struct {
		mode RateControlMode
		cbr  int64
	}{
		{RCModeCQP, 0},
		{RCModeVBR, 0},
		{RCModeVBRHQ, 0},
		{RCModeCBR, 1},
		{RCModeCBRHQ, 1},
		{RCModeCBRLDHQ, 1},
	}
	for _, tc := range cases {
		s := newStore(t)
		s.SetInt(KeyRateControlMode, int64(tc.mode))
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)

		token, _ := tc.mode.Token()
		if got, _ := ctx.Priv.Get(optRC); got != token {
			t.Errorf("mode %d: rc = %q, want %q", tc.mode, got, token)
		}
		if got := privInt(t, ctx, optCBR); got != tc.cbr {
			t.Errorf("mode %d: cbr = %d, want %d", tc.mode, got, tc.cbr)
		}
	}
}

func TestApplyBitrateFields(t *testing.T) {
	s := newStore(t)
	s.SetInt(KeyRateControlMode, int64(RCModeVBR))
	s.SetInt(KeyBitrateTarget, 2500)
	s.SetInt(KeyBitrateMaximum, 4000)
	s.SetInt(KeyBufferSize, 5000)
	ctx := encoder.NewContext(encoder.VariantH264)
	Apply(s, ctx)

	if ctx.BitRate != 2500000 {
		t.Errorf("bit_rate = %d, want 2500000", ctx.BitRate)
	}
	if ctx.RCMaxRate != 4000000 {
		t.Errorf("rc_max_rate = %d, want 4000000", ctx.RCMaxRate)
	}
	if ctx.RCBufferSize != 5000000 {
		t.Errorf("rc_buffer_size = %d, want 5000000", ctx.RCBufferSize)
	}
	if got := s.Int(KeyLegacyBitrate); got != 2500 {
		t.Errorf("legacy bitrate key = %d, want 2500", got)
	}
}

func TestApplyCQPSkipsBitrate(t *testing.T) {
	s := newStore(t)
	s.SetInt(KeyRateControlMode, int64(RCModeCQP))
	ctx := encoder.NewContext(encoder.VariantH264)
	Apply(s, ctx)

	if ctx.BitRate != 0 || ctx.RCMaxRate != 0 || ctx.RCBufferSize != 0 {
		t.Errorf("CQP wrote bitrate fields: %d/%d/%d", ctx.BitRate, ctx.RCMaxRate, ctx.RCBufferSize)
	}
	if got := s.Int(KeyLegacyBitrate); got != 0 {
		t.Errorf("CQP mirrored legacy bitrate: %d", got)
	}
}

func TestApplyQualityRange(t *testing.T) {
	t.Run("toggle off leaves qmin unset", func(t *testing.T) {
		s := newStore(t)
		s.SetInt(KeyRateControlMode, int64(RCModeVBR))
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)
		if ctx.QMin != -1 || ctx.QMax != -1 {
			t.Errorf("qmin/qmax written with toggle off: %d/%d", ctx.QMin, ctx.QMax)
		}
	})

	t.Run("toggle on writes range", func(t *testing.T) {
		s := newStore(t)
		s.SetInt(KeyRateControlMode, int64(RCModeVBR))
		s.SetBool(KeyGroupQuality, true)
		s.SetInt(KeyQualityMinimum, 18)
		s.SetInt(KeyQualityMaximum, 40)
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)
		if ctx.QMin != 18 || ctx.QMax != 40 {
			t.Errorf("qmin/qmax = %d/%d, want 18/40", ctx.QMin, ctx.QMax)
		}
	})

	t.Run("negative qmin suppresses qmax", func(t *testing.T) {
		s := newStore(t)
		s.SetInt(KeyRateControlMode, int64(RCModeVBR))
		s.SetBool(KeyGroupQuality, true)
		s.SetInt(KeyQualityMinimum, -1)
		s.SetInt(KeyQualityMaximum, 40)
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)
		if ctx.QMin != -1 {
			t.Errorf("qmin = %d, want -1", ctx.QMin)
		}
		if ctx.QMax != -1 {
			t.Errorf("qmax written despite negative qmin: %d", ctx.QMax)
		}
	})
}

func TestApplyTargetQuality(t *testing.T) {
	t.Run("zero percent writes nothing", func(t *testing.T) {
		s := newStore(t)
		s.SetFloat(KeyQualityTarget, 0)
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)
		if ctx.Priv.Has(optCQ) {
			t.Error("cq written for 0%")
		}
	})

	t.Run("full percent maps to 51", func(t *testing.T) {
		s := newStore(t)
		s.SetFloat(KeyQualityTarget, 100)
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)
		cq, ok := ctx.Priv.Float(optCQ)
		if !ok || cq != 51 {
			t.Errorf("cq = %v (ok=%v), want 51", cq, ok)
		}
	})
}

func TestApplyQPSteadyState(t *testing.T) {
	s := newStore(t)
	s.SetInt(KeyRateControlMode, int64(RCModeCQP))
	s.SetInt(KeyQPI, 18)
	s.SetInt(KeyQPP, 20)
	s.SetInt(KeyQPB, 24)
	// Initial fields must be ignored in constant-QP mode.
	s.SetInt(KeyQPIInitial, 1)
	ctx := encoder.NewContext(encoder.VariantH264)
	Apply(s, ctx)

	if got := privInt(t, ctx, optInitQPI); got != 18 {
		t.Errorf("init_qpI = %d, want 18", got)
	}
	if got := privInt(t, ctx, optInitQPP); got != 20 {
		t.Errorf("init_qpP = %d, want 20", got)
	}
	if got := privInt(t, ctx, optInitQPB); got != 24 {
		t.Errorf("init_qpB = %d, want 24", got)
	}
}

func TestApplyInitialQPPassThrough(t *testing.T) {
	s := newStore(t)
	s.SetInt(KeyRateControlMode, int64(RCModeVBR))
	s.SetInt(KeyQPIInitial, -1)
	s.SetInt(KeyQPPInitial, 30)
	s.SetInt(KeyQPBInitial, 32)
	ctx := encoder.NewContext(encoder.VariantH264)
	Apply(s, ctx)

	if got := privInt(t, ctx, optInitQPI); got != -1 {
		t.Errorf("init_qpI = %d, want -1 pass-through", got)
	}
	if got := privInt(t, ctx, optInitQPP); got != 30 {
		t.Errorf("init_qpP = %d, want 30", got)
	}
	if got := privInt(t, ctx, optInitQPB); got != 32 {
		t.Errorf("init_qpB = %d, want 32", got)
	}
}

func TestApplyLookAhead(t *testing.T) {
	t.Run("zero disables and skips adaptive flags", func(t *testing.T) {
		s := newStore(t)
		s.SetInt(KeyAdaptiveI, int64(TristateEnabled))
		s.SetInt(KeyAdaptiveB, int64(TristateEnabled))
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)

		if got := privInt(t, ctx, optRCLookahead); got != 0 {
			t.Errorf("rc-lookahead = %d, want 0", got)
		}
		if ctx.Priv.Has(optNoScenecut) || ctx.Priv.Has(optBAdapt) {
			t.Error("adaptive flags written without look-ahead")
		}
	})

	t.Run("h264 writes both adaptive flags", func(t *testing.T) {
		s := newStore(t)
		s.SetInt(KeyLookAhead, 16)
		s.SetInt(KeyAdaptiveI, int64(TristateEnabled))
		s.SetInt(KeyAdaptiveB, int64(TristateEnabled))
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)

		if got := privInt(t, ctx, optNoScenecut); got != 1 {
			t.Errorf("no-scenecut = %d, want 1", got)
		}
		if got := privInt(t, ctx, optBAdapt); got != 1 {
			t.Errorf("b_adapt = %d, want 1", got)
		}
	})

	t.Run("hevc never writes b_adapt", func(t *testing.T) {
		s := newStore(t)
		s.SetInt(KeyLookAhead, 16)
		s.SetInt(KeyAdaptiveB, int64(TristateEnabled))
		ctx := encoder.NewContext(encoder.VariantHEVC)
		Apply(s, ctx)

		if ctx.Priv.Has(optBAdapt) {
			t.Error("b_adapt written for hevc_nvenc")
		}
	})
}

func TestApplyAQOptionNames(t *testing.T) {
	cases := []struct {
		variant  encoder.Variant
		spatial  string
		temporal string
	}{
		{encoder.VariantH264, "spatial-aq", "temporal-aq"},
		{encoder.VariantHEVC, "spatial_aq", "temporal_aq"},
	}
	for _, tc := range cases {
		s := newStore(t)
		s.SetInt(KeyAQSpatial, int64(TristateEnabled))
		s.SetInt(KeyAQTemporal, int64(TristateDisabled))
		s.SetInt(KeyAQStrength, 12)
		ctx := encoder.NewContext(tc.variant)
		Apply(s, ctx)

		if got := privInt(t, ctx, tc.spatial); got != 1 {
			t.Errorf("%s: %s = %d, want 1", tc.variant, tc.spatial, got)
		}
		if got := privInt(t, ctx, tc.temporal); got != 0 {
			t.Errorf("%s: %s = %d, want 0", tc.variant, tc.temporal, got)
		}
		if got := privInt(t, ctx, optAQStrength); got != 12 {
			t.Errorf("%s: aq-strength = %d, want 12", tc.variant, got)
		}
	}
}

func TestApplyAQStrengthOnlyWhenSpatialEnabled(t *testing.T) {
	for _, v := range []int64{int64(TristateUnset), int64(TristateDisabled)} {
		s := newStore(t)
		s.SetInt(KeyAQSpatial, v)
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)
		if ctx.Priv.Has(optAQStrength) {
			t.Errorf("aq-strength written with spatial AQ = %d", v)
		}
	}
}

func TestApplyWeightedPredictionPrecedence(t *testing.T) {
	t.Run("b-frames win over weighted prediction", func(t *testing.T) {
		s := newStore(t)
		s.SetInt(KeyBFrames, 2)
		s.SetInt(KeyWeightedPrediction, int64(TristateEnabled))
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)

		if got := privInt(t, ctx, optWeightedPred); got != 0 {
			t.Errorf("weighted_pred = %d, want forced 0", got)
		}
		if ctx.MaxBFrames != 2 {
			t.Errorf("max_b_frames changed to %d", ctx.MaxBFrames)
		}
	})

	t.Run("no b-frames passes the value through", func(t *testing.T) {
		s := newStore(t)
		s.SetInt(KeyBFrames, 0)
		s.SetInt(KeyWeightedPrediction, int64(TristateEnabled))
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)

		if got := privInt(t, ctx, optWeightedPred); got != 1 {
			t.Errorf("weighted_pred = %d, want 1", got)
		}
	})

	t.Run("unset writes nothing", func(t *testing.T) {
		s := newStore(t)
		ctx := encoder.NewContext(encoder.VariantH264)
		Apply(s, ctx)
		if ctx.Priv.Has(optWeightedPred) {
			t.Error("weighted_pred written while unset")
		}
	})
}

func TestApplyTristateOptions(t *testing.T) {
	s := newStore(t)
	s.SetInt(KeyTwoPass, int64(TristateEnabled))
	s.SetInt(KeyZeroLatency, int64(TristateEnabled))
	s.SetInt(KeyNonReferencePFrames, int64(TristateDisabled))
	ctx := encoder.NewContext(encoder.VariantH264)
	Apply(s, ctx)

	if got := privInt(t, ctx, optTwoPass); got != 1 {
		t.Errorf("2pass = %d, want 1", got)
	}
	if got := privInt(t, ctx, optZeroLatency); got != 1 {
		t.Errorf("zerolatency = %d, want 1", got)
	}
	if got := privInt(t, ctx, optNonRefP); got != 0 {
		t.Errorf("nonref_p = %d, want 0", got)
	}
}

func TestApplyBRefMode(t *testing.T) {
	s := newStore(t)
	s.SetInt(KeyBFrameReferenceMode, int64(BRefModeMiddle))
	ctx := encoder.NewContext(encoder.VariantH264)
	Apply(s, ctx)

	if got, _ := ctx.Priv.Get(optBRefMode); got != "middle" {
		t.Errorf("b_ref_mode = %q, want middle", got)
	}

	s.SetInt(KeyBFrameReferenceMode, 99)
	fresh := encoder.NewContext(encoder.VariantH264)
	Apply(s, fresh)
	if fresh.Priv.Has(optBRefMode) {
		t.Error("unmapped b_ref_mode ordinal wrote an option")
	}
}

func TestApplyIsRepeatable(t *testing.T) {
	s := newStore(t)
	s.SetInt(KeyRateControlMode, int64(RCModeVBR))
	s.SetBool(KeyGroupQuality, true)
	ctx := encoder.NewContext(encoder.VariantH264)

	Apply(s, ctx)
	firstOpts := ctx.Priv.Items()
	first := *ctx

	Apply(s, ctx)
	if *ctx != first {
		// Compare the numeric fields; Priv is a pointer and compared below.
		t.Errorf("context numeric fields changed on re-apply")
	}
	secondOpts := ctx.Priv.Items()
	if len(firstOpts) != len(secondOpts) {
		t.Fatalf("option count changed on re-apply: %d != %d", len(firstOpts), len(secondOpts))
	}
	for i := range firstOpts {
		if firstOpts[i] != secondOpts[i] {
			t.Errorf("option %d changed on re-apply: %v != %v", i, firstOpts[i], secondOpts[i])
		}
	}
}

func TestApplyOverridesSurfacesAndDelay(t *testing.T) {
	cases := []struct {
		name       string
		bframes    int
		lookahead  int64
		asyncDepth int64
		surfaces   int64 // 0 = not overridden
		wantSurf   int64
		wantDelay  int
	}{
		{"baseline", 0, 0, 10, 0, 4, 3},
		{"bframes", 2, 0, 0, 0, 12, 3},
		{"lookahead dominates", 2, 20, 0, 0, 27, 3},
		{"user override kept", 2, 0, 8, 16, 16, 8},
		{"async clamped to surfaces", 0, 0, 10, 0, 4, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := encoder.NewContext(encoder.VariantH264)
			ctx.MaxBFrames = tc.bframes
			ctx.Priv.SetInt(optRCLookahead, tc.lookahead)
			if tc.asyncDepth != 0 {
				ctx.Priv.SetInt(optAsyncDepth, tc.asyncDepth)
			}
			if tc.surfaces != 0 {
				ctx.Priv.SetInt(optSurfaces, tc.surfaces)
			}

			ApplyOverrides(ctx)

			surf, ok := ctx.Priv.Int(optSurfaces)
			if !ok {
				t.Fatal("surfaces not written")
			}
			if surf != tc.wantSurf {
				t.Errorf("surfaces = %d, want %d", surf, tc.wantSurf)
			}
			if ctx.Delay != tc.wantDelay {
				t.Errorf("delay = %d, want %d", ctx.Delay, tc.wantDelay)
			}
		})
	}
}
