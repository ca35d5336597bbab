package nvenc

import (
	"fmt"

	"github.com/smazurov/nvencd/internal/encoder"
)

// Report renders the effective encoder configuration as human-readable
// lines. Values are read back from the context, not the input settings,
// so the report shows what the encoder actually received. Purely
// observational; the context is never mutated.
func Report(ctx *encoder.Context) []string {
	r := &reporter{ctx: ctx}
	h264 := ctx.Variant.IsH264()

	r.addf("[%s]   Nvidia NVENC:", ctx.Variant.Name())
	r.token("    Preset", optPreset, func(tok string) (string, bool) {
		if p, ok := PresetFromToken(tok); ok {
			return presetTable[p].label, true
		}
		return "", false
	})
	r.token("    Rate Control", optRC, func(tok string) (string, bool) {
		if m, ok := RateControlModeFromToken(tok); ok {
			return rcModeTable[m].label, true
		}
		return "", false
	})
	r.boolean("      Two Pass", optTwoPass)
	r.integer("      Look-Ahead", optRCLookahead, "Frames")
	r.boolean("      Adaptive I-Frames", optNoScenecut)
	if h264 {
		r.boolean("      Adaptive B-Frames", optBAdapt)
	}

	r.addf("[%s]       Bitrate:", ctx.Variant.Name())
	r.field("        Target", ctx.BitRate, ctx.BitRate > 0, "bits/sec")
	r.field("        Maximum", ctx.RCMaxRate, ctx.RCMaxRate > 0, "bits/sec")
	r.field("        Buffer", ctx.RCBufferSize, ctx.RCBufferSize > 0, "bits")
	r.addf("[%s]       Quality:", ctx.Variant.Name())
	r.field("        Minimum", int64(ctx.QMin), ctx.QMin >= 0, "")
	r.integer("        Target", optCQ, "")
	r.field("        Maximum", int64(ctx.QMax), ctx.QMax >= 0, "")
	r.addf("[%s]       Quantization Parameters:", ctx.Variant.Name())
	r.integer("        I-Frame", optInitQPI, "")
	r.integer("        P-Frame", optInitQPP, "")
	r.integer("        B-Frame", optInitQPB, "")

	r.field("    B-Frames", int64(ctx.MaxBFrames), true, "Frames")
	r.token("      Reference Mode", optBRefMode, func(tok string) (string, bool) {
		if m, ok := BRefModeFromToken(tok); ok {
			return bRefModeTable[m].label, true
		}
		return "", false
	})

	r.addf("[%s]     Adaptive Quantization:", ctx.Variant.Name())
	spatialOpt, temporalOpt := aqOptionNames(h264)
	r.boolean("      Spatial AQ", spatialOpt)
	r.integer("        Strength", optAQStrength, "")
	r.boolean("      Temporal AQ", temporalOpt)

	r.addf("[%s]     Other:", ctx.Variant.Name())
	r.boolean("      Zero Latency", optZeroLatency)
	r.boolean("      Weighted Prediction", optWeightedPred)
	r.boolean("      Non-reference P-Frames", optNonRefP)
	r.boolean("      Strict GOP", optStrictGOP)
	r.boolean("      Access Unit Delimiters", optAUD)
	r.boolean("      Bluray Compatibility", optBluRayCompat)
	if h264 {
		r.boolean("      A53 Closed Captions", optA53CC)
	}
	r.integer("      DPB Size", optDPBSize, "")

	return r.lines
}

type reporter struct {
	ctx   *encoder.Context
	lines []string
}

func (r *reporter) addf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// token renders a string option through the reverse enum map, marking
// values the map does not know as "<Unknown>".
func (r *reporter) token(label, key string, resolve func(string) (string, bool)) {
	value := "<Default>"
	if raw, ok := r.ctx.Priv.Get(key); ok {
		if name, known := resolve(raw); known {
			value = name
		} else {
			value = "<Unknown>"
		}
	}
	r.addf("[%s] %s: %s", r.ctx.Variant.Name(), label, value)
}

func (r *reporter) boolean(label, key string) {
	value := "<Default>"
	if v, ok := r.ctx.Priv.Int(key); ok {
		if v != 0 {
			value = "Enabled"
		} else {
			value = "Disabled"
		}
	}
	r.addf("[%s] %s: %s", r.ctx.Variant.Name(), label, value)
}

func (r *reporter) integer(label, key, unit string) {
	if v, ok := r.ctx.Priv.Int(key); ok {
		r.field(label, v, true, unit)
		return
	}
	r.field(label, 0, false, unit)
}

func (r *reporter) field(label string, v int64, present bool, unit string) {
	value := "<Default>"
	if present {
		value = fmt.Sprintf("%d", v)
		if unit != "" {
			value += " " + unit
		}
	}
	r.addf("[%s] %s: %s", r.ctx.Variant.Name(), label, value)
}
