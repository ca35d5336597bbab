package nvenc

import (
	"github.com/smazurov/nvencd/internal/encoder"
	"github.com/smazurov/nvencd/internal/properties"
)

// NewForm builds the full property form for an NVENC variant. Control
// order matches the UI layout: preset first, then the rate-control,
// bitrate, quality, QP, AQ and other groups. The caller runs
// ApplyVisibility afterwards to hide the groups the current mode does
// not use.
func NewForm(variant encoder.Variant) *properties.Form {
	f := properties.NewForm()

	f.Add(properties.Property{
		Name:        KeyPreset,
		Label:       "Preset",
		Description: "Speed/quality tradeoff preset applied before individual options.",
		Kind:        properties.KindList,
		Items:       listItems(PresetItems()),
	})

	{ // Rate Control
		children := []string{
			KeyRateControlMode, KeyTwoPass, KeyLookAhead, KeyAdaptiveI,
		}
		if variant.IsH264() {
			children = append(children, KeyAdaptiveB)
		}
		f.Add(properties.Property{
			Name:     KeyGroupRateControl,
			Label:    "Rate Control",
			Kind:     properties.KindGroup,
			Children: children,
		})

		f.Add(properties.Property{
			Name:        KeyRateControlMode,
			Label:       "Mode",
			Description: "Strategy used to regulate the output bitrate.",
			Kind:        properties.KindList,
			Items:       listItems(RateControlModeItems()),
		})
		f.Add(properties.Property{
			Name:        KeyTwoPass,
			Label:       "Two Pass",
			Description: "Run a first analysis pass per frame for better rate decisions.",
			Kind:        properties.KindTristate,
			Items:       listItems(TristateItems()),
		})
		f.Add(properties.Property{
			Name:        KeyLookAhead,
			Label:       "Look-Ahead",
			Description: "Number of future frames analyzed before encoding. 0 disables.",
			Kind:        properties.KindInt,
			Min:         0, Max: 32, Step: 1,
			Slider: true,
			Suffix: " frames",
		})
		f.Add(properties.Property{
			Name:        KeyAdaptiveI,
			Label:       "Adaptive I-Frames",
			Description: "Insert I-frames at scene cuts found by look-ahead.",
			Kind:        properties.KindTristate,
			Items:       listItems(TristateItems()),
		})
		if variant.IsH264() {
			f.Add(properties.Property{
				Name:        KeyAdaptiveB,
				Label:       "Adaptive B-Frames",
				Description: "Let look-ahead vary the number of B-frames between references.",
				Kind:        properties.KindTristate,
				Items:       listItems(TristateItems()),
			})
		}
	}

	{ // Bitrate
		f.Add(properties.Property{
			Name:     KeyGroupBitrate,
			Label:    "Bitrate",
			Kind:     properties.KindGroup,
			Children: []string{KeyBitrateTarget, KeyBitrateMaximum, KeyBufferSize},
		})
		f.Add(properties.Property{
			Name:        KeyBitrateTarget,
			Label:       "Target",
			Description: "Average bitrate the encoder aims for.",
			Kind:        properties.KindInt,
			Min:         1, Max: 2147483647, Step: 1,
			Suffix: " kbit/s",
		})
		f.Add(properties.Property{
			Name:        KeyBitrateMaximum,
			Label:       "Maximum",
			Description: "Upper bitrate bound for variable-bitrate modes.",
			Kind:        properties.KindInt,
			Min:         0, Max: 2147483647, Step: 1,
			Suffix: " kbit/s",
		})
		f.Add(properties.Property{
			Name:        KeyBufferSize,
			Label:       "Buffer Size",
			Description: "Rate-control buffer; larger values smooth bitrate swings.",
			Kind:        properties.KindInt,
			Min:         0, Max: 2147483647, Step: 1,
			Suffix: " kbit",
		})
	}

	{ // Quality
		f.Add(properties.Property{
			Name:        KeyGroupQuality,
			Label:       "Quality",
			Description: "Constrain the quantizer range in variable-bitrate modes.",
			Kind:        properties.KindGroup,
			Checkable:   true,
			Children:    []string{KeyQualityMinimum, KeyQualityMaximum},
		})
		f.Add(properties.Property{
			Name:        KeyQualityMinimum,
			Label:       "Minimum",
			Description: "Lowest allowed quantizer (highest quality bound).",
			Kind:        properties.KindInt,
			Min:         0, Max: 51, Step: 1,
			Slider: true,
		})
		f.Add(properties.Property{
			Name:        KeyQualityMaximum,
			Label:       "Maximum",
			Description: "Highest allowed quantizer. -1 leaves it to the encoder.",
			Kind:        properties.KindInt,
			Min:         -1, Max: 51, Step: 1,
			Slider: true,
		})
	}

	f.Add(properties.Property{
		Name:        KeyQualityTarget,
		Label:       "Target Quality",
		Description: "Constant-quality target in percent; 0 disables.",
		Kind:        properties.KindFloat,
		FloatMin:    0, FloatMax: 100, FloatStep: 0.01,
		Slider: true,
	})

	{ // QP
		f.Add(properties.Property{
			Name:      KeyGroupQP,
			Label:     "Quantization Parameters",
			Kind:      properties.KindGroup,
			Checkable: true,
			Children: []string{
				KeyQPI, KeyQPIInitial, KeyQPP, KeyQPPInitial, KeyQPB, KeyQPBInitial,
			},
		})
		qpSlider := func(name, label, desc string, min int64) {
			f.Add(properties.Property{
				Name:        name,
				Label:       label,
				Description: desc,
				Kind:        properties.KindInt,
				Min:         min, Max: 51, Step: 1,
				Slider: true,
			})
		}
		qpSlider(KeyQPI, "I-Frame QP", "Quantizer for I-frames in constant-QP mode.", 0)
		qpSlider(KeyQPIInitial, "Initial I-Frame QP", "Starting I-frame quantizer; -1 leaves it to the encoder.", -1)
		qpSlider(KeyQPP, "P-Frame QP", "Quantizer for P-frames in constant-QP mode.", 0)
		qpSlider(KeyQPPInitial, "Initial P-Frame QP", "Starting P-frame quantizer; -1 leaves it to the encoder.", -1)
		qpSlider(KeyQPB, "B-Frame QP", "Quantizer for B-frames in constant-QP mode.", 0)
		qpSlider(KeyQPBInitial, "Initial B-Frame QP", "Starting B-frame quantizer; -1 leaves it to the encoder.", -1)
	}

	{ // Adaptive Quantization
		f.Add(properties.Property{
			Name:     KeyGroupAQ,
			Label:    "Adaptive Quantization",
			Kind:     properties.KindGroup,
			Children: []string{KeyAQSpatial, KeyAQStrength, KeyAQTemporal},
		})
		f.Add(properties.Property{
			Name:        KeyAQSpatial,
			Label:       "Spatial AQ",
			Description: "Shift bits toward detailed regions within each frame.",
			Kind:        properties.KindTristate,
			Items:       listItems(TristateItems()),
		})
		f.Add(properties.Property{
			Name:        KeyAQStrength,
			Label:       "Strength",
			Description: "Aggressiveness of spatial AQ.",
			Kind:        properties.KindInt,
			Min:         1, Max: 15, Step: 1,
			Slider: true,
		})
		f.Add(properties.Property{
			Name:        KeyAQTemporal,
			Label:       "Temporal AQ",
			Description: "Shift bits across frames toward harder content.",
			Kind:        properties.KindTristate,
			Items:       listItems(TristateItems()),
		})
	}

	{ // Other
		f.Add(properties.Property{
			Name:  KeyGroupOther,
			Label: "Other",
			Kind:  properties.KindGroup,
			Children: []string{
				KeyBFrames, KeyBFrameReferenceMode, KeyZeroLatency,
				KeyWeightedPrediction, KeyNonReferencePFrames,
			},
		})
		f.Add(properties.Property{
			Name:        KeyBFrames,
			Label:       "B-Frames",
			Description: "Maximum consecutive B-frames between references.",
			Kind:        properties.KindInt,
			Min:         0, Max: 4, Step: 1,
			Slider: true,
			Suffix: " frames",
		})
		f.Add(properties.Property{
			Name:        KeyBFrameReferenceMode,
			Label:       "B-Frame Reference Mode",
			Description: "Whether B-frames may themselves serve as references.",
			Kind:        properties.KindList,
			Items:       listItems(BRefModeItems()),
		})
		f.Add(properties.Property{
			Name:        KeyZeroLatency,
			Label:       "Zero Latency",
			Description: "Disable internal reordering delay.",
			Kind:        properties.KindTristate,
			Items:       listItems(TristateItems()),
		})
		f.Add(properties.Property{
			Name:        KeyWeightedPrediction,
			Label:       "Weighted Prediction",
			Description: "Improve fades at the cost of B-frame support.",
			Kind:        properties.KindTristate,
			Items:       listItems(TristateItems()),
		})
		f.Add(properties.Property{
			Name:        KeyNonReferencePFrames,
			Label:       "Non-reference P-Frames",
			Description: "Allow P-frames that no other frame references.",
			Kind:        properties.KindTristate,
			Items:       listItems(TristateItems()),
		})
	}

	return f
}

func listItems(entries []ListEntry) []properties.ListItem {
	out := make([]properties.ListItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, properties.ListItem{Label: e.Label, Value: e.Value})
	}
	return out
}
