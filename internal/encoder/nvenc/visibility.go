package nvenc

import (
	"github.com/smazurov/nvencd/internal/properties"
	"github.com/smazurov/nvencd/internal/settings"
)

// ApplyVisibility recomputes which controls are relevant for the current
// settings. Pure over the store; re-runnable after every edit.
func ApplyVisibility(form *properties.Form, s *settings.Store) {
	n := RateControlMode(s.Int(KeyRateControlMode)).fieldNeeds()

	form.SetVisible(KeyGroupBitrate, n.bitrate || n.bitrateMax)
	form.SetVisible(KeyBitrateTarget, n.bitrate)
	form.SetVisible(KeyBitrateMaximum, n.bitrateMax)
	form.SetVisible(KeyBufferSize, n.bitrate || n.bitrateMax)

	form.SetVisible(KeyGroupQuality, n.quality)
	form.SetVisible(KeyQualityMinimum, n.quality)
	form.SetVisible(KeyQualityMaximum, n.quality)
	form.SetVisible(KeyQualityTarget, n.quality)

	form.SetVisible(KeyGroupQP, n.qp || n.qpInit)
	form.SetVisible(KeyQPI, n.qp)
	form.SetVisible(KeyQPP, n.qp)
	form.SetVisible(KeyQPB, n.qp)
	form.SetVisible(KeyQPIInitial, n.qpInit)
	form.SetVisible(KeyQPPInitial, n.qpInit)
	form.SetVisible(KeyQPBInitial, n.qpInit)

	// The min/max sliders only accept edits while the quality range is on.
	qualityOn := s.Bool(KeyGroupQuality)
	form.SetEnabled(KeyQualityMinimum, qualityOn)
	form.SetEnabled(KeyQualityMaximum, qualityOn)

	// Strength only matters while spatial AQ is explicitly on.
	spatialAQ := TristateOf(s.Int(KeyAQSpatial)) == TristateEnabled
	form.SetVisible(KeyAQStrength, spatialAQ)
}

// ApplyRuntimeLockdown makes the form read-only for a running session.
// Only the bitrate fields stay editable: the replay buffer adjusts the
// live bitrate without restarting the encoder.
func ApplyRuntimeLockdown(form *properties.Form) {
	locked := []string{
		KeyPreset,
		KeyGroupRateControl, KeyRateControlMode, KeyTwoPass, KeyLookAhead,
		KeyAdaptiveI, KeyAdaptiveB,
		KeyGroupQuality, KeyQualityMinimum, KeyQualityMaximum, KeyQualityTarget,
		KeyGroupQP, KeyQPI, KeyQPIInitial, KeyQPP, KeyQPPInitial, KeyQPB, KeyQPBInitial,
		KeyGroupAQ, KeyAQSpatial, KeyAQStrength, KeyAQTemporal,
		KeyGroupOther, KeyBFrames, KeyBFrameReferenceMode, KeyZeroLatency,
		KeyWeightedPrediction, KeyNonReferencePFrames,
	}
	for _, name := range locked {
		form.SetEnabled(name, false)
	}

	form.SetEnabled(KeyGroupBitrate, true)
	form.SetEnabled(KeyBitrateTarget, true)
	form.SetEnabled(KeyBitrateMaximum, true)
	form.SetEnabled(KeyBufferSize, true)
}
