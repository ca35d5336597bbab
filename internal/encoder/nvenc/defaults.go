package nvenc

import "github.com/smazurov/nvencd/internal/settings"

// ApplyDefaults writes the baseline value for every recognized key into
// the store's defaults layer. Called once per fresh settings object;
// calling it again is harmless.
func ApplyDefaults(s *settings.Store) {
	s.SetDefaultInt(KeyPreset, int64(PresetDefault))

	s.SetDefaultInt(KeyRateControlMode, int64(RCModeCBRHQ))
	s.SetDefaultInt(KeyTwoPass, int64(TristateUnset))
	s.SetDefaultInt(KeyLookAhead, 0)
	s.SetDefaultInt(KeyAdaptiveI, int64(TristateUnset))
	s.SetDefaultInt(KeyAdaptiveB, int64(TristateUnset))

	s.SetDefaultInt(KeyBitrateTarget, 6000)
	s.SetDefaultInt(KeyBitrateMaximum, 6000)
	s.SetDefaultInt(KeyBufferSize, 12000)

	s.SetDefaultBool(KeyGroupQuality, false)
	s.SetDefaultInt(KeyQualityMinimum, 51)
	s.SetDefaultInt(KeyQualityMaximum, -1)
	s.SetDefaultFloat(KeyQualityTarget, 0)

	s.SetDefaultInt(KeyQPI, 21)
	s.SetDefaultInt(KeyQPIInitial, -1)
	s.SetDefaultInt(KeyQPP, 21)
	s.SetDefaultInt(KeyQPPInitial, -1)
	s.SetDefaultInt(KeyQPB, 21)
	s.SetDefaultInt(KeyQPBInitial, -1)

	s.SetDefaultInt(KeyAQSpatial, int64(TristateUnset))
	s.SetDefaultInt(KeyAQStrength, 8)
	s.SetDefaultInt(KeyAQTemporal, int64(TristateUnset))

	s.SetDefaultInt(KeyBFrames, 2)
	s.SetDefaultInt(KeyBFrameReferenceMode, int64(BRefModeDisabled))
	s.SetDefaultInt(KeyZeroLatency, int64(TristateUnset))
	s.SetDefaultInt(KeyWeightedPrediction, int64(TristateUnset))
	s.SetDefaultInt(KeyNonReferencePFrames, int64(TristateUnset))

	// Replay buffer reads its target bitrate from the flat key.
	s.SetDefaultInt(KeyLegacyBitrate, 0)
}
