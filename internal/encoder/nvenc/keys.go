package nvenc

// Settings keys. The dotted hierarchy is stable: persisted settings files
// and API clients depend on these exact strings.
const (
	KeyPreset = "NVENC.Preset"

	KeyGroupRateControl = "NVENC.RateControl"
	KeyRateControlMode  = "NVENC.RateControl.Mode"
	KeyTwoPass          = "NVENC.RateControl.TwoPass"
	KeyLookAhead        = "NVENC.RateControl.LookAhead"
	KeyAdaptiveI        = "NVENC.RateControl.AdaptiveI"
	KeyAdaptiveB        = "NVENC.RateControl.AdaptiveB"

	KeyGroupBitrate   = "NVENC.RateControl.Bitrate"
	KeyBitrateTarget  = "NVENC.RateControl.Bitrate.Target"
	KeyBitrateMaximum = "NVENC.RateControl.Bitrate.Maximum"

	// Shared across encoder families, hence no NVENC prefix.
	KeyBufferSize = "RateControl.BufferSize"

	KeyGroupQuality   = "NVENC.RateControl.Quality"
	KeyQualityMinimum = "NVENC.RateControl.Quality.Minimum"
	KeyQualityMaximum = "NVENC.RateControl.Quality.Maximum"
	KeyQualityTarget  = "NVENC.RateControl.Quality.Target"

	KeyGroupQP    = "NVENC.RateControl.QP"
	KeyQPI        = "NVENC.RateControl.QP.I"
	KeyQPIInitial = "NVENC.RateControl.QP.I.Initial"
	KeyQPP        = "NVENC.RateControl.QP.P"
	KeyQPPInitial = "NVENC.RateControl.QP.P.Initial"
	KeyQPB        = "NVENC.RateControl.QP.B"
	KeyQPBInitial = "NVENC.RateControl.QP.B.Initial"

	KeyGroupAQ    = "NVENC.AQ"
	KeyAQSpatial  = "NVENC.AQ.Spatial"
	KeyAQTemporal = "NVENC.AQ.Temporal"
	KeyAQStrength = "NVENC.AQ.Strength"

	KeyGroupOther          = "NVENC.Other"
	KeyBFrames             = "NVENC.Other.BFrames"
	KeyBFrameReferenceMode = "NVENC.Other.BFrameReferenceMode"
	KeyZeroLatency         = "NVENC.Other.ZeroLatency"
	KeyWeightedPrediction  = "NVENC.Other.WeightedPrediction"
	KeyNonReferencePFrames = "NVENC.Other.NonReferencePFrames"

	// Flat legacy key mirrored on every bitrate-mode apply; the replay
	// buffer reads its target bitrate from here.
	KeyLegacyBitrate = "bitrate"
)
