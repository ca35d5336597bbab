package nvenc

// Private-option names of the NVENC encoders. These are the strings the
// codec context's option dictionary is keyed by.
const (
	optPreset       = "preset"
	optRC           = "rc"
	optCBR          = "cbr"
	optTwoPass      = "2pass"
	optRCLookahead  = "rc-lookahead"
	optNoScenecut   = "no-scenecut"
	optBAdapt       = "b_adapt"
	optCQ           = "cq"
	optInitQPI      = "init_qpI"
	optInitQPP      = "init_qpP"
	optInitQPB      = "init_qpB"
	optSpatialAQ    = "spatial_aq"
	optSpatialAQH   = "spatial-aq"
	optTemporalAQ   = "temporal_aq"
	optTemporalAQH  = "temporal-aq"
	optAQStrength   = "aq-strength"
	optZeroLatency  = "zerolatency"
	optWeightedPred = "weighted_pred"
	optNonRefP      = "nonref_p"
	optBRefMode     = "b_ref_mode"
	optSurfaces     = "surfaces"
	optAsyncDepth   = "async_depth"
	optStrictGOP    = "strict_gop"
	optAUD          = "aud"
	optBluRayCompat = "bluray-compat"
	optA53CC        = "a53cc"
	optDPBSize      = "dpb_size"
)

// aqOptionNames returns the spatial/temporal AQ option names for a
// variant. h264_nvenc spells them with dashes, every other variant with
// underscores.
func aqOptionNames(h264 bool) (spatial, temporal string) {
	if h264 {
		return optSpatialAQH, optTemporalAQH
	}
	return optSpatialAQ, optTemporalAQ
}
