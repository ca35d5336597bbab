// Package nvenc implements settings handling for the NVIDIA NVENC encoder
// family: defaults, the property form and its visibility policy, the
// translation of settings onto the codec context, and the readback report
// of the effective configuration.
package nvenc

// Preset is the encoder speed/quality preset. Ordinals are persisted in
// settings files; never reorder or reuse them.
type Preset int64

const (
	PresetDefault Preset = iota
	PresetSlow
	PresetMedium
	PresetFast
	PresetHighPerformance
	PresetHighQuality
	PresetBluRayDisc
	PresetLowLatency
	PresetLowLatencyHighPerformance
	PresetLowLatencyHighQuality
	PresetLossless
	PresetLosslessHighPerformance
)

type presetEntry struct {
	value Preset
	label string
	token string
}

// presetTable fixes the UI order and the mapping to the encoder's preset
// tokens. Built once, never mutated.
var presetTable = []presetEntry{
	{PresetDefault, "Default", "default"},
	{PresetSlow, "Slow", "slow"},
	{PresetMedium, "Medium", "medium"},
	{PresetFast, "Fast", "fast"},
	{PresetHighPerformance, "High Performance", "hp"},
	{PresetHighQuality, "High Quality", "hq"},
	{PresetBluRayDisc, "Blu-Ray Disc", "bd"},
	{PresetLowLatency, "Low Latency", "ll"},
	{PresetLowLatencyHighPerformance, "Low Latency High Performance", "llhp"},
	{PresetLowLatencyHighQuality, "Low Latency High Quality", "llhq"},
	{PresetLossless, "Lossless", "lossless"},
	{PresetLosslessHighPerformance, "Lossless High Performance", "losslesshp"},
}

var presetTokens = make(map[Preset]string, len(presetTable))
var presetFromToken = make(map[string]Preset, len(presetTable))

// RateControlMode selects the bitrate regulation strategy. Ordinals are
// persisted; never reorder or reuse them.
type RateControlMode int64

const (
	RCModeCQP RateControlMode = iota
	RCModeVBR
	RCModeVBRHQ
	RCModeCBR
	RCModeCBRHQ
	RCModeCBRLDHQ
)

type rcModeEntry struct {
	value RateControlMode
	label string
	token string
}

var rcModeTable = []rcModeEntry{
	{RCModeCQP, "Constant QP (CQP)", "constqp"},
	{RCModeVBR, "Variable Bitrate (VBR)", "vbr"},
	{RCModeVBRHQ, "Variable Bitrate, High Quality (VBR HQ)", "vbr_hq"},
	{RCModeCBR, "Constant Bitrate (CBR)", "cbr"},
	{RCModeCBRHQ, "Constant Bitrate, High Quality (CBR HQ)", "cbr_hq"},
	{RCModeCBRLDHQ, "Constant Bitrate, Low Delay, High Quality (CBR LD HQ)", "cbr_ld_hq"},
}

var rcModeTokens = make(map[RateControlMode]string, len(rcModeTable))
var rcModeFromToken = make(map[string]RateControlMode, len(rcModeTable))

// BRefMode controls whether B-frames may be used as references.
type BRefMode int64

const (
	BRefModeDisabled BRefMode = iota
	BRefModeEach
	BRefModeMiddle
)

type bRefModeEntry struct {
	value BRefMode
	label string
	token string
}

var bRefModeTable = []bRefModeEntry{
	{BRefModeDisabled, "Disabled", "disabled"},
	{BRefModeEach, "Each B-Frame", "each"},
	{BRefModeMiddle, "Middle B-Frame", "middle"},
}

var bRefModeTokens = make(map[BRefMode]string, len(bRefModeTable))
var bRefModeFromToken = make(map[string]BRefMode, len(bRefModeTable))

func init() {
	for _, e := range presetTable {
		presetTokens[e.value] = e.token
		presetFromToken[e.token] = e.value
	}
	for _, e := range rcModeTable {
		rcModeTokens[e.value] = e.token
		rcModeFromToken[e.token] = e.value
	}
	for _, e := range bRefModeTable {
		bRefModeTokens[e.value] = e.token
		bRefModeFromToken[e.token] = e.value
	}
}

// Token returns the encoder option token for the preset.
func (p Preset) Token() (string, bool) {
	tok, ok := presetTokens[p]
	return tok, ok
}

// PresetFromToken resolves an option token back to its preset.
func PresetFromToken(token string) (Preset, bool) {
	p, ok := presetFromToken[token]
	return p, ok
}

// Token returns the encoder option token for the mode.
func (m RateControlMode) Token() (string, bool) {
	tok, ok := rcModeTokens[m]
	return tok, ok
}

// RateControlModeFromToken resolves an option token back to its mode.
func RateControlModeFromToken(token string) (RateControlMode, bool) {
	m, ok := rcModeFromToken[token]
	return m, ok
}

// IsCBR reports whether the mode is one of the constant-bitrate family.
// The legacy "cbr" flag is set for exactly these modes.
func (m RateControlMode) IsCBR() bool {
	switch m {
	case RCModeCBR, RCModeCBRHQ, RCModeCBRLDHQ:
		return true
	default:
		return false
	}
}

// needs describes which field groups a rate-control mode activates.
type needs struct {
	bitrate    bool
	bitrateMax bool
	quality    bool
	qp         bool
	qpInit     bool
}

// fieldNeeds is the authoritative mode → field-group mapping. Unmapped
// modes activate nothing, which leaves every group hidden.
func (m RateControlMode) fieldNeeds() needs {
	switch m {
	case RCModeCQP:
		return needs{qp: true}
	case RCModeCBR, RCModeCBRHQ, RCModeCBRLDHQ:
		return needs{bitrate: true}
	case RCModeVBR, RCModeVBRHQ:
		return needs{bitrate: true, bitrateMax: true, quality: true, qpInit: true}
	default:
		return needs{}
	}
}

// Token returns the encoder option token for the reference mode.
func (m BRefMode) Token() (string, bool) {
	tok, ok := bRefModeTokens[m]
	return tok, ok
}

// BRefModeFromToken resolves an option token back to its reference mode.
func BRefModeFromToken(token string) (BRefMode, bool) {
	m, ok := bRefModeFromToken[token]
	return m, ok
}

// PresetItems returns the preset list entries in declared order.
func PresetItems() []ListEntry {
	out := make([]ListEntry, 0, len(presetTable))
	for _, e := range presetTable {
		out = append(out, ListEntry{Label: e.label, Value: int64(e.value)})
	}
	return out
}

// RateControlModeItems returns the mode list entries in declared order.
func RateControlModeItems() []ListEntry {
	out := make([]ListEntry, 0, len(rcModeTable))
	for _, e := range rcModeTable {
		out = append(out, ListEntry{Label: e.label, Value: int64(e.value)})
	}
	return out
}

// BRefModeItems returns the reference-mode list entries in declared order.
func BRefModeItems() []ListEntry {
	out := make([]ListEntry, 0, len(bRefModeTable))
	for _, e := range bRefModeTable {
		out = append(out, ListEntry{Label: e.label, Value: int64(e.value)})
	}
	return out
}

// ListEntry pairs a display label with the persisted ordinal.
type ListEntry struct {
	Label string
	Value int64
}
