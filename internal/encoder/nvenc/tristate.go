package nvenc

// Tristate is a boolean option that distinguishes "leave at encoder
// default" from an explicit off. Settings persist it as -1/0/1.
type Tristate int64

const (
	TristateUnset    Tristate = -1
	TristateDisabled Tristate = 0
	TristateEnabled  Tristate = 1
)

// TristateOf maps a persisted settings value onto a Tristate. Negative
// values mean unset; anything positive is enabled.
func TristateOf(v int64) Tristate {
	switch {
	case v < 0:
		return TristateUnset
	case v == 0:
		return TristateDisabled
	default:
		return TristateEnabled
	}
}

// IsSet reports whether the value was explicitly chosen.
func (t Tristate) IsSet() bool { return t != TristateUnset }

// Bool returns the explicit value; only meaningful when IsSet.
func (t Tristate) Bool() bool { return t == TristateEnabled }

// Int64 returns the persisted encoding.
func (t Tristate) Int64() int64 { return int64(t) }

// TristateItems returns the three list entries a tristate control offers.
func TristateItems() []ListEntry {
	return []ListEntry{
		{Label: "Default", Value: int64(TristateUnset)},
		{Label: "Disabled", Value: int64(TristateDisabled)},
		{Label: "Enabled", Value: int64(TristateEnabled)},
	}
}
