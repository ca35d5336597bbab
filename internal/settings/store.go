// Package settings provides the flat key/value store that encoder
// configuration is edited against. Every value carries a default layer
// written once by the encoder implementation and a user layer written by
// the API or loaded from disk; reads return the user value when present
// and fall back to the default otherwise.
package settings

import (
	"sort"
)

// Kind identifies the type of a stored value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
)

// Value is a typed settings value.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
}

// Int wraps an int64 as a Value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float wraps a float64 as a Value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Bool wraps a bool as a Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Kind returns the value's type tag.
func (v Value) Kind() Kind { return v.kind }

// Int64 returns the value as int64, truncating floats and mapping bools to 0/1.
func (v Value) Int64() int64 {
	switch v.kind {
	case KindFloat:
		return int64(v.f)
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	default:
		return v.i
	}
}

// Float64 returns the value as float64.
func (v Value) Float64() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	default:
		return v.f
	}
}

// Bool returns the value as bool; numeric values are true when non-zero.
func (v Value) Bool() bool {
	switch v.kind {
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	default:
		return v.b
	}
}

// Any returns the value as its native Go type, for JSON/TOML encoding.
func (v Value) Any() any {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return v.i
	}
}

// Store holds settings in two layers: defaults and user values.
// It is not synchronized; the owning service serializes access.
type Store struct {
	defaults map[string]Value
	values   map[string]Value
}

// New creates an empty store.
func New() *Store {
	return &Store{
		defaults: make(map[string]Value),
		values:   make(map[string]Value),
	}
}

// SetDefaultInt writes an int default.
func (s *Store) SetDefaultInt(key string, v int64) { s.defaults[key] = Int(v) }

// SetDefaultFloat writes a float default.
func (s *Store) SetDefaultFloat(key string, v float64) { s.defaults[key] = Float(v) }

// SetDefaultBool writes a bool default.
func (s *Store) SetDefaultBool(key string, v bool) { s.defaults[key] = Bool(v) }

// SetInt writes an int user value.
func (s *Store) SetInt(key string, v int64) { s.values[key] = Int(v) }

// SetFloat writes a float user value.
func (s *Store) SetFloat(key string, v float64) { s.values[key] = Float(v) }

// SetBool writes a bool user value.
func (s *Store) SetBool(key string, v bool) { s.values[key] = Bool(v) }

// SetValue writes a typed user value.
func (s *Store) SetValue(key string, v Value) { s.values[key] = v }

// Int reads a key as int64; user value wins over default, missing keys read 0.
func (s *Store) Int(key string) int64 {
	if v, ok := s.values[key]; ok {
		return v.Int64()
	}
	if v, ok := s.defaults[key]; ok {
		return v.Int64()
	}
	return 0
}

// Float reads a key as float64; user value wins over default, missing keys read 0.
func (s *Store) Float(key string) float64 {
	if v, ok := s.values[key]; ok {
		return v.Float64()
	}
	if v, ok := s.defaults[key]; ok {
		return v.Float64()
	}
	return 0
}

// Bool reads a key as bool; user value wins over default, missing keys read false.
func (s *Store) Bool(key string) bool {
	if v, ok := s.values[key]; ok {
		return v.Bool()
	}
	if v, ok := s.defaults[key]; ok {
		return v.Bool()
	}
	return false
}

// Has reports whether the key exists in either layer.
func (s *Store) Has(key string) bool {
	_, inValues := s.values[key]
	_, inDefaults := s.defaults[key]
	return inValues || inDefaults
}

// HasUser reports whether the key has an explicit user value.
func (s *Store) HasUser(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Unset removes the user value for a key, reverting reads to the default.
func (s *Store) Unset(key string) {
	delete(s.values, key)
}

// Reset removes every user value, reverting the store to defaults.
func (s *Store) Reset() {
	s.values = make(map[string]Value)
}

// Keys returns the union of default and user keys, sorted.
func (s *Store) Keys() []string {
	seen := make(map[string]struct{}, len(s.defaults)+len(s.values))
	for k := range s.defaults {
		seen[k] = struct{}{}
	}
	for k := range s.values {
		seen[k] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns the effective value of every known key.
func (s *Store) Snapshot() map[string]any {
	out := make(map[string]any, len(s.defaults)+len(s.values))
	for k, v := range s.defaults {
		out[k] = v.Any()
	}
	for k, v := range s.values {
		out[k] = v.Any()
	}
	return out
}

// UserSnapshot returns only the explicit user values.
func (s *Store) UserSnapshot() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v.Any()
	}
	return out
}
