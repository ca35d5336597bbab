package encoder

import (
	"strconv"
)

// Option is one private codec option as handed to the encoder.
type Option struct {
	Key   string
	Value string
}

// Options is an insertion-ordered private-option dictionary. FFmpeg applies
// options in the order given, so order is preserved across Set and Items.
type Options struct {
	items []Option
	index map[string]int
}

// NewOptions creates an empty option dictionary.
func NewOptions() *Options {
	return &Options{index: make(map[string]int)}
}

// Set stores a string option, replacing any existing value in place.
func (o *Options) Set(key, value string) {
	if i, ok := o.index[key]; ok {
		o.items[i].Value = value
		return
	}
	o.index[key] = len(o.items)
	o.items = append(o.items, Option{Key: key, Value: value})
}

// SetInt stores an integer option.
func (o *Options) SetInt(key string, value int64) {
	o.Set(key, strconv.FormatInt(value, 10))
}

// SetFloat stores a floating-point option.
func (o *Options) SetFloat(key string, value float64) {
	o.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// Get returns the raw value for a key.
func (o *Options) Get(key string) (string, bool) {
	i, ok := o.index[key]
	if !ok {
		return "", false
	}
	return o.items[i].Value, true
}

// Int returns the value for a key parsed as int64.
// Returns false for missing keys and unparseable values.
func (o *Options) Int(key string) (int64, bool) {
	raw, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Float-valued options still read back as their integer part
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0, false
		}
		return int64(f), true
	}
	return v, true
}

// Float returns the value for a key parsed as float64.
func (o *Options) Float(key string) (float64, bool) {
	raw, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Delete removes a key. Order of the remaining options is preserved.
func (o *Options) Delete(key string) {
	i, ok := o.index[key]
	if !ok {
		return
	}
	o.items = append(o.items[:i], o.items[i+1:]...)
	delete(o.index, key)
	for k, j := range o.index {
		if j > i {
			o.index[k] = j - 1
		}
	}
}

// Has reports whether a key is present.
func (o *Options) Has(key string) bool {
	_, ok := o.index[key]
	return ok
}

// Len returns the number of stored options.
func (o *Options) Len() int {
	return len(o.items)
}

// Items returns the options in insertion order. The slice is a copy.
func (o *Options) Items() []Option {
	out := make([]Option, len(o.items))
	copy(out, o.items)
	return out
}
