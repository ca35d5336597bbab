// Package encoder models the FFmpeg codec context that NVENC settings are
// translated onto: a handful of numeric rate-control fields plus the
// encoder's private option dictionary. The context is a plain value the
// session runner renders into an FFmpeg invocation.
package encoder

import "strconv"

// Context mirrors the codec-context surface the translator writes to.
// Numeric fields use -1 (or 0 for the rates) to mean "not set, leave to
// the encoder"; private options live in Priv in application order.
type Context struct {
	Variant Variant

	BitRate      int64
	RCMaxRate    int64
	RCBufferSize int64
	QMin         int
	QMax         int
	MaxBFrames   int
	Delay        int

	Priv *Options
}

// NewContext creates a context for the given encoder variant with every
// field unset.
func NewContext(variant Variant) *Context {
	return &Context{
		Variant: variant,
		QMin:    -1,
		QMax:    -1,
		Delay:   -1,
		Priv:    NewOptions(),
	}
}

// Args renders the context as FFmpeg video-codec arguments: the codec
// selection, the generic rate-control fields, then every private option in
// the order the translator wrote them.
func (c *Context) Args() []string {
	args := []string{"-c:v", c.Variant.Name()}

	if c.BitRate > 0 {
		args = append(args, "-b:v", strconv.FormatInt(c.BitRate, 10))
	}
	if c.RCMaxRate > 0 {
		args = append(args, "-maxrate", strconv.FormatInt(c.RCMaxRate, 10))
	}
	if c.RCBufferSize > 0 {
		args = append(args, "-bufsize", strconv.FormatInt(c.RCBufferSize, 10))
	}
	if c.QMin >= 0 {
		args = append(args, "-qmin", strconv.Itoa(c.QMin))
	}
	if c.QMax >= 0 {
		args = append(args, "-qmax", strconv.Itoa(c.QMax))
	}
	args = append(args, "-bf", strconv.Itoa(c.MaxBFrames))
	if c.Delay >= 0 {
		args = append(args, "-delay", strconv.Itoa(c.Delay))
	}

	for _, opt := range c.Priv.Items() {
		args = append(args, "-"+opt.Key, opt.Value)
	}

	return args
}
