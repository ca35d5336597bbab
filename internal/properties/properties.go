// Package properties models the dynamic property form an encoder exposes
// for editing its settings: typed controls in declaration order, group
// containers, and per-control visible/enabled state that the encoder's
// visibility policy rewrites as governing values change.
package properties

// Kind identifies the control type of a property.
type Kind string

const (
	KindList     Kind = "list"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindTristate Kind = "tristate"
	KindGroup    Kind = "group"
)

// ListItem is one selectable entry of a list property. Values are
// persisted; labels are what the UI renders.
type ListItem struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// Property is one control of the form. Min/Max/Step apply to int
// properties, FloatMin/FloatMax/FloatStep to float properties, Items to
// lists and tristates, Checkable and Children to groups.
type Property struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Kind        Kind   `json:"kind"`

	Min    int64  `json:"min,omitempty"`
	Max    int64  `json:"max,omitempty"`
	Step   int64  `json:"step,omitempty"`
	Slider bool   `json:"slider,omitempty"`
	Suffix string `json:"suffix,omitempty"`

	FloatMin  float64 `json:"float_min,omitempty"`
	FloatMax  float64 `json:"float_max,omitempty"`
	FloatStep float64 `json:"float_step,omitempty"`

	Items []ListItem `json:"items,omitempty"`

	Checkable bool     `json:"checkable,omitempty"`
	Children  []string `json:"children,omitempty"`

	Visible bool `json:"visible"`
	Enabled bool `json:"enabled"`
}

// Form holds the ordered property set. Properties keep their declaration
// order for rendering; lookups go through the name index.
type Form struct {
	order []string
	props map[string]*Property
}

// NewForm creates an empty form.
func NewForm() *Form {
	return &Form{props: make(map[string]*Property)}
}

// Add appends a property to the form. New properties start visible and
// enabled. Adding a name twice replaces the property in place, keeping
// its original position.
func (f *Form) Add(p Property) *Property {
	p.Visible = true
	p.Enabled = true

	if existing, ok := f.props[p.Name]; ok {
		*existing = p
		return existing
	}

	stored := p
	f.order = append(f.order, p.Name)
	f.props[p.Name] = &stored
	return &stored
}

// Get returns the property with the given name, or nil.
func (f *Form) Get(name string) *Property {
	return f.props[name]
}

// SetVisible toggles visibility of a property. Unknown names are ignored
// so policies can address controls that a variant does not expose.
func (f *Form) SetVisible(name string, visible bool) {
	if p, ok := f.props[name]; ok {
		p.Visible = visible
	}
}

// SetEnabled toggles whether a property accepts edits.
func (f *Form) SetEnabled(name string, enabled bool) {
	if p, ok := f.props[name]; ok {
		p.Enabled = enabled
	}
}

// Has reports whether the form contains a property with the given name.
func (f *Form) Has(name string) bool {
	_, ok := f.props[name]
	return ok
}

// Len returns the number of properties on the form.
func (f *Form) Len() int {
	return len(f.order)
}

// Properties returns the form's properties in declaration order. The
// slice is fresh but the pointers alias the form's own properties.
func (f *Form) Properties() []*Property {
	out := make([]*Property, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.props[name])
	}
	return out
}
