// Package selector keeps a set of cascading dropdowns, or a single leaf
// dropdown, consistent with a category tree and mirrors the current choice
// into a hidden form value.
//
// Everything runs synchronously on the caller's goroutine: a change handler
// finishes its cascade, including the hidden value write, before it returns.
package selector

import "fmt"

// Option is one entry of a dropdown. FullLabel is the untruncated label
// shown as a tooltip when it differs from Text.
type Option struct {
	Value     string `json:"value"`
	Text      string `json:"text"`
	FullLabel string `json:"fullLabel,omitempty"`
}

// SelectControl is a dropdown the controllers drive
type SelectControl interface {
	Name() string
	SetOptions(opts []Option)
	Options() []Option
	Value() string
	// SetValue selects the option with the given value. Values without a
	// matching option leave the control unselected ("").
	SetValue(v string)
	// OnChange registers a handler run after every user driven change
	OnChange(fn func())
}

// HiddenControl carries the serialised selection to the server
type HiddenControl interface {
	Name() string
	Value() string
	SetValue(v string)
}

// Form resolves controls by name. Missing controls resolve to nil.
type Form interface {
	Select(name string) SelectControl
	Hidden(name string) HiddenControl
}

// LevelControlName is the element name of one cascading level
func LevelControlName(fieldName, key string) string {
	return fmt.Sprintf("%s[%s]", fieldName, key)
}

// Select is an in-memory SelectControl with browser <select> semantics:
// replacing the options selects the first one, and selecting an unknown
// value leaves nothing selected.
type Select struct {
	name     string
	options  []Option
	value    string
	handlers []func()
}

func NewSelect(name string) *Select {
	return &Select{name: name}
}

func (s *Select) Name() string {
	return s.name
}

func (s *Select) SetOptions(opts []Option) {
	s.options = append([]Option(nil), opts...)
	s.value = ""
	if len(s.options) > 0 {
		s.value = s.options[0].Value
	}
}

func (s *Select) Options() []Option {
	return append([]Option(nil), s.options...)
}

func (s *Select) Value() string {
	return s.value
}

func (s *Select) SetValue(v string) {
	for _, opt := range s.options {
		if opt.Value == v {
			s.value = v
			return
		}
	}
	s.value = ""
}

func (s *Select) OnChange(fn func()) {
	s.handlers = append(s.handlers, fn)
}

// Choose simulates the user picking v and fires the change handlers
func (s *Select) Choose(v string) {
	s.SetValue(v)
	for _, fn := range s.handlers {
		fn()
	}
}

// Hidden is an in-memory HiddenControl
type Hidden struct {
	name  string
	value string
}

func NewHidden(name, value string) *Hidden {
	return &Hidden{name: name, value: value}
}

func (h *Hidden) Name() string {
	return h.name
}

func (h *Hidden) Value() string {
	return h.value
}

func (h *Hidden) SetValue(v string) {
	h.value = v
}

// MemoryForm is a Form holding in-memory controls
type MemoryForm struct {
	selects map[string]*Select
	hiddens map[string]*Hidden
}

func NewMemoryForm() *MemoryForm {
	return &MemoryForm{
		selects: make(map[string]*Select),
		hiddens: make(map[string]*Hidden),
	}
}

// AddSelect registers a dropdown and returns it
func (f *MemoryForm) AddSelect(name string) *Select {
	s := NewSelect(name)
	f.selects[name] = s
	return s
}

// AddHidden registers a hidden value and returns it
func (f *MemoryForm) AddHidden(name, value string) *Hidden {
	h := NewHidden(name, value)
	f.hiddens[name] = h
	return h
}

func (f *MemoryForm) Select(name string) SelectControl {
	if s, ok := f.selects[name]; ok {
		return s
	}
	return nil
}

func (f *MemoryForm) Hidden(name string) HiddenControl {
	if h, ok := f.hiddens[name]; ok {
		return h
	}
	return nil
}

// SelectByName returns the concrete in-memory dropdown, or nil
func (f *MemoryForm) SelectByName(name string) *Select {
	return f.selects[name]
}

// HiddenByName returns the concrete in-memory hidden value, or nil
func (f *MemoryForm) HiddenByName(name string) *Hidden {
	return f.hiddens[name]
}
