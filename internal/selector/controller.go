package selector

import (
	"hierarchicalmenu/profilefield/internal/codec"
	"hierarchicalmenu/profilefield/internal/domain"
	"hierarchicalmenu/profilefield/internal/tree"
)

// Config is the host hand-off for the cascading selector
type Config struct {
	Root      domain.CategoryTree
	FieldName string
	// Current is the server provided selection. When nil the hidden value
	// is decoded instead.
	Current *domain.Selection
	Hidden  string
	Levels  []domain.LevelSpec
}

// ConfigFromHandoff adapts the serialised hand-off
func ConfigFromHandoff(h domain.CascadeHandoff) Config {
	return Config{
		Root:      h.Root,
		FieldName: h.FieldName,
		Current:   h.Current,
		Hidden:    h.Hidden,
		Levels:    h.Levels,
	}
}

type level struct {
	spec    domain.LevelSpec
	control SelectControl
}

// Controller drives one dropdown per configured level. Each level offers the
// children of the node chosen one level up; changing a level clears every
// level below it.
type Controller struct {
	index   *tree.Index
	levels  []level
	keys    []string
	hidden  HiddenControl
	current *domain.Selection
	inited  bool
}

// New resolves the controls of cfg on form and indexes the tree. Call Init
// to populate the controls. A nil form leaves every control missing.
func New(form Form, cfg Config) *Controller {
	c := &Controller{
		index:  tree.BuildByID(cfg.Root),
		levels: make([]level, 0, len(cfg.Levels)),
		keys:   domain.LevelKeysOf(cfg.Levels),
	}
	if cfg.Current != nil {
		current := cfg.Current.Clone()
		c.current = &current
	}

	for _, spec := range cfg.Levels {
		if spec.Placeholder == "" {
			spec.Placeholder = domain.DefaultPlaceholder
		}
		var control SelectControl
		if form != nil {
			control = form.Select(LevelControlName(cfg.FieldName, spec.Key))
		}
		c.levels = append(c.levels, level{spec: spec, control: control})
	}
	if form != nil {
		c.hidden = form.Hidden(cfg.Hidden)
	}

	return c
}

// Init populates and preselects every level from the initial selection,
// wires the change handlers and writes the repaired selection to the hidden
// control. A controller without levels does nothing.
func (c *Controller) Init() {
	if len(c.levels) == 0 || c.inited {
		return
	}
	c.inited = true

	initial := c.initialSelection()

	first := c.levels[0]
	c.populate(first, c.index.Roots())
	c.preselect(first, initial.Get(first.spec.Key))

	for i := 1; i < len(c.levels); i++ {
		// the parent's control value, not the raw initial value, so an
		// invalid ancestor cannot leak options into this level
		parent := c.value(i - 1)
		c.populate(c.levels[i], c.index.Children(parent))
		c.preselect(c.levels[i], initial.Get(c.levels[i].spec.Key))
	}

	c.writeHidden()

	for i, l := range c.levels {
		if l.control == nil {
			continue
		}
		idx := i
		l.control.OnChange(func() {
			c.OnChange(idx)
		})
	}
}

// OnChange repopulates every level below i from the live value of its
// parent, clears those levels and rewrites the hidden value.
func (c *Controller) OnChange(i int) {
	if i < 0 || i >= len(c.levels) {
		return
	}

	for j := i + 1; j < len(c.levels); j++ {
		c.populate(c.levels[j], c.index.Children(c.value(j-1)))
	}

	c.writeHidden()
}

// Selection collects the live value of every level
func (c *Controller) Selection() domain.Selection {
	sel := domain.NewSelection(c.keys)
	for i, l := range c.levels {
		sel.Set(l.spec.Key, c.value(i))
	}
	return sel
}

// Options returns the options currently offered at level i
func (c *Controller) Options(i int) []Option {
	if i < 0 || i >= len(c.levels) || c.levels[i].control == nil {
		return []Option{}
	}
	return c.levels[i].control.Options()
}

// Levels is the number of configured levels
func (c *Controller) Levels() int {
	return len(c.levels)
}

func (c *Controller) initialSelection() domain.Selection {
	if c.current != nil {
		return c.current.Project(c.keys)
	}
	if c.hidden != nil {
		return codec.Decode(c.hidden.Value(), c.keys)
	}
	return domain.NewSelection(c.keys)
}

func (c *Controller) value(i int) string {
	if c.levels[i].control == nil {
		return ""
	}
	return c.levels[i].control.Value()
}

func (c *Controller) populate(l level, nodes []domain.CategoryNode) {
	if l.control == nil {
		return
	}
	l.control.SetOptions(nodeOptions(l.spec.Placeholder, nodes))
}

func (c *Controller) preselect(l level, id string) {
	if l.control == nil || id == "" {
		return
	}
	l.control.SetValue(id)
}

func (c *Controller) writeHidden() {
	if c.hidden == nil {
		return
	}
	c.hidden.SetValue(codec.Encode(c.Selection()))
}

// nodeOptions leads with the placeholder. Nodes without an id can't be told
// apart from the placeholder and are left out.
func nodeOptions(placeholder string, nodes []domain.CategoryNode) []Option {
	opts := make([]Option, 0, len(nodes)+1)
	if placeholder != "" {
		opts = append(opts, Option{Value: "", Text: placeholder})
	}
	for _, n := range nodes {
		if !n.HasID() {
			continue
		}
		opts = append(opts, Option{Value: n.ID, Text: n.Name})
	}
	return opts
}

// Repair runs the selector over an in-memory form and returns the selection
// it settles on: every level whose id is not a child of the level above is
// blanked together with everything below it.
func Repair(t domain.CategoryTree, keys []string, sel domain.Selection) domain.Selection {
	const fieldName, hiddenName = "repair", "repair_hidden"

	form := NewMemoryForm()
	levels := domain.BuildLevelSpecs(keys, nil, domain.DefaultPlaceholder)
	for _, l := range levels {
		form.AddSelect(LevelControlName(fieldName, l.Key))
	}
	form.AddHidden(hiddenName, "")

	projected := sel.Project(keys)
	cfg := Config{Root: t, FieldName: fieldName, Current: &projected, Hidden: hiddenName, Levels: levels}
	c := New(form, cfg)
	c.Init()
	return c.Selection()
}
