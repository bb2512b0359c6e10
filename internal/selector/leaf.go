package selector

import (
	"strings"

	"hierarchicalmenu/profilefield/internal/codec"
	"hierarchicalmenu/profilefield/internal/domain"
)

// LeafConfig is the host hand-off for the single leaf selector
type LeafConfig struct {
	Hidden   string
	LeafKey  string
	LeafName string
	// Placeholder and Options, when given, populate the dropdown. Without
	// them the dropdown is expected to be rendered by the host already.
	Placeholder string
	Options     []domain.LeafOption
	LeafMap     map[string]domain.Selection
	LevelKeys   []string
	LeafLabels  map[string]string
}

// LeafConfigFromHandoff adapts the serialised hand-off
func LeafConfigFromHandoff(h domain.LeafHandoff) LeafConfig {
	return LeafConfig{
		Hidden:      h.Hidden,
		LeafKey:     h.LeafKey,
		LeafName:    h.LeafName,
		Placeholder: h.Placeholder,
		Options:     h.Options,
		LeafMap:     h.LeafMap,
		LevelKeys:   h.LevelKeys,
		LeafLabels:  h.LeafLabels,
	}
}

// LeafController maps a single leaf dropdown back to the full per-level
// selection stored in the hidden control.
type LeafController struct {
	cfg      LeafConfig
	keys     []string
	leafKey  string
	control  SelectControl
	hidden   HiddenControl
	tooltip  *Tooltip
	fallback domain.Selection
	inited   bool
}

// NewLeaf resolves the controls of cfg on form. The tooltip may be nil.
func NewLeaf(form Form, cfg LeafConfig, tooltip *Tooltip) *LeafController {
	keys := append([]string(nil), cfg.LevelKeys...)
	leafKey := cfg.LeafKey
	if leafKey == "" {
		leafKey = domain.DefaultLeafKey
		if len(keys) > 0 {
			leafKey = keys[len(keys)-1]
		}
	}
	if cfg.LeafMap == nil {
		cfg.LeafMap = make(map[string]domain.Selection)
	}

	lc := &LeafController{
		cfg:      cfg,
		keys:     keys,
		leafKey:  leafKey,
		tooltip:  tooltip,
		fallback: domain.NewSelection(keys),
	}
	if form != nil {
		lc.control = form.Select(cfg.LeafName)
		lc.hidden = form.Hidden(cfg.Hidden)
	}
	return lc
}

// Init populates the dropdown, restores the stored leaf and writes its full
// selection to the hidden control. Without both controls it does nothing.
func (lc *LeafController) Init() {
	if lc.control == nil || lc.hidden == nil || lc.inited {
		return
	}
	lc.inited = true

	if lc.cfg.Options != nil {
		lc.control.SetOptions(leafOptions(lc.cfg.Placeholder, lc.cfg.Options))
	}
	if lc.cfg.LeafLabels != nil {
		lc.annotate(lc.cfg.LeafLabels)
	}

	lc.fallback = codec.Decode(lc.hidden.Value(), lc.keys)
	initial := domain.SelectedLeaf(lc.fallback, lc.leafKey, lc.cfg.LeafMap)
	if initial == "" {
		initial = lc.control.Value()
	}
	lc.control.SetValue(initial)

	lc.sync(lc.control.Value())

	lc.control.OnChange(func() {
		lc.sync(lc.control.Value())
		if t := lc.Tooltip(); t != nil {
			t.Hover(lc.selectedOption(), nil)
		}
	})
}

// Selection is the selection last written to the hidden control
func (lc *LeafController) Selection() domain.Selection {
	return lc.fallback.Clone()
}

// Tooltip returns the tooltip attached to the dropdown, if any
func (lc *LeafController) Tooltip() *Tooltip {
	if lc.cfg.LeafLabels == nil {
		return nil
	}
	return lc.tooltip
}

// Resolve maps a leaf id to its full selection. Unknown ids resolve to a
// blank selection unless they equal the leaf of the previous selection,
// which is then kept.
func (lc *LeafController) Resolve(leafID string) domain.Selection {
	selection := domain.NewSelection(lc.keys)
	if leafID == "" {
		return selection
	}

	if mapped, ok := lc.cfg.LeafMap[leafID]; ok {
		for _, key := range lc.keys {
			selection.Set(key, mapped.Get(key))
		}
		return selection
	}

	if lc.fallback.Get(lc.leafKey) == leafID {
		return lc.fallback.Project(lc.keys)
	}

	return selection
}

func (lc *LeafController) sync(leafID string) {
	selection := lc.Resolve(leafID)
	lc.hidden.SetValue(codec.Encode(selection))
	lc.fallback = selection
}

// annotate attaches full labels to the options they belong to and clears
// the label of every other option.
func (lc *LeafController) annotate(labels map[string]string) {
	opts := lc.control.Options()
	value := lc.control.Value()
	for i := range opts {
		full, ok := labels[opts[i].Value]
		if !ok || strings.TrimSpace(full) == "" {
			opts[i].FullLabel = ""
			continue
		}
		opts[i].FullLabel = full
	}
	lc.control.SetOptions(opts)
	lc.control.SetValue(value)
}

func (lc *LeafController) selectedOption() *Option {
	value := lc.control.Value()
	for _, opt := range lc.control.Options() {
		if opt.Value == value {
			o := opt
			return &o
		}
	}
	return nil
}

func leafOptions(placeholder string, options []domain.LeafOption) []Option {
	opts := make([]Option, 0, len(options)+1)
	if placeholder == "" {
		placeholder = domain.DefaultPlaceholder
	}
	opts = append(opts, Option{Value: "", Text: placeholder})
	for _, o := range options {
		opts = append(opts, Option{Value: o.ID, Text: o.DisplayLabel, FullLabel: o.FullLabel})
	}
	return opts
}
