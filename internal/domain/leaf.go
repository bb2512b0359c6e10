package domain

// LeafOption is one entry of the condensed single-select view
type LeafOption struct {
	ID            string    `json:"id"`
	FullSelection Selection `json:"fullSelection"`
	DisplayLabel  string    `json:"displayLabel"`
	FullLabel     string    `json:"fullLabel"`
}

// LeafCatalog is the user independent part of the leaf hand-off, derived
// from the tree and cached per field.
type LeafCatalog struct {
	LevelKeys []string     `json:"levelkeys"`
	Options   []LeafOption `json:"options"`
}

// LeafMap indexes the full selection of every option by leaf id
func (c LeafCatalog) LeafMap() map[string]Selection {
	out := make(map[string]Selection, len(c.Options))
	for _, opt := range c.Options {
		out[opt.ID] = opt.FullSelection.Project(c.LevelKeys)
	}
	return out
}

// LeafLabels indexes the untruncated label of every option by leaf id
func (c LeafCatalog) LeafLabels() map[string]string {
	out := make(map[string]string, len(c.Options))
	for _, opt := range c.Options {
		out[opt.ID] = opt.FullLabel
	}
	return out
}

// Lookup finds the option for a leaf id
func (c LeafCatalog) Lookup(id string) (LeafOption, bool) {
	for _, opt := range c.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return LeafOption{}, false
}

// SelectedLeaf returns the leaf id a stored selection points at. That is
// the value at leafKey, or for paths ending above the deepest level the
// deepest selected id, provided leafMap maps it back to the same selection.
func SelectedLeaf(sel Selection, leafKey string, leafMap map[string]Selection) string {
	if id := sel.Get(leafKey); id != "" {
		return id
	}

	values := sel.Values()
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] == "" {
			continue
		}
		mapped, ok := leafMap[values[i]]
		if ok && mapped.Project(sel.Keys()).Equal(sel) {
			return values[i]
		}
		return ""
	}
	return ""
}
