package domain

// CascadeHandoff initialises the N-dropdown selector
type CascadeHandoff struct {
	Root      CategoryTree `json:"root"`
	FieldName string       `json:"fieldname"`
	Current   *Selection   `json:"current,omitempty"`
	Hidden    string       `json:"hidden"`
	Levels    []LevelSpec  `json:"levels"`
}

// LeafHandoff initialises the single leaf selector
type LeafHandoff struct {
	Hidden      string               `json:"hidden"`
	LeafKey     string               `json:"leafkey"`
	Selected    string               `json:"selected"`
	LeafName    string               `json:"leafname"`
	Placeholder string               `json:"placeholder"`
	Options     []LeafOption         `json:"options"`
	LeafMap     map[string]Selection `json:"leafmap"`
	LevelKeys   []string             `json:"levelkeys"`
	LeafLabels  map[string]string    `json:"leaflabels"`
}

// FormHandoff is everything the host passes to the browser for one field
type FormHandoff struct {
	FieldID     int64           `json:"fieldid"`
	Mode        DisplayMode     `json:"mode"`
	Label       string          `json:"label"`
	Required    bool            `json:"required"`
	HiddenValue string          `json:"hiddenvalue"`
	Cascade     *CascadeHandoff `json:"cascade,omitempty"`
	Leaf        *LeafHandoff    `json:"leaf,omitempty"`
}
