package domain

import "strings"

// DisplayMode selects how the field is presented on the profile form
type DisplayMode string

const (
	DisplayModeLeaf    DisplayMode = "leaf"    // single select over flattened leaves
	DisplayModeCascade DisplayMode = "cascade" // one dropdown per level
)

func (m DisplayMode) String() string {
	return string(m)
}

// ParseDisplayMode defaults to the leaf presentation
func ParseDisplayMode(raw string) DisplayMode {
	switch DisplayMode(strings.ToLower(strings.TrimSpace(raw))) {
	case DisplayModeCascade:
		return DisplayModeCascade
	default:
		return DisplayModeLeaf
	}
}

// FieldDefinition is the stored configuration row of one profile field.
// TreeJSON, MaxLevels and LabelsRaw are kept in their stored form.
type FieldDefinition struct {
	ID          int64       `json:"id"`
	ShortName   string      `json:"shortname"`
	Name        string      `json:"name"`
	Required    bool        `json:"required"`
	TreeJSON    string      `json:"param1"`
	MaxLevels   int         `json:"param2"`
	LabelsRaw   string      `json:"param3"`
	DisplayMode DisplayMode `json:"param4"`
	DefaultData string      `json:"defaultdata"`
}

// InputName is the base form element name of the field
func (d FieldDefinition) InputName() string {
	return "profile_field_" + d.ShortName
}

// Field is a definition resolved into the structures the selector works with
type Field struct {
	Definition FieldDefinition
	Tree       CategoryTree
	MaxLevels  int
	Keys       []string
	Labels     []string
}

// ResolveField decodes a definition. A malformed stored tree becomes an
// empty tree.
func ResolveField(def FieldDefinition) Field {
	maxLevels := ResolveMaxLevels(def.MaxLevels)
	return Field{
		Definition: def,
		Tree:       LoadTree(def.TreeJSON),
		MaxLevels:  maxLevels,
		Keys:       BuildLevelKeys(maxLevels),
		Labels:     ResolveLevelLabels(def.LabelsRaw, maxLevels),
	}
}

// LeafKey is the key of the deepest configured level
func (f Field) LeafKey() string {
	if len(f.Keys) == 0 {
		return LevelKeyPrefix + "0"
	}
	return f.Keys[len(f.Keys)-1]
}

// LeafLabel is the label of the deepest configured level
func (f Field) LeafLabel() string {
	if len(f.Labels) == 0 {
		return DefaultLevelLabel(0)
	}
	return f.Labels[len(f.Labels)-1]
}

// UserData is the stored selection of one user for one field
type UserData struct {
	FieldID int64  `json:"fieldid"`
	UserID  int64  `json:"userid"`
	Data    string `json:"data"`
}
