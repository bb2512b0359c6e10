package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"hierarchicalmenu/profilefield/internal/domain"
	"hierarchicalmenu/profilefield/internal/tree"

	"github.com/goccy/go-json"
)

// Form parameters of a definition, as named on the definition form
const (
	ParamTree   = "param1"
	ParamLevels = "param2"
	ParamLabels = "param3"
)

// ValidationErrors maps a form parameter to its error message
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "invalid field definition: " + strings.Join(parts, "; ")
}

// ValidateDefinition checks a definition as entered on the definition form.
// A blank tree is allowed.
func ValidateDefinition(def domain.FieldDefinition) ValidationErrors {
	errs := make(ValidationErrors)
	levels := domain.ResolveMaxLevels(def.MaxLevels)

	if strings.TrimSpace(def.TreeJSON) != "" {
		parsed, err := domain.ParseTree(def.TreeJSON)
		if err == nil {
			err = tree.ValidateHierarchy(parsed, levels)
		}
		if err != nil {
			errs[ParamTree] = treeErrorMessage(err)
		}
	}

	if def.MaxLevels < 1 {
		errs[ParamLevels] = "The number of levels must be at least 1."
	}

	labels := domain.ParseLabels(domain.LabelsForDisplay(def.LabelsRaw))
	if len(labels) < levels {
		errs[ParamLabels] = fmt.Sprintf("Provide at least %d level labels, one per line.", levels)
	}

	return errs
}

// PreprocessDefinition brings a valid definition into its stored form: line
// feeds only in the tree, a sane level count and exactly one label per level
// stored as a JSON array.
func PreprocessDefinition(def domain.FieldDefinition, defaultMode string) domain.FieldDefinition {
	def.TreeJSON = strings.ReplaceAll(def.TreeJSON, "\r", "")
	def.MaxLevels = domain.ResolveMaxLevels(def.MaxLevels)

	labels := domain.ParseLabels(domain.LabelsForDisplay(def.LabelsRaw))
	resolved := domain.ResolveLevelLabels(strings.Join(labels, "\n"), def.MaxLevels)
	encoded, err := json.Marshal(resolved)
	if err != nil {
		encoded, _ = json.Marshal(domain.ResolveLevelLabels("", def.MaxLevels))
	}
	def.LabelsRaw = string(encoded)

	if def.DisplayMode == "" {
		def.DisplayMode = domain.ParseDisplayMode(defaultMode)
	}
	return def
}

func treeErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTreeJSON):
		return "Invalid JSON format in category data."
	case errors.Is(err, domain.ErrInvalidTreeStructure):
		return `Invalid JSON structure. Expected format: {"root":{"items":[...]}}`
	case errors.Is(err, tree.ErrNoCategories):
		return "No categories defined. Please add at least one category."
	case errors.Is(err, tree.ErrEmptyCategoryName):
		return "Category name cannot be empty."
	default:
		return err.Error()
	}
}
