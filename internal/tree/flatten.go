package tree

import (
	"html"
	"strings"

	"hierarchicalmenu/profilefield/internal/domain"
)

const (
	DefaultLabelBudget = 7
	Ellipsis           = "..."
	LabelSeparator     = " / "
)

// Truncate shortens name to budget characters followed by an ellipsis.
// Names within budget, and budgets below one, are returned unchanged.
func Truncate(name string, budget int) string {
	if budget < 1 {
		return name
	}
	runes := []rune(name)
	if len(runes) <= budget {
		return name
	}
	return string(runes[:budget]) + Ellipsis
}

// Flattener derives the leaf view of a tree for a fixed set of level keys
type Flattener struct {
	keys   []string
	budget int
}

func NewFlattener(keys []string, budget int) *Flattener {
	if budget == 0 {
		budget = DefaultLabelBudget
	}
	return &Flattener{keys: append([]string(nil), keys...), budget: budget}
}

// Flatten walks the tree depth first. A node is a selectable leaf when it
// has no children or sits on the deepest configured level; anything stored
// below that level is unreachable from the leaf view. Nodes without an id
// are not selectable and do not take part in paths, but their children are
// walked at the same depth.
func (f *Flattener) Flatten(t domain.CategoryTree) domain.LeafCatalog {
	catalog := domain.LeafCatalog{
		LevelKeys: append([]string(nil), f.keys...),
		Options:   make([]domain.LeafOption, 0),
	}
	position := make(map[string]int)

	var walk func(nodes []domain.CategoryNode, path []domain.CategoryNode)
	walk = func(nodes []domain.CategoryNode, path []domain.CategoryNode) {
		for _, node := range nodes {
			if !node.HasID() {
				if node.HasChildren() {
					walk(node.Children, path)
				}
				continue
			}

			current := append(append([]domain.CategoryNode(nil), path...), node)
			depth := len(current) - 1
			atMaxDepth := depth >= len(f.keys)-1

			if !node.HasChildren() || atMaxDepth {
				opt := f.option(current)
				if i, seen := position[opt.ID]; seen {
					catalog.Options[i] = opt
				} else {
					position[opt.ID] = len(catalog.Options)
					catalog.Options = append(catalog.Options, opt)
				}
			}

			if node.HasChildren() && !atMaxDepth {
				walk(node.Children, current)
			}
		}
	}
	walk(t.Items, nil)

	return catalog
}

func (f *Flattener) option(path []domain.CategoryNode) domain.LeafOption {
	leaf := path[len(path)-1]
	selection := domain.NewSelection(f.keys)
	short := make([]string, 0, len(path))
	full := make([]string, 0, len(path))

	for i, part := range path {
		if i < len(f.keys) {
			selection.Set(f.keys[i], part.ID)
		}
		name := strings.TrimSpace(html.UnescapeString(part.Name))
		if name == "" {
			continue
		}
		short = append(short, Truncate(name, f.budget))
		full = append(full, name)
	}

	display := strings.Join(short, LabelSeparator)
	if display == "" {
		display = leaf.ID
	}

	return domain.LeafOption{
		ID:            leaf.ID,
		FullSelection: selection,
		DisplayLabel:  display,
		FullLabel:     strings.Join(full, LabelSeparator),
	}
}

// FlattenLeaves is a shorthand for NewFlattener(keys, budget).Flatten(t)
func FlattenLeaves(t domain.CategoryTree, keys []string, budget int) domain.LeafCatalog {
	return NewFlattener(keys, budget).Flatten(t)
}
