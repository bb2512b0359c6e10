package domain

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var (
	ErrInvalidTreeJSON      = errors.New("invalid JSON format in category data")
	ErrInvalidTreeStructure = errors.New(`invalid JSON structure, expected {"root":{"items":[...]}}`)
)

// CategoryNode is a single entry of the category tree. An empty ID marks a
// malformed node: it can't be selected but its children are still reachable.
type CategoryNode struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Children []CategoryNode `json:"childs"`
}

// HasID reports whether the node carries a usable id
func (n CategoryNode) HasID() bool {
	return n.ID != ""
}

func (n CategoryNode) HasChildren() bool {
	return len(n.Children) > 0
}

// Clone returns a deep copy of the node and its descendants
func (n CategoryNode) Clone() CategoryNode {
	out := CategoryNode{ID: n.ID, Name: n.Name, Children: make([]CategoryNode, 0, len(n.Children))}
	for _, child := range n.Children {
		out.Children = append(out.Children, child.Clone())
	}
	return out
}

// MarshalJSON always writes "childs" as an array, never null
func (n CategoryNode) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []CategoryNode{}
	}
	return json.Marshal(struct {
		ID       string         `json:"id"`
		Name     string         `json:"name"`
		Children []CategoryNode `json:"childs"`
	}{n.ID, n.Name, children})
}

// UnmarshalJSON accepts numeric ids and names and ignores a "childs" member
// that is not an array, the way stored trees written by older editors look.
func (n *CategoryNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Name     json.RawMessage `json:"name"`
		Children json.RawMessage `json:"childs"`
	}

	*n = CategoryNode{}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	n.ID = scalarString(raw.ID)
	n.Name = scalarString(raw.Name)
	n.Children = nil

	if len(raw.Children) > 0 && raw.Children[0] == '[' {
		var children []CategoryNode
		if err := json.Unmarshal(raw.Children, &children); err == nil {
			n.Children = children
		}
	}

	return nil
}

// scalarString renders a JSON scalar as a plain string. Strings are
// unquoted, numbers and booleans keep their literal text, anything else
// (null, objects, arrays) is treated as absent.
func scalarString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f':
		return string(trimmed)
	case 'n', '{', '[':
		return ""
	default:
		if _, err := strconv.ParseFloat(string(trimmed), 64); err != nil {
			return ""
		}
		return string(trimmed)
	}
}

// CategoryTree holds the root's children
type CategoryTree struct {
	Items []CategoryNode
}

type treeRoot struct {
	Items *[]CategoryNode `json:"items"`
}

type treeDocument struct {
	Root *treeRoot `json:"root"`
}

// ParseTree decodes the stored {"root":{"items":[...]}} document and reports
// malformed input.
func ParseTree(raw string) (CategoryTree, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CategoryTree{}, fmt.Errorf("%w: empty document", ErrInvalidTreeJSON)
	}

	var doc treeDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return CategoryTree{}, fmt.Errorf("%w: %v", ErrInvalidTreeJSON, err)
	}

	if doc.Root == nil || doc.Root.Items == nil {
		return CategoryTree{}, ErrInvalidTreeStructure
	}

	return CategoryTree{Items: *doc.Root.Items}, nil
}

// LoadTree is the tolerant variant of ParseTree: anything malformed yields an
// empty tree.
func LoadTree(raw string) CategoryTree {
	tree, err := ParseTree(raw)
	if err != nil {
		return CategoryTree{}
	}
	return tree
}

func (t CategoryTree) MarshalJSON() ([]byte, error) {
	items := t.Items
	if items == nil {
		items = []CategoryNode{}
	}
	return json.Marshal(struct {
		Root struct {
			Items []CategoryNode `json:"items"`
		} `json:"root"`
	}{Root: struct {
		Items []CategoryNode `json:"items"`
	}{Items: items}})
}

func (t *CategoryTree) UnmarshalJSON(data []byte) error {
	tree, err := ParseTree(string(data))
	if err != nil {
		return err
	}
	*t = tree
	return nil
}

// String returns the stored JSON form of the tree
func (t CategoryTree) String() string {
	b, err := t.MarshalJSON()
	if err != nil {
		return `{"root":{"items":[]}}`
	}
	return string(b)
}

func (t CategoryTree) Clone() CategoryTree {
	out := CategoryTree{Items: make([]CategoryNode, 0, len(t.Items))}
	for _, item := range t.Items {
		out.Items = append(out.Items, item.Clone())
	}
	return out
}

// Walk visits every node in pre-order with its depth (roots are depth 0).
// Returning false from fn skips the node's children.
func (t CategoryTree) Walk(fn func(node CategoryNode, depth int) bool) {
	var walk func(nodes []CategoryNode, depth int)
	walk = func(nodes []CategoryNode, depth int) {
		for _, node := range nodes {
			if fn(node, depth) {
				walk(node.Children, depth+1)
			}
		}
	}
	walk(t.Items, 0)
}

// Depth returns the number of levels used by the tree
func (t CategoryTree) Depth() int {
	depth := 0
	t.Walk(func(_ CategoryNode, d int) bool {
		if d+1 > depth {
			depth = d + 1
		}
		return true
	})
	return depth
}
