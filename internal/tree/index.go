// Package tree builds lookup structures and derived views over a category tree.
package tree

import (
	"strings"

	"hierarchicalmenu/profilefield/internal/domain"

	log "github.com/sirupsen/logrus"
)

// PathSeparator joins ids into the keys of a PathIndex
const PathSeparator = "/"

// Index gives O(1) access to nodes and their children by node id
type Index struct {
	roots        []domain.CategoryNode
	nodesByID    map[string]domain.CategoryNode
	childrenByID map[string][]domain.CategoryNode
}

// BuildByID indexes every node by id in pre-order. Nodes without an id are
// not indexed but their descendants are. When ids repeat the last one wins.
func BuildByID(t domain.CategoryTree) *Index {
	ix := &Index{
		roots:        t.Items,
		nodesByID:    make(map[string]domain.CategoryNode),
		childrenByID: make(map[string][]domain.CategoryNode),
	}

	t.Walk(func(node domain.CategoryNode, depth int) bool {
		if !node.HasID() {
			log.Debugf("Skipping category without id at depth %d (%q)", depth, node.Name)
			return true
		}
		ix.nodesByID[node.ID] = node
		children := node.Children
		if children == nil {
			children = []domain.CategoryNode{}
		}
		ix.childrenByID[node.ID] = children
		return true
	})

	return ix
}

// Roots returns the root items
func (ix *Index) Roots() []domain.CategoryNode {
	if ix == nil || ix.roots == nil {
		return []domain.CategoryNode{}
	}
	return ix.roots
}

// Node looks up a node by id
func (ix *Index) Node(id string) (domain.CategoryNode, bool) {
	if ix == nil || id == "" {
		return domain.CategoryNode{}, false
	}
	node, ok := ix.nodesByID[id]
	return node, ok
}

// Children returns the declared children of id. Blank and unknown ids yield
// an empty list.
func (ix *Index) Children(id string) []domain.CategoryNode {
	if ix == nil || id == "" {
		return []domain.CategoryNode{}
	}
	children, ok := ix.childrenByID[id]
	if !ok {
		return []domain.CategoryNode{}
	}
	return children
}

// IsChild reports whether childID is a direct child of parentID. A blank
// parent means the root level.
func (ix *Index) IsChild(parentID, childID string) bool {
	if childID == "" {
		return false
	}

	candidates := ix.Roots()
	if parentID != "" {
		candidates = ix.Children(parentID)
	}
	for _, c := range candidates {
		if c.ID == childID {
			return true
		}
	}
	return false
}

// Len is the number of indexed nodes
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.nodesByID)
}

// PathIndex keys children lists by the slash-joined id path from the root,
// which keeps same-id nodes in different branches apart.
type PathIndex struct {
	childrenByPath map[string][]domain.CategoryNode
}

// BuildChildrenByPath indexes children by id path. The empty path holds the
// root items. Descendants of a node without an id are indexed under the
// path of its nearest identified ancestor.
func BuildChildrenByPath(t domain.CategoryTree) *PathIndex {
	px := &PathIndex{childrenByPath: make(map[string][]domain.CategoryNode)}
	px.childrenByPath[""] = nonNil(t.Items)

	var walk func(nodes []domain.CategoryNode, prefix []string)
	walk = func(nodes []domain.CategoryNode, prefix []string) {
		for _, node := range nodes {
			if !node.HasID() {
				walk(node.Children, prefix)
				continue
			}
			path := append(append([]string(nil), prefix...), node.ID)
			px.childrenByPath[JoinPath(path...)] = nonNil(node.Children)
			walk(node.Children, path)
		}
	}
	walk(t.Items, nil)

	return px
}

// Children returns the children under the given id path
func (px *PathIndex) Children(path ...string) []domain.CategoryNode {
	if px == nil {
		return []domain.CategoryNode{}
	}
	children, ok := px.childrenByPath[JoinPath(path...)]
	if !ok {
		return []domain.CategoryNode{}
	}
	return children
}

// Len is the number of indexed paths, including the root
func (px *PathIndex) Len() int {
	if px == nil {
		return 0
	}
	return len(px.childrenByPath)
}

// JoinPath builds a PathIndex key
func JoinPath(ids ...string) string {
	return strings.Join(ids, PathSeparator)
}

func nonNil(nodes []domain.CategoryNode) []domain.CategoryNode {
	if nodes == nil {
		return []domain.CategoryNode{}
	}
	return nodes
}
