// Package admin edits the category tree of one field definition. Each editor
// owns its Manager; nodes are addressed by their stable ids.
package admin

import (
	"errors"
	"fmt"
	"strings"

	"hierarchicalmenu/profilefield/internal/domain"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNodeNotFound    = errors.New("category not found")
	ErrMaxLevelReached = errors.New("maximum nesting level reached")
	ErrEmptyName       = errors.New("category name cannot be empty")
)

// IDPrefix marks ids generated by the manager
const IDPrefix = "n_"

// NewNodeID generates a stable node id
func NewNodeID() string {
	return IDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Manager holds the tree being edited
type Manager struct {
	maxLevels int
	tree      domain.CategoryTree
	newID     func() string
}

type Option func(*Manager)

// WithIDGenerator replaces the node id generator
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

func NewManager(maxLevels int, opts ...Option) *Manager {
	m := &Manager{
		maxLevels: domain.ResolveMaxLevels(maxLevels),
		tree:      domain.CategoryTree{Items: []domain.CategoryNode{}},
		newID:     NewNodeID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the tree with the stored document. Malformed input resets
// to an empty tree. Missing ids are generated.
func (m *Manager) Load(raw string) {
	tree, err := domain.ParseTree(raw)
	if err != nil {
		if strings.TrimSpace(raw) != "" {
			log.Warnf("Discarding malformed category tree: %v", err)
		}
		tree = domain.CategoryTree{Items: []domain.CategoryNode{}}
	}
	m.tree = tree
	m.EnsureIDs()
}

// SetTree replaces the tree with a copy of t and fills in missing ids
func (m *Manager) SetTree(t domain.CategoryTree) {
	m.tree = t.Clone()
	m.EnsureIDs()
}

// EnsureIDs gives every node an id and a non-nil children list
func (m *Manager) EnsureIDs() {
	var ensure func(nodes []domain.CategoryNode)
	ensure = func(nodes []domain.CategoryNode) {
		for i := range nodes {
			if nodes[i].ID == "" {
				nodes[i].ID = m.newID()
			}
			if nodes[i].Children == nil {
				nodes[i].Children = []domain.CategoryNode{}
			}
			ensure(nodes[i].Children)
		}
	}
	if m.tree.Items == nil {
		m.tree.Items = []domain.CategoryNode{}
	}
	ensure(m.tree.Items)
}

// AddRoot appends a root category and returns its id
func (m *Manager) AddRoot(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	node := domain.CategoryNode{ID: m.newID(), Name: name, Children: []domain.CategoryNode{}}
	m.tree.Items = append(m.tree.Items, node)
	return node.ID, nil
}

// AddChild appends a category under parentID and returns its id
func (m *Manager) AddChild(parentID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	parent, depth := m.locate(parentID)
	if parent == nil {
		return "", fmt.Errorf("%w: %s", ErrNodeNotFound, parentID)
	}
	if depth+1 >= m.maxLevels {
		return "", fmt.Errorf("%w: %d levels", ErrMaxLevelReached, m.maxLevels)
	}

	node := domain.CategoryNode{ID: m.newID(), Name: name, Children: []domain.CategoryNode{}}
	parent.Children = append(parent.Children, node)
	return node.ID, nil
}

// Rename changes the name of id
func (m *Manager) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	node, _ := m.locate(id)
	if node == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	node.Name = name
	return nil
}

// Delete removes id together with its subtree
func (m *Manager) Delete(id string) error {
	if id == "" || !removeNode(&m.tree.Items, id) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return nil
}

// Find returns a copy of the node with id and its depth
func (m *Manager) Find(id string) (domain.CategoryNode, int, bool) {
	node, depth := m.locate(id)
	if node == nil {
		return domain.CategoryNode{}, 0, false
	}
	return node.Clone(), depth, true
}

// CanAddChildren reports whether a child may be added under id
func (m *Manager) CanAddChildren(id string) bool {
	node, depth := m.locate(id)
	return node != nil && depth+1 < m.maxLevels
}

// Tree returns a copy of the edited tree
func (m *Manager) Tree() domain.CategoryTree {
	return m.tree.Clone()
}

// MaxLevels is the nesting limit of the editor
func (m *Manager) MaxLevels() int {
	return m.maxLevels
}

// JSON returns the stored form of the tree
func (m *Manager) JSON() string {
	return m.tree.String()
}

func (m *Manager) locate(id string) (*domain.CategoryNode, int) {
	if id == "" {
		return nil, 0
	}

	var find func(nodes []domain.CategoryNode, depth int) (*domain.CategoryNode, int)
	find = func(nodes []domain.CategoryNode, depth int) (*domain.CategoryNode, int) {
		for i := range nodes {
			if nodes[i].ID == id {
				return &nodes[i], depth
			}
			if found, d := find(nodes[i].Children, depth+1); found != nil {
				return found, d
			}
		}
		return nil, 0
	}
	return find(m.tree.Items, 0)
}

func removeNode(nodes *[]domain.CategoryNode, id string) bool {
	for i := range *nodes {
		if (*nodes)[i].ID == id {
			*nodes = append((*nodes)[:i], (*nodes)[i+1:]...)
			return true
		}
		if removeNode(&(*nodes)[i].Children, id) {
			return true
		}
	}
	return false
}
