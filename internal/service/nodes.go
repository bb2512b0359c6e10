package service

import (
	"context"

	"hierarchicalmenu/profilefield/internal/admin"
	"hierarchicalmenu/profilefield/internal/domain"

	log "github.com/sirupsen/logrus"
)

// NodeInfo describes one category of a field's tree
type NodeInfo struct {
	Node           domain.CategoryNode `json:"node"`
	Depth          int                 `json:"depth"`
	CanAddChildren bool                `json:"canAddChildren"`
}

// GetNode looks up a category by id
func (s *Service) GetNode(ctx context.Context, fieldID int64, nodeID string) (*NodeInfo, error) {
	_, manager, err := s.editor(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	node, depth, ok := manager.Find(nodeID)
	if !ok {
		return nil, admin.ErrNodeNotFound
	}
	return &NodeInfo{Node: node, Depth: depth, CanAddChildren: manager.CanAddChildren(nodeID)}, nil
}

// AddNode adds a category under parentID, or a root category when parentID
// is blank, and returns the new node.
func (s *Service) AddNode(ctx context.Context, fieldID int64, parentID, name string) (*NodeInfo, error) {
	def, manager, err := s.editor(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	var id string
	if parentID == "" {
		id, err = manager.AddRoot(name)
	} else {
		id, err = manager.AddChild(parentID, name)
	}
	if err != nil {
		return nil, err
	}

	if err := s.saveEdited(ctx, def, manager); err != nil {
		return nil, err
	}
	log.Infof("➕ Added category %s to field %d", id, fieldID)

	return s.GetNode(ctx, fieldID, id)
}

func (s *Service) RenameNode(ctx context.Context, fieldID int64, nodeID, name string) (*NodeInfo, error) {
	def, manager, err := s.editor(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if err := manager.Rename(nodeID, name); err != nil {
		return nil, err
	}

	if err := s.saveEdited(ctx, def, manager); err != nil {
		return nil, err
	}
	return s.GetNode(ctx, fieldID, nodeID)
}

// DeleteNode removes a category with its subtree. Stored selections that
// pointed into it are repaired by the save.
func (s *Service) DeleteNode(ctx context.Context, fieldID int64, nodeID string) error {
	def, manager, err := s.editor(ctx, fieldID)
	if err != nil {
		return err
	}
	if err := manager.Delete(nodeID); err != nil {
		return err
	}

	if err := s.saveEdited(ctx, def, manager); err != nil {
		return err
	}
	log.Infof("🗑️ Deleted category %s from field %d", nodeID, fieldID)
	return nil
}

func (s *Service) editor(ctx context.Context, fieldID int64) (*domain.FieldDefinition, *admin.Manager, error) {
	def, err := s.fields.GetField(ctx, fieldID)
	if err != nil {
		return nil, nil, err
	}

	manager := admin.NewManager(def.MaxLevels)
	manager.Load(def.TreeJSON)
	return def, manager, nil
}

func (s *Service) saveEdited(ctx context.Context, def *domain.FieldDefinition, manager *admin.Manager) error {
	updated := *def
	updated.TreeJSON = manager.JSON()
	_, err := s.SaveField(ctx, updated)
	return err
}
