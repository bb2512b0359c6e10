package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hierarchicalmenu/profilefield/internal/admin"
	"hierarchicalmenu/profilefield/internal/client"
	"hierarchicalmenu/profilefield/internal/config"
	"hierarchicalmenu/profilefield/internal/domain"
	"hierarchicalmenu/profilefield/internal/domain/task"
	"hierarchicalmenu/profilefield/internal/queue"
	"hierarchicalmenu/profilefield/internal/repository"
	"hierarchicalmenu/profilefield/internal/state"
	"hierarchicalmenu/profilefield/internal/tree"

	log "github.com/sirupsen/logrus"
)

var ErrImporterUnavailable = errors.New("tree importer is not configured")

type Service struct {
	fields      repository.FieldRepository
	userData    repository.UserDataRepository
	importer    client.TreeImporter
	queue       queue.Queue
	cache       state.HandoffCache
	fieldConfig config.FieldConfig
	workers     int
	groupName   string
	minIdleTime time.Duration
	retryDelay  time.Duration // pause after a failed queue read
}

// NewService wires the service. queue, cache and importer may be nil: without
// a queue tree changes are repaired inline, without a cache the leaf catalog
// is rebuilt on every render.
func NewService(
	fields repository.FieldRepository,
	userData repository.UserDataRepository,
	importer client.TreeImporter,
	queue queue.Queue,
	cache state.HandoffCache,
	fieldConfig config.FieldConfig,
	workers int,
	groupName string,
	minIdleTime int,
) *Service {
	if workers < 1 {
		workers = 1
	}
	if minIdleTime < 1 {
		minIdleTime = 120
	}
	return &Service{
		fields:      fields,
		userData:    userData,
		importer:    importer,
		queue:       queue,
		cache:       cache,
		fieldConfig: fieldConfig,
		workers:     workers,
		groupName:   groupName,
		minIdleTime: time.Duration(minIdleTime) * time.Second,
		retryDelay:  time.Second,
	}
}

func (s *Service) GetField(ctx context.Context, fieldID int64) (*domain.FieldDefinition, error) {
	def, err := s.fields.GetField(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	return def, nil
}

// SaveField validates and stores a definition. Invalid input is reported as
// ValidationErrors. When the tree or the level count changed, stored user
// selections are repaired and the cached leaf catalog is rebuilt.
func (s *Service) SaveField(ctx context.Context, def domain.FieldDefinition) (*domain.FieldDefinition, error) {
	if errs := ValidateDefinition(def); len(errs) > 0 {
		return nil, errs
	}
	def = PreprocessDefinition(def, s.fieldConfig.DisplayMode)

	previous, err := s.fields.GetField(ctx, def.ID)
	if err != nil && !errors.Is(err, repository.ErrFieldNotFound) {
		return nil, err
	}

	if err := s.fields.SaveField(ctx, &def); err != nil {
		return nil, err
	}
	log.Infof("💾 Saved field %d (%s) with %d levels", def.ID, def.ShortName, def.MaxLevels)

	if previous == nil || previous.TreeJSON != def.TreeJSON || previous.MaxLevels != def.MaxLevels {
		if err := s.scheduleRepair(ctx, def.ID, "define"); err != nil {
			return nil, err
		}
	}

	return &def, nil
}

// ImportTree replaces the tree of a field with one fetched from url. Missing
// node ids are generated before the definition is validated and saved.
func (s *Service) ImportTree(ctx context.Context, fieldID int64, url string) (*domain.FieldDefinition, error) {
	if s.importer == nil {
		return nil, ErrImporterUnavailable
	}

	def, err := s.fields.GetField(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	imported, err := s.importer.Import(ctx, url)
	if err != nil {
		return nil, err
	}

	manager := admin.NewManager(def.MaxLevels)
	manager.SetTree(imported)

	updated := *def
	updated.TreeJSON = manager.JSON()
	log.Infof("📥 Imported %d root categories for field %d from %s", len(imported.Items), fieldID, url)

	return s.SaveField(ctx, updated)
}

func (s *Service) scheduleRepair(ctx context.Context, fieldID int64, reason string) error {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, fieldID); err != nil {
			log.Warnf("⚠️ Failed to invalidate leaf catalog of field %d: %v", fieldID, err)
		}
	}

	if s.queue == nil {
		if _, err := s.RepairField(ctx, fieldID); err != nil {
			return err
		}
		return s.RebuildLeaves(ctx, fieldID)
	}

	if _, err := s.queue.AddTask(ctx, &task.RepairSelectionsTask{FieldID: fieldID, Reason: reason}); err != nil {
		return fmt.Errorf("failed to enqueue repair of field %d: %w", fieldID, err)
	}
	if _, err := s.queue.AddTask(ctx, &task.RebuildLeavesTask{FieldID: fieldID}); err != nil {
		return fmt.Errorf("failed to enqueue leaf rebuild of field %d: %w", fieldID, err)
	}
	log.Infof("🔄 Scheduled repair of field %d (%s)", fieldID, reason)
	return nil
}

func (s *Service) loadField(ctx context.Context, fieldID int64) (domain.Field, error) {
	def, err := s.fields.GetField(ctx, fieldID)
	if err != nil {
		return domain.Field{}, err
	}
	if def.TreeJSON != "" {
		if _, err := domain.ParseTree(def.TreeJSON); err != nil {
			log.Warnf("⚠️ Field %d has a malformed tree, using an empty one: %v", fieldID, err)
		}
	}
	return domain.ResolveField(*def), nil
}

// leafCatalog returns the flattened leaves of a field, from the cache when
// it holds a catalog for the same level keys.
func (s *Service) leafCatalog(ctx context.Context, field domain.Field) domain.LeafCatalog {
	fieldID := field.Definition.ID
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, fieldID)
		if err != nil {
			log.Warnf("⚠️ Failed to read leaf catalog of field %d: %v", fieldID, err)
		} else if cached != nil && sameKeys(cached.LevelKeys, field.Keys) {
			return *cached
		}
	}

	catalog := tree.FlattenLeaves(field.Tree, field.Keys, s.fieldConfig.LabelBudget)
	if s.cache != nil {
		if err := s.cache.Set(ctx, fieldID, catalog); err != nil {
			log.Warnf("⚠️ Failed to cache leaf catalog of field %d: %v", fieldID, err)
		}
	}
	return catalog
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
