package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hierarchicalmenu/profilefield/internal/codec"
	"hierarchicalmenu/profilefield/internal/domain/task"
	"hierarchicalmenu/profilefield/internal/queue"
	"hierarchicalmenu/profilefield/internal/selector"
	"hierarchicalmenu/profilefield/internal/tree"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RepairField re-validates every stored selection of a field against its
// current tree and rewrites the rows that changed. It returns the number of
// rewritten rows.
func (s *Service) RepairField(ctx context.Context, fieldID int64) (int, error) {
	field, err := s.loadField(ctx, fieldID)
	if err != nil {
		return 0, err
	}

	rows, err := s.userData.ListUserData(ctx, fieldID)
	if err != nil {
		return 0, err
	}

	var repaired atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, row := range rows {
		if strings.TrimSpace(row.Data) == "" {
			continue
		}
		row := row
		g.Go(func() error {
			sel := codec.Decode(row.Data, field.Keys)
			fixed := codec.Encode(selector.Repair(field.Tree, field.Keys, sel))
			if fixed == row.Data {
				return nil
			}

			if err := s.userData.SaveUserData(gctx, fieldID, row.UserID, fixed); err != nil {
				return err
			}
			repaired.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(repaired.Load()), fmt.Errorf("failed to repair selections of field %d: %w", fieldID, err)
	}

	log.Infof("✅ Repaired %d of %d selections for field %d", repaired.Load(), len(rows), fieldID)
	return int(repaired.Load()), nil
}

// RebuildLeaves recomputes the cached leaf catalog of a field
func (s *Service) RebuildLeaves(ctx context.Context, fieldID int64) error {
	if s.cache == nil {
		return nil
	}

	field, err := s.loadField(ctx, fieldID)
	if err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, fieldID); err != nil {
		return err
	}
	catalog := tree.FlattenLeaves(field.Tree, field.Keys, s.fieldConfig.LabelBudget)
	if err := s.cache.Set(ctx, fieldID, catalog); err != nil {
		return err
	}

	log.Infof("🌿 Rebuilt %d leaves for field %d", len(catalog.Options), fieldID)
	return nil
}

// RunWorkers consumes repair and rebuild tasks until ctx is done
func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	if s.queue == nil {
		log.Info("No task queue configured, tree changes are repaired inline")
		return nil
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup

	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamName(task.RepairSelectionsTaskType), "repair")
	s.runWorkersForStream(ctx, &wg, max(1, numWorkers/2), queue.StreamName(task.RebuildLeavesTaskType), "leaves")

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.claimPending(ctx, streamName, workerType)
	}()

	for i := 1; i <= numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.consume(ctx, streamName, fmt.Sprintf("%s-worker-%d", workerType, workerID))
		}(i)
	}
}

// consume reads one task at a time from streamName until ctx is done
func (s *Service) consume(ctx context.Context, streamName, consumer string) {
	log.Infof("🚀 Starting consumer %s on %s", consumer, streamName)
	defer log.Infof("🛑 Consumer %s stopping", consumer)

	for ctx.Err() == nil {
		msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
		if err != nil {
			if ctx.Err() == nil {
				log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
			}
			select {
			case <-ctx.Done():
			case <-time.After(s.retryDelay):
			}
			continue
		}
		if msg == nil {
			continue
		}

		if err := s.processMessage(ctx, msg); err != nil {
			log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
		}
	}
}

// claimPending periodically takes over messages a dead consumer left
// unacknowledged for longer than minIdleTime.
func (s *Service) claimPending(ctx context.Context, streamName, workerType string) {
	ticker := time.NewTicker(s.minIdleTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
		claimed, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
		if err != nil {
			log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
			continue
		}
		if len(claimed) == 0 {
			continue
		}

		log.Infof("🔄 Auto-claimed %d %s messages", len(claimed), workerType)
		for i := range claimed {
			if err := s.processMessage(ctx, &claimed[i]); err != nil {
				log.Errorf("❌ Failed to process auto-claimed message %s: %v", claimed[i].ID, err)
			}
		}
	}
}

func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	switch taskType {
	case task.RepairSelectionsTaskType:
		repairTask, err := task.UnmarshalTask[*task.RepairSelectionsTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal repair task data: %w", err)
		}

		log.Infof("🔧 Repairing selections of field %d (%s)", repairTask.FieldID, repairTask.Reason)
		if _, err := s.RepairField(ctx, repairTask.FieldID); err != nil {
			return fmt.Errorf("failed to repair field %d: %w", repairTask.FieldID, err)
		}

	case task.RebuildLeavesTaskType:
		rebuildTask, err := task.UnmarshalTask[*task.RebuildLeavesTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal rebuild task data: %w", err)
		}

		if err := s.RebuildLeaves(ctx, rebuildTask.FieldID); err != nil {
			return fmt.Errorf("failed to rebuild leaves of field %d: %w", rebuildTask.FieldID, err)
		}

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	streamName := queue.StreamName(taskType)
	if err := s.queue.AckTask(ctx, streamName, s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}
