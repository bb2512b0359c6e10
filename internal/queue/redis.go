package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hierarchicalmenu/profilefield/internal/config"
	"hierarchicalmenu/profilefield/internal/domain/task"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Queue interface {
	AddTask(ctx context.Context, task task.Task) (string, error) // Returns message ID
	GetTask(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error)
	AckTask(ctx context.Context, stream, group, msgID string) error
	CreateGroup(ctx context.Context, stream, group string) error
	AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error)
	EnsureStreamsExist(ctx context.Context) error
}

// StreamPrefix namespaces the task streams. A task type's stream is the
// prefix followed by the type name.
const StreamPrefix = "hierarchicalmenu:stream:"

const (
	// approximate cap on entries kept per stream
	maxStreamLen = 10000
	readBlock    = 5 * time.Second
)

// StreamName returns the stream that carries tasks of taskType
func StreamName(taskType string) string {
	return StreamPrefix + taskType
}

// RedisQueue carries repair and rebuild tasks over redis streams. Every
// message has two fields: task_type and the JSON task_data.
type RedisQueue struct {
	redisClient *redis.Client
	groupName   string
}

func NewRedisQueue(redisClient *redis.Client, cfg config.RedisConfig) (Queue, error) {
	q := &RedisQueue{
		redisClient: redisClient,
		groupName:   cfg.ConsumerGroup,
	}

	// groups must exist before the first worker reads
	if err := q.EnsureStreamsExist(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure streams exist: %w", err)
	}

	return q, nil
}

func (q *RedisQueue) CreateGroup(ctx context.Context, stream, group string) error {
	err := q.redisClient.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		log.Debugf("Group %s already exists for stream %s", group, stream)
		return nil
	}
	return err
}

func (q *RedisQueue) AddTask(ctx context.Context, t task.Task) (string, error) {
	stream := StreamName(t.TaskType())

	payload, err := t.TaskValue()
	if err != nil {
		return "", fmt.Errorf("failed to serialize %s: %w", t.TaskType(), err)
	}

	messageID, err := q.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			"task_type": t.TaskType(),
			"task_data": string(payload),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to add %s to stream %s: %w", t.TaskType(), stream, err)
	}

	log.Debugf("Queued %s as %s on %s", t.TaskType(), messageID, stream)
	return messageID, nil
}

// GetTask blocks for a short while and returns nil when nothing arrived
func (q *RedisQueue) GetTask(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error) {
	streams, err := q.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    1,
		Block:    readBlock,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream %s: %w", stream, err)
	}

	for _, s := range streams {
		if len(s.Messages) > 0 {
			return &s.Messages[0], nil
		}
	}
	return nil, nil
}

func (q *RedisQueue) AckTask(ctx context.Context, stream, group, msgID string) error {
	if err := q.redisClient.XAck(ctx, stream, group, msgID).Err(); err != nil {
		return fmt.Errorf("failed to ack %s on %s: %w", msgID, stream, err)
	}
	return nil
}

// AutoClaim takes over one message left pending longer than minIdleTime by
// a consumer that went away.
func (q *RedisQueue) AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	claimed, _, err := q.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdleTime,
		Start:    "0-0",
		Count:    1,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to claim pending messages on %s: %w", stream, err)
	}

	return claimed, nil
}

// EnsureStreamsExist creates the stream and consumer group of every task type
func (q *RedisQueue) EnsureStreamsExist(ctx context.Context) error {
	for _, taskType := range task.Types {
		stream := StreamName(taskType)
		if err := q.CreateGroup(ctx, stream, q.groupName); err != nil {
			return fmt.Errorf("failed to create consumer group for %s: %w", taskType, err)
		}
		log.Infof("✅ Stream %s and consumer group %s ready", stream, q.groupName)
	}
	return nil
}
