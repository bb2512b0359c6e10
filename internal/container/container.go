package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"hierarchicalmenu/profilefield/internal/client"
	"hierarchicalmenu/profilefield/internal/config"
	"hierarchicalmenu/profilefield/internal/queue"
	"hierarchicalmenu/profilefield/internal/repository"
	"hierarchicalmenu/profilefield/internal/server"
	"hierarchicalmenu/profilefield/internal/service"
	"hierarchicalmenu/profilefield/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// DriverMemory keeps definitions and user data in process
const DriverMemory = "memory"

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Importer client.TreeImporter
	Fields   repository.FieldRepository
	UserData repository.UserDataRepository
	Queue    queue.Queue
	Cache    state.HandoffCache
	Service  *service.Service
	Server   *server.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	if err := container.initRepositories(ctx); err != nil {
		container.Close()
		return nil, err
	}
	if err := container.initRedis(ctx); err != nil {
		container.Close()
		return nil, err
	}

	container.Importer = client.NewTreeImporter(cfg.Importer)

	container.Service = service.NewService(
		container.Fields,
		container.UserData,
		container.Importer,
		container.Queue,
		container.Cache,
		cfg.Field,
		cfg.Workers.Count,
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)
	container.Server = server.New(container.Service, cfg.Server)

	return container, nil
}

func (c *Container) initRepositories(ctx context.Context) error {
	if c.Config.Database.Driver == DriverMemory {
		store := repository.NewMemoryStore()
		c.Fields = store
		c.UserData = store
		log.Info("🧠 Using in-memory field storage")
		return nil
	}

	db, err := pgxpool.New(ctx, c.Config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to create database pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.db = db

	c.Fields = repository.NewFieldRepository(db)
	c.UserData = repository.NewUserDataRepository(db)
	log.Info("✅ Connected to Postgres successfully")
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	cfg := c.Config.Redis
	if !cfg.Enabled {
		c.Cache = state.NewMemoryHandoffCache()
		log.Info("🧠 Redis disabled, repairs run inline")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	// Test connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	c.redis = rdb
	log.Info("✅ Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(rdb, cfg)
	if err != nil {
		return err
	}
	c.Queue = redisQueue
	c.Cache = state.NewRedisHandoffCache(rdb, time.Duration(cfg.CacheTTL)*time.Second)

	return nil
}

// Run serves the HTTP API and processes repair tasks until ctx is cancelled
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Server.Run(ctx)
	})

	g.Go(func() error {
		return c.Service.RunWorkers(ctx, c.Config.Workers.Count)
	})

	return g.Wait()
}

// RunWorkers processes repair tasks only
func (c *Container) RunWorkers(ctx context.Context) error {
	return c.Service.RunWorkers(ctx, c.Config.Workers.Count)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
