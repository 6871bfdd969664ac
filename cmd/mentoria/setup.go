package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mentoria-hub/mentoria-hub/config"
	"github.com/mentoria-hub/mentoria-hub/internal/application"
	"github.com/mentoria-hub/mentoria-hub/internal/infrastructure/persistence/memory"
	"github.com/mentoria-hub/mentoria-hub/internal/infrastructure/persistence/postgres"
	"github.com/mentoria-hub/mentoria-hub/internal/infrastructure/persistence/redis"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
	"github.com/mentoria-hub/mentoria-hub/pkg/retry"
)

const connectAttempts = 6

// loadConfig reads the configuration and builds the process logger.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = cfg.Observability.LogFormat
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	log := logger.New(opts).With(
		logger.String("app", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
	)
	return cfg, log, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Storage
// ─────────────────────────────────────────────────────────────────────────────

// storage is the selected repository backend.
type storage struct {
	Repos application.Repositories

	// Conn is nil for the memory driver.
	Conn *postgres.Connection
}

func (s *storage) Close() {
	if s.Conn != nil {
		s.Conn.Close()
	}
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn("using in-memory storage; data is lost on exit")
		st := memory.NewStore()
		return &storage{Repos: application.Repositories{
			Materials:  st.Materials,
			Progress:   st.Progress,
			Mentors:    st.Mentors,
			Businesses: st.Businesses,
			Sessions:   st.Sessions,
		}}, nil
	}

	conn, err := connectPostgres(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	st := postgres.NewStore(conn)
	return &storage{
		Conn: conn,
		Repos: application.Repositories{
			Materials:  st.Materials,
			Progress:   st.Progress,
			Mentors:    st.Mentors,
			Businesses: st.Businesses,
			Sessions:   st.Sessions,
		},
	}, nil
}

func connectPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.Database.URL
	pgCfg.MaxConns = int32(cfg.Database.MaxConns)
	pgCfg.MinConns = int32(cfg.Database.MinConns)
	pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	pgCfg.ConnectTimeout = cfg.Database.ConnectTimeout

	log.Info("connecting to database...")
	var conn *postgres.Connection
	err := retry.Connect(connectAttempts, onConnectRetry(log, "postgres")).Run(ctx, func(ctx context.Context) error {
		var err error
		conn, err = postgres.NewConnection(ctx, pgCfg)
		if postgres.IsAuthFailure(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connection established")
	return conn, nil
}

func connectRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Client, error) {
	rCfg := redis.DefaultConfig()
	rCfg.URL = cfg.Redis.URL
	rCfg.Host = cfg.Redis.Host
	rCfg.Port = cfg.Redis.Port
	rCfg.Password = cfg.Redis.Password
	rCfg.DB = cfg.Redis.DB
	rCfg.PoolSize = cfg.Redis.PoolSize
	rCfg.DialTimeout = cfg.Redis.DialTimeout
	rCfg.ReadTimeout = cfg.Redis.ReadTimeout
	rCfg.WriteTimeout = cfg.Redis.WriteTimeout

	log.Info("connecting to Redis...")
	var client *redis.Client
	err := retry.Connect(connectAttempts, onConnectRetry(log, "redis")).Run(ctx, func(ctx context.Context) error {
		var err error
		client, err = redis.NewClient(ctx, rCfg)
		if redis.IsAuthFailure(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("Redis connection established")
	return client, nil
}

func onConnectRetry(log *logger.Logger, service string) func(int, error, time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		log.Warn("connection attempt failed",
			logger.String("service", service),
			logger.Int("attempt", attempt),
			logger.Duration("retry_in", delay),
			logger.Err(err),
		)
	}
}
