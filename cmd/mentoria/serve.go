package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mentoria-hub/mentoria-hub/internal/application"
	"github.com/mentoria-hub/mentoria-hub/internal/application/command"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/internal/infrastructure/messaging"
	"github.com/mentoria-hub/mentoria-hub/internal/infrastructure/persistence/postgres"
	httpserver "github.com/mentoria-hub/mentoria-hub/internal/interface/http"
	"github.com/mentoria-hub/mentoria-hub/internal/interface/http/handlers"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API",
	Long: `Start the HTTP API. Domain events go to the in-process bus and, when
Redis is enabled, to the configured pub/sub channel as well.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting mentoria-hub",
		logger.String("version", cfg.App.Version),
		logger.String("storage", cfg.Storage.Driver),
		logger.String("timezone", cfg.App.Timezone),
	)

	checker := handlers.NewCompositeHealthChecker(cfg.App.Version)

	// ─────────────────────────────────────────────────────────────────────────
	// 1. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing storage...")
		store.Close()
	}()

	if store.Conn != nil {
		checker.AddCheck("database", handlers.NewPingCheck(store.Conn))
		if cfg.Database.AutoMigrate {
			n, err := postgres.NewMigrator(store.Conn).Migrate(ctx)
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info("migrations completed", logger.Int("applied", n))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. EVENTS
	// ─────────────────────────────────────────────────────────────────────────
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{
		AsyncMode:      cfg.Events.Async,
		WorkerPoolSize: cfg.Events.Workers,
		HandlerTimeout: 10 * time.Second,
		Logger:         log,
	})
	bus.Use(messaging.RecoveryMiddleware(log))
	bus.Use(messaging.LoggingMiddleware(log))
	if err := bus.SubscribeAll(messaging.AuditHandler(log)); err != nil {
		return fmt.Errorf("failed to subscribe audit handler: %w", err)
	}
	defer func() {
		log.Info("closing event bus...")
		_ = bus.Close()
	}()

	var publisher shared.EventPublisher = bus
	if !cfg.Redis.Disabled {
		client, err := connectRedis(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer client.Close()
		checker.AddCheck("redis", handlers.NewPingCheck(client))

		publisher, err = messaging.NewRedisPublisher(messaging.RedisPublisherConfig{
			Client:  client,
			Local:   bus,
			Channel: cfg.Events.RedisChannel,
			Logger:  log,
		})
		if err != nil {
			return err
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. APPLICATION AND HTTP
	// ─────────────────────────────────────────────────────────────────────────
	services := application.NewServices(store.Repos, command.Runtime{
		Publisher: publisher,
		Logger:    log,
	})

	server, err := httpserver.NewServer(httpserver.Config{
		Host:           cfg.HTTP.Host,
		Port:           cfg.HTTP.Port,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Version:        cfg.App.Version,
	}, httpserver.Dependencies{
		Services:      services,
		Auth:          httpserver.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Logger:        log,
		HealthChecker: checker,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("starting graceful shutdown...", logger.Duration("timeout", cfg.App.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
