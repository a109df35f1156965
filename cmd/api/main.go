package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-admin/internal/api/http"
	"github.com/spec-kit/helpdesk-admin/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/cache"
	"github.com/spec-kit/helpdesk-admin/internal/config"
	"github.com/spec-kit/helpdesk-admin/internal/events"
	"github.com/spec-kit/helpdesk-admin/internal/observability"
	"github.com/spec-kit/helpdesk-admin/internal/persistence"
	"github.com/spec-kit/helpdesk-admin/internal/repository"
	"github.com/spec-kit/helpdesk-admin/internal/service"
	"github.com/spec-kit/helpdesk-admin/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	personRepo := repository.NewPersonRepository(pool)
	policyRepo := repository.NewPolicyRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	policyCache := cache.NewPolicyCache(redis.ClientHandle(), 5*time.Minute)
	policyService := service.NewPolicyService(cfg.RootPolicy, service.PolicyDependencies{
		PolicyRepo: policyRepo,
		Cache:      policyCache,
		Dispatcher: dispatcher,
	})
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		PersonRepo:    personRepo,
		PolicyService: policyService,
		Dispatcher:    dispatcher,
	})
	auditService := service.NewAuditService(dispatcher, logger, cfg.Audit)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewMiddleware(authService.Codec(), personRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(),
		Auth:           handlers.NewAuthHandler(authService),
		Policies:       handlers.NewPolicyHandler(policyService),
		AuthMiddleware: authMiddleware,
		RateLimit:      cfg.RateLimit,
		RedisClient:    redis.ClientHandle(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
