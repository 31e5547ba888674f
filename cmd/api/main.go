package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/record-service/internal/api/http"
	"github.com/spec-kit/record-service/internal/api/http/handlers"
	"github.com/spec-kit/record-service/internal/auth"
	"github.com/spec-kit/record-service/internal/config"
	"github.com/spec-kit/record-service/internal/events"
	"github.com/spec-kit/record-service/internal/observability"
	"github.com/spec-kit/record-service/internal/persistence"
	"github.com/spec-kit/record-service/internal/repository"
	"github.com/spec-kit/record-service/internal/service"
	"github.com/spec-kit/record-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	revocations := auth.NewRevocationStore(cfg.Auth.SweepInterval(), logger)
	revocations.Start(ctx)
	defer revocations.Stop()

	sessions := auth.NewSessionManager(codec, revocations, logger)
	authGate := auth.NewAuthGate(sessions, metrics, logger, httptransport.PublicPaths...)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)

	authService := service.NewAuthService(userRepo, sessions, dispatcher, cfg.Auth.BcryptCost)
	categoryService := service.NewCategoryService(categoryRepo)
	transactionService := service.NewTransactionService(transactionRepo, categoryService, dispatcher)
	statisticsService := service.NewStatisticsService(transactionRepo, categoryRepo, redis.Client, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:         handlers.NewAuthHandler(authService),
		Users:        handlers.NewUsersHandler(authService),
		Categories:   handlers.NewCategoriesHandler(categoryService),
		Transactions: handlers.NewTransactionsHandler(transactionService),
		Statistics:   handlers.NewStatisticsHandler(statisticsService),
		AuthGate:     authGate,
		RateLimiter:  httptransport.RateLimiter(redis.Client, cfg.RateLimit, logger),
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
