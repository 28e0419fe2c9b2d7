package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/review-service/internal/api/http"
	"github.com/spec-kit/review-service/internal/api/http/handlers"
	"github.com/spec-kit/review-service/internal/channel"
	"github.com/spec-kit/review-service/internal/config"
	"github.com/spec-kit/review-service/internal/dispatch"
	"github.com/spec-kit/review-service/internal/domain"
	"github.com/spec-kit/review-service/internal/events"
	"github.com/spec-kit/review-service/internal/linktoken"
	"github.com/spec-kit/review-service/internal/observability"
	"github.com/spec-kit/review-service/internal/persistence"
	"github.com/spec-kit/review-service/internal/repository"
	"github.com/spec-kit/review-service/internal/service"
	"github.com/spec-kit/review-service/internal/vault"
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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	credentialVault, err := vault.New(cfg.Vault.Passphrase, cfg.Vault.Salt)
	if err != nil {
		logger.Fatal("failed to init credential vault", zap.Error(err))
	}

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	businessRepo := repository.NewBusinessRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	activityService := service.NewActivityService(dispatcher, logger)
	activityService.RegisterHandlers()

	tokens := linktoken.NewManager(cfg.Review.TokenSecret, cfg.Review.TokenTTL())
	links := dispatch.NewReviewLinkBuilder(tokens, cfg.Review.PublicBaseURL)

	emailChannel := channel.NewEmailChannel(cfg.Email, logger)
	smsFor := func(creds domain.SMSCredentials) channel.Channel {
		return channel.NewSMSChannel(cfg.SMS, creds, logger)
	}

	reviewDispatcher := dispatch.NewDispatcher(cfg.Dispatch, dispatch.Dependencies{
		Tickets:    ticketRepo,
		Businesses: businessRepo,
		Settings:   settingsRepo,
		Vault:      credentialVault,
		Email:      emailChannel,
		SMSFor:     smsFor,
		Links:      links,
		Guard:      dispatch.NewRedisLease(redis.Client, cfg.App.Name, cfg.Dispatch.LockTTL()),
		Events:     dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	go reviewDispatcher.Run(ctx)

	reviewService := service.NewReviewService(service.ReviewDependencies{
		ReviewRepo: reviewRepo,
		TicketRepo: ticketRepo,
		Tokens:     tokens,
		Dispatcher: dispatcher,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics)
	reviewsHandler := handlers.NewReviewsHandler(reviewService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Reviews: reviewsHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
