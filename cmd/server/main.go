package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/sponsor-cards/internal/config"
	"github.com/iliyamo/sponsor-cards/internal/database"
	"github.com/iliyamo/sponsor-cards/internal/handler"
	"github.com/iliyamo/sponsor-cards/internal/logger"
	"github.com/iliyamo/sponsor-cards/internal/middleware"
	"github.com/iliyamo/sponsor-cards/internal/queue"
	"github.com/iliyamo/sponsor-cards/internal/repository"
	"github.com/iliyamo/sponsor-cards/internal/router"
	"github.com/iliyamo/sponsor-cards/internal/service"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err := logger.Initialize(logger.Config{
		Debug:       cfg.LogDebug,
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.Env,
		Tags:        map[string]string{"service": "sponsor-cards"},
	}); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Store())
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
	}

	rdb, err := config.NewRedisClient(ctx)
	switch {
	case err != nil:
		logger.Warn("redis unavailable: rate limiting and caching disabled", zap.Error(err))
	case rdb == nil:
		logger.Info("redis disabled")
	default:
		defer rdb.Close()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	users := repository.NewUserRepo(db)
	sponsors := repository.NewSponsorRepo(db)
	scans := repository.NewScanRepo(db)
	cards := service.NewCardService(db, repository.NewCardRepo(db), sponsors, scans)
	reports := service.NewReportService(repository.NewReportRepo(db), scans, cfg.DashboardScanLimit)

	var events handler.EventPublisher
	if cfg.EventsEnabled {
		events = queue.NewPublisher(cfg.AMQPURL)
		go func() {
			if err := queue.StartCardEventConsumer(ctx, cfg.AMQPURL, cfg.EventLogDir); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error(err, zap.String("component", "card event consumer"))
			}
		}()
	}

	e := router.New(router.Handlers{
		Auth:   handler.NewAuthHandler(users, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost),
		Cards:  handler.NewCardHandler(cards, events, cache),
		Admin:  handler.NewAdminHandler(reports, sponsors, cache),
		Public: handler.NewPublicHandler(reports),
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     cache,
		Redis:     rdb,
		DB:        db,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, zap.String("component", "shutdown"))
	}
}
