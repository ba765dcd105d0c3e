package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/report-tracker/internal/api/http"
	"github.com/spec-kit/report-tracker/internal/api/http/handlers"
	"github.com/spec-kit/report-tracker/internal/auth"
	"github.com/spec-kit/report-tracker/internal/clients"
	"github.com/spec-kit/report-tracker/internal/config"
	"github.com/spec-kit/report-tracker/internal/events"
	"github.com/spec-kit/report-tracker/internal/observability"
	"github.com/spec-kit/report-tracker/internal/persistence"
	"github.com/spec-kit/report-tracker/internal/repository"
	"github.com/spec-kit/report-tracker/internal/repository/memory"
	"github.com/spec-kit/report-tracker/internal/service"
	"github.com/spec-kit/report-tracker/internal/worker"
)

type stores struct {
	users    repository.UserRepository
	reports  repository.ReportRepository
	history  repository.ReportHistoryRepository
	visitors repository.VisitorRepository
	snapshot repository.SnapshotRepository
}

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

	if pg.Pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()

	mongoStore := persistence.NewMongo(ctx, cfg.Mongo, logger)
	defer mongoStore.Close(context.Background())

	st, deps := buildStores(pg, rdb, mongoStore)
	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger, metrics).RegisterHandlers()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	authService := service.NewAuthService(st.users, tokens, cfg.Auth.BcryptCost)
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:  st.reports,
		HistoryRepo: st.history,
		UserRepo:    st.users,
		Dispatcher:  dispatcher,
	})
	adminService := service.NewAdminService(st.users, dispatcher)
	trelloService := service.NewTrelloService(
		clients.NewTrelloClient(cfg.Scrape.BoardURL, cfg.Scrape.Timeout),
		st.snapshot,
		cfg.Scrape.Timeout,
		logger,
	)
	visitorService := service.NewVisitorService(
		clients.NewGeoIPClient(cfg.GeoIP.BaseURL, cfg.GeoIP.Timeout, logger),
		st.visitors,
	)

	worker.StartTrelloWorker(ctx, cfg.Scrape, worker.RefreshFunc(func(ctx context.Context) error {
		_, err := trelloService.Refresh(ctx)
		return err
	}), logger)

	app := httptransport.NewApp(httptransport.ServerConfig{
		Name:           cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         logger,
		Metrics:        metrics,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Users:          handlers.NewUsersHandler(authService),
		Reports:        handlers.NewReportsHandler(reportService),
		Moderation:     handlers.NewModerationHandler(reportService),
		Admin:          handlers.NewAdminHandler(adminService),
		Trello:         handlers.NewTrelloHandler(trelloService),
		Visitors:       handlers.NewVisitorsHandler(visitorService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		AuthLimiter:    httptransport.RateLimitPerIP(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst),
		Metrics:        metrics,
		StaticDir:      cfg.App.StaticDir,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}

// buildStores picks a backend per store. Connected databases win; anything
// unconfigured or unreachable falls back to process memory.
func buildStores(pg *persistence.Postgres, rdb *persistence.Redis, mongoStore *persistence.Mongo) (stores, map[string]handlers.Pinger) {
	var st stores
	deps := map[string]handlers.Pinger{}

	if pg.Pool != nil {
		st.users = repository.NewUserRepository(pg.Pool)
		st.reports = repository.NewReportRepository(pg.Pool)
		st.history = repository.NewReportHistoryRepository(pg.Pool)
		deps["postgres"] = pg
	} else {
		history := memory.NewReportHistoryRepository()
		st.users = memory.NewUserRepository()
		st.reports = memory.NewReportRepository(history)
		st.history = history
	}

	if rdb.Client != nil {
		st.visitors = repository.NewVisitorRepository(rdb.Client)
		deps["redis"] = rdb
	} else {
		st.visitors = memory.NewVisitorRepository()
	}

	if mongoStore.Database != nil {
		st.snapshot = repository.NewSnapshotRepository(mongoStore.Database)
		deps["mongo"] = mongoStore
	} else {
		st.snapshot = memory.NewSnapshotRepository()
	}

	return st, deps
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
