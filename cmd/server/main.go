package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/consistency/api/handler"
	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/internal/config"
	"github.com/fastygo/consistency/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/consistency/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/consistency/internal/infrastructure/redis"
	sqliteInfra "github.com/fastygo/consistency/internal/infrastructure/sqlite"
	"github.com/fastygo/consistency/internal/middleware"
	"github.com/fastygo/consistency/internal/router"
	boardSvc "github.com/fastygo/consistency/internal/services/board"
	"github.com/fastygo/consistency/internal/services/lifecycle"
	"github.com/fastygo/consistency/internal/services/notify"
	"github.com/fastygo/consistency/pkg/httpcontext"
	"github.com/fastygo/consistency/pkg/logger"
	"github.com/fastygo/consistency/repository"
	"github.com/fastygo/consistency/repository/postgres"
	redisRepo "github.com/fastygo/consistency/repository/redis"
	"github.com/fastygo/consistency/repository/sqlite"
	"github.com/fastygo/consistency/usecase"
	authUC "github.com/fastygo/consistency/usecase/auth"
	categoryUC "github.com/fastygo/consistency/usecase/category"
	"github.com/fastygo/consistency/usecase/dashboard"
	"github.com/fastygo/consistency/usecase/enrich"
	goalUC "github.com/fastygo/consistency/usecase/goal"
	profileUC "github.com/fastygo/consistency/usecase/profile"
	taskUC "github.com/fastygo/consistency/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.Listen(context.Background())
	defer cancel()

	store, storeCheck := openStore(appCtx, cfg, manager, zapLogger)

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.RegisterCloser("redis", redisClient.Close)

	mon := monitor.New(storeCheck, monitor.RedisCheck(redisClient), 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	loc, _ := cfg.Location()
	clock := usecase.NewClock(loc)

	feed := notify.NewFeed(cfg.Board.FeedCapacity)
	notifier := notify.Multi(
		feed,
		notify.NewLogSink(zapLogger.Named("notifications")),
		notify.NewPublishSink(redisRepo.NewNotificationPublisher(redisClient, cfg.Redis.NotificationChannel), zapLogger),
	)

	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)
	resolver := categoryUC.New(store.Categories, zapLogger)
	deps := dashboard.Deps{
		Store:      store,
		Enricher:   enrich.New(store.Profiles, store.Categories, zapLogger),
		Categories: resolver,
		Goals:      goalUC.New(store.Goals, clock, notifier, zapLogger),
		Tasks:      taskUC.New(store.Tasks, resolver, notifier, zapLogger),
		Notifier:   notifier,
		Clock:      clock,
		Logger:     zapLogger,
	}

	registry := boardSvc.NewRegistry(func(identity domain.Identity) *dashboard.Board {
		return dashboard.New(identity, deps)
	}, zapLogger, boardSvc.Config{
		IdleTTL:       cfg.Session.BoardIdleTTL,
		SweepInterval: cfg.Session.SweepInterval,
	})
	registry.OnUserGone(feed.Forget)
	registry.Start()
	manager.Register("boards", registry.Stop)

	authUseCase := authUC.New(store.Profiles, sessionRepo, zapLogger)
	authUseCase.OnSignOut(func(_ context.Context, identity domain.Identity) {
		registry.Release(identity.SessionID)
	})
	profileUseCase := profileUC.New(store.Profiles, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.Session.TTL),
		Profile: apiHandler.NewProfileHandler(profileUseCase, authUseCase, ctxAdapter, zapLogger),
		Board:   apiHandler.NewBoardHandler(authUseCase, registry, feed, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()
	zapLogger.Info("shutting down")

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openStore connects the configured remote store and registers its teardown.
func openStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) (repository.Store, monitor.Check) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		db, err := sqliteInfra.Open(cfg.SQLite.Path, zapLogger)
		if err != nil {
			zapLogger.Fatal("sqlite open failed", zap.Error(err))
		}
		if cfg.Migrations.Enabled {
			if err := sqlite.Migrate(db); err != nil {
				zapLogger.Fatal("sqlite migrations failed", zap.Error(err))
			}
		}
		manager.RegisterCloser("sqlite", func() error { return sqliteInfra.Close(db) })
		return sqlite.NewStore(db), monitor.SQLiteCheck(db)

	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(context.Context) error {
			pgInfra.Close(pool, zapLogger)
			return nil
		})
		return postgres.NewStore(pool), monitor.PostgresCheck(pool)
	}
}
