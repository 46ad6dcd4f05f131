package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/api/dispatch"
	apihttp "github.com/jeerawut3427/personal-system/internal/api/http"
	"github.com/jeerawut3427/personal-system/internal/api/http/handlers"
	"github.com/jeerawut3427/personal-system/internal/auth"
	"github.com/jeerawut3427/personal-system/internal/config"
	"github.com/jeerawut3427/personal-system/internal/events"
	"github.com/jeerawut3427/personal-system/internal/observability"
	"github.com/jeerawut3427/personal-system/internal/persistence"
	"github.com/jeerawut3427/personal-system/internal/repository"
	"github.com/jeerawut3427/personal-system/internal/service"
	"github.com/jeerawut3427/personal-system/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(postgres.PoolHandle())
	personnelRepo := repository.NewPersonnelRepository(postgres.PoolHandle())
	reportRepo := repository.NewReportRepository(postgres.PoolHandle())
	sessionRepo := repository.NewSessionRepository(postgres.PoolHandle())

	sessions := auth.NewSessionManager(sessionRepo, cfg.Auth.SessionTTL(), cfg.Auth.TokenLength)
	throttle := auth.NewLoginThrottle(cfg.Throttle.MaxAttempts, cfg.Throttle.LockoutWindow())

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Sessions:   sessions,
		Throttle:   throttle,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(userRepo, dispatcher, logger, cfg.Bootstrap.AdminUsername)
	personnelService := service.NewPersonnelService(personnelRepo, dispatcher)
	reportService := service.NewReportService(reportRepo, userRepo, dispatcher)
	dashboardService := service.NewDashboardService(reportRepo, personnelRepo)

	if err := userService.EnsureBootstrapAdmin(ctx, cfg.Bootstrap.AdminPassword); err != nil {
		logger.Fatal("bootstrap admin seeding failed", zap.Error(err))
	}

	if cfg.Audit.Enabled {
		auditService := service.NewAuditService(dispatcher, redis.Client, logger, cfg.Audit)
		worker.StartAuditWorker(auditService)
	}

	metrics := observability.NewMetrics()

	registry := dispatch.NewRegistry(dispatch.DefaultCommands(dispatch.CommandDeps{
		Auth:       authService,
		Users:      userService,
		Personnel:  personnelService,
		Reports:    reportService,
		Dashboard:  dashboardService,
		CookieName: cfg.Auth.CookieName,
	})...)
	actionDispatcher := dispatch.NewDispatcher(registry, sessions, metrics, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})

	apihttp.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, postgres, redis),
		API:    handlers.NewAPIHandler(actionDispatcher, cfg.Auth, logger),
	})

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
