package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/plumecms/plume/internal/adminpanel"
	"github.com/plumecms/plume/internal/app"
	"github.com/plumecms/plume/internal/auth"
	"github.com/plumecms/plume/internal/authz"
	"github.com/plumecms/plume/internal/blog"
	"github.com/plumecms/plume/internal/logadmin"
	logadminhttp "github.com/plumecms/plume/internal/logadmin/http"
	"github.com/plumecms/plume/internal/observability"
	"github.com/plumecms/plume/internal/platform/cache"
	"github.com/plumecms/plume/internal/platform/db"
	"github.com/plumecms/plume/internal/shared"
	"github.com/plumecms/plume/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "plume_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	userRepo := users.NewRepository(dbpool)
	userService := users.NewService(userRepo)

	sessionStore := auth.NewSessionStore(dbpool)
	authService := auth.NewService(userRepo, sessionStore)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	guard := authz.Middleware{Resolver: userService, Logger: logger}

	blogRepo := blog.NewRepository(dbpool)
	blogHandler := blog.NewHandler(logger, blogRepo, guard)

	registry := logadmin.NewRegistry(cfg.LogDir)
	reader := logadmin.NewReader(registry, logger)
	maintainer := logadmin.NewMaintainer(registry, logger)
	logAdminHandler := logadminhttp.NewHandler(logger, reader, maintainer, registry.Names())

	adminPanelHandler := adminpanel.NewHandler(logger, userService, blogRepo, registry)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		Guard:             guard,
		AuthHandler:       authHandler,
		BlogHandler:       blogHandler,
		LogAdminHandler:   logAdminHandler,
		AdminPanelHandler: adminPanelHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
