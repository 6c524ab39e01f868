package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-rbac-service/internal/config"
	"go-rbac-service/internal/database"
	"go-rbac-service/internal/handler"
	"go-rbac-service/internal/middleware"
	"go-rbac-service/internal/repository"
	"go-rbac-service/internal/router"
	"go-rbac-service/internal/service"
)

type App struct {
	server *http.Server
	db     *database.DB
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool, cfg.DBOpTimeout)
	rbacRepo := repository.NewRBACRepository(pool, cfg.DBOpTimeout)
	itemRepo := repository.NewItemRepository(pool, cfg.DBOpTimeout)
	slog.Info("database ready")

	tokenService := service.NewTokenService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, tokenService, cfg.BcryptCost, cfg.JWTAccessTTL)
	rbacService := service.NewRBACService(rbacRepo)
	itemService := service.NewItemService(itemRepo)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, rbacService)
	authHandler := handler.NewAuthHandler(authService)
	rbacHandler := handler.NewRBACHandler(rbacService)
	itemHandler := handler.NewItemHandler(itemService)

	appRouter := router.New(cfg, authMiddleware, authHandler, rbacHandler, itemHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.db.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.db.Close()

	slog.Info("server stopped")
	return nil
}
