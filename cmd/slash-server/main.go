package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/slashurl/slash/pkg/slash/cache"
	"github.com/slashurl/slash/pkg/slash/config"
	"github.com/slashurl/slash/pkg/slash/database"
	"github.com/slashurl/slash/pkg/slash/logger"
	"github.com/slashurl/slash/pkg/slash/server"

	_ "github.com/slashurl/slash/api/swagger"
)

// @title Slash API
// @version 1.0
// @description Admin API for the Slash URL shortener: links, redirects and click statistics.

// @contact.name Slash Support
// @contact.url https://github.com/slashurl/slash

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /

// @securityDefinitions.apikey AdminSession
// @in cookie
// @name admin_session
// @description Session cookie set by POST /auth/login. A "Bearer {token}" Authorization header is also accepted.

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	// Connect to database
	db, err := database.Connect(database.Config{URL: cfg.Database.URL, Debug: cfg.Database.Debug})
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db, log); err != nil {
		return err
	}
	log.Info("database migrations completed", "dialect", database.Dialect(db))

	// Optional stats cache
	var statsCache cache.Cache
	if cfg.Cache.RedisURL != "" {
		statsCache, err = cache.NewRedis(context.Background(), cfg.Cache.RedisURL)
		if err != nil {
			log.Warn("stats cache disabled", "error", err)
			statsCache = nil
		} else {
			defer statsCache.Close()
			log.Info("stats cache enabled", "ttl", cfg.Cache.StatsTTL)
		}
	}

	router, err := server.New(server.Options{
		Config: cfg,
		DB:     db,
		Cache:  statsCache,
		Logger: log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting Slash server", "addr", srv.Addr, "base_url", cfg.App.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
