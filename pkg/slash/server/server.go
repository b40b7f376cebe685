package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/slashurl/slash/pkg/slash/admin"
	"github.com/slashurl/slash/pkg/slash/auth"
	"github.com/slashurl/slash/pkg/slash/cache"
	"github.com/slashurl/slash/pkg/slash/config"
	"github.com/slashurl/slash/pkg/slash/database"
	"github.com/slashurl/slash/pkg/slash/importexport"
	"github.com/slashurl/slash/pkg/slash/links"
	"github.com/slashurl/slash/pkg/slash/middleware"
	"github.com/slashurl/slash/pkg/slash/redirect"
	"github.com/slashurl/slash/pkg/slash/stats"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Options are the collaborators the HTTP server is built from
type Options struct {
	Config *config.Config
	DB     *gorm.DB
	// Cache is optional; nil disables the stats cache.
	Cache  cache.Cache
	Logger *slog.Logger
}

// HealthResponse reports service and datastore health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// New assembles the gin engine with every route
func New(opts Options) (*gin.Engine, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	keyHash, err := auth.HashKey(cfg.Auth.AdminKey)
	if err != nil {
		return nil, fmt.Errorf("hash admin key: %w", err)
	}
	tokens := auth.NewTokens([]byte(cfg.Auth.JWTSecret), cfg.Auth.SessionTTL)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	if len(cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health check endpoint
	r.GET("/health", healthHandler(opts.DB))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Session routes (public)
	authHandler := auth.NewHandler(keyHash, tokens, cfg.Auth.CookieSecure)
	authHandler.RegisterRoutes(r.Group("/auth"))

	// API routes (admin session required)
	api := r.Group("/api", auth.RequireAdmin(tokens))
	{
		linkService := links.NewService(opts.DB)
		links.NewHandler(linkService, cfg.App.BaseURL).RegisterRoutes(api)

		statsService := stats.NewService(opts.DB, opts.Cache, cfg.Cache.StatsTTL)
		stats.NewHandler(statsService).RegisterRoutes(api)

		importexport.NewHandler(opts.DB, linkService).RegisterRoutes(api)

		admin.NewHandler(opts.DB).RegisterRoutes(api.Group("/admin"))
	}

	registerStatic(r, cfg.Server.StaticDir, log)

	// Redirect routes (public, must be registered LAST to avoid conflicts)
	redirect.NewHandler(opts.DB).RegisterRoutes(r)

	return r, nil
}

// Health reports whether the service and its datastore are up
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "error"})
			return
		}
		c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
	}
}

// registerStatic serves the admin UI build from dir if it exists
func registerStatic(r *gin.Engine, dir string, log *slog.Logger) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
		log.Info("no admin UI build found, API only mode", "static_dir", dir)
		return
	}

	r.Static("/assets", filepath.Join(dir, "assets"))
	r.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))

	// SPA fallback - serve index.html for frontend routes
	indexHTML := filepath.Join(dir, "index.html")
	serveIndex := func(c *gin.Context) { c.File(indexHTML) }
	r.GET("/", serveIndex)
	r.GET("/admin", serveIndex)
	r.GET("/admin/*path", serveIndex)

	log.Info("serving admin UI", "static_dir", dir)
}
