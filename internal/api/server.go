package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"techstore/internal/api/handlers"
	"techstore/internal/api/middleware"
	"techstore/internal/cache"
	"techstore/internal/config"
	"techstore/internal/database"
	"techstore/internal/events"
	"techstore/internal/logger"
	"techstore/internal/services/woocommerce"
	"techstore/internal/sync"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, c *cache.Cache, bus *events.Bus, wc *woocommerce.Client, orch *sync.Orchestrator) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.RequestID())

	// Initialize handlers
	productHandler := handlers.NewProductHandler(db.DB, c, logger)
	categoryHandler := handlers.NewCategoryHandler(db.DB, c, logger)
	syncHandler := handlers.NewSyncHandler(orch, logger)
	proxyHandler := handlers.NewProxyHandler(wc, logger)
	authHandler := handlers.NewAuthHandler(cfg, logger)
	adminProducts := handlers.NewAdminProductHandler(db.DB, c, bus, cfg, logger)
	adminCategories := handlers.NewAdminCategoryHandler(db.DB, bus, logger)
	adminImport := handlers.NewAdminImportHandler(db.DB, bus, logger, cfg.SiteID, cfg.SiteName)
	adminSettings := handlers.NewAdminSettingsHandler(db.DB, logger)

	// Health check
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Routes
	api := router.Group("/api")
	{
		// Catalog (local mirror)
		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/search", productHandler.Search)
			products.GET("/:id", productHandler.Get)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/tree", categoryHandler.Tree)
			categories.GET("/:id", categoryHandler.Get)
		}

		// Remote passthrough
		woo := api.Group("/woocommerce")
		{
			woo.GET("/products", proxyHandler.Products)
			woo.GET("/products/:id", proxyHandler.Product)
			woo.GET("/categories", proxyHandler.Categories)
		}

		// Sync
		syncGroup := api.Group("/sync")
		{
			syncGroup.POST("/products", syncHandler.Trigger)
			syncGroup.GET("/status", syncHandler.Status)
		}

		// Admin
		admin := api.Group("/admin")
		{
			admin.POST("/login", authHandler.Login)

			authed := admin.Group("")
			authed.Use(middleware.RequireAdmin(cfg.JWTSecret, logger))
			{
				authed.GET("/stats", adminProducts.Stats)

				authed.GET("/products", adminProducts.List)
				authed.GET("/products/:id", adminProducts.Get)
				authed.POST("/products", adminProducts.Create)
				authed.PUT("/products/:id", adminProducts.Update)
				authed.DELETE("/products/:id", adminProducts.Delete)
				authed.POST("/products/bulk-action", adminProducts.BulkAction)
				authed.POST("/upload/image", adminProducts.UploadImage)

				authed.GET("/categories", adminCategories.List)
				authed.POST("/categories", adminCategories.Create)
				authed.PUT("/categories/:id", adminCategories.Update)
				authed.DELETE("/categories/:id", adminCategories.Delete)

				authed.POST("/import/csv", adminImport.Upload)
				authed.GET("/import/status", adminImport.Status)

				authed.GET("/settings", adminSettings.Get)
				authed.PUT("/settings", adminSettings.Update)
			}
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Router exposes the Gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
