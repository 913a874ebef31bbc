package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techstore/internal/api"
	"techstore/internal/cache"
	"techstore/internal/config"
	"techstore/internal/database"
	"techstore/internal/events"
	"techstore/internal/logger"
	"techstore/internal/services/woocommerce"
	"techstore/internal/sync"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Read cache and invalidation events
	store := cache.New(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	bus := events.NewBus()
	bus.Subscribe(func(evt events.Event) {
		switch evt.Type {
		case events.ProductChanged, events.CategoryChanged:
			store.Clear()
		}
	})

	// Optional Kafka mirror of catalog events
	if cfg.KafkaBrokers != "" {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
		publisher.Attach(bus)
		defer publisher.Close()
		logger.Info("Kafka event mirror enabled (brokers: %s)", cfg.KafkaBrokers)
	}

	// Remote client and sync pipeline
	wc := woocommerce.NewClient(cfg.WooCommerceBaseURL, cfg.WooCommerceConsumerKey, cfg.WooCommerceConsumerSecret, logger)
	orchestrator := sync.NewOrchestrator(db.DB, wc, bus, logger, cfg.SiteID, cfg.SiteName)

	if cfg.SyncEnabled && cfg.WooCommerceConfigured() {
		scheduler := sync.NewScheduler(orchestrator, logger,
			cfg.SyncIntervalHours,
			time.Duration(cfg.SyncStartupDelaySecs)*time.Second)
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		logger.Warn("Scheduled sync disabled (enabled=%v, configured=%v)", cfg.SyncEnabled, cfg.WooCommerceConfigured())
	}

	// Initialize API server
	server := api.New(cfg, logger, db, store, bus, wc, orchestrator)

	go func() {
		logger.Info("Starting API server on port " + cfg.APIPort)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Server shutdown error: %v", err)
	}
}
