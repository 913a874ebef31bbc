package sync

import (
	"context"
	"errors"
	"time"

	"techstore/internal/events"
	"techstore/internal/logger"
	"techstore/internal/models"
	"techstore/internal/services/woocommerce"

	"gorm.io/gorm"
)

var (
	// ErrSyncRunning signals a run request while another run holds the
	// flag; the caller gets a conflict, requests are not queued.
	ErrSyncRunning = errors.New("sync already running")
	// ErrNotConfigured signals missing remote credentials.
	ErrNotConfigured = errors.New("woocommerce credentials not configured")
)

// Orchestrator runs category then product reconciliation as one logical
// full sync and records each run in sync_logs. One run at a time,
// enforced by an in-memory flag. This assumes a single process
// instance; a scaled-out deployment needs an external lock instead.
type Orchestrator struct {
	db         *gorm.DB
	client     *woocommerce.Client
	bus        *events.Bus
	logger     *logger.Logger
	categories *CategoryReconciler
	products   *ProductReconciler

	state *state
}

// Result summarizes one completed run.
type Result struct {
	ProductsSynced   int                `json:"products_synced"`
	CategoriesSynced int                `json:"categories_synced"`
	Errors           []models.SyncError `json:"errors"`
	Duration         time.Duration      `json:"-"`
}

func NewOrchestrator(db *gorm.DB, client *woocommerce.Client, bus *events.Bus, logger *logger.Logger, siteID, siteName string) *Orchestrator {
	return &Orchestrator{
		db:         db,
		client:     client,
		bus:        bus,
		logger:     logger,
		categories: NewCategoryReconciler(db, logger),
		products:   NewProductReconciler(db, logger, siteID, siteName),
		state:      newState(),
	}
}

// State returns a snapshot of the orchestrator's run state for status
// endpoints.
func (o *Orchestrator) State() StateSnapshot {
	return o.state.snapshot()
}

// RecentRuns returns the latest run-log rows, newest first.
func (o *Orchestrator) RecentRuns(limit int) ([]models.SyncLog, error) {
	if limit <= 0 {
		limit = 10
	}
	var logs []models.SyncLog
	err := o.db.Order("started_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// TriggerAsync starts a full sync in the background and returns
// immediately. The actual outcome is visible only through the run log.
func (o *Orchestrator) TriggerAsync() error {
	if !o.client.IsConfigured() {
		return ErrNotConfigured
	}
	if !o.state.tryStart() {
		return ErrSyncRunning
	}

	go func() {
		if _, err := o.run(context.Background()); err != nil {
			o.logger.Error("Manual sync failed: %v", err)
		}
	}()

	return nil
}

// RunFullSync runs a full sync synchronously. Used by the scheduler and
// by tests; the HTTP trigger goes through TriggerAsync.
func (o *Orchestrator) RunFullSync(ctx context.Context) (*Result, error) {
	if !o.client.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if !o.state.tryStart() {
		return nil, ErrSyncRunning
	}
	return o.run(ctx)
}

// run executes the two phases. The caller must already hold the running
// flag via state.tryStart.
func (o *Orchestrator) run(ctx context.Context) (*Result, error) {
	start := time.Now()

	// The cache is cleared at run end regardless of outcome; a failed
	// run may still have written partial data.
	defer func() {
		o.bus.Publish(events.CategoryChanged, 0)
		o.bus.Publish(events.ProductChanged, 0)
		o.bus.Publish(events.SyncCompleted, 0)
	}()

	syncLog := models.SyncLog{SyncType: "full", Status: models.SyncStatusRunning}
	if err := o.db.Create(&syncLog).Error; err != nil {
		o.state.finish(models.SyncStatusFailed)
		return nil, err
	}
	o.state.setRunID(syncLog.ID)

	o.logger.Info("Starting full sync (run %d)...", syncLog.ID)

	result := &Result{}

	// Category phase. A failure here is recorded but never prevents the
	// product phase from attempting.
	categories, err := o.client.FetchCategories(ctx)
	if err != nil {
		o.logger.Error("Category fetch failed: %v", err)
		result.Errors = append(result.Errors, models.SyncError{Type: "categories", Error: err.Error()})
	} else {
		o.logger.Info("Fetched %d categories from WooCommerce", len(categories))
		synced, errs := o.categories.Reconcile(categories)
		result.CategoriesSynced = synced
		result.Errors = append(result.Errors, errs...)
	}

	// Product phase.
	products, err := o.client.FetchAllProducts(ctx, woocommerce.ProductFilters{Status: "publish"})
	if err != nil {
		o.logger.Error("Product fetch failed: %v", err)
		result.Errors = append(result.Errors, models.SyncError{Type: "products", Error: err.Error()})
	} else {
		o.logger.Info("Fetched %d products from WooCommerce", len(products))
		synced, errs := o.products.Reconcile(products)
		result.ProductsSynced = synced
		result.Errors = append(result.Errors, errs...)
	}

	result.Duration = time.Since(start)
	durationSecs := int(result.Duration.Seconds())
	completedAt := time.Now()

	if err := o.updateLog(syncLog.ID, models.SyncStatusCompleted, result, completedAt, durationSecs); err != nil {
		o.logger.Error("Failed to update sync log %d: %v", syncLog.ID, err)
		o.state.finish(models.SyncStatusFailed)
		return result, err
	}

	o.state.finish(models.SyncStatusCompleted)
	o.logger.Info("Full sync completed in %ds (%d products, %d categories, %d errors)",
		durationSecs, result.ProductsSynced, result.CategoriesSynced, len(result.Errors))

	return result, nil
}

func (o *Orchestrator) updateLog(id int64, status string, result *Result, completedAt time.Time, durationSecs int) error {
	record := models.SyncLog{
		Status:           status,
		ProductsSynced:   result.ProductsSynced,
		CategoriesSynced: result.CategoriesSynced,
		Errors:           result.Errors,
		CompletedAt:      &completedAt,
		DurationSeconds:  &durationSecs,
	}
	return o.db.Model(&models.SyncLog{}).Where("id = ?", id).
		Select("status", "products_synced", "categories_synced", "errors", "completed_at", "duration_seconds").
		Updates(&record).Error
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
