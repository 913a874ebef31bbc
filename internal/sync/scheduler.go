package sync

import (
	"context"
	"fmt"
	"time"

	"techstore/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler drives recurring full syncs plus one delayed run at process
// start, so the first sync does not race database readiness.
type Scheduler struct {
	orchestrator *Orchestrator
	logger       *logger.Logger
	cron         *cron.Cron
	startupDelay time.Duration
	startupTimer *time.Timer
}

func NewScheduler(orchestrator *Orchestrator, logger *logger.Logger, intervalHours int, startupDelay time.Duration) *Scheduler {
	s := &Scheduler{
		orchestrator: orchestrator,
		logger:       logger,
		cron:         cron.New(),
		startupDelay: startupDelay,
	}

	if intervalHours <= 0 {
		intervalHours = 6
	}
	spec := fmt.Sprintf("0 */%d * * *", intervalHours)

	// AddFunc only fails on a malformed spec, which would be a
	// programmer error here.
	_, _ = s.cron.AddFunc(spec, func() {
		s.logger.Info("Scheduled sync triggered")
		s.runOnce()
	})

	return s
}

func (s *Scheduler) Start() {
	s.cron.Start()

	s.startupTimer = time.AfterFunc(s.startupDelay, func() {
		s.logger.Info("Running initial sync...")
		s.runOnce()
	})

	s.logger.Info("Sync scheduler started (initial run in %s)", s.startupDelay)
}

func (s *Scheduler) Stop() {
	if s.startupTimer != nil {
		s.startupTimer.Stop()
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Sync scheduler stopped")
}

func (s *Scheduler) runOnce() {
	_, err := s.orchestrator.RunFullSync(context.Background())
	switch err {
	case nil:
	case ErrSyncRunning:
		s.logger.Warn("Skipping scheduled sync: a sync is already running")
	case ErrNotConfigured:
		s.logger.Warn("Skipping scheduled sync: WooCommerce credentials are not configured")
	default:
		s.logger.Error("Scheduled sync failed: %v", err)
	}
}
