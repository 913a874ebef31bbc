package handlers

import (
	"net/http"
	"strconv"

	"techstore/internal/logger"
	"techstore/internal/sync"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	orchestrator *sync.Orchestrator
	logger       *logger.Logger
}

func NewSyncHandler(orchestrator *sync.Orchestrator, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Trigger starts a full sync in the background and returns immediately.
// The outcome is only visible through Status; the trigger response never
// reports it.
func (h *SyncHandler) Trigger(c *gin.Context) {
	h.logger.Info("Manual sync triggered via API")

	switch err := h.orchestrator.TriggerAsync(); err {
	case nil:
		c.JSON(http.StatusOK, gin.H{
			"message": "Sync started",
			"status":  "running",
		})
	case sync.ErrSyncRunning:
		c.JSON(http.StatusConflict, gin.H{"error": "A sync is already running"})
	case sync.ErrNotConfigured:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WooCommerce credentials are not configured"})
	default:
		h.logger.Error("Error triggering sync: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger sync"})
	}
}

// Status returns the live orchestrator state plus the most recent run
// logs.
func (h *SyncHandler) Status(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	runs, err := h.orchestrator.RecentRuns(limit)
	if err != nil {
		h.logger.Error("Error fetching sync status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sync status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state": h.orchestrator.State(),
		"runs":  runs,
	})
}
