package sync

import (
	"sync"
	"time"

	"techstore/internal/models"
)

// state is the orchestrator-owned run state. It replaces a module-level
// running flag so handlers receive it by injection and tests can run
// orchestrators side by side.
type state struct {
	mu          sync.Mutex
	running     bool
	lastStatus  string
	lastRunID   int64
	startedAt   *time.Time
	completedAt *time.Time
}

// StateSnapshot is a point-in-time copy safe to hand to HTTP handlers.
type StateSnapshot struct {
	Running     bool       `json:"running"`
	LastStatus  string     `json:"last_status"`
	LastRunID   int64      `json:"last_run_id,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func newState() *state {
	return &state{lastStatus: "idle"}
}

// tryStart acquires the running flag. Returns false when a run is
// already in flight.
func (s *state) tryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	now := time.Now()
	s.running = true
	s.lastStatus = models.SyncStatusRunning
	s.startedAt = &now
	s.completedAt = nil
	return true
}

func (s *state) setRunID(id int64) {
	s.mu.Lock()
	s.lastRunID = id
	s.mu.Unlock()
}

func (s *state) finish(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.running = false
	s.lastStatus = status
	s.completedAt = &now
}

func (s *state) snapshot() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateSnapshot{
		Running:     s.running,
		LastStatus:  s.lastStatus,
		LastRunID:   s.lastRunID,
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
	}
}
