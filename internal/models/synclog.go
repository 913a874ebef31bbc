package models

import (
	"time"
)

const (
	SyncStatusRunning   = "running"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// SyncLog is an append-only record of one orchestrator run. Once a run
// leaves the running state the row is never mutated again.
type SyncLog struct {
	ID               int64       `json:"id" gorm:"primaryKey"`
	SyncType         string      `json:"sync_type" gorm:"not null"`
	Status           string      `json:"status" gorm:"not null"`
	ProductsSynced   int         `json:"products_synced" gorm:"default:0"`
	CategoriesSynced int         `json:"categories_synced" gorm:"default:0"`
	Errors           []SyncError `json:"errors" gorm:"serializer:json"`
	StartedAt        time.Time   `json:"started_at" gorm:"autoCreateTime;index"`
	CompletedAt      *time.Time  `json:"completed_at"`
	DurationSeconds  *int        `json:"duration_seconds"`
}

// SyncError records a single failed record (or a failed phase) without
// aborting the rest of the run.
type SyncError struct {
	Type     string `json:"type"`
	RemoteID int64  `json:"remote_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Error    string `json:"error"`
}
