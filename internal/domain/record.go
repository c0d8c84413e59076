package domain

import "time"

// Outcome is the terminal result of one order sync. Immutable once built.
type Outcome struct {
	RemoteOrderID int64 `json:"remote_order_id"`
	// Created is true when this sync created the remote order, false when a
	// pre-existing match was found.
	Created bool `json:"created"`
}

const (
	SyncStatusOK     = "ok"
	SyncStatusFailed = "failed"
)

// SyncRecord is the journaled outcome of a sync attempt, keyed by the order
// reference. Only terminal states are written.
type SyncRecord struct {
	Reference     string    `json:"reference"`
	RemoteOrderID int64     `json:"remote_order_id"`
	Created       bool      `json:"created"`
	Status        string    `json:"status"`
	Error         string    `json:"error,omitempty"`
	SyncedAt      time.Time `json:"synced_at"`
}
