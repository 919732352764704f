// Package storage holds the durable backends the record store writes through.
// The store only depends on the Backend contract; file and MySQL
// implementations are interchangeable via config.
package storage

import (
	"time"

	"github.com/jobpulse/jobpulse/internal/model"
)

// Snapshot is the full persisted state: every entity in admission order plus
// the raw identity key set.
type Snapshot struct {
	Entities []model.Entity `json:"entities"`
	Keys     []string       `json:"identity_keys"`
	SavedAt  time.Time      `json:"saved_at"`
}

// Backend is the durable storage contract.
// Append is called synchronously at admission time; SaveSnapshot writes the
// wholesale state at checkpoints; LoadSnapshot returns ok=false when no prior
// state exists, which callers treat as "start empty".
type Backend interface {
	Append(e model.Entity) error
	SaveSnapshot(s Snapshot) error
	LoadSnapshot() (Snapshot, bool, error)
	Close() error
}
