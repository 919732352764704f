package repository

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// Attempt is one delivery attempt, kept for reporting.
type Attempt struct {
	ID        string    `json:"id" db:"id"`
	EntityID  int64     `json:"entity_id" db:"entity_id"`
	Kind      string    `json:"kind" db:"kind"`
	Address   string    `json:"address" db:"address"`
	Status    string    `json:"status" db:"status"` // sent | failed
	Error     string    `json:"error,omitempty" db:"error"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AttemptsRepository records and lists delivery attempts. Reporting is
// best-effort; a failing insert never blocks the outreach cycle.
type AttemptsRepository interface {
	Insert(ctx context.Context, a Attempt) error
	List(ctx context.Context, kind, status string, limit, offset int) ([]Attempt, error)
}

// ---- ClickHouse ----

type chAttemptsRepository struct {
	ch *sqlx.DB
}

func NewCHAttemptsRepository(ch *sqlx.DB) AttemptsRepository {
	return &chAttemptsRepository{ch: ch}
}

func (r *chAttemptsRepository) Insert(ctx context.Context, a Attempt) error {
	const q = `
		INSERT INTO jobpulse.attempts (id, entity_id, kind, address, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.ch.ExecContext(ctx, q, a.ID, a.EntityID, a.Kind, a.Address, a.Status, a.Error, a.CreatedAt)
	return err
}

func (r *chAttemptsRepository) List(ctx context.Context, kind, status string, limit, offset int) ([]Attempt, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT id, entity_id, kind, address, status, error, created_at
		FROM jobpulse.attempts
		WHERE 1 = 1
	`
	args := []any{}

	if kind != "" {
		q += " AND kind = ?"
		args = append(args, kind)
	}
	if status != "" {
		q += " AND status = ?"
		args = append(args, status)
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []Attempt
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// ---- In-memory fallback ----

// MemoryAttemptsRepository keeps the most recent attempts in a bounded ring.
// Used when no ClickHouse DSN is configured.
type MemoryAttemptsRepository struct {
	mu       sync.Mutex
	attempts []Attempt
	max      int
}

func NewMemoryAttemptsRepository(max int) *MemoryAttemptsRepository {
	if max <= 0 {
		max = 1000
	}
	return &MemoryAttemptsRepository{max: max}
}

func (r *MemoryAttemptsRepository) Insert(_ context.Context, a Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.attempts = append(r.attempts, a)
	if len(r.attempts) > r.max {
		r.attempts = r.attempts[len(r.attempts)-r.max:]
	}
	return nil
}

func (r *MemoryAttemptsRepository) List(_ context.Context, kind, status string, limit, offset int) ([]Attempt, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Attempt
	skipped := 0
	for i := len(r.attempts) - 1; i >= 0 && len(out) < limit; i-- {
		a := r.attempts[i]
		if kind != "" && a.Kind != kind {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
