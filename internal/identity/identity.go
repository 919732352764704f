// Package identity computes deduplication keys and tracks the set of keys
// already admitted. The index is rebuilt from the record store at startup,
// so it is never persisted on its own.
package identity

import (
	"strings"

	"github.com/jobpulse/jobpulse/internal/model"
)

// KeyFor derives the stable deduplication key for an entity.
// Leads key on their url; companies on name plus website. A company seen
// first without a website and later with one keys differently and is kept
// as a second record.
func KeyFor(e model.Entity) string {
	if e.Kind == model.KindCompany {
		return strings.ToLower(strings.TrimSpace(e.Name)) + "|" + strings.ToLower(strings.TrimSpace(e.Website))
	}
	return strings.ToLower(strings.TrimSpace(e.URL))
}

// Index is the set of admitted identity keys. It is not safe for concurrent
// use on its own; the record store serializes access under its admission lock.
type Index struct {
	seen map[string]struct{}
}

func NewIndex() *Index {
	return &Index{seen: make(map[string]struct{})}
}

func (i *Index) Has(key string) bool {
	_, ok := i.seen[key]
	return ok
}

// Insert is idempotent; inserting a present key is a no-op.
func (i *Index) Insert(key string) {
	i.seen[key] = struct{}{}
}

func (i *Index) Len() int { return len(i.seen) }
