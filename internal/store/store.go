// Package store owns the canonical entity set: admission with deduplication,
// status transitions, and durability through a storage backend. One mutex
// guards the identity index and the records together; checking a key and
// inserting it never interleave with another admission.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jobpulse/jobpulse/internal/identity"
	"github.com/jobpulse/jobpulse/internal/model"
	"github.com/jobpulse/jobpulse/internal/storage"
)

var (
	ErrUnknownEntity    = errors.New("store: unknown entity")
	ErrAlreadyContacted = errors.New("store: entity already contacted")
)

// Statistics is a read-only aggregation over the current in-memory set.
type Statistics struct {
	Leads               StatusCounts   `json:"leads"`
	Companies           StatusCounts   `json:"companies"`
	ByPlatform          map[string]int `json:"by_platform"`
	BySource            map[string]int `json:"by_source"`
	DuplicatesPrevented int            `json:"duplicates_prevented"`
}

type StatusCounts struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Contacted int `json:"contacted"`
}

// Store is the single-writer record set. All mutation funnels through mu.
type Store struct {
	mu       sync.Mutex
	backend  storage.Backend
	index    *identity.Index
	entities []model.Entity
	byID     map[int64]int
	nextID   int64
	dupes    int

	now func() time.Time
}

func New(backend storage.Backend) *Store {
	return &Store{
		backend: backend,
		index:   identity.NewIndex(),
		byID:    make(map[int64]int),
		nextID:  1,
		now:     time.Now,
	}
}

// Load reconstructs the entity set and the identity index from the backend.
// No prior state is not an error; the store simply starts empty.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok, err := s.backend.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("store: load: %w", err)
	}
	if !ok {
		return nil
	}

	s.entities = snap.Entities
	s.index = identity.NewIndex()
	s.byID = make(map[int64]int, len(snap.Entities))
	s.nextID = 1
	for i, e := range s.entities {
		s.index.Insert(e.IdentityKey)
		s.byID[e.ID] = i
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}
	return nil
}

// Admit runs the admission critical section: key lookup, index insert, id
// assignment, and the synchronous append all happen under one lock. It
// returns false for a duplicate. An append-log failure does not undo the
// in-memory admission; the entity is durable at the next checkpoint.
func (s *Store) Admit(e model.Entity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := identity.KeyFor(e)
	if s.index.Has(key) {
		s.dupes++
		return false, nil
	}

	e.IdentityKey = key
	e.ID = s.nextID
	e.Status = model.StatusNew
	e.Discovered = s.now()

	s.index.Insert(key)
	s.nextID++
	s.byID[e.ID] = len(s.entities)
	s.entities = append(s.entities, e)

	if err := s.backend.Append(e); err != nil {
		return true, fmt.Errorf("store: append: %w", err)
	}
	return true, nil
}

// MarkContacted transitions new -> contacted. The transition is forward-only;
// marking a contacted or unknown entity reports an error and changes nothing.
func (s *Store) MarkContacted(id int64, via string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return ErrUnknownEntity
	}
	if s.entities[i].Status == model.StatusContacted {
		return ErrAlreadyContacted
	}

	now := s.now()
	s.entities[i].Status = model.StatusContacted
	s.entities[i].ContactedAt = &now
	s.entities[i].ContactedVia = via

	if err := s.backend.Append(s.entities[i]); err != nil {
		return fmt.Errorf("store: append contact mark: %w", err)
	}
	return nil
}

// ListNew returns, in admission order, entities of the given kind with
// status new, up to limit (0 = no cap), matching the optional filter.
func (s *Store) ListNew(kind model.Kind, limit int, filter func(model.Entity) bool) []model.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Entity
	for _, e := range s.entities {
		if e.Kind != kind || e.Status != model.StatusNew {
			continue
		}
		if filter != nil && !filter(e) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Get returns a copy of the entity with the given id.
func (s *Store) Get(id int64) (model.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return model.Entity{}, false
	}
	return s.entities[i], true
}

func (s *Store) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Statistics{
		ByPlatform: make(map[string]int),
		BySource:   make(map[string]int),
	}
	for _, e := range s.entities {
		var c *StatusCounts
		if e.Kind == model.KindCompany {
			c = &stats.Companies
		} else {
			c = &stats.Leads
			platform := e.Platform
			if platform == "" {
				platform = "unknown"
			}
			stats.ByPlatform[platform]++
		}
		c.Total++
		switch e.Status {
		case model.StatusContacted:
			c.Contacted++
		default:
			c.New++
		}
		stats.BySource[e.SourceTag]++
	}
	stats.DuplicatesPrevented = s.dupes
	return stats
}

// Save checkpoints the full state. A failing save propagates; the in-memory
// state stays valid and can be retried.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := storage.Snapshot{
		Entities: make([]model.Entity, len(s.entities)),
		Keys:     make([]string, 0, len(s.entities)),
		SavedAt:  s.now(),
	}
	copy(snap.Entities, s.entities)
	for _, e := range s.entities {
		snap.Keys = append(snap.Keys, e.IdentityKey)
	}

	if err := s.backend.SaveSnapshot(snap); err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}
