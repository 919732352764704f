package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jobpulse/jobpulse/internal/identity"
	"github.com/jobpulse/jobpulse/internal/model"
)

// FileBackend persists the snapshot as a JSON document and admissions as a
// JSON-lines append log. The log is flushed per entity so a crash between
// checkpoints loses at most the entities admitted since the last flush.
type FileBackend struct {
	snapshotPath string
	appendPath   string
	log          *os.File
}

func NewFileBackend(snapshotPath, appendPath string) (*FileBackend, error) {
	if snapshotPath == "" {
		return nil, errors.New("storage: empty snapshot path")
	}
	if err := os.MkdirAll(filepath.Dir(snapshotPath), 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir: %w", err)
	}

	b := &FileBackend{snapshotPath: snapshotPath, appendPath: appendPath}
	if appendPath != "" {
		if err := os.MkdirAll(filepath.Dir(appendPath), 0o755); err != nil {
			return nil, fmt.Errorf("storage: mkdir: %w", err)
		}
		f, err := os.OpenFile(appendPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("storage: open append log: %w", err)
		}
		b.log = f
	}
	return b, nil
}

func (b *FileBackend) Append(e model.Entity) error {
	if b.log == nil {
		return nil
	}
	line, err := json.Marshal(e)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	if _, err := b.log.Write(line); err != nil {
		return fmt.Errorf("storage: append: %w", err)
	}
	return b.log.Sync()
}

// SaveSnapshot writes the snapshot atomically (temp file + rename).
func (b *FileBackend) SaveSnapshot(s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := b.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, b.snapshotPath); err != nil {
		return fmt.Errorf("storage: rename snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the snapshot and replays the append log over it, so
// admissions and contact marks recorded after the last checkpoint survive a
// crash. Missing files mean no prior state.
func (b *FileBackend) LoadSnapshot() (Snapshot, bool, error) {
	var s Snapshot

	data, err := os.ReadFile(b.snapshotPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// fall through to log replay
	case err != nil:
		return Snapshot{}, false, fmt.Errorf("storage: read snapshot: %w", err)
	default:
		if err := json.Unmarshal(data, &s); err != nil {
			return Snapshot{}, false, fmt.Errorf("storage: decode snapshot: %w", err)
		}
	}

	replayed, err := b.replayLog(&s)
	if err != nil {
		return Snapshot{}, false, err
	}

	if len(s.Entities) == 0 && !replayed {
		return Snapshot{}, false, nil
	}
	return s, true, nil
}

func (b *FileBackend) replayLog(s *Snapshot) (bool, error) {
	if b.appendPath == "" {
		return false, nil
	}
	f, err := os.Open(b.appendPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: open append log: %w", err)
	}
	defer f.Close()

	known := make(map[string]int, len(s.Entities))
	for i, e := range s.Entities {
		known[e.IdentityKey] = i
	}

	replayed := false
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var e model.Entity
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue // torn tail line after a crash
		}
		key := e.IdentityKey
		if key == "" {
			key = identity.KeyFor(e)
			e.IdentityKey = key
		}
		if i, ok := known[key]; ok {
			// Status is forward-only, so a logged contact mark may upgrade
			// a snapshot entity but never regress one.
			if s.Entities[i].Status == model.StatusNew && e.Status == model.StatusContacted {
				s.Entities[i].Status = e.Status
				s.Entities[i].ContactedAt = e.ContactedAt
				s.Entities[i].ContactedVia = e.ContactedVia
				replayed = true
			}
			continue
		}
		known[key] = len(s.Entities)
		s.Entities = append(s.Entities, e)
		s.Keys = append(s.Keys, key)
		replayed = true
	}
	if err := sc.Err(); err != nil {
		return replayed, fmt.Errorf("storage: scan append log: %w", err)
	}
	return replayed, nil
}

func (b *FileBackend) Close() error {
	if b.log != nil {
		return b.log.Close()
	}
	return nil
}
