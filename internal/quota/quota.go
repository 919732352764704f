// Package quota enforces the rolling daily cap on outbound contact attempts.
// The window rolls lazily on the first check after a calendar-day boundary,
// and every authorized attempt consumes quota whether or not delivery
// succeeded.
package quota

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jobpulse/jobpulse/internal/logger"
)

// State is the persisted quota window plus lifetime send counters.
type State struct {
	DailyCount int    `json:"daily_count"`
	WindowDate string `json:"window_date"` // YYYY-MM-DD
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
}

// StateStore persists quota state on every attempt so a crash mid-cycle
// never under-counts usage on restart.
type StateStore interface {
	Load() (State, bool, error)
	Save(State) error
}

// Tracker owns the daily counter. Safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	state      State
	dailyLimit int
	store      StateStore

	now func() time.Time
}

func NewTracker(dailyLimit int, store StateStore) *Tracker {
	if dailyLimit <= 0 {
		dailyLimit = 25
	}
	return &Tracker{
		dailyLimit: dailyLimit,
		store:      store,
		now:        time.Now,
	}
}

// Load restores persisted quota state; missing state means a fresh window.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.store == nil {
		return nil
	}
	st, ok, err := t.store.Load()
	if err != nil {
		return err
	}
	if ok {
		t.state = st
	}
	return nil
}

// MayProceed rolls the window if the calendar day changed, then answers
// whether one more attempt is allowed.
func (t *Tracker) MayProceed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollWindow()
	return t.state.DailyCount < t.dailyLimit
}

// Record charges one attempt against the window and persists the state.
// The attempt consumes quota regardless of delivery outcome; success only
// moves the lifetime counters.
func (t *Tracker) Record(success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollWindow()
	t.state.DailyCount++
	if success {
		t.state.Sent++
	} else {
		t.state.Failed++
	}

	if t.store != nil {
		if err := t.store.Save(t.state); err != nil {
			logger.L().Error("quota state save failed", zap.Error(err))
		}
	}
}

func (t *Tracker) rollWindow() {
	today := t.now().Format("2006-01-02")
	if t.state.WindowDate != today {
		t.state.WindowDate = today
		t.state.DailyCount = 0
	}
}

// Statistics reports the current window and lifetime counters.
type Statistics struct {
	DailyCount  int     `json:"daily_count"`
	DailyLimit  int     `json:"daily_limit"`
	WindowDate  string  `json:"window_date"`
	Sent        int     `json:"sent"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

func (t *Tracker) Statistics() Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollWindow()
	s := Statistics{
		DailyCount: t.state.DailyCount,
		DailyLimit: t.dailyLimit,
		WindowDate: t.state.WindowDate,
		Sent:       t.state.Sent,
		Failed:     t.state.Failed,
	}
	if total := s.Sent + s.Failed; total > 0 {
		s.SuccessRate = float64(s.Sent) / float64(total) * 100
	}
	return s
}
