package quota

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, limit int) (*Tracker, *time.Time) {
	t.Helper()

	fs, err := NewFileStore(filepath.Join(t.TempDir(), "quota.json"))
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(limit, fs)
	tr.now = func() time.Time { return now }
	require.NoError(t, tr.Load())
	return tr, &now
}

func TestQuotaMonotonicWithinWindow(t *testing.T) {
	tr, _ := newTestTracker(t, 5)

	for i := 0; i < 5; i++ {
		require.True(t, tr.MayProceed(), "attempt %d should be allowed", i)
		tr.Record(true)
	}

	assert.False(t, tr.MayProceed())
	assert.Equal(t, 5, tr.Statistics().DailyCount)
}

func TestQuotaChargedOnFailureToo(t *testing.T) {
	tr, _ := newTestTracker(t, 2)

	require.True(t, tr.MayProceed())
	tr.Record(false)
	require.True(t, tr.MayProceed())
	tr.Record(false)

	assert.False(t, tr.MayProceed())

	stats := tr.Statistics()
	assert.Equal(t, 2, stats.DailyCount)
	assert.Equal(t, 0, stats.Sent)
	assert.Equal(t, 2, stats.Failed)
}

func TestQuotaResetsOnDayRollover(t *testing.T) {
	tr, now := newTestTracker(t, 2)

	tr.Record(true)
	tr.Record(true)
	require.False(t, tr.MayProceed())

	*now = now.Add(24 * time.Hour)

	assert.True(t, tr.MayProceed())
	assert.Equal(t, 0, tr.Statistics().DailyCount)
	// Lifetime counters survive the rollover.
	assert.Equal(t, 2, tr.Statistics().Sent)
}

func TestQuotaStateSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quota.json")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	fs, err := NewFileStore(path)
	require.NoError(t, err)

	tr := NewTracker(3, fs)
	tr.now = func() time.Time { return now }
	require.NoError(t, tr.Load())

	tr.Record(true)
	tr.Record(false)

	fs2, err := NewFileStore(path)
	require.NoError(t, err)

	tr2 := NewTracker(3, fs2)
	tr2.now = func() time.Time { return now }
	require.NoError(t, tr2.Load())

	stats := tr2.Statistics()
	assert.Equal(t, 2, stats.DailyCount)
	assert.Equal(t, 1, stats.Sent)
	assert.Equal(t, 1, stats.Failed)
	assert.True(t, tr2.MayProceed())
}

func TestQuotaMissingStateStartsFresh(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	tr := NewTracker(1, fs)
	require.NoError(t, tr.Load())
	assert.True(t, tr.MayProceed())
}

func TestSuccessRate(t *testing.T) {
	tr, _ := newTestTracker(t, 10)

	tr.Record(true)
	tr.Record(true)
	tr.Record(true)
	tr.Record(false)

	assert.InDelta(t, 75.0, tr.Statistics().SuccessRate, 0.01)
}
