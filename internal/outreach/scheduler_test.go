package outreach

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobpulse/jobpulse/internal/model"
	"github.com/jobpulse/jobpulse/internal/quota"
	"github.com/jobpulse/jobpulse/internal/repository"
	"github.com/jobpulse/jobpulse/internal/storage"
	"github.com/jobpulse/jobpulse/internal/store"
)

type stubChannel struct {
	sent    []string
	failFor map[string]bool
}

func (c *stubChannel) Send(_ context.Context, address, _, _ string) error {
	c.sent = append(c.sent, address)
	if c.failFor[address] {
		return errors.New("smtp refused")
	}
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	backend, err := storage.NewFileBackend(filepath.Join(t.TempDir(), "records.json"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	s := store.New(backend)
	require.NoError(t, s.Load())
	return s
}

func newTestQuota(t *testing.T, limit int) *quota.Tracker {
	t.Helper()
	fs, err := quota.NewFileStore(filepath.Join(t.TempDir(), "quota.json"))
	require.NoError(t, err)

	tr := quota.NewTracker(limit, fs)
	require.NoError(t, tr.Load())
	return tr
}

func newTestScheduler(t *testing.T, st *store.Store, limit int) (*Scheduler, *stubChannel) {
	t.Helper()
	ch := &stubChannel{failFor: map[string]bool{}}
	s := NewScheduler(st, newTestQuota(t, limit), ch, repository.NewMemoryAttemptsRepository(100))
	s.CoolDown = 0
	return s, ch
}

func admitLead(t *testing.T, st *store.Store, url, content string) {
	t.Helper()
	ok, err := st.Admit(model.Entity{Kind: model.KindLead, URL: url, Content: content})
	require.NoError(t, err)
	require.True(t, ok)
}

func admitCompany(t *testing.T, st *store.Store, name string, emails ...string) int64 {
	t.Helper()
	ok, err := st.Admit(model.Entity{Kind: model.KindCompany, Name: name, CandidateEmails: emails})
	require.NoError(t, err)
	require.True(t, ok)
	got := st.ListNew(model.KindCompany, 0, nil)
	return got[len(got)-1].ID
}

func TestBatchCapHonored(t *testing.T) {
	st := newTestStore(t)
	for i := 0; i < 10; i++ {
		admitLead(t, st, string(rune('a'+i)), "reach me at careers@acme.com")
	}

	s, ch := newTestScheduler(t, st, 100)
	sum := s.RunCycle(context.Background())

	assert.Equal(t, 5, sum.LeadsSent)
	assert.Len(t, ch.sent, 5)
	assert.Len(t, st.ListNew(model.KindLead, 0, nil), 5)
}

func TestQuotaExhaustionStopsBatch(t *testing.T) {
	st := newTestStore(t)
	for i := 0; i < 5; i++ {
		admitLead(t, st, string(rune('a'+i)), "mail careers@acme.com")
	}

	s, ch := newTestScheduler(t, st, 2)
	sum := s.RunCycle(context.Background())

	assert.Equal(t, 2, sum.LeadsSent)
	assert.True(t, sum.QuotaStopped)
	assert.Len(t, ch.sent, 2)
	// Deferred candidates stay new for the next cycle.
	assert.Len(t, st.ListNew(model.KindLead, 0, nil), 3)
}

func TestFailedSendLeavesStatusNewAndChargesQuota(t *testing.T) {
	st := newTestStore(t)
	admitLead(t, st, "a", "mail careers@bad.com")
	admitLead(t, st, "b", "mail careers@good.com")

	s, ch := newTestScheduler(t, st, 10)
	ch.failFor["careers@bad.com"] = true

	sum := s.RunCycle(context.Background())

	assert.Equal(t, 1, sum.LeadsSent)
	assert.Equal(t, 1, sum.Failed)

	remaining := st.ListNew(model.KindLead, 0, nil)
	require.Len(t, remaining, 1)
	assert.Equal(t, "a", remaining[0].URL)

	// The failed attempt consumed quota too.
	assert.Equal(t, 2, s.Quota.Statistics().DailyCount)
}

func TestLeadWithoutAddressSkippedWithoutQuota(t *testing.T) {
	st := newTestStore(t)
	admitLead(t, st, "a", "no contact information here")

	s, ch := newTestScheduler(t, st, 10)
	sum := s.RunCycle(context.Background())

	assert.Zero(t, sum.LeadsSent)
	assert.Empty(t, ch.sent)
	assert.Zero(t, s.Quota.Statistics().DailyCount)
}

func TestCompanyEligibilityFilter(t *testing.T) {
	st := newTestStore(t)
	admitCompany(t, st, "NoMail")
	withMail := admitCompany(t, st, "Acme", "careers@acme.com")

	s, ch := newTestScheduler(t, st, 10)
	sum := s.RunCycle(context.Background())

	assert.Equal(t, 1, sum.CompaniesSent)
	assert.Equal(t, []string{"careers@acme.com"}, ch.sent)

	e, ok := st.Get(withMail)
	require.True(t, ok)
	assert.Equal(t, model.StatusContacted, e.Status)
	assert.Equal(t, "careers@acme.com", e.ContactedVia)
}

func TestIrrelevantAddressesFilteredOut(t *testing.T) {
	st := newTestStore(t)
	admitLead(t, st, "a", "contact noreply@acme.com or hero-image@2x.png")

	s, ch := newTestScheduler(t, st, 10)
	sum := s.RunCycle(context.Background())

	assert.Zero(t, sum.LeadsSent)
	assert.Empty(t, ch.sent)
}

func TestCoolDownBetweenSends(t *testing.T) {
	st := newTestStore(t)
	admitLead(t, st, "a", "mail careers@a.com")
	admitLead(t, st, "b", "mail careers@b.com")

	s, _ := newTestScheduler(t, st, 10)
	s.CoolDown = 7 * time.Second

	var slept []time.Duration
	s.sleep = func(d time.Duration) { slept = append(slept, d) }

	s.RunCycle(context.Background())

	require.Len(t, slept, 1) // between the two sends, not after the last
	assert.Equal(t, 7*time.Second, slept[0])
}

func TestAttemptsRecorded(t *testing.T) {
	st := newTestStore(t)
	admitLead(t, st, "a", "mail careers@a.com")
	admitLead(t, st, "b", "mail careers@b.com")

	s, ch := newTestScheduler(t, st, 10)
	ch.failFor["careers@b.com"] = true

	s.RunCycle(context.Background())

	attempts, err := s.Attempts.List(context.Background(), "", "", 10, 0)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	byStatus := map[string]int{}
	for _, a := range attempts {
		byStatus[a.Status]++
		assert.NotEmpty(t, a.ID)
	}
	assert.Equal(t, 1, byStatus["sent"])
	assert.Equal(t, 1, byStatus["failed"])
}
