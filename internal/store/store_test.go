package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobpulse/jobpulse/internal/model"
	"github.com/jobpulse/jobpulse/internal/storage"
)

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return reopenStore(t, dir), dir
}

func reopenStore(t *testing.T, dir string) *Store {
	t.Helper()
	backend, err := storage.NewFileBackend(
		filepath.Join(dir, "records.json"), filepath.Join(dir, "records.log"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	s := New(backend)
	require.NoError(t, s.Load())
	return s
}

func lead(url string) model.Entity {
	return model.Entity{Kind: model.KindLead, SourceTag: "test", URL: url, Content: "hello"}
}

func company(name, website string, emails ...string) model.Entity {
	return model.Entity{Kind: model.KindCompany, SourceTag: "test", Name: name, Website: website, CandidateEmails: emails}
}

func TestAdmitAssignsIDsInOrder(t *testing.T) {
	s, _ := newFileStore(t)

	ok, err := s.Admit(lead("https://a.test/1"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Admit(lead("https://a.test/2"))
	require.NoError(t, err)
	assert.True(t, ok)

	got := s.ListNew(model.KindLead, 0, nil)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Equal(t, model.StatusNew, got[0].Status)
	assert.False(t, got[0].Discovered.IsZero())
}

func TestAdmitIsIdempotentPerKey(t *testing.T) {
	s, _ := newFileStore(t)

	ok, err := s.Admit(lead("https://a.test/1"))
	require.NoError(t, err)
	assert.True(t, ok)

	// Same url, different casing and other fields: still the same lead.
	dup := lead("HTTPS://A.test/1 ")
	dup.Title = "different title"
	ok, err = s.Admit(dup)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Len(t, s.ListNew(model.KindLead, 0, nil), 1)
	assert.Equal(t, 1, s.Statistics().DuplicatesPrevented)
}

func TestMarkContacted(t *testing.T) {
	s, _ := newFileStore(t)

	_, err := s.Admit(lead("https://a.test/1"))
	require.NoError(t, err)

	require.NoError(t, s.MarkContacted(1, "jobs@a.test"))

	e, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, model.StatusContacted, e.Status)
	assert.Equal(t, "jobs@a.test", e.ContactedVia)
	require.NotNil(t, e.ContactedAt)

	// Second mark is rejected and changes nothing.
	err = s.MarkContacted(1, "other@a.test")
	assert.ErrorIs(t, err, ErrAlreadyContacted)

	e, _ = s.Get(1)
	assert.Equal(t, "jobs@a.test", e.ContactedVia)

	assert.ErrorIs(t, s.MarkContacted(99, "x@a.test"), ErrUnknownEntity)
}

func TestListNewFiltersAndCaps(t *testing.T) {
	s, _ := newFileStore(t)

	for i := 0; i < 10; i++ {
		_, err := s.Admit(lead("https://a.test/" + string(rune('a'+i))))
		require.NoError(t, err)
	}
	_, err := s.Admit(company("Acme", "https://acme.test", "careers@acme.test"))
	require.NoError(t, err)
	_, err = s.Admit(company("NoMail", "https://nomail.test"))
	require.NoError(t, err)

	assert.Len(t, s.ListNew(model.KindLead, 5, nil), 5)
	assert.Len(t, s.ListNew(model.KindLead, 0, nil), 10)

	eligible := s.ListNew(model.KindCompany, 0, model.Entity.HasCandidateEmails)
	require.Len(t, eligible, 1)
	assert.Equal(t, "Acme", eligible[0].Name)

	require.NoError(t, s.MarkContacted(eligible[0].ID, "careers@acme.test"))
	assert.Empty(t, s.ListNew(model.KindCompany, 0, model.Entity.HasCandidateEmails))
}

func TestCrashResumeFromSnapshot(t *testing.T) {
	s, dir := newFileStore(t)

	for _, url := range []string{"https://a.test/1", "https://a.test/2", "https://a.test/3"} {
		_, err := s.Admit(lead(url))
		require.NoError(t, err)
	}
	require.NoError(t, s.MarkContacted(2, "jobs@a.test"))
	require.NoError(t, s.Save())

	s2 := reopenStore(t, dir)

	assert.Len(t, s2.ListNew(model.KindLead, 0, nil), 2)
	e, ok := s2.Get(2)
	require.True(t, ok)
	assert.Equal(t, model.StatusContacted, e.Status)

	// The rebuilt index still rejects the known keys.
	ok2, err := s2.Admit(lead("https://a.test/1"))
	require.NoError(t, err)
	assert.False(t, ok2)

	// New ids continue after the highest persisted one.
	ok2, err = s2.Admit(lead("https://a.test/4"))
	require.NoError(t, err)
	assert.True(t, ok2)
	e, _ = s2.Get(4)
	assert.Equal(t, int64(4), e.ID)
}

func TestCrashResumeFromAppendLogOnly(t *testing.T) {
	s, dir := newFileStore(t)

	_, err := s.Admit(lead("https://a.test/1"))
	require.NoError(t, err)
	require.NoError(t, s.MarkContacted(1, "jobs@a.test"))
	_, err = s.Admit(lead("https://a.test/2"))
	require.NoError(t, err)
	// No Save: only the append log survives the "crash".

	s2 := reopenStore(t, dir)

	e, ok := s2.Get(1)
	require.True(t, ok)
	assert.Equal(t, model.StatusContacted, e.Status)

	remaining := s2.ListNew(model.KindLead, 0, nil)
	require.Len(t, remaining, 1)
	assert.Equal(t, "https://a.test/2", remaining[0].URL)
}

func TestStatistics(t *testing.T) {
	s, _ := newFileStore(t)

	a := lead("https://a.test/1")
	a.Platform = "Reddit"
	b := lead("https://a.test/2")
	b.Platform = "GitHub"
	for _, e := range []model.Entity{a, b} {
		_, err := s.Admit(e)
		require.NoError(t, err)
	}
	_, err := s.Admit(company("Acme", "", "careers@acme.test"))
	require.NoError(t, err)
	require.NoError(t, s.MarkContacted(1, "jobs@a.test"))

	stats := s.Statistics()
	assert.Equal(t, 2, stats.Leads.Total)
	assert.Equal(t, 1, stats.Leads.New)
	assert.Equal(t, 1, stats.Leads.Contacted)
	assert.Equal(t, 1, stats.Companies.Total)
	assert.Equal(t, 1, stats.ByPlatform["Reddit"])
	assert.Equal(t, 3, stats.BySource["test"])
}

type failingBackend struct{ storage.Backend }

func (failingBackend) SaveSnapshot(storage.Snapshot) error { return errors.New("disk full") }

func TestSaveFailurePropagates(t *testing.T) {
	s := New(failingBackend{})

	err := s.Save()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
