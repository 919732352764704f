package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, 25, cfg.Quota.DailyLimit)
	assert.Equal(t, 5, cfg.Outreach.LeadBatchSize)
	assert.Equal(t, 3, cfg.Outreach.CompanyBatchSize)
	assert.Equal(t, 10*time.Second, cfg.Outreach.CoolDown)
	assert.NotEmpty(t, cfg.Sources.Keywords)
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
quota:
  daily_limit: 7
outreach:
  cool_down: 2s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Quota.DailyLimit)
	assert.Equal(t, 2*time.Second, cfg.Outreach.CoolDown)
	// untouched keys keep their defaults
	assert.Equal(t, 5, cfg.Outreach.LeadBatchSize)
}

func TestLoadMissingUserFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Quota.DailyLimit)
}
