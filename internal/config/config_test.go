package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "docs", cfg.Site.Category)
	assert.Equal(t, "Nomad by HashiCorp", cfg.Site.SiteName)
	assert.Equal(t, filepath.Join("content", "docs"), cfg.DocsRoot())
	assert.Equal(t, filepath.Join("content", "partials"), cfg.PartialsRoot())
	assert.Equal(t, "hashicorp/nomad", cfg.Source.Repo)
	assert.Equal(t, "master", cfg.Source.Branch)
	assert.Equal(t, "website", cfg.Source.Prefix)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Positive(t, cfg.Build.Concurrency)
	assert.Empty(t, cfg.OrderPath())
	require.NoError(t, Validate(cfg))
}

func TestParse_OverridesAndEnvExpansion(t *testing.T) {
	t.Setenv("DOCSITE_TEST_REPO", "acme/widgets")

	cfg, err := Parse([]byte(`
site:
  category: guides
content:
  root: /srv/site
navigation:
  order_file: data/guides-navigation.yaml
source:
  repo: ${DOCSITE_TEST_REPO}
logging:
  level: DEBUG
  format: Json
`))
	require.NoError(t, err)

	assert.Equal(t, "acme/widgets", cfg.Source.Repo)
	assert.Equal(t, filepath.Join("/srv/site", "content", "guides"), cfg.DocsRoot())
	assert.Equal(t, filepath.Join("/srv/site", "data", "guides-navigation.yaml"), cfg.OrderPath())
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestParse_EmptyDocumentUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Snapshot(), cfg.Snapshot())
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("site:\n  prodcut: typo\n"))
	require.Error(t, err)
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Site.Category = "docs/nested"
	cfg.Source.Repo = "nomad"
	cfg.Serve.Port = 70000

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site.category")
	assert.Contains(t, err.Error(), "source.repo")
	assert.Contains(t, err.Error(), "serve.port")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, ErrConfigNotFound)

	cfg, found, err := LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "docs", cfg.Site.Category)

	path := filepath.Join(dir, "docsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  directory: public\n"), 0o600))
	cfg, found, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "public", cfg.Output.Directory)
}

func TestParse_RebuildInterval(t *testing.T) {
	cfg, err := Parse([]byte("serve:\n  rebuild_interval: 5m\n"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Serve.RebuildInterval)

	_, err = Parse([]byte("serve:\n  rebuild_interval: -1s\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serve.rebuild_interval")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsite.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".", "data", "docs-navigation.yaml"), cfg.OrderPath())
	assert.True(t, cfg.Output.Clean)
	assert.True(t, cfg.Serve.Metrics)
}

func TestSnapshot_IgnoresLogging(t *testing.T) {
	a := Default()
	b := Default()
	b.Logging.Level = LogLevelDebug
	assert.Equal(t, a.Snapshot(), b.Snapshot())

	b.Source.Branch = "main"
	assert.NotEqual(t, a.Snapshot(), b.Snapshot())
}
