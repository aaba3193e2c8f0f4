package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/site"
)

type fakeBuilder struct {
	calls  atomic.Int32
	err    error
	outDir string // receives manifest.json on success when set
	clean  bool   // failed builds remove outDir
}

func (f *fakeBuilder) Build(context.Context) (*site.Result, error) {
	f.calls.Add(1)
	if f.err != nil {
		if f.outDir != "" && f.clean {
			if err := os.RemoveAll(f.outDir); err != nil {
				return nil, err
			}
		}
		return nil, f.err
	}
	m := manifest.New("hash", time.Now())
	m.Pages = append(m.Pages, manifest.Page{URL: "/docs"})
	m.Finish(manifest.StatusSuccess, time.Now())
	if f.outDir != "" {
		data, err := m.ToJSON()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(f.outDir, manifest.FileName), data, 0o600); err != nil {
			return nil, err
		}
	}
	return &site.Result{Manifest: m, Changes: m.Diff(nil)}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Content.Root = root
	cfg.Output.Directory = filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(cfg.DocsRoot(), 0o750))
	require.NoError(t, os.MkdirAll(cfg.PartialsRoot(), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Output.Directory, "docs"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Output.Directory, "docs", "index.html"), []byte("<h1>docs</h1>"), 0o600))
	return cfg
}

func getHealth(t *testing.T, h http.Handler) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestHealth_Transitions(t *testing.T) {
	cfg := testConfig(t)
	fb := &fakeBuilder{outDir: cfg.Output.Directory}
	s := New(cfg, fb)
	h := s.Handler()

	code, resp := getHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, HealthStatusStarting, resp.Status)

	fb.err = errors.New("boom")
	require.Error(t, s.Rebuild(context.Background()))
	code, resp = getHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, HealthStatusUnhealthy, resp.Status)
	assert.Equal(t, "boom", resp.Error)

	fb.err = nil
	require.NoError(t, s.Rebuild(context.Background()))
	code, resp = getHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, HealthStatusHealthy, resp.Status)
	assert.Equal(t, 1, resp.Pages)
	assert.NotEmpty(t, resp.BuildID)
	assert.NotNil(t, resp.LastBuild)

	fb.err = errors.New("again")
	require.Error(t, s.Rebuild(context.Background()))
	code, resp = getHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, HealthStatusDegraded, resp.Status)
}

func TestHealth_FailedCleanBuildIsUnhealthy(t *testing.T) {
	cfg := testConfig(t)
	fb := &fakeBuilder{outDir: cfg.Output.Directory, clean: true}
	s := New(cfg, fb)
	h := s.Handler()

	require.NoError(t, s.Rebuild(context.Background()))
	_, resp := getHealth(t, h)
	assert.Equal(t, HealthStatusHealthy, resp.Status)

	fb.err = errors.New("broken page")
	require.Error(t, s.Rebuild(context.Background()))
	code, resp := getHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, HealthStatusUnhealthy, resp.Status)
	assert.Equal(t, "broken page", resp.Error)
	assert.NotEmpty(t, resp.BuildID)
}

func TestHandler_ServesSite(t *testing.T) {
	cfg := testConfig(t)
	h := New(cfg, &fakeBuilder{}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/docs", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>docs</h1>")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Metrics(t *testing.T) {
	cfg := testConfig(t)
	reg := prom.NewRegistry()
	metrics.NewPrometheusRecorder(reg).IncBuildOutcome(metrics.BuildOutcomeSuccess)
	h := New(cfg, &fakeBuilder{}, WithMetrics(reg)).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docsite_build_outcomes_total")
}

func TestRun_RebuildsOnChange(t *testing.T) {
	cfg := testConfig(t)
	fb := &fakeBuilder{}
	s := New(cfg, fb)
	s.window = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	require.Eventually(t, func() bool { return fb.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	page := filepath.Join(cfg.DocsRoot(), "install.mdx")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(page, []byte("# Install\n"), 0o600)
		return fb.calls.Load() >= 2
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("preview server did not stop")
	}
}

func TestRun_PeriodicRebuild(t *testing.T) {
	cfg := testConfig(t)
	cfg.Serve.RebuildInterval = 50 * time.Millisecond
	fb := &fakeBuilder{}
	s := New(cfg, fb)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	require.Eventually(t, func() bool { return fb.calls.Load() >= 3 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("preview server did not stop")
	}
}
