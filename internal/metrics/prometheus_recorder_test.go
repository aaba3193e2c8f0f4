package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render", 150*time.Millisecond)
	pr.IncStageResult("render", ResultSuccess)
	pr.ObservePageDuration(20 * time.Millisecond)
	pr.IncPageResult(ResultFailed)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.SetBuildConcurrency(4)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "docsite_stage_duration_seconds")
	assert.Contains(t, names, "docsite_pages_total")
	assert.Contains(t, names, "docsite_build_concurrency")
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("render", time.Second)
		pr.IncBuildOutcome(BuildOutcomeFailed)
		pr.SetBuildConcurrency(1)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncPageResult(ResultSuccess)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `docsite_pages_total{result="success"} 1`))
}

func TestNewRegistry_IncludesRuntimeCollectors(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
}

func TestHTTPHandler_NilRegistry(t *testing.T) {
	rec := httptest.NewRecorder()
	HTTPHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
