package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testRecorder struct {
	NoopRecorder
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{stageDurations: map[string]int{}, stageResults: map[string]map[ResultLabel]int{}}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}

func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}

func TestTimeStage(t *testing.T) {
	r := newTestRecorder()

	assert.NoError(t, TimeStage(r, "render", func() error { return nil }))
	boom := errors.New("boom")
	assert.ErrorIs(t, TimeStage(r, "render", func() error { return boom }), boom)

	assert.Equal(t, 2, r.stageDurations["render"])
	assert.Equal(t, 1, r.stageResults["render"][ResultSuccess])
	assert.Equal(t, 1, r.stageResults["render"][ResultFailed])
}

func TestResultFor(t *testing.T) {
	assert.Equal(t, ResultSuccess, ResultFor(nil, true))
	assert.Equal(t, ResultCanceled, ResultFor(errors.New("x"), true))
	assert.Equal(t, ResultFailed, ResultFor(errors.New("x"), false))
}

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)
