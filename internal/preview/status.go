package preview

import (
	"sync"
	"time"
)

// HealthStatus is the state reported by /health.
type HealthStatus string

const (
	HealthStatusStarting  HealthStatus = "starting"
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status    HealthStatus `json:"status"`
	BuildID   string       `json:"build_id,omitempty"`
	LastBuild *time.Time   `json:"last_build,omitempty"`
	Pages     int          `json:"pages"`
	Error     string       `json:"error,omitempty"`
}

// buildStatus tracks the outcome of the latest build.
type buildStatus struct {
	mu           sync.RWMutex
	builds       int
	lastError    error
	hasGoodBuild bool
	served       bool // false once a failed build has removed the previous output
	buildID      string
	finishedAt   time.Time
	pages        int
}

func (bs *buildStatus) setError(err error, outputIntact bool) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	bs.lastError = err
	bs.served = bs.hasGoodBuild && outputIntact
}

func (bs *buildStatus) setSuccess(buildID string, pages int, at time.Time) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	bs.lastError = nil
	bs.hasGoodBuild = true
	bs.served = true
	bs.buildID = buildID
	bs.pages = pages
	bs.finishedAt = at
}

// health is healthy after a good latest build, degraded when the latest
// build failed but the output of an older one is still intact, and
// unhealthy otherwise.
func (bs *buildStatus) health() HealthResponse {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	resp := HealthResponse{BuildID: bs.buildID, Pages: bs.pages}
	if bs.hasGoodBuild {
		at := bs.finishedAt
		resp.LastBuild = &at
	}
	if bs.lastError != nil {
		resp.Error = bs.lastError.Error()
	}
	switch {
	case bs.builds == 0:
		resp.Status = HealthStatusStarting
	case bs.lastError == nil:
		resp.Status = HealthStatusHealthy
	case bs.served:
		resp.Status = HealthStatusDegraded
	default:
		resp.Status = HealthStatusUnhealthy
	}
	return resp
}
