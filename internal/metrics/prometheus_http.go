package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry returns a registry carrying the Go runtime and process
// collectors next to the build metrics registered by NewPrometheusRecorder.
func NewRegistry() *prom.Registry {
	reg := prom.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)
	return reg
}

// HTTPHandler serves the metrics of reg. A nil registry yields 404 so the
// preview server can mount the route unconditionally.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
		Registry:          reg,
	})
}
