package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/models"
)

// Recorder exports resolution metrics to Prometheus
type Recorder struct {
	registry *prometheus.Registry

	resolutions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cache       *prometheus.CounterVec
}

// NewRecorder creates a recorder backed by a fresh registry
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agora_resolutions_total",
			Help: "Total number of resolved proposals by status",
		}, []string{"tenant", "status"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agora_resolution_errors_total",
			Help: "Total number of failed resolutions by error kind",
		}, []string{"tenant", "kind"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agora_resolution_duration_seconds",
			Help:    "Time spent resolving one proposal",
			Buckets: prometheus.DefBuckets,
		}, []string{"tenant"}),
		cache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agora_result_cache_requests_total",
			Help: "Result cache lookups by outcome",
		}, []string{"result"}),
	}
}

// ObserveResolution records one successful resolution
func (r *Recorder) ObserveResolution(tenant string, status models.ProposalStatus, elapsed time.Duration) {
	r.resolutions.WithLabelValues(tenant, string(status)).Inc()
	r.duration.WithLabelValues(tenant).Observe(elapsed.Seconds())
}

// ObserveError records one failed resolution
func (r *Recorder) ObserveError(tenant string, err error) {
	r.failures.WithLabelValues(tenant, ErrorKind(err)).Inc()
}

// ObserveCache records a cache lookup
func (r *Recorder) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cache.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ErrorKind classifies an error into a low-cardinality label value
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUpstreamRead):
		return "upstream"
	case errors.Is(err, domain.ErrUnknownTenant):
		return "unknown_tenant"
	}
	return "internal"
}
