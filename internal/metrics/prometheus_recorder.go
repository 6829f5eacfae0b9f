package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	resolved      *prom.CounterVec
	cacheHits     prom.Counter
	deadLinks     prom.Counter
	imageLookups  *prom.CounterVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.resolved = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "notebuilder",
			Name:      "links_resolved_total",
			Help:      "Interpreted wikilinks by render strategy",
		}, []string{"strategy"})
		pr.cacheHits = prom.NewCounter(prom.CounterOpts{
			Namespace: "notebuilder",
			Name:      "link_cache_hits_total",
			Help:      "Link cache hits (token already interpreted)",
		})
		pr.deadLinks = prom.NewCounter(prom.CounterOpts{
			Namespace: "notebuilder",
			Name:      "dead_links_total",
			Help:      "Tokens recorded in the dead-link set",
		})
		pr.imageLookups = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "notebuilder",
			Name:      "image_lookups_total",
			Help:      "Image asset lookups by result",
		}, []string{"result"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "notebuilder",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "notebuilder",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		reg.MustRegister(pr.resolved, pr.cacheHits, pr.deadLinks, pr.imageLookups, pr.buildDuration, pr.buildOutcome)
	})
	return pr
}

func (pr *PrometheusRecorder) IncResolved(strategy string) {
	pr.resolved.WithLabelValues(strategy).Inc()
}

func (pr *PrometheusRecorder) IncCacheHit() { pr.cacheHits.Inc() }

func (pr *PrometheusRecorder) IncDeadLink() { pr.deadLinks.Inc() }

func (pr *PrometheusRecorder) IncImageLookup(found bool) {
	result := "found"
	if !found {
		result = "missing"
	}
	pr.imageLookups.WithLabelValues(result).Inc()
}

func (pr *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	pr.buildDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncBuildOutcome(outcome string) {
	pr.buildOutcome.WithLabelValues(outcome).Inc()
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
