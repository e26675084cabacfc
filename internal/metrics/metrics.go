// Package metrics exposes compile counters on a private Prometheus registry.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ryanadelino-stack/compiler-api/internal/compiler"
)

// Sources label where a compile came from.
const (
	SourceAPI   = "api"
	SourceCLI   = "cli"
	SourceBatch = "batch"
)

const namespace = "roster"

// Recorder owns the registry and the compile instruments.
type Recorder struct {
	reg        *prometheus.Registry
	compiles   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	players    prometheus.Counter
	rejections *prometheus.CounterVec
	cacheHits  prometheus.Counter
}

// New builds a Recorder with process and Go runtime collectors attached.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compile_total",
			Help:      "Compile operations by source and status.",
		}, []string{"source", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Wall time of a single compile.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"source"}),
		players: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compile_players_total",
			Help:      "Players written by successful compiles.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_rejections_total",
			Help:      "Loads refused by the class guard, by reason.",
		}, []string{"reason"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compile_cache_hits_total",
			Help:      "Compiles answered from the output cache.",
		}),
	}
	r.reg.MustRegister(
		r.compiles, r.duration, r.players, r.rejections, r.cacheHits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveCompile records one compile outcome. err is classified by its
// compiler code; a nil err counts as "ok".
func (r *Recorder) ObserveCompile(source string, players int, d time.Duration, err error) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = Status(err)
	}
	r.compiles.WithLabelValues(source, status).Inc()
	r.duration.WithLabelValues(source).Observe(d.Seconds())
	if err == nil {
		r.players.Add(float64(players))
		return
	}
	switch compiler.CodeOf(err) {
	case compiler.CodeBlockedClass:
		r.rejections.WithLabelValues("blocked_class").Inc()
	case compiler.CodeResourceExceeded:
		r.rejections.WithLabelValues("resource_exceeded").Inc()
	}
}

// ObserveCacheHit counts a compile served from cache.
func (r *Recorder) ObserveCacheHit() {
	if r == nil {
		return
	}
	r.cacheHits.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Status maps an error to a low-cardinality label value.
func Status(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	if code := compiler.CodeOf(err); code != "" {
		return string(code)
	}
	return "error"
}
