// Package metrics records activity finder build telemetry.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

const namespace = "activity_finder"

// NoOp returns an observer that drops every observation.
func NoOp() interfaces.BuildObserver {
	return noopObserver{}
}

type noopObserver struct{}

func (noopObserver) ObserveBuild(string, time.Duration, error) {}
func (noopObserver) ObserveImageFallback(string, string)       {}
func (noopObserver) ObserveRenderCache(bool)                   {}

// Prometheus exports build telemetry as Prometheus collectors. Block IDs are
// not used as labels to keep cardinality bounded.
type Prometheus struct {
	builds         *prometheus.CounterVec
	buildDuration  prometheus.Histogram
	imageFallbacks *prometheus.CounterVec
	renderCache    *prometheus.CounterVec
}

var _ interfaces.BuildObserver = (*Prometheus)(nil)

// NewPrometheus registers the collectors with reg. A nil reg uses the default
// registerer. Building a second observer on the same registerer reuses the
// collectors registered by the first.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prometheus{
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "builds_total",
				Help:      "Total number of activity finder block builds",
			},
			[]string{"status"},
		),
		buildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "build_duration_seconds",
				Help:      "Duration of activity finder block builds in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		imageFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "image_fallbacks_total",
				Help:      "Background images that degraded to empty URLs",
			},
			[]string{"reason"},
		),
		renderCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "render_cache_total",
				Help:      "Render cache lookups by result",
			},
			[]string{"result"},
		),
	}
	var err error
	if p.builds, err = register(reg, p.builds); err != nil {
		return nil, err
	}
	if p.buildDuration, err = register(reg, p.buildDuration); err != nil {
		return nil, err
	}
	if p.imageFallbacks, err = register(reg, p.imageFallbacks); err != nil {
		return nil, err
	}
	if p.renderCache, err = register(reg, p.renderCache); err != nil {
		return nil, err
	}
	return p, nil
}

// register adds collector to reg. When an identical collector is already
// registered, the existing one is returned so observers share series.
func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	return collector, err
}

func (p *Prometheus) ObserveBuild(_ string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.builds.WithLabelValues(status).Inc()
	p.buildDuration.Observe(duration.Seconds())
}

func (p *Prometheus) ObserveImageFallback(_ string, reason string) {
	if reason == "" {
		reason = "unknown"
	}
	p.imageFallbacks.WithLabelValues(reason).Inc()
}

func (p *Prometheus) ObserveRenderCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.renderCache.WithLabelValues(result).Inc()
}
