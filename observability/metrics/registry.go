// Package metrics owns the Prometheus registry for component lifecycle metrics.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "asphalt"

// Result label values for ComponentStarts.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// Global registry for all asphalt collectors
	registry = prometheus.NewRegistry()

	// Additional gatherers contributed by components that keep a private registry
	extraMu        sync.Mutex
	extraGatherers []prometheus.Gatherer

	// ComponentStarts counts finished child start attempts by implementation
	// type and result. Aliases are not labels: nested containers built from
	// configuration make them unbounded, while types are fixed at compile time.
	ComponentStarts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "component",
		Name:      "starts_total",
		Help:      "Child component start attempts by implementation type and result.",
	}, []string{"type", "result"})

	// ComponentStartDuration observes how long children of each type took to start.
	ComponentStartDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "component",
		Name:      "start_duration_seconds",
		Help:      "Time taken by a child component to start, by implementation type.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"type"})

	// ComponentsRegistered counts children added to containers.
	ComponentsRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "component",
		Name:      "registered_total",
		Help:      "Child components added to containers.",
	})

	// ContainersStarting tracks containers whose Start has not returned yet.
	ContainersStarting = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "container",
		Name:      "starting",
		Help:      "Containers currently waiting for their children to start.",
	})
)

func init() {
	registry.MustRegister(ComponentStarts, ComponentStartDuration, ComponentsRegistered, ContainersStarting)
}

// ObserveStart records the outcome of one child start. typeName is the Go
// type of the child, e.g. "*cache.Cache".
func ObserveStart(typeName string, took time.Duration, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	ComponentStarts.WithLabelValues(typeName, result).Inc()
	ComponentStartDuration.WithLabelValues(typeName).Observe(took.Seconds())
}

// RegisterGatherer adds a private registry to what Handler serves.
func RegisterGatherer(g prometheus.Gatherer) {
	if g == nil {
		return
	}
	extraMu.Lock()
	defer extraMu.Unlock()
	extraGatherers = append(extraGatherers, g)
}

// RegisterCollector registers c with the asphalt registry.
func RegisterCollector(c prometheus.Collector) error {
	return registry.Register(c)
}

// Gatherer returns the asphalt registry together with any extra gatherers.
func Gatherer() prometheus.Gatherer {
	extraMu.Lock()
	defer extraMu.Unlock()
	g := prometheus.Gatherers{registry}
	return append(g, extraGatherers...)
}

// Handler serves the asphalt metrics and the Prometheus default registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.Gatherers{Gatherer(), prometheus.DefaultGatherer}, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
