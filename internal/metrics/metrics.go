package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes application metrics that are safe to scrape via Prometheus.
type Metrics struct {
	registry             *prometheus.Registry
	httpRequests         *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	highlightTransitions *prometheus.CounterVec
	regionsJoined        *prometheus.GaugeVec
	eventSubscribers     prometheus.Gauge
}

// New creates a fresh Metrics registry with HTTP and map interaction metrics registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "choropleth",
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests processed by core-go",
	}, []string{"method", "path", "status"})

	httpRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "choropleth",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests served by core-go",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	highlightTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "choropleth",
		Name:      "highlight_transitions_total",
		Help:      "Highlight state transitions by kind (enter, switch, leave, reset)",
	}, []string{"kind"})

	regionsJoined := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "choropleth",
		Name:      "regions",
		Help:      "Regions in the loaded map by join result",
	}, []string{"join"})

	eventSubscribers := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "choropleth",
		Name:      "event_subscribers",
		Help:      "Open websocket change streams",
	})

	registry.MustRegister(
		httpRequests,
		httpRequestDuration,
		highlightTransitions,
		regionsJoined,
		eventSubscribers,
	)

	return &Metrics{
		registry:             registry,
		httpRequests:         httpRequests,
		httpRequestDuration:  httpRequestDuration,
		highlightTransitions: highlightTransitions,
		regionsJoined:        regionsJoined,
		eventSubscribers:     eventSubscribers,
	}
}

// ObserveHTTPRequest records a single HTTP request/response cycle.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	m.httpRequests.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(duration.Seconds())
}

// IncHighlightTransition counts one highlight transition of the given kind.
func (m *Metrics) IncHighlightTransition(kind string) {
	if m == nil {
		return
	}
	m.highlightTransitions.WithLabelValues(kind).Inc()
}

// SetRegionsJoined records how many regions matched a metric record.
func (m *Metrics) SetRegionsJoined(matched, unmatched int) {
	if m == nil {
		return
	}
	m.regionsJoined.WithLabelValues("matched").Set(float64(matched))
	m.regionsJoined.WithLabelValues("unmatched").Set(float64(unmatched))
}

// AddEventSubscribers moves the open stream gauge by delta.
func (m *Metrics) AddEventSubscribers(delta int) {
	if m == nil {
		return
	}
	m.eventSubscribers.Add(float64(delta))
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
