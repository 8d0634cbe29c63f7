// Package metrics provides Prometheus metrics for the X-Alps leaderboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultLatencyBuckets covers feed round trips from a few ms to the full tick budget.
var defaultLatencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000} //nolint:gochecknoglobals // immutable bucket layout

// Manager manages all Prometheus metrics for the leaderboard process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Refresh loop
	ticks          prometheus.Counter
	renders        prometheus.Counter
	rendersSkipped prometheus.Counter
	stepErrors     *prometheus.CounterVec
	tickDuration   prometheus.Histogram
	lastTickUnix   prometheus.Gauge

	// Leaderboard state
	athletesTracked prometheus.Gauge
	leaderDistance  prometheus.Gauge
	markers         *prometheus.CounterVec

	// Feeds
	feedRequests *prometheus.CounterVec
	feedErrors   *prometheus.CounterVec
	feedLatency  *prometheus.HistogramVec

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "xalps",
		subsystem:        "leaderboard",
		histogramBuckets: defaultLatencyBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.ticks = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("ticks_total"),
		Help:        "Total number of refresh ticks started",
		ConstLabels: constLabels,
	})

	m.renders = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("renders_total"),
		Help:        "Total number of frames drawn to the render sink",
		ConstLabels: constLabels,
	})

	m.rendersSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("renders_skipped_total"),
		Help:        "Total number of ticks whose top rows were unchanged",
		ConstLabels: constLabels,
	})

	m.stepErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("step_errors_total"),
			Help:        "Total number of aborted ticks by error kind",
			ConstLabels: constLabels,
		},
		[]string{"kind"},
	)

	m.tickDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("tick_duration_milliseconds"),
		Help:        "Time spent fetching, building and drawing one tick",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.lastTickUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("last_successful_tick_unix"),
		Help:        "Unix timestamp of the last tick that produced a leaderboard",
		ConstLabels: constLabels,
	})

	m.athletesTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("athletes_tracked"),
		Help:        "Number of athletes in the last built summary",
		ConstLabels: constLabels,
	})

	m.leaderDistance = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("leader_distance_to_goal_km"),
		Help:        "Distance to goal of the current leader",
		ConstLabels: constLabels,
	})

	m.markers = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("change_markers_total"),
			Help:        "Total number of change markers applied by kind",
			ConstLabels: constLabels,
		},
		[]string{"change"},
	)

	m.feedRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("feed_requests_total"),
			Help:        "Total number of upstream feed requests",
			ConstLabels: constLabels,
		},
		[]string{"feed"},
	)

	m.feedErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("feed_errors_total"),
			Help:        "Total number of failed feed requests by feed and kind",
			ConstLabels: constLabels,
		},
		[]string{"feed", "kind"},
	)

	m.feedLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("feed_latency_milliseconds"),
			Help:        "Upstream feed round trip in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"feed"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_errors_total"),
			Help:        "Total number of failed HTTP responses by endpoint, type and severity",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("system_memory_usage_bytes"),
		Help:      "Heap bytes allocated by the process",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("system_goroutine_count"),
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      m.name("system_gc_pause_time_milliseconds"),
		Help:      "Average GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
	})
}

// Refresh loop functions.

// RecordTick increments the tick counter.
func RecordTick() {
	if !globalManager.enabled {
		return
	}
	globalManager.ticks.Inc()
}

// RecordRender increments the drawn-frame counter.
func RecordRender() {
	if !globalManager.enabled {
		return
	}
	globalManager.renders.Inc()
}

// RecordRenderSkipped increments the unchanged-tick counter.
func RecordRenderSkipped() {
	if !globalManager.enabled {
		return
	}
	globalManager.rendersSkipped.Inc()
}

// RecordStepError records an aborted tick.
func RecordStepError(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.stepErrors.WithLabelValues(kind).Inc()
}

// RecordTickDuration records the processing time of one tick.
func RecordTickDuration(d time.Duration) {
	if !globalManager.enabled {
		return
	}
	globalManager.tickDuration.Observe(float64(d.Milliseconds()))
}

// UpdateLastTick stores the time of the last successful tick.
func UpdateLastTick(t time.Time) {
	if !globalManager.enabled {
		return
	}
	globalManager.lastTickUnix.Set(float64(t.Unix()))
}

// Leaderboard state functions.

// UpdateAthletesTracked sets the number of athletes in the summary.
func UpdateAthletesTracked(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.athletesTracked.Set(float64(count))
}

// UpdateLeaderDistance sets the leader's distance to goal.
func UpdateLeaderDistance(km float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.leaderDistance.Set(km)
}

// RecordMarker counts an applied change marker.
func RecordMarker(change string) {
	if !globalManager.enabled {
		return
	}
	globalManager.markers.WithLabelValues(change).Inc()
}

// Feed functions.

// RecordFeedRequest records one upstream request and its latency.
func RecordFeedRequest(feed string, latency time.Duration) {
	if !globalManager.enabled {
		return
	}
	globalManager.feedRequests.WithLabelValues(feed).Inc()
	globalManager.feedLatency.WithLabelValues(feed).Observe(float64(latency.Milliseconds()))
}

// RecordFeedError records a failed upstream request.
func RecordFeedError(feed, kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.feedErrors.WithLabelValues(feed, kind).Inc()
}

// HTTP functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError counts a 4xx or 5xx response.
func RecordHTTPError(endpoint, errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpErrors.WithLabelValues(endpoint, errorType, severity).Inc()
}

// Process functions.

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// SetEnabled toggles recording on the global manager.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
