package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"

	NavCommitted = "committed"
	NavUnmatched = "unmatched"
	NavFailed    = "failed"
)

var (
	// MenuFetchTotal counts menu tree fetches per source
	MenuFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_menu_fetch_total",
			Help: "Total number of menu tree fetches",
		},
		[]string{"source", "result"},
	)

	// MenuFetchDurationSeconds measures how long menu fetches take
	MenuFetchDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_menu_fetch_duration_seconds",
			Help:    "Duration of menu tree fetches in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"source"},
	)

	// PermissionLoadsTotal counts permission route loads
	PermissionLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_permission_loads_total",
			Help: "Total number of permission route loads",
		},
		[]string{"result"},
	)

	// RoutesRegistered records how many records the last load registered
	RoutesRegistered = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "console_routes_registered",
			Help:    "Number of route records registered by a permission load",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)

	// NavigationsTotal counts navigations by outcome
	NavigationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_navigations_total",
			Help: "Total number of navigations",
		},
		[]string{"result"},
	)

	// NavigationRedirectsTotal counts navigations that ended somewhere else
	NavigationRedirectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "console_navigation_redirects_total",
			Help: "Total number of navigations redirected by a guard or record",
		},
	)

	// StorageErrorsTotal counts failed persistence writes and reads
	StorageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_storage_errors_total",
			Help: "Total number of state persistence errors",
		},
		[]string{"store"},
	)

	// ActiveSessions is the number of live console sessions
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_active_sessions",
			Help: "Number of live console sessions",
		},
	)
)

// RegisterConsoleMetrics registers the console collectors with registry.
// Each registry gets them once; the collectors themselves are shared.
func RegisterConsoleMetrics(registry *prometheus.Registry) {
	registry.MustRegister(
		MenuFetchTotal,
		MenuFetchDurationSeconds,
		PermissionLoadsTotal,
		RoutesRegistered,
		NavigationsTotal,
		NavigationRedirectsTotal,
		StorageErrorsTotal,
		ActiveSessions,
	)
}

// ConsoleMetricsRecorder records console events into the package collectors.
// A nil recorder is valid and records nothing.
type ConsoleMetricsRecorder struct{}

// NewConsoleMetricsRecorder creates a new console metrics recorder
func NewConsoleMetricsRecorder() *ConsoleMetricsRecorder {
	return &ConsoleMetricsRecorder{}
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// RecordMenuFetch records one menu fetch from source
func (r *ConsoleMetricsRecorder) RecordMenuFetch(source string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	MenuFetchTotal.WithLabelValues(source, result(err)).Inc()
	MenuFetchDurationSeconds.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordPermissionLoad records a permission load and how many routes it registered
func (r *ConsoleMetricsRecorder) RecordPermissionLoad(routes int, err error) {
	if r == nil {
		return
	}
	PermissionLoadsTotal.WithLabelValues(result(err)).Inc()
	if err == nil {
		RoutesRegistered.Observe(float64(routes))
	}
}

// RecordNavigation records a navigation outcome
func (r *ConsoleMetricsRecorder) RecordNavigation(outcome string, redirected bool) {
	if r == nil {
		return
	}
	NavigationsTotal.WithLabelValues(outcome).Inc()
	if redirected {
		NavigationRedirectsTotal.Inc()
	}
}

// RecordStorageError records a persistence failure for store
func (r *ConsoleMetricsRecorder) RecordStorageError(store string) {
	if r == nil {
		return
	}
	StorageErrorsTotal.WithLabelValues(store).Inc()
}

// SetActiveSessions updates the live session gauge
func (r *ConsoleMetricsRecorder) SetActiveSessions(n int) {
	if r == nil {
		return
	}
	ActiveSessions.Set(float64(n))
}
