package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viemind_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "viemind_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "viemind_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// RateLimiterRejections counts rejected requests due to rate limiting, by limiter scope
	RateLimiterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viemind_rate_limiter_rejections_total",
			Help: "Total number of requests rejected by rate limiter",
		},
		[]string{"scope"},
	)

	// DatabaseOperationDuration measures database operation duration
	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "viemind_db_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// MemoryStats tracks memory usage stats
	MemoryStats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "viemind_memory_stats_bytes",
			Help: "Memory statistics in bytes",
		},
		[]string{"type"},
	)

	// GoroutineCount tracks the number of goroutines
	GoroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "viemind_goroutine_count",
			Help: "Number of goroutines",
		},
	)

	// RealtimeClients tracks connected websocket clients
	RealtimeClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "viemind_realtime_clients",
			Help: "Number of connected realtime clients",
		},
	)

	// CacheHits counts the number of cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viemind_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// CacheMisses counts the number of cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viemind_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// SystemCPUUsage tracks CPU usage percentage
	SystemCPUUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "viemind_system_cpu_usage_percent",
			Help: "CPU usage percentage by core",
		},
		[]string{"core"},
	)

	// SystemDiskUsage tracks disk usage of the upload volume
	SystemDiskUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "viemind_system_disk_usage_bytes",
			Help: "Disk usage statistics in bytes",
		},
		[]string{"mountpoint", "type"}, // type can be "used", "free", "total"
	)

	// SystemLoadAverage tracks system load averages
	SystemLoadAverage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "viemind_system_load_average",
			Help: "System load average",
		},
		[]string{"period"}, // "1min", "5min", "15min"
	)

	// Registrations counts created accounts
	Registrations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viemind_registrations_total",
			Help: "Total number of user registrations",
		},
	)

	// Logins counts login attempts by result ("success", "failure")
	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viemind_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// CompetitionsCreated counts competitions created by organizations
	CompetitionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viemind_competitions_created_total",
			Help: "Total number of competitions created",
		},
	)

	// ParticipantsJoined counts competition joins
	ParticipantsJoined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viemind_participants_joined_total",
			Help: "Total number of competition joins",
		},
	)

	// SubmissionsCreated counts uploaded submissions
	SubmissionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viemind_submissions_total",
			Help: "Total number of submissions",
		},
	)

	// SubmissionBytes observes the size of uploaded submission files
	SubmissionBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "viemind_submission_bytes",
			Help:    "Size of uploaded submission files in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)
)

// RecordDBOperation records the duration of a database operation
func RecordDBOperation(operation string, table string, startTime time.Time) {
	duration := time.Since(startTime).Seconds()
	DatabaseOperationDuration.WithLabelValues(operation, table).Observe(duration)
}
