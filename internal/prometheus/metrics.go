package prometheus

import (
	promclient "github.com/prometheus/client_golang/prometheus"
)

// Business-level metrics for the community API
// These track actual domain operations, not just HTTP requests

var (
	// ═══════════════════════════════════════════════════════════════════════════
	// REMOVAL METRICS
	// ═══════════════════════════════════════════════════════════════════════════

	// EventsRemovedTotal - Counter of events deleted by organization admins
	EventsRemovedTotal = promclient.NewCounter(
		promclient.CounterOpts{
			Name: "community_events_removed_total",
			Help: "Total number of events removed",
		},
	)

	// EventProjectsRemovedTotal - Counter of event projects deleted
	EventProjectsRemovedTotal = promclient.NewCounter(
		promclient.CounterOpts{
			Name: "community_event_projects_removed_total",
			Help: "Total number of event projects removed",
		},
	)

	// TasksRemovedTotal - Counter of tasks deleted
	TasksRemovedTotal = promclient.NewCounter(
		promclient.CounterOpts{
			Name: "community_tasks_removed_total",
			Help: "Total number of tasks removed",
		},
	)

	// TasksUpdatedTotal - Counter of task updates
	TasksUpdatedTotal = promclient.NewCounter(
		promclient.CounterOpts{
			Name: "community_tasks_updated_total",
			Help: "Total number of task updates",
		},
	)

	// ═══════════════════════════════════════════════════════════════════════════
	// COMMENT & LIKE METRICS
	// ═══════════════════════════════════════════════════════════════════════════

	// CommentsCreatedTotal - Counter of comments created
	CommentsCreatedTotal = promclient.NewCounter(
		promclient.CounterOpts{
			Name: "community_comments_created_total",
			Help: "Total number of comments created",
		},
	)

	// CommentsRemovedTotal - Counter of comments deleted
	CommentsRemovedTotal = promclient.NewCounter(
		promclient.CounterOpts{
			Name: "community_comments_removed_total",
			Help: "Total number of comments removed",
		},
	)

	// LikesToggledTotal - Counter of like/unlike calls
	LikesToggledTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "community_likes_toggled_total",
			Help: "Total number of like and unlike operations",
		},
		[]string{"entity", "action"}, // "post" or "comment", "like" or "unlike"
	)

	// ═══════════════════════════════════════════════════════════════════════════
	// TAG METRICS
	// ═══════════════════════════════════════════════════════════════════════════

	// TagsCreatedTotal - Counter of user tags created
	TagsCreatedTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "community_tags_created_total",
			Help: "Total number of organization user tags created",
		},
		[]string{"level"}, // "root" or "child"
	)

	// ═══════════════════════════════════════════════════════════════════════════
	// OPERATION DURATION METRICS
	// ═══════════════════════════════════════════════════════════════════════════

	// OperationDuration - Histogram of store operation durations
	OperationDuration = promclient.NewHistogramVec(
		promclient.HistogramOpts{
			Name:    "community_store_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: promclient.DefBuckets,
		},
		[]string{"operation", "success"},
	)

	// OperationsTotal - Counter of all store operations
	OperationsTotal = promclient.NewCounterVec(
		promclient.CounterOpts{
			Name: "community_store_operations_total",
			Help: "Total number of store operations",
		},
		[]string{"operation", "success"},
	)

	// ═══════════════════════════════════════════════════════════════════════════
	// CONNECTION POOL METRICS
	// ═══════════════════════════════════════════════════════════════════════════

	// PoolActiveConnections - Gauge of checked-out connections
	PoolActiveConnections = promclient.NewGauge(
		promclient.GaugeOpts{
			Name: "community_store_pool_active_connections",
			Help: "Number of store connections in use",
		},
	)

	// PoolOpenConnections - Gauge of open connections
	PoolOpenConnections = promclient.NewGauge(
		promclient.GaugeOpts{
			Name: "community_store_pool_open_connections",
			Help: "Number of open store connections",
		},
	)

	// PoolTotalRequests - Gauge mirroring the store's request counter
	PoolTotalRequests = promclient.NewGauge(
		promclient.GaugeOpts{
			Name: "community_store_pool_total_requests",
			Help: "Total number of store requests",
		},
	)

	// PoolSize - Gauge of configured pool size
	PoolSize = promclient.NewGauge(
		promclient.GaugeOpts{
			Name: "community_store_pool_size",
			Help: "Configured size of the store connection pool",
		},
	)
)

// Collectors returns every business metric, for registration
func Collectors() []promclient.Collector {
	return []promclient.Collector{
		EventsRemovedTotal,
		EventProjectsRemovedTotal,
		TasksRemovedTotal,
		TasksUpdatedTotal,
		CommentsCreatedTotal,
		CommentsRemovedTotal,
		LikesToggledTotal,
		TagsCreatedTotal,
		OperationDuration,
		OperationsTotal,
		PoolActiveConnections,
		PoolOpenConnections,
		PoolTotalRequests,
		PoolSize,
	}
}

// Init registers all metrics with Prometheus
func Init() {
	promclient.MustRegister(Collectors()...)
}
