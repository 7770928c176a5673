// Package observability exposes the Prometheus metrics surface. One
// Collector owns a private registry so tests never trip over duplicate
// registration in the default one.
package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Editing metrics
	NodesCreated         prometheus.Counter
	NodesDeleted         prometheus.Counter
	RelationshipsCreated prometheus.Counter
	RelationshipsDeleted prometheus.Counter
	UndoOperations       prometheus.Counter
	RedoOperations       prometheus.Counter
	DragCommits          *prometheus.CounterVec
	LayoutDuration       prometheus.Histogram

	// Dispatch metrics, fed by the bus middlewares
	BusOperations *prometheus.CounterVec
	BusDuration   *prometheus.HistogramVec

	// Repository metrics
	RepoOperations *prometheus.CounterVec
	RepoDuration   *prometheus.HistogramVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewCollector creates a new metrics collector with the given namespace.
// A process-wide singleton is reused on repeat calls so wiring code and
// tests can both call it freely.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	nodesCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Total number of nodes created",
		},
	)

	nodesDeleted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_deleted_total",
			Help:      "Total number of nodes deleted, cascades included",
		},
	)

	relationshipsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relationships_created_total",
			Help:      "Total number of cross-branch relationships created",
		},
	)

	relationshipsDeleted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relationships_deleted_total",
			Help:      "Total number of cross-branch relationships removed",
		},
	)

	undoOperations := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "undo_operations_total",
			Help:      "Total number of undo operations applied",
		},
	)

	redoOperations := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redo_operations_total",
			Help:      "Total number of redo operations applied",
		},
	)

	dragCommits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drag_commits_total",
			Help:      "Total number of completed drag gestures by outcome",
		},
		[]string{"outcome"},
	)

	layoutDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Tree layout recomputation duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	busOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_operations_total",
			Help:      "Total number of command and query dispatches",
		},
		[]string{"operation", "type"},
	)

	busDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bus_operation_duration_seconds",
			Help:      "Command and query handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "type"},
	)

	repoOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repository_operations_total",
			Help:      "Total number of repository operations",
		},
		[]string{"operation", "status"},
	)

	repoDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "repository_operation_duration_seconds",
			Help:      "Repository operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of query cache hits",
		},
	)

	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of query cache misses",
		},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		nodesCreated,
		nodesDeleted,
		relationshipsCreated,
		relationshipsDeleted,
		undoOperations,
		redoOperations,
		dragCommits,
		layoutDuration,
		busOperations,
		busDuration,
		repoOperations,
		repoDuration,
		cacheHits,
		cacheMisses,
	)

	globalCollector = &Collector{
		registry:             registry,
		HTTPRequests:         httpRequests,
		HTTPDuration:         httpDuration,
		NodesCreated:         nodesCreated,
		NodesDeleted:         nodesDeleted,
		RelationshipsCreated: relationshipsCreated,
		RelationshipsDeleted: relationshipsDeleted,
		UndoOperations:       undoOperations,
		RedoOperations:       redoOperations,
		DragCommits:          dragCommits,
		LayoutDuration:       layoutDuration,
		BusOperations:        busOperations,
		BusDuration:          busDuration,
		RepoOperations:       repoOperations,
		RepoDuration:         repoDuration,
		CacheHits:            cacheHits,
		CacheMisses:          cacheMisses,
	}

	return globalCollector
}

// ResetForTesting resets the global collector for testing purposes
func ResetForTesting() {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()
	globalCollector = nil
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// All recording helpers below are safe on a nil receiver, so callers
// without a wired collector skip instrumentation instead of panicking.

// CountNodeCreated records one created node.
func (c *Collector) CountNodeCreated() {
	if c == nil {
		return
	}
	c.NodesCreated.Inc()
}

// CountNodesDeleted records n removed nodes.
func (c *Collector) CountNodesDeleted(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.NodesDeleted.Add(float64(n))
}

// CountRelationshipCreated records one created relationship.
func (c *Collector) CountRelationshipCreated() {
	if c == nil {
		return
	}
	c.RelationshipsCreated.Inc()
}

// CountRelationshipsDeleted records n removed relationships.
func (c *Collector) CountRelationshipsDeleted(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.RelationshipsDeleted.Add(float64(n))
}

// CountUndo records one applied undo.
func (c *Collector) CountUndo() {
	if c == nil {
		return
	}
	c.UndoOperations.Inc()
}

// CountRedo records one applied redo.
func (c *Collector) CountRedo() {
	if c == nil {
		return
	}
	c.RedoOperations.Inc()
}

// CountDragCommit records one finished drag gesture by outcome
// ("reparented", "position" or "aborted").
func (c *Collector) CountDragCommit(outcome string) {
	if c == nil {
		return
	}
	c.DragCommits.WithLabelValues(outcome).Inc()
}

// ObserveLayout records the duration of one layout pass.
func (c *Collector) ObserveLayout(d time.Duration) {
	if c == nil {
		return
	}
	c.LayoutDuration.Observe(d.Seconds())
}

// CountCacheHit records one query cache hit.
func (c *Collector) CountCacheHit() {
	if c == nil {
		return
	}
	c.CacheHits.Inc()
}

// CountCacheMiss records one query cache miss.
func (c *Collector) CountCacheMiss() {
	if c == nil {
		return
	}
	c.CacheMisses.Inc()
}
