package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Embed Cache Metrics
var (
	// EmbedCacheHits tracks embed lookups served from the cache store
	EmbedCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embed_cache_hits_total",
			Help: "Total embed lookups served from the cache store",
		},
	)

	// EmbedCacheMisses tracks embed lookups that required a live resolve
	EmbedCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embed_cache_misses_total",
			Help: "Total embed lookups that required a live resolve",
		},
	)

	// EmbedCacheUpsertFailures tracks failed background cache writes
	EmbedCacheUpsertFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embed_cache_upsert_failures_total",
			Help: "Total failed background embed cache writes",
		},
	)
)

// Resolver Metrics
var (
	// ResolverRequestDuration tracks resolver call latency in seconds
	ResolverRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resolver_request_duration_seconds",
			Help:    "External resolver request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// ResolverFailures tracks resolver calls that degraded to an empty embed
	ResolverFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_failures_total",
			Help: "Total resolver calls that degraded to an empty embed",
		},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Hub Metrics
var (
	// HubRegisteredConnections tracks connections currently held by the registry
	HubRegisteredConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_registered_connections",
			Help: "Connections currently registered across all channels",
		},
	)

	// HubActiveChannels tracks channels with at least one registration
	HubActiveChannels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_active_channels",
			Help: "Channels with at least one registered connection",
		},
	)

	// HubMessagesSent tracks messages handed to a connection writer
	HubMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_messages_sent_total",
			Help: "Total messages handed to a connection writer",
		},
	)

	// HubDeferredDeliveries tracks messages parked until a connection opened
	HubDeferredDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_deferred_deliveries_total",
			Help: "Total messages parked until a connection became open",
		},
	)

	// HubDroppedDeliveries tracks messages dropped on closed or stalled connections
	HubDroppedDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_dropped_deliveries_total",
			Help: "Total messages dropped on closed or stalled connections",
		},
	)
)

// WebSocket & Protocol Metrics
var (
	// WebSocketConnectionsCurrent tracks current active WebSocket connections
	WebSocketConnectionsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_current",
			Help: "Current number of active WebSocket connections",
		},
	)

	// WebSocketFramesDiscarded tracks inbound frames discarded as malformed
	WebSocketFramesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_frames_discarded_total",
			Help: "Total inbound frames discarded because they failed to parse",
		},
	)
)

// Reconciler Metrics
var (
	// ReconcileRuns tracks reconcile invocations by result
	ReconcileRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_runs_total",
			Help: "Reconcile invocations by result (drift/clean/missing/error)",
		},
		[]string{"result"},
	)

	// WishDriftDetected tracks wishes whose resolved embed drifted
	WishDriftDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wish_drift_detected_total",
			Help: "Total wishes whose freshly resolved embed differed from the stored one",
		},
	)
)
