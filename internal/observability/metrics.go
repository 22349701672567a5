package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GoldTransfersTotal counts completed gold transfers by ledger type and origin.
	GoldTransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgold_gold_transfers_total",
		Help: "Total number of completed gold transfers by transaction type and origin",
	}, []string{"type", "origin"})

	// GoldTransferFailures counts rejected or failed transfers by reason.
	GoldTransferFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgold_gold_transfer_failures_total",
		Help: "Total number of failed gold transfers by failure reason",
	}, []string{"reason"})

	// GoldTransferred accumulates the amount of gold moved per transaction type.
	GoldTransferred = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgold_gold_transferred_total",
		Help: "Total amount of gold moved per transaction type",
	}, []string{"type"})

	// CacheRequests counts aggregate-read cache lookups by view and outcome.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgold_cache_requests_total",
		Help: "Aggregate-read cache lookups by view and outcome (hit/miss)",
	}, []string{"view", "outcome"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgold_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// AggregateQueryLatency records latency of the expensive aggregate queries
	// that sit behind the cache (category previews, leaderboard).
	AggregateQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snapgold_aggregate_query_latency_seconds",
		Help:    "Latency of uncached aggregate queries in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"view"})
)

// RecordTransfer increments transfer counters for a completed transfer.
func RecordTransfer(txType string, systemGiven bool, amount int64) {
	origin := "user"
	if systemGiven {
		origin = "system"
	}
	GoldTransfersTotal.WithLabelValues(txType, origin).Inc()
	GoldTransferred.WithLabelValues(txType).Add(float64(amount))
}

// TrackAggregateQuery returns a function that records aggregate query latency
// when called (e.g. defer).
func TrackAggregateQuery(view string) func() {
	start := time.Now()
	return func() {
		AggregateQueryLatency.WithLabelValues(view).Observe(time.Since(start).Seconds())
	}
}
