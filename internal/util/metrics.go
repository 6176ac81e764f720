package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItemsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "items_created_total",
		Help: "Total number of inventory items created",
	})

	ItemsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "items_deleted_total",
		Help: "Total number of inventory items deleted",
	})

	WithdrawalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "withdrawals_total",
		Help: "Total number of successful stock withdrawals",
	})

	WithdrawalsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "withdrawals_failed_total",
		Help: "Total number of rejected stock withdrawals",
	}, []string{"reason"})

	WithdrawalLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "withdrawal_latency_seconds",
		Help:    "Latency of the withdrawal pipeline",
		Buckets: prometheus.DefBuckets,
	})

	StockRestoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_restored_total",
		Help: "Total number of form deletions that restored stock",
	})

	ConsumedSyncRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consumed_sync_runs_total",
		Help: "Total number of consumed-ledger sync runs",
	})

	ConsumedRecordsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consumed_records_created_total",
		Help: "Total number of consumed-ledger records created",
	})

	StockCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_cache_misses_total",
		Help: "Total number of stock cache lookups that fell through to the database",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
