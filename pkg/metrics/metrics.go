package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CollectionSyncTotal counts reconciliation outcomes by result code
	CollectionSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "artmarket",
		Subsystem: "collection_sync",
		Name:      "outcomes_total",
		Help:      "Collection synchronisation outcomes by result code.",
	}, []string{"code"})

	// ReceiptFetchSeconds tracks transaction receipt lookups per chain
	ReceiptFetchSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "artmarket",
		Subsystem: "blockchain",
		Name:      "receipt_fetch_seconds",
		Help:      "Latency of eth_getTransactionReceipt calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"chain_id", "outcome"})
)

// ObserveSync records one reconciliation outcome
func ObserveSync(code string) {
	if code == "" {
		code = "OK"
	}
	CollectionSyncTotal.WithLabelValues(code).Inc()
}

// ObserveReceiptFetch records the duration of a receipt lookup started at start
func ObserveReceiptFetch(chainID string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ReceiptFetchSeconds.WithLabelValues(chainID, outcome).Observe(time.Since(start).Seconds())
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
