// Package metrics registers Prometheus collectors for the receipt ledger.
package metrics

import (
	"database/sql"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "billsplitter_"

// RegisterDBGauges exposes record counts straight from the store. The gauges
// query on scrape, so they stay correct without any bookkeeping in the write
// paths.
func RegisterDBGauges(db *sql.DB) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "receipts_total",
			Help: "Number of persisted receipts",
		},
		func() float64 {
			return queryCount(db, "SELECT COUNT(*) FROM receipts")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "items_total",
			Help: "Number of persisted items",
		},
		func() float64 {
			return queryCount(db, "SELECT COUNT(*) FROM items")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "unattributed_receipts",
			Help: "Receipts with no payer recorded; excluded from paid totals",
		},
		func() float64 {
			return queryCount(db, "SELECT COUNT(*) FROM receipts WHERE payer_id IS NULL")
		},
	))
}

func queryCount(db *sql.DB, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		slog.Warn("metrics query failed", "query", query, "error", err)
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
