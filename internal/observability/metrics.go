// Package observability exposes prometheus collectors for the sheet pipeline.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	parseMissCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sheet_service",
		Subsystem: "parser",
		Name:      "parse_misses_total",
		Help:      "Number of sheet lines skipped because they did not match the grammar.",
	})
	recordSavedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sheet_service",
		Subsystem: "store",
		Name:      "records_saved_total",
		Help:      "Number of person records persisted.",
	})
	recordMergedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sheet_service",
		Subsystem: "store",
		Name:      "records_merged_total",
		Help:      "Number of saves that merged into an existing record.",
	})
	recordPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sheet_service",
		Subsystem: "store",
		Name:      "last_record_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent person record persisted.",
	})
)

func init() {
	prometheus.MustRegister(parseMissCounter, recordSavedCounter, recordMergedCounter, recordPersistGauge)
}

// RecordParseMiss counts a skipped sheet line.
func RecordParseMiss() {
	parseMissCounter.Inc()
}

// RecordSaved updates the persistence counters after a successful save.
func RecordSaved(merged bool, ts time.Time) {
	recordSavedCounter.Inc()
	if merged {
		recordMergedCounter.Inc()
	}
	if !ts.IsZero() {
		recordPersistGauge.Set(float64(ts.Unix()))
	}
}
