package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsInserted counts seeded rows by entity.
	RowsInserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modelseed_rows_inserted_total",
		Help: "Total number of rows inserted by seeding runs",
	}, []string{"entity"})

	// Runs counts seeding runs by result.
	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modelseed_runs_total",
		Help: "Total number of seeding runs by result",
	}, []string{"result"})

	// ExecuteDuration records how long seeding runs take.
	ExecuteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modelseed_execute_duration_seconds",
		Help:    "Seeding run duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// InsertLatency records single row insert latency by store and entity.
	InsertLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "modelseed_insert_latency_seconds",
		Help:    "Row insert latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"store", "entity"})
)

// TrackInsert returns a function that records insert latency when called (e.g. defer).
func TrackInsert(store, entity string) func() {
	start := time.Now()
	return func() {
		InsertLatency.WithLabelValues(store, entity).Observe(time.Since(start).Seconds())
	}
}

// ObserveRun records one finished run.
func ObserveRun(start time.Time, err error) {
	ExecuteDuration.Observe(time.Since(start).Seconds())
	result := "success"
	if err != nil {
		result = "error"
	}
	Runs.WithLabelValues(result).Inc()
}

// WriteMetrics dumps the default registry in the node exporter textfile format.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
