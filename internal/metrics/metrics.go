package metrics

import (
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	// textfileRegistry holds only cmdrec collectors so the exported file
	// does not clash with go_/process_ series of the collecting exporter.
	textfileRegistry = prometheus.NewRegistry()

	records = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cmdrec",
			Name:      "records_total",
			Help:      "Number of recorded commands by recorded exit code.",
		}, []string{"exit_code"},
	)
	recordDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cmdrec",
			Name:      "record_duration_seconds",
			Help:      "Wall time of recorded commands.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	deletes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cmdrec",
			Name:      "deletes_total",
			Help:      "Number of delete operations, including no-op deletes.",
		},
	)
	expired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cmdrec",
			Name:      "expired_records_total",
			Help:      "Number of record directories removed by expire.",
		},
	)
	reads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cmdrec",
			Name:      "reads_total",
			Help:      "Number of record reads by stream.",
		}, []string{"stream"},
	)
	operationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cmdrec",
			Name:      "operation_errors_total",
			Help:      "Number of failed operations.",
		}, []string{"operation"},
	)
)

// Register registers all metrics with the provided registerer. Each
// registerer gets the collectors once; repeated calls with the same one are
// no-ops.
func Register(r prometheus.Registerer) error {
	cs := []prometheus.Collector{records, recordDuration, deletes, expired, reads, operationErrors}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// EnableTextfile registers the collectors on the textfile registry.
func EnableTextfile() error { return Register(textfileRegistry) }

// WriteTextfile atomically writes the textfile registry in the text
// exposition format, suitable for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, textfileRegistry)
}

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func IncRecord(exitCode int) {
	if regOK.Load() {
		records.WithLabelValues(strconv.Itoa(exitCode)).Inc()
	}
}

func ObserveRecordDuration(seconds float64) {
	if regOK.Load() {
		recordDuration.Observe(seconds)
	}
}

func IncDelete() {
	if regOK.Load() {
		deletes.Inc()
	}
}

func AddExpired(n int) {
	if regOK.Load() && n > 0 {
		expired.Add(float64(n))
	}
}

func IncRead(stream string) {
	if regOK.Load() {
		reads.WithLabelValues(stream).Inc()
	}
}

func IncError(operation string) {
	if regOK.Load() {
		operationErrors.WithLabelValues(operation).Inc()
	}
}
