package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

// Metric names recorded by the server.
const (
	MetricApiRequest      = "api_request_total"
	MetricOrderCreated    = "order_created_total"
	MetricLogAppended     = "log_appended_total"
	MetricQuantityOutput  = "production_quantity"
	MetricOrderCompleted  = "order_completed_total"
	MetricSchedulerTicked = "scheduler_run_total"
)

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// InitMetrics opens the embedded timeseries store under the workdir
// convention (<workdir>/data/metrics).
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "data", "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30*24*time.Hour),
	)
	if err != nil {
		return err
	}
	storage = s
	return nil
}

// Close flushes and closes the timeseries store.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}

// CounterInc records a single occurrence of the named metric.
func CounterInc(name string) {
	Gauge(name, 1)
}

// Gauge records a value for the named metric at the current time.
func Gauge(name string, value float64) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
}

// Select returns the datapoints of the named metric between start and end
// (unix seconds). A missing metric yields an empty slice.
func Select(name string, start, end int64) []*tstorage.DataPoint {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return nil
	}
	points, err := storage.Select(name, nil, start, end)
	if err != nil {
		return nil
	}
	return points
}
