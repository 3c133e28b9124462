package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы записи и чтения снимка корзины.
const (
	SnapshotResultOK        = "ok"
	SnapshotResultError     = "error"
	SnapshotResultAbsent    = "absent"
	SnapshotResultMalformed = "malformed"
)

// CartMetrics содержит метрики операций корзины.
type CartMetrics struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	inventoryDuration *prometheus.HistogramVec

	snapshotSaves *prometheus.CounterVec
	snapshotLoads *prometheus.CounterVec

	entries prometheus.Gauge
	items   prometheus.Gauge
}

// NewCartMetrics регистрирует метрики в переданном registerer
// (nil — prometheus.DefaultRegisterer).
func NewCartMetrics(registerer prometheus.Registerer) *CartMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CartMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Total number of cart operations by outcome",
		}, []string{"operation", "outcome"}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "cart_operation_duration_seconds",
			Help:    "Duration of cart operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		inventoryDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "cart_inventory_request_duration_seconds",
			Help:    "Duration of inventory requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"call"}),
		snapshotSaves: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "cart_snapshot_saves_total",
			Help: "Total number of cart snapshot writes by result",
		}, []string{"result"}),
		snapshotLoads: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "cart_snapshot_loads_total",
			Help: "Total number of cart snapshot loads by result",
		}, []string{"result"}),
		entries: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "cart_entries",
			Help: "Number of distinct products in the cart",
		}),
		items: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "cart_items",
			Help: "Total quantity of products in the cart",
		}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOperation учитывает завершённую операцию и её длительность.
func (m *CartMetrics) RecordOperation(operation, outcome string, duration time.Duration) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordInventoryCall записывает длительность запроса к складу.
func (m *CartMetrics) RecordInventoryCall(call string, duration time.Duration) {
	m.inventoryDuration.WithLabelValues(call).Observe(duration.Seconds())
}

// RecordSnapshotSave учитывает запись снимка.
func (m *CartMetrics) RecordSnapshotSave(result string) {
	m.snapshotSaves.WithLabelValues(result).Inc()
}

// RecordSnapshotLoad учитывает чтение снимка при старте.
func (m *CartMetrics) RecordSnapshotLoad(result string) {
	m.snapshotLoads.WithLabelValues(result).Inc()
}

// SetCartSize обновляет gauge размера корзины.
func (m *CartMetrics) SetCartSize(entries, items int) {
	m.entries.Set(float64(entries))
	m.items.Set(float64(items))
}
