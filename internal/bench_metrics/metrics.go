package bench_metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	statusOK     = "ok"
	statusFailed = "failed"
)

type Metrics struct {
	registry   *prometheus.Registry
	throughput *prometheus.GaugeVec
	runs       *prometheus.CounterVec
	dropped    *prometheus.CounterVec
	elapsed    *prometheus.HistogramVec
}

// NewMetrics создаёт собственный реестр и регистрирует в нём метрики прогонов.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		throughput: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "partition_throughput_mtps",
				Help: "Throughput of the last timed run in millions of tuples per second.",
			},
			[]string{"method", "workers", "hash_bits"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partition_runs_total",
				Help: "Partitioning runs by outcome.",
			},
			[]string{"method", "status"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partition_dropped_records_total",
				Help: "Records that did not fit into their partition buffer.",
			},
			[]string{"method"},
		),
		elapsed: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "partition_run_seconds",
				Help:    "Wall time of timed runs.",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
			},
			[]string{"method"},
		),
	}

	for _, c := range []prometheus.Collector{m.throughput, m.runs, m.dropped, m.elapsed} {
		if err := m.registry.Register(c); err != nil {
			zap.L().Error(err.Error())
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRun учитывает успешный замеренный прогон.
func (m *Metrics) ObserveRun(method string, workers, hashBits int, throughput float64, elapsed time.Duration, dropped int) {
	m.throughput.WithLabelValues(method, strconv.Itoa(workers), strconv.Itoa(hashBits)).Set(throughput)
	m.runs.WithLabelValues(method, statusOK).Inc()
	m.elapsed.WithLabelValues(method).Observe(elapsed.Seconds())
	if dropped > 0 {
		m.dropped.WithLabelValues(method).Add(float64(dropped))
	}
}

// ObserveFailure учитывает прогон, прерванный ошибкой.
func (m *Metrics) ObserveFailure(method string, workers, hashBits int) {
	m.runs.WithLabelValues(method, statusFailed).Inc()
}
