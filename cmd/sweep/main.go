package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hash-partition-bench/internal/bench_metrics"
	"hash-partition-bench/internal/config"
	"hash-partition-bench/internal/dispatcher"
	"hash-partition-bench/internal/driver"
	"hash-partition-bench/internal/harness"
	"hash-partition-bench/internal/record"
	"hash-partition-bench/internal/report"
	"hash-partition-bench/internal/sweep"
)

func init() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
}

const metricsShutdownTimeout = 5 * time.Second

var strategies = []harness.Strategy{harness.IsolatedStrategy, harness.SharedStrategy}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		zap.L().Fatal(err.Error())
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Prefix == "" {
		return errors.New("PREFIX environment variable is required")
	}

	c, err := driver.Build(cfg)
	if err != nil {
		return err
	}

	metrics, err := bench_metrics.NewMetrics()
	if err != nil {
		return err
	}
	if cfg.MetricsPort > 0 {
		srv := serveMetrics(cfg.MetricsPort, metrics)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Error(err.Error())
			}
		}()
	}

	opts := []sweep.Option{
		sweep.WithRouter(c.Router),
		sweep.WithPlacement(c.Placement),
		sweep.WithMemoryAcquirer(c.Budget),
		sweep.WithRecorder(metrics),
	}

	var kafkaSink report.Sink
	if cfg.Kafka.Enabled() {
		kafkaSink = dispatcher.NewDispatcher[report.Row](report.NewKafkaSink(report.KafkaConfig{
			Broker: cfg.Kafka.Broker,
			Topic:  cfg.Kafka.Topic,
		}))
		defer func() {
			if err := kafkaSink.Close(); err != nil {
				zap.L().Error(err.Error())
			}
		}()
	}

	for _, strategy := range strategies {
		path := fmt.Sprintf("%s%s_results.csv", cfg.Prefix, strategy)
		csvSink, err := report.CreateCSV(path)
		if err != nil {
			return err
		}
		defer func() {
			if err := csvSink.Close(); err != nil {
				zap.L().Error(err.Error(), zap.String("path", path))
			}
		}()

		var sink report.Sink = csvSink
		if kafkaSink != nil {
			sink = report.NewMultiSink(csvSink, kafkaSink)
		}
		opts = append(opts, sweep.WithSink(strategy, sink))
	}

	s, err := sweep.NewSweeper(sweep.Grid{
		Strategies:    strategies,
		Runs:          cfg.Runs,
		WorkerOptions: cfg.WorkerOptions,
		HashBits:      cfg.HashBits(),
		MaxCapacity:   cfg.MaxCapacity,
	}, opts...)
	if err != nil {
		return err
	}

	records, err := record.Generate(cfg.TupleCount)
	if err != nil {
		return err
	}

	zap.L().Info("sweep started",
		zap.Int("tuples", cfg.TupleCount),
		zap.Int("runs", cfg.Runs),
		zap.Ints("workers", cfg.WorkerOptions),
		zap.Int("min_hash_bits", cfg.MinHashBits),
		zap.Int("max_hash_bits", cfg.MaxHashBits),
		zap.String("hash_mode", string(cfg.HashMode)),
		zap.String("placement", string(cfg.Placement)))

	rows, err := s.Run(ctx, records)
	zap.L().Info("sweep finished", zap.Int("rows", len(rows)))

	return err
}

func serveMetrics(port int, metrics *bench_metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error(err.Error())
		}
	}()

	return srv
}
