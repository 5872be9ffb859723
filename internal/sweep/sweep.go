// Package sweep прогоняет обе стратегии по сетке
// (число воркеров × число бит хэша) и усредняет пропускную способность.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hash-partition-bench/internal/arena"
	"hash-partition-bench/internal/executor"
	"hash-partition-bench/internal/harness"
	"hash-partition-bench/internal/partitioner"
	"hash-partition-bench/internal/placement"
	"hash-partition-bench/internal/record"
	"hash-partition-bench/internal/report"
)

var ErrInvalidGrid = errors.New("invalid sweep grid")

type Grid struct {
	Strategies    []harness.Strategy
	Runs          int
	WorkerOptions []int
	HashBits      []int
	Multiplier    int
	MaxCapacity   int
}

type Sweeper struct {
	grid      Grid
	router    *partitioner.Router
	placement placement.Policy
	budget    arena.MemoryAcquirer
	recorder  harness.Recorder
	sinks     map[harness.Strategy]report.Sink
}

type Option func(*Sweeper)

func WithRouter(r *partitioner.Router) Option {
	return func(s *Sweeper) {
		s.router = r
	}
}

func WithPlacement(p placement.Policy) Option {
	return func(s *Sweeper) {
		s.placement = p
	}
}

func WithMemoryAcquirer(m arena.MemoryAcquirer) Option {
	return func(s *Sweeper) {
		s.budget = m
	}
}

func WithRecorder(r harness.Recorder) Option {
	return func(s *Sweeper) {
		s.recorder = r
	}
}

// WithSink направляет строки стратегии strategy в sink.
func WithSink(strategy harness.Strategy, sink report.Sink) Option {
	return func(s *Sweeper) {
		s.sinks[strategy] = sink
	}
}

func NewSweeper(grid Grid, opts ...Option) (*Sweeper, error) {
	if grid.Runs <= 0 || len(grid.WorkerOptions) == 0 || len(grid.HashBits) == 0 || len(grid.Strategies) == 0 {
		return nil, ErrInvalidGrid
	}
	for _, w := range grid.WorkerOptions {
		if w <= 0 {
			return nil, fmt.Errorf("%w: worker count %d", ErrInvalidGrid, w)
		}
	}

	s := &Sweeper{
		grid:      grid,
		router:    partitioner.NewRouter(),
		placement: placement.Noop{},
		sinks:     make(map[harness.Strategy]report.Sink),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run проходит всю сетку и возвращает строки в порядке обхода.
// Ячейка без единого успешного прогона пропускается и логируется.
// Возвращает ошибку только при отмене контекста.
func (s *Sweeper) Run(ctx context.Context, records []record.Record) ([]report.Row, error) {
	var rows []report.Row

	for _, workers := range s.grid.WorkerOptions {
		cellRows, err := s.runWorkers(ctx, records, workers)
		rows = append(rows, cellRows...)
		if err != nil {
			return rows, err
		}
	}

	return rows, nil
}

// runWorkers проходит все ячейки с одним числом воркеров на общем пуле.
func (s *Sweeper) runWorkers(ctx context.Context, records []record.Record, workers int) ([]report.Row, error) {
	pool, err := executor.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := pool.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}()

	h := harness.New(
		harness.WithRouter(s.router),
		harness.WithExecutor(pool),
		harness.WithPlacement(s.placement),
		harness.WithMemoryAcquirer(s.budget),
		harness.WithRecorder(s.recorder),
	)

	var rows []report.Row
	for _, bits := range s.grid.HashBits {
		for _, strategy := range s.grid.Strategies {
			cfg := harness.Config{
				Strategy:    strategy,
				WorkerCount: workers,
				HashBits:    bits,
				Multiplier:  s.grid.Multiplier,
				MaxCapacity: s.grid.MaxCapacity,
			}

			row, ok, err := s.runCell(ctx, h, records, cfg)
			if err != nil {
				return rows, err
			}
			if !ok {
				continue
			}

			rows = append(rows, row)
			if sink, found := s.sinks[strategy]; found {
				if err := sink.Write(ctx, row); err != nil {
					zap.L().Error("report write failed",
						zap.String("method", row.Method),
						zap.Error(err))
				}
			}
		}
	}

	return rows, nil
}

// runCell выполняет Runs прогонов одной ячейки и усредняет успешные.
func (s *Sweeper) runCell(ctx context.Context, h *harness.Harness, records []record.Record, cfg harness.Config) (report.Row, bool, error) {
	var (
		total     float64
		succeeded int
		dropped   int
		runID     string
	)

	for run := range s.grid.Runs {
		if err := ctx.Err(); err != nil {
			return report.Row{}, false, err
		}

		res, err := h.Run(ctx, records, cfg)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report.Row{}, false, ctxErr
			}
			zap.L().Warn("run skipped",
				zap.String("method", string(cfg.Strategy)),
				zap.Int("workers", cfg.WorkerCount),
				zap.Int("hash_bits", cfg.HashBits),
				zap.Int("run", run),
				zap.Error(err))
			continue
		}

		total += res.Throughput
		dropped += res.Dropped
		succeeded++
		runID = res.RunID
		res.Release()
	}

	if succeeded == 0 {
		zap.L().Error("cell failed",
			zap.String("method", string(cfg.Strategy)),
			zap.Int("workers", cfg.WorkerCount),
			zap.Int("hash_bits", cfg.HashBits))
		return report.Row{}, false, nil
	}

	row := report.Row{
		RunID:       runID,
		Method:      string(cfg.Strategy),
		WorkerCount: cfg.WorkerCount,
		HashBits:    cfg.HashBits,
		Throughput:  total / float64(succeeded),
		Runs:        succeeded,
		Dropped:     dropped,
		Timestamp:   time.Now().UTC(),
	}

	zap.L().Info("cell finished",
		zap.String("method", row.Method),
		zap.Int("workers", row.WorkerCount),
		zap.Int("hash_bits", row.HashBits),
		zap.Float64("throughput_mtps", row.Throughput),
		zap.Int("runs", row.Runs))

	return row, true, nil
}
