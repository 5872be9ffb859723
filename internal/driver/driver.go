// Package driver собирает компоненты бенчмарка из конфигурации
// и выполняет одиночный прогон для команд cmd/concurrent и cmd/independent.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"hash-partition-bench/internal/arena"
	"hash-partition-bench/internal/config"
	"hash-partition-bench/internal/harness"
	"hash-partition-bench/internal/partitioner"
	"hash-partition-bench/internal/placement"
	"hash-partition-bench/internal/record"
)

var ErrUsage = errors.New("usage: <WORKER_COUNT> <HASH_BITS>")

// Components хранит зависимости, общие для всех прогонов процесса.
type Components struct {
	Router    *partitioner.Router
	Placement placement.Policy
	Budget    *arena.Budget
}

// Build создаёт роутер, политику размещения и бюджет памяти по cfg.
func Build(cfg *config.Config) (*Components, error) {
	router := partitioner.NewRouter()
	if err := router.SetMode(cfg.HashMode); err != nil {
		return nil, err
	}

	policy, err := placement.New(cfg.Placement)
	if err != nil {
		return nil, fmt.Errorf("placement %s: %w", cfg.Placement, err)
	}

	return &Components{
		Router:    router,
		Placement: policy,
		Budget:    arena.NewBudget(cfg.MemoryLimitBytes),
	}, nil
}

// ParseArgs разбирает позиционные аргументы <WORKER_COUNT> <HASH_BITS>.
func ParseArgs(args []string) (workers, hashBits int, err error) {
	if len(args) != 2 {
		return 0, 0, ErrUsage
	}

	workers, err = strconv.Atoi(args[0])
	if err != nil || workers <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid WORKER_COUNT %q", ErrUsage, args[0])
	}

	hashBits, err = strconv.Atoi(args[1])
	if err != nil || hashBits < 0 {
		return 0, 0, fmt.Errorf("%w: invalid HASH_BITS %q", ErrUsage, args[1])
	}

	return workers, hashBits, nil
}

// RunSingle генерирует cfg.TupleCount записей, выполняет один прогон strategy
// и печатает в out заголовок Threads,HashBits,Throughput и строку результата.
func RunSingle(ctx context.Context, strategy harness.Strategy, args []string, cfg *config.Config, out io.Writer) error {
	workers, hashBits, err := ParseArgs(args)
	if err != nil {
		return err
	}

	c, err := Build(cfg)
	if err != nil {
		return err
	}

	records, err := record.Generate(cfg.TupleCount)
	if err != nil {
		return err
	}

	h := harness.New(
		harness.WithRouter(c.Router),
		harness.WithPlacement(c.Placement),
		harness.WithMemoryAcquirer(c.Budget),
	)

	res, err := h.Run(ctx, records, harness.Config{
		Strategy:    strategy,
		WorkerCount: workers,
		HashBits:    hashBits,
		MaxCapacity: cfg.MaxCapacity,
	})
	if err != nil {
		return err
	}
	defer res.Release()

	zap.L().Info("run finished",
		zap.String("run_id", res.RunID),
		zap.String("method", string(strategy)),
		zap.Int("workers", workers),
		zap.Int("hash_bits", hashBits),
		zap.Int("capacity", res.Capacity),
		zap.Int("dropped", res.Dropped),
		zap.Duration("elapsed", res.Elapsed))

	_, err = fmt.Fprintf(out, "Threads,HashBits,Throughput\n%d,%d,%.2f\n", workers, hashBits, res.Throughput)
	return err
}
