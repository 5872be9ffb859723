package harness

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hash-partition-bench/internal/arena"
	"hash-partition-bench/internal/consolidator"
	"hash-partition-bench/internal/executor"
	"hash-partition-bench/internal/partitioner"
	"hash-partition-bench/internal/placement"
	"hash-partition-bench/internal/planner"
	"hash-partition-bench/internal/record"
)

// Harness выполняет прогоны: прогрев, сброс и замеренный проход.
// Прогоны одного Harness должны идти последовательно.
type Harness struct {
	router    *partitioner.Router
	executor  executor.Executor
	placement placement.Policy
	budget    arena.MemoryAcquirer
	recorder  Recorder

	state atomic.Int32
}

type Option func(*Harness)

func WithRouter(r *partitioner.Router) Option {
	return func(h *Harness) {
		h.router = r
	}
}

func WithExecutor(e executor.Executor) Option {
	return func(h *Harness) {
		h.executor = e
	}
}

func WithPlacement(p placement.Policy) Option {
	return func(h *Harness) {
		h.placement = p
	}
}

// WithMemoryAcquirer ограничивает память, которую прогон выделяет под буферы.
func WithMemoryAcquirer(m arena.MemoryAcquirer) Option {
	return func(h *Harness) {
		h.budget = m
	}
}

func WithRecorder(r Recorder) Option {
	return func(h *Harness) {
		h.recorder = r
	}
}

// New создаёт Harness. По умолчанию каждый воркер запускается на отдельной горутине,
// закреплённая за потоком ОС, без привязки к ядрам.
func New(opts ...Option) *Harness {
	h := &Harness{
		router:    partitioner.NewRouter(),
		executor:  executor.NewSpawner(),
		placement: placement.Noop{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// State возвращает фазу текущего или последнего прогона.
func (h *Harness) State() State {
	return State(h.state.Load())
}

func (h *Harness) setState(s State) {
	h.state.Store(int32(s))
}

func (h *Harness) arenaOpts() []arena.Option {
	if h.budget == nil {
		return nil
	}
	return []arena.Option{arena.WithMemoryAcquirer(h.budget)}
}

// Run выделяет буферы под cfg и выполняет прогон.
// Буферы принадлежат результату и освобождаются через Result.Release.
func (h *Harness) Run(ctx context.Context, records []record.Record, cfg Config) (*Result, error) {
	partitionCount, err := cfg.validate()
	if err != nil {
		return nil, h.fail(cfg, err)
	}

	plan, err := planner.Plan(len(records), partitionCount, cfg.Multiplier, cfg.capacityLimit())
	if err != nil {
		return nil, h.fail(cfg, err)
	}

	switch cfg.Strategy {
	case SharedStrategy:
		bufs, err := newSharedBuffers(plan, h.arenaOpts())
		if err != nil {
			return nil, h.fail(cfg, err)
		}
		res, err := h.runShared(ctx, records, cfg, bufs)
		if err != nil {
			bufs.Release()
			return nil, err
		}
		res.owned = append(res.owned, bufs.Release)
		return res, nil

	default:
		bufs, err := newIsolatedBuffers(cfg.WorkerCount, plan, h.arenaOpts())
		if err != nil {
			return nil, h.fail(cfg, err)
		}
		defer bufs.Release()
		return h.runIsolated(ctx, records, cfg, bufs)
	}
}

// RunShared выполняет прогон общей стратегии на заранее выделенных буферах.
// Эффективная ёмкость ограничена ёмкостью bufs.
func (h *Harness) RunShared(ctx context.Context, records []record.Record, cfg Config, bufs *SharedBuffers) (*Result, error) {
	cfg.Strategy = SharedStrategy
	partitionCount, err := cfg.validate()
	if err != nil {
		return nil, h.fail(cfg, err)
	}
	if bufs.PartitionCount() != partitionCount {
		return nil, h.fail(cfg, fmt.Errorf("%w: buffers hold %d partitions, run needs %d",
			planner.ErrSizing, bufs.PartitionCount(), partitionCount))
	}
	return h.runShared(ctx, records, cfg, bufs)
}

// RunIsolated выполняет прогон изолированной стратегии на заранее выделенных буферах.
// bufs должны вмещать не меньше cfg.WorkerCount воркеров.
func (h *Harness) RunIsolated(ctx context.Context, records []record.Record, cfg Config, bufs *IsolatedBuffers) (*Result, error) {
	cfg.Strategy = IsolatedStrategy
	partitionCount, err := cfg.validate()
	if err != nil {
		return nil, h.fail(cfg, err)
	}
	if bufs.PartitionCount() != partitionCount || bufs.WorkerCount() < cfg.WorkerCount {
		return nil, h.fail(cfg, fmt.Errorf("%w: buffers hold %d workers x %d partitions, run needs %d x %d",
			planner.ErrSizing, bufs.WorkerCount(), bufs.PartitionCount(), cfg.WorkerCount, partitionCount))
	}
	return h.runIsolated(ctx, records, cfg, bufs)
}

func (h *Harness) runShared(ctx context.Context, records []record.Record, cfg Config, bufs *SharedBuffers) (*Result, error) {
	plan, segments, err := h.prepare(records, cfg, bufs.PartitionCount(), bufs.Capacity())
	if err != nil {
		return nil, h.fail(cfg, err)
	}

	route := h.router.Func()
	write := func(_ int, seg planner.Segment) int {
		return bufs.Write(records, seg, route)
	}

	h.setState(WarmUp)
	if err := bufs.Reset(plan.PerPartitionCapacity); err != nil {
		return nil, h.fail(cfg, err)
	}
	if _, err := h.writePass(ctx, segments, write); err != nil {
		return nil, h.fail(cfg, err)
	}

	h.setState(Reset)
	if err := bufs.Reset(plan.PerPartitionCapacity); err != nil {
		return nil, h.fail(cfg, err)
	}

	h.setState(Timed)
	start := time.Now()
	dropped, err := h.writePass(ctx, segments, write)
	elapsed := time.Since(start)
	if err != nil {
		return nil, h.fail(cfg, err)
	}

	res := h.newResult(records, cfg, plan, elapsed, dropped)
	res.Output = bufs
	res.Counts = bufs.Counts()

	return h.finish(cfg, res)
}

func (h *Harness) runIsolated(ctx context.Context, records []record.Record, cfg Config, bufs *IsolatedBuffers) (*Result, error) {
	plan, segments, err := h.prepare(records, cfg, bufs.PartitionCount(), bufs.Capacity())
	if err != nil {
		return nil, h.fail(cfg, err)
	}

	c := consolidator.NewConsolidator(h.arenaOpts()...)
	if cfg.ConsolidateParallelism > 0 {
		if err := c.SetParallelism(cfg.ConsolidateParallelism); err != nil {
			return nil, h.fail(cfg, err)
		}
	}

	route := h.router.Func()
	write := func(worker int, seg planner.Segment) int {
		return bufs.Write(worker, records, seg, route)
	}

	h.setState(WarmUp)
	if err := bufs.Reset(plan.PerPartitionCapacity); err != nil {
		return nil, h.fail(cfg, err)
	}
	if _, err := h.writePass(ctx, segments, write); err != nil {
		return nil, h.fail(cfg, err)
	}
	warm, err := c.Consolidate(ctx, bufs)
	if err != nil {
		return nil, h.fail(cfg, err)
	}
	warm.Release()

	h.setState(Reset)
	if err := bufs.Reset(plan.PerPartitionCapacity); err != nil {
		return nil, h.fail(cfg, err)
	}

	h.setState(Timed)
	start := time.Now()
	dropped, err := h.writePass(ctx, segments, write)
	if err != nil {
		return nil, h.fail(cfg, err)
	}
	out, err := c.Consolidate(ctx, bufs)
	elapsed := time.Since(start)
	if err != nil {
		return nil, h.fail(cfg, err)
	}

	res := h.newResult(records, cfg, plan, elapsed, dropped)
	res.ConsolidateElapsed = out.Elapsed
	res.Output = out
	res.Counts = out.Counts()
	res.owned = append(res.owned, out.Release)

	res, err = h.finish(cfg, res)
	if err != nil {
		out.Release()
	}
	return res, err
}

// prepare считает эффективную ёмкость и сегменты воркеров.
func (h *Harness) prepare(records []record.Record, cfg Config, partitionCount, bufferCapacity int) (planner.CapacityPlan, []planner.Segment, error) {
	h.setState(Idle)

	maxCapacity := min(bufferCapacity, cfg.capacityLimit())

	plan, err := planner.Plan(len(records), partitionCount, cfg.Multiplier, maxCapacity)
	if err != nil {
		return planner.CapacityPlan{}, nil, err
	}

	segments, err := planner.Segments(len(records), cfg.WorkerCount)
	if err != nil {
		return planner.CapacityPlan{}, nil, err
	}

	return plan, segments, nil
}

// writePass запускает по воркеру на сегмент и ждёт их завершения.
// Возвращает суммарное число отброшенных записей.
func (h *Harness) writePass(ctx context.Context, segments []planner.Segment, write func(worker int, seg planner.Segment) int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	drops := make([]int, len(segments))
	var bindOnce sync.Once

	for w, seg := range segments {
		err := h.executor.Submit(func() {
			if err := h.placement.Bind(w); err != nil {
				bindOnce.Do(func() {
					zap.L().Warn("worker placement failed", zap.Int("worker", w), zap.Error(err))
				})
			}
			drops[w] = write(w, seg)
		})
		if err != nil {
			if werr := h.executor.Wait(); werr != nil {
				zap.L().Error(werr.Error())
			}
			return 0, fmt.Errorf("%w: worker %d: %w", ErrWorkerStart, w, err)
		}
	}

	if err := h.executor.Wait(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWorkerFailed, err)
	}

	dropped := 0
	for _, d := range drops {
		dropped += d
	}
	return dropped, nil
}

func (h *Harness) newResult(records []record.Record, cfg Config, plan planner.CapacityPlan, elapsed time.Duration, dropped int) *Result {
	return &Result{
		RunID:          uuid.NewString(),
		Strategy:       cfg.Strategy,
		WorkerCount:    cfg.WorkerCount,
		HashBits:       cfg.HashBits,
		PartitionCount: plan.PartitionCount,
		Capacity:       plan.PerPartitionCapacity,
		Elapsed:        elapsed,
		Throughput:     Throughput(len(records), elapsed),
		Dropped:        dropped,
	}
}

func (h *Harness) finish(cfg Config, res *Result) (*Result, error) {
	if res.Dropped > 0 {
		zap.L().Warn("partition overflow",
			zap.String("run_id", res.RunID),
			zap.String("method", string(cfg.Strategy)),
			zap.Int("hash_bits", cfg.HashBits),
			zap.Int("capacity", res.Capacity),
			zap.Int("dropped", res.Dropped))

		if cfg.FailOnOverflow {
			return nil, h.fail(cfg, &OverflowError{Dropped: res.Dropped, Capacity: res.Capacity})
		}
	}

	h.setState(Done)

	if h.recorder != nil {
		h.recorder.ObserveRun(string(cfg.Strategy), cfg.WorkerCount, cfg.HashBits, res.Throughput, res.Elapsed, res.Dropped)
	}

	zap.L().Debug("run finished",
		zap.String("run_id", res.RunID),
		zap.String("method", string(cfg.Strategy)),
		zap.Int("workers", cfg.WorkerCount),
		zap.Int("hash_bits", cfg.HashBits),
		zap.Duration("elapsed", res.Elapsed),
		zap.Float64("throughput_mtps", res.Throughput))

	return res, nil
}

func (h *Harness) fail(cfg Config, err error) error {
	h.setState(Failed)

	if h.recorder != nil {
		h.recorder.ObserveFailure(string(cfg.Strategy), cfg.WorkerCount, cfg.HashBits)
	}

	zap.L().Error("run failed",
		zap.String("method", string(cfg.Strategy)),
		zap.Int("workers", cfg.WorkerCount),
		zap.Int("hash_bits", cfg.HashBits),
		zap.Error(err))

	return err
}
