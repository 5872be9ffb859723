package consolidator

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"hash-partition-bench/internal/arena"
	"hash-partition-bench/internal/record"
)

var ErrInvalidParallelism = errors.New("invalid parallelism")

// Fragments хранит результат изолированной записи: по фрагменту на пару (воркер, партиция).
type Fragments interface {
	WorkerCount() int
	PartitionCount() int
	Fragment(worker, partition int) []record.Record
}

type Consolidator struct {
	parallelism int
	opts        []arena.Option
}

// NewConsolidator создаёт Consolidator, сливающий партиции последовательно.
func NewConsolidator(opts ...arena.Option) *Consolidator {
	return &Consolidator{
		parallelism: 1,
		opts:        opts,
	}
}

// SetParallelism задаёт, сколько партиций может сливаться одновременно.
func (c *Consolidator) SetParallelism(n int) error {
	if n <= 0 {
		return ErrInvalidParallelism
	}
	c.parallelism = n
	return nil
}

// Consolidate собирает фрагменты каждой логической партиции в один непрерывный буфер.
// Фрагменты копируются в порядке возрастания номера воркера.
// Все воркеры должны быть завершены до вызова.
func (c *Consolidator) Consolidate(ctx context.Context, frags Fragments) (*Partitions, error) {
	start := time.Now()

	workers := frags.WorkerCount()
	count := frags.PartitionCount()

	offsets := make([]int, count+1)
	for p := range count {
		size := 0
		for w := range workers {
			size += len(frags.Fragment(w, p))
		}
		offsets[p+1] = offsets[p] + size
	}

	a, err := arena.New(offsets[count], c.opts...)
	if err != nil {
		return nil, err
	}

	out := &Partitions{
		arena: a,
		views: make([]arena.View, count),
	}
	for p := range count {
		v, err := a.View(offsets[p], offsets[p+1]-offsets[p])
		if err != nil {
			a.Release()
			return nil, err
		}
		out.views[p] = v
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)

	for p := range count {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			dst := a.Slice(out.views[p])
			n := 0
			for w := range workers {
				n += copy(dst[n:], frags.Fragment(w, p))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.Release()
		return nil, err
	}

	out.Elapsed = time.Since(start)

	return out, nil
}
