package writer

import (
	"fmt"

	"hash-partition-bench/internal/arena"
	"hash-partition-bench/internal/partitioner"
	"hash-partition-bench/internal/planner"
	"hash-partition-bench/internal/record"
)

// IsolatedBuffers хранит по фрагменту на пару (воркер, партиция).
// Во время записи каждый воркер владеет только своими фрагментами,
// поэтому синхронизация не нужна.
type IsolatedBuffers struct {
	arena      *arena.Arena
	workers    int
	partitions int
	fragments  [][]record.Record
	sizes      []int
	capacity   int
	effective  int
}

// NewIsolatedBuffers выделяет одну арену на workerCount*partitionCount*capacity записей.
func NewIsolatedBuffers(workerCount, partitionCount, capacity int, opts ...arena.Option) (*IsolatedBuffers, error) {
	if workerCount <= 0 || partitionCount <= 0 {
		return nil, fmt.Errorf("%w: %d workers, %d partitions", ErrInvalidLayout, workerCount, partitionCount)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	n := workerCount * partitionCount
	a, err := arena.New(n*capacity, opts...)
	if err != nil {
		return nil, err
	}

	views, err := a.Split(n, capacity)
	if err != nil {
		a.Release()
		return nil, err
	}

	b := &IsolatedBuffers{
		arena:      a,
		workers:    workerCount,
		partitions: partitionCount,
		fragments:  make([][]record.Record, n),
		sizes:      make([]int, n),
		capacity:   capacity,
		effective:  capacity,
	}
	for i, v := range views {
		b.fragments[i] = a.Slice(v)
	}

	return b, nil
}

// Reset обнуляет размеры фрагментов и задаёт эффективную ёмкость.
func (b *IsolatedBuffers) Reset(capacity int) error {
	if capacity <= 0 || capacity > b.capacity {
		return fmt.Errorf("%w: %d (allocated %d)", ErrInvalidCapacity, capacity, b.capacity)
	}

	b.effective = capacity
	clear(b.sizes)

	return nil
}

// Write раскладывает записи сегмента по фрагментам воркера worker.
// worker должен лежать в [0, WorkerCount()). Возвращает число отброшенных записей.
func (b *IsolatedBuffers) Write(worker int, records []record.Record, seg planner.Segment, route partitioner.RouteFn) int {
	base := worker * b.partitions
	fragments := b.fragments[base : base+b.partitions]
	sizes := b.sizes[base : base+b.partitions]
	count := b.partitions
	capacity := b.effective
	dropped := 0

	for i := seg.Start; i < seg.End; i++ {
		r := records[i]
		p := route(r.Key, count)

		idx := sizes[p]
		if idx >= capacity {
			dropped++
			continue
		}

		fragments[p][idx] = r
		sizes[p] = idx + 1
	}

	return dropped
}

// WorkerCount возвращает число воркеров.
func (b *IsolatedBuffers) WorkerCount() int {
	return b.workers
}

// PartitionCount возвращает число логических партиций.
func (b *IsolatedBuffers) PartitionCount() int {
	return b.partitions
}

// Capacity возвращает выделенную ёмкость одного фрагмента.
func (b *IsolatedBuffers) Capacity() int {
	return b.capacity
}

// Size возвращает число записей во фрагменте (worker, p).
func (b *IsolatedBuffers) Size(worker, p int) int {
	return b.sizes[worker*b.partitions+p]
}

// Fragment возвращает записанную часть фрагмента (worker, p).
func (b *IsolatedBuffers) Fragment(worker, p int) []record.Record {
	i := worker*b.partitions + p
	return b.fragments[i][:b.sizes[i]]
}

// Counts возвращает суммарное число записей по логическим партициям.
func (b *IsolatedBuffers) Counts() []int {
	counts := make([]int, b.partitions)
	for w := range b.workers {
		for p := range b.partitions {
			counts[p] += b.sizes[w*b.partitions+p]
		}
	}
	return counts
}

// Release освобождает арену.
func (b *IsolatedBuffers) Release() {
	b.arena.Release()
}
