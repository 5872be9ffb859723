package writer

import (
	"fmt"

	"hash-partition-bench/internal/arena"
	"hash-partition-bench/internal/partitioner"
	"hash-partition-bench/internal/planner"
	"hash-partition-bench/internal/record"
)

// SharedBuffers — общий для всех воркеров набор буферов, по одному на партицию.
// Позицию в буфере воркер получает под мьютексом партиции,
// а саму запись кладёт уже без блокировки.
type SharedBuffers struct {
	arena      *arena.Arena
	partitions [][]record.Record
	slots      []slot
	capacity   int
	effective  int
}

// NewSharedBuffers выделяет одну арену на partitionCount*capacity записей
// и режет её на окна по партициям.
func NewSharedBuffers(partitionCount, capacity int, opts ...arena.Option) (*SharedBuffers, error) {
	if partitionCount <= 0 {
		return nil, fmt.Errorf("%w: partition count %d", ErrInvalidLayout, partitionCount)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	a, err := arena.New(partitionCount*capacity, opts...)
	if err != nil {
		return nil, err
	}

	views, err := a.Split(partitionCount, capacity)
	if err != nil {
		a.Release()
		return nil, err
	}

	b := &SharedBuffers{
		arena:      a,
		partitions: make([][]record.Record, partitionCount),
		slots:      make([]slot, partitionCount),
		capacity:   capacity,
		effective:  capacity,
	}
	for p, v := range views {
		b.partitions[p] = a.Slice(v)
	}

	return b, nil
}

// Reset обнуляет счётчики и задаёт эффективную ёмкость партиции.
// Ёмкость не может превышать выделенную.
func (b *SharedBuffers) Reset(capacity int) error {
	if capacity <= 0 || capacity > b.capacity {
		return fmt.Errorf("%w: %d (allocated %d)", ErrInvalidCapacity, capacity, b.capacity)
	}

	b.effective = capacity
	for i := range b.slots {
		b.slots[i].next = 0
	}

	return nil
}

// Write раскладывает записи сегмента по партициям.
// Возвращает число записей, не поместившихся в буфер своей партиции.
// Безопасен для одновременного вызова из разных воркеров на непересекающихся сегментах.
func (b *SharedBuffers) Write(records []record.Record, seg planner.Segment, route partitioner.RouteFn) int {
	count := len(b.partitions)
	capacity := b.effective
	dropped := 0

	for i := seg.Start; i < seg.End; i++ {
		r := records[i]
		p := route(r.Key, count)

		s := &b.slots[p]
		s.mu.Lock()
		idx := s.next
		if idx < capacity {
			s.next++
		}
		s.mu.Unlock()

		if idx >= capacity {
			dropped++
			continue
		}

		b.partitions[p][idx] = r
	}

	return dropped
}

// PartitionCount возвращает число партиций.
func (b *SharedBuffers) PartitionCount() int {
	return len(b.partitions)
}

// Capacity возвращает выделенную ёмкость одной партиции.
func (b *SharedBuffers) Capacity() int {
	return b.capacity
}

// Len возвращает число записей в партиции p.
// Вызывать только после завершения всех воркеров.
func (b *SharedBuffers) Len(p int) int {
	return b.slots[p].next
}

// Partition возвращает записанные записи партиции p.
func (b *SharedBuffers) Partition(p int) []record.Record {
	return b.partitions[p][:b.slots[p].next]
}

// Counts возвращает число записей в каждой партиции.
func (b *SharedBuffers) Counts() []int {
	counts := make([]int, len(b.slots))
	for p := range b.slots {
		counts[p] = b.slots[p].next
	}
	return counts
}

// Release освобождает арену.
func (b *SharedBuffers) Release() {
	b.arena.Release()
}
