package consolidator

import (
	"time"

	"hash-partition-bench/internal/arena"
	"hash-partition-bench/internal/record"
)

// Partitions — слитые партиции, по одному непрерывному окну на партицию.
type Partitions struct {
	arena   *arena.Arena
	views   []arena.View
	Elapsed time.Duration
}

func (p *Partitions) PartitionCount() int {
	return len(p.views)
}

func (p *Partitions) Partition(i int) []record.Record {
	return p.arena.Slice(p.views[i])
}

func (p *Partitions) Len(i int) int {
	return p.views[i].Length
}

func (p *Partitions) Counts() []int {
	counts := make([]int, len(p.views))
	for i, v := range p.views {
		counts[i] = v.Length
	}
	return counts
}

func (p *Partitions) Release() {
	p.arena.Release()
}
