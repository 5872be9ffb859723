package harness

import (
	"hash-partition-bench/internal/arena"
	"hash-partition-bench/internal/planner"
	"hash-partition-bench/internal/writer"
)

type (
	SharedBuffers   = writer.SharedBuffers
	IsolatedBuffers = writer.IsolatedBuffers
)

func newSharedBuffers(plan planner.CapacityPlan, opts []arena.Option) (*SharedBuffers, error) {
	return writer.NewSharedBuffers(plan.PartitionCount, plan.PerPartitionCapacity, opts...)
}

func newIsolatedBuffers(workers int, plan planner.CapacityPlan, opts []arena.Option) (*IsolatedBuffers, error) {
	return writer.NewIsolatedBuffers(workers, plan.PartitionCount, plan.PerPartitionCapacity, opts...)
}
