package writer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hash-partition-bench/internal/arena"
	"hash-partition-bench/internal/partitioner"
	"hash-partition-bench/internal/planner"
	"hash-partition-bench/internal/record"
)

func multiset(records []record.Record) map[record.Record]int {
	m := make(map[record.Record]int, len(records))
	for _, r := range records {
		m[r]++
	}
	return m
}

func writeShared(t *testing.T, b *SharedBuffers, records []record.Record, workers int) int {
	t.Helper()

	segments, err := planner.Segments(len(records), workers)
	require.NoError(t, err)
	route := partitioner.NewRouter().Func()

	dropped := make([]int, workers)
	var wg sync.WaitGroup
	for w, seg := range segments {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dropped[w] = b.Write(records, seg, route)
		}()
	}
	wg.Wait()

	total := 0
	for _, d := range dropped {
		total += d
	}
	return total
}

func TestSharedBuffers_NoLossNoDuplication(t *testing.T) {
	records, err := record.GenerateSeeded(10_000, 7)
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 4, 8} {
		b, err := NewSharedBuffers(16, len(records))
		require.NoError(t, err)

		dropped := writeShared(t, b, records, workers)
		assert.Zero(t, dropped)

		var out []record.Record
		route := partitioner.NewRouter().Func()
		for p := range b.PartitionCount() {
			for _, r := range b.Partition(p) {
				assert.Equal(t, p, route(r.Key, 16))
			}
			out = append(out, b.Partition(p)...)
		}
		assert.Equal(t, multiset(records), multiset(out), "workers=%d", workers)
		b.Release()
	}
}

func TestSharedBuffers_Overflow(t *testing.T) {
	records := record.SameKey(8, [8]byte{9})

	b, err := NewSharedBuffers(4, 4)
	require.NoError(t, err)
	defer b.Release()
	require.NoError(t, b.Reset(1))

	dropped := writeShared(t, b, records, 2)

	assert.Equal(t, 7, dropped)
	total := 0
	for _, c := range b.Counts() {
		total += c
	}
	assert.Equal(t, 1, total)
}

func TestSharedBuffers_ResetClearsCounters(t *testing.T) {
	records, err := record.GenerateSeeded(64, 1)
	require.NoError(t, err)

	b, err := NewSharedBuffers(4, 64)
	require.NoError(t, err)
	defer b.Release()

	writeShared(t, b, records, 2)
	first := b.Counts()

	require.NoError(t, b.Reset(64))
	assert.Equal(t, []int{0, 0, 0, 0}, b.Counts())

	writeShared(t, b, records, 3)
	assert.Equal(t, first, b.Counts())
}

func TestSharedBuffers_InvalidArgs(t *testing.T) {
	_, err := NewSharedBuffers(0, 4)
	assert.ErrorIs(t, err, ErrInvalidLayout)
	_, err = NewSharedBuffers(4, 0)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	b, err := NewSharedBuffers(2, 4)
	require.NoError(t, err)
	defer b.Release()
	assert.ErrorIs(t, b.Reset(5), ErrInvalidCapacity)
	assert.ErrorIs(t, b.Reset(0), ErrInvalidCapacity)
}

func TestSharedBuffers_AllocationFailure(t *testing.T) {
	budget := arena.NewBudget(record.Size)

	_, err := NewSharedBuffers(4, 4, arena.WithMemoryAcquirer(budget))
	assert.ErrorIs(t, err, arena.ErrAllocationFailed)
	assert.Zero(t, budget.Used())
}

func TestIsolatedBuffers_PerWorkerFragments(t *testing.T) {
	records, err := record.GenerateSeeded(4096, 11)
	require.NoError(t, err)

	const workers, partitions = 4, 8
	b, err := NewIsolatedBuffers(workers, partitions, len(records))
	require.NoError(t, err)
	defer b.Release()

	segments, err := planner.Segments(len(records), workers)
	require.NoError(t, err)
	route := partitioner.NewRouter().Func()

	var wg sync.WaitGroup
	dropped := make([]int, workers)
	for w, seg := range segments {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dropped[w] = b.Write(w, records, seg, route)
		}()
	}
	wg.Wait()

	assert.Equal(t, []int{0, 0, 0, 0}, dropped)

	var out []record.Record
	for w, seg := range segments {
		own := multiset(records[seg.Start:seg.End])
		for p := range partitions {
			frag := b.Fragment(w, p)
			assert.Len(t, frag, b.Size(w, p))
			for _, r := range frag {
				assert.Positive(t, own[r], "worker %d wrote a record outside its segment", w)
				assert.Equal(t, p, route(r.Key, partitions))
			}
			out = append(out, frag...)
		}
	}
	assert.Equal(t, multiset(records), multiset(out))

	total := 0
	for _, c := range b.Counts() {
		total += c
	}
	assert.Equal(t, len(records), total)
}

func TestIsolatedBuffers_Overflow(t *testing.T) {
	records := record.SameKey(8, [8]byte{3})

	b, err := NewIsolatedBuffers(1, 4, 8)
	require.NoError(t, err)
	defer b.Release()
	require.NoError(t, b.Reset(1))

	dropped := b.Write(0, records, planner.Segment{Start: 0, End: 8}, partitioner.NewRouter().Func())

	assert.Equal(t, 7, dropped)
	total := 0
	for _, c := range b.Counts() {
		total += c
	}
	assert.Equal(t, 1, total)

	require.NoError(t, b.Reset(8))
	assert.Equal(t, []int{0, 0, 0, 0}, b.Counts())
}

func TestIsolatedBuffers_InvalidArgs(t *testing.T) {
	_, err := NewIsolatedBuffers(0, 4, 4)
	assert.ErrorIs(t, err, ErrInvalidLayout)
	_, err = NewIsolatedBuffers(2, 4, -1)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}
