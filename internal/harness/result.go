package harness

import (
	"time"

	"hash-partition-bench/internal/record"
)

// Output — партиции, полученные в замеренном прогоне.
type Output interface {
	PartitionCount() int
	Partition(i int) []record.Record
	Counts() []int
}

type Result struct {
	RunID              string
	Strategy           Strategy
	WorkerCount        int
	HashBits           int
	PartitionCount     int
	Capacity           int
	Elapsed            time.Duration
	ConsolidateElapsed time.Duration
	// Throughput в миллионах записей в секунду.
	Throughput float64
	Dropped    int
	Counts     []int
	Output     Output

	owned []func()
}

// Release освобождает буферы, выделенные самим Harness.
// Буферы, переданные вызывающим, не трогает.
func (r *Result) Release() {
	for _, release := range r.owned {
		release()
	}
	r.owned = nil
	r.Output = nil
}

// Throughput возвращает миллионы записей в секунду.
func Throughput(records int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	return float64(records) / elapsed.Seconds() / 1e6
}
