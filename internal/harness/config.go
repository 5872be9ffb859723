package harness

import (
	"fmt"
	"math"
	"time"

	"hash-partition-bench/internal/planner"
)

// Config описывает один прогон.
type Config struct {
	Strategy    Strategy
	WorkerCount int
	HashBits    int
	// Multiplier задаёт запас ёмкости; 0 означает planner.DefaultMultiplier.
	Multiplier int
	// MaxCapacity ограничивает ёмкость партиции; 0 снимает предел.
	MaxCapacity int
	// FailOnOverflow превращает отброшенные записи в ошибку прогона.
	FailOnOverflow bool
	// ConsolidateParallelism ограничивает число одновременно сливаемых партиций; 0 означает 1.
	ConsolidateParallelism int
}

func (c Config) validate() (int, error) {
	if _, err := ParseStrategy(string(c.Strategy)); err != nil {
		return 0, err
	}
	if c.WorkerCount <= 0 {
		return 0, fmt.Errorf("%w: worker count %d", ErrInvalidConfig, c.WorkerCount)
	}
	if c.MaxCapacity < 0 || c.ConsolidateParallelism < 0 {
		return 0, fmt.Errorf("%w: negative limit", ErrInvalidConfig)
	}
	return planner.PartitionCount(c.HashBits)
}

func (c Config) capacityLimit() int {
	if c.MaxCapacity == 0 {
		return math.MaxInt
	}
	return c.MaxCapacity
}

// Recorder получает итоги прогонов, например для метрик.
type Recorder interface {
	ObserveRun(method string, workers, hashBits int, throughput float64, elapsed time.Duration, dropped int)
	ObserveFailure(method string, workers, hashBits int)
}
