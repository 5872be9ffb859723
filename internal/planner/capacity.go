package planner

import (
	"fmt"
	"math/bits"
)

const (
	// DefaultMultiplier задаёт запас над равномерным ожиданием размера партиции.
	DefaultMultiplier = 2
	// MaxHashBits ограничивает число партиций значением 2^MaxHashBits.
	MaxHashBits = 30
)

// CapacityPlan вычисляется один раз на прогон и дальше только читается.
type CapacityPlan struct {
	PerPartitionCapacity int
	PartitionCount       int
}

// PartitionCount возвращает 2^hashBits.
func PartitionCount(hashBits int) (int, error) {
	if hashBits < 0 || hashBits > MaxHashBits {
		return 0, fmt.Errorf("%w: hash bits %d out of [0, %d]", ErrSizing, hashBits, MaxHashBits)
	}
	return 1 << hashBits, nil
}

// HashBits возвращает log2(partitionCount) для степени двойки.
func HashBits(partitionCount int) (int, error) {
	if partitionCount <= 0 || partitionCount&(partitionCount-1) != 0 {
		return 0, fmt.Errorf("%w: partition count %d is not a power of two", ErrSizing, partitionCount)
	}
	return bits.TrailingZeros(uint(partitionCount)), nil
}

// Plan считает ёмкость буфера одной партиции:
// min(maxCapacity, floor(tupleCount/partitionCount) * multiplier).
// Возвращает ErrSizing, если записей меньше, чем партиций,
// или если план даёт буферы нулевой ёмкости.
func Plan(tupleCount, partitionCount, multiplier, maxCapacity int) (CapacityPlan, error) {
	if partitionCount <= 0 {
		return CapacityPlan{}, fmt.Errorf("%w: partition count %d", ErrSizing, partitionCount)
	}
	if tupleCount < partitionCount {
		return CapacityPlan{}, fmt.Errorf("%w: %d records cannot fill %d partitions", ErrSizing, tupleCount, partitionCount)
	}
	if multiplier <= 0 {
		multiplier = DefaultMultiplier
	}

	capacity := (tupleCount / partitionCount) * multiplier
	if capacity > maxCapacity {
		capacity = maxCapacity
	}
	if capacity < 1 {
		return CapacityPlan{}, fmt.Errorf("%w: zero capacity (max capacity %d)", ErrSizing, maxCapacity)
	}

	return CapacityPlan{
		PerPartitionCapacity: capacity,
		PartitionCount:       partitionCount,
	}, nil
}
