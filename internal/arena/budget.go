package arena

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// MemoryAcquirer резервирует и освобождает память под буферы.
type MemoryAcquirer interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

// Budget учитывает память, занятую аренами.
// При limit == 0 ограничения нет, ведётся только учёт.
type Budget struct {
	limit int64
	sem   *semaphore.Weighted
	used  atomic.Int64
}

// NewBudget создаёт бюджет с жёстким лимитом limit байт.
func NewBudget(limit int64) *Budget {
	b := &Budget{limit: limit}
	if limit > 0 {
		b.sem = semaphore.NewWeighted(limit)
	}
	return b
}

// AcquireMemory не блокируется: если лимит будет превышен,
// сразу возвращает ErrMemoryLimitExceeded.
func (b *Budget) AcquireMemory(bytes int64) error {
	if b == nil || bytes <= 0 {
		return nil
	}

	if b.sem != nil && !b.sem.TryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}

	b.used.Add(bytes)
	return nil
}

// ReleaseMemory возвращает bytes в бюджет.
func (b *Budget) ReleaseMemory(bytes int64) {
	if b == nil || bytes <= 0 {
		return
	}

	if b.sem != nil {
		b.sem.Release(bytes)
	}
	b.used.Add(-bytes)
}

// Used возвращает занятый объём в байтах.
func (b *Budget) Used() int64 {
	if b == nil {
		return 0
	}
	return b.used.Load()
}

// Limit возвращает лимит в байтах; 0 означает, что лимита нет.
func (b *Budget) Limit() int64 {
	if b == nil {
		return 0
	}
	return b.limit
}
