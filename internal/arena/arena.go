// Package arena владеет одним непрерывным выделением записей и раздаёт
// воркерам и партициям окна над ним вместо ручной арифметики указателей.
package arena

import (
	"fmt"
	"math"
	"sync/atomic"

	"hash-partition-bench/internal/record"
)

type Arena struct {
	records  []record.Record
	acquirer MemoryAcquirer
	reserved int64
	released atomic.Bool
}

// Option настраивает Arena.
type Option func(*Arena)

// WithMemoryAcquirer подключает учёт памяти.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// New выделяет арену на size записей.
// Если память нельзя зарезервировать, возвращает ошибку, обёрнутую в ErrAllocationFailed.
func New(size int, opts ...Option) (a *Arena, err error) {
	if size < 0 || size > math.MaxInt64/record.Size {
		return nil, fmt.Errorf("%w: size %d", ErrAllocationFailed, size)
	}

	a = &Arena{}
	for _, opt := range opts {
		opt(a)
	}

	bytes := int64(size) * record.Size
	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(bytes); err != nil {
			return nil, fmt.Errorf("%w: %d bytes: %w", ErrAllocationFailed, bytes, err)
		}
		a.reserved = bytes
	}

	defer func() {
		if r := recover(); r != nil {
			a.Release()
			a, err = nil, fmt.Errorf("%w: %v", ErrAllocationFailed, r)
		}
	}()

	a.records = make([]record.Record, size)

	return a, nil
}

// Len возвращает ёмкость арены в записях.
func (a *Arena) Len() int {
	return len(a.records)
}

// View проверяет границы и возвращает окно [offset, offset+length).
func (a *Arena) View(offset, length int) (View, error) {
	if offset < 0 || length < 0 || offset > len(a.records)-length {
		return View{}, fmt.Errorf("%w: [%d, %d) of %d", ErrViewOutOfBounds, offset, offset+length, len(a.records))
	}
	return View{Offset: offset, Length: length}, nil
}

// Split режет арену на count соседних окон по size записей.
func (a *Arena) Split(count, size int) ([]View, error) {
	views := make([]View, count)
	for i := range views {
		v, err := a.View(i*size, size)
		if err != nil {
			return nil, err
		}
		views[i] = v
	}
	return views, nil
}

// Slice возвращает записи окна. Окно должно быть получено от этой арены.
func (a *Arena) Slice(v View) []record.Record {
	return a.records[v.Offset:v.End():v.End()]
}

// Release возвращает зарезервированную память в бюджет.
// Повторные вызовы ничего не делают.
func (a *Arena) Release() {
	if a == nil || a.released.Swap(true) {
		return
	}
	if a.acquirer != nil {
		a.acquirer.ReleaseMemory(a.reserved)
	}
	a.records = nil
}
