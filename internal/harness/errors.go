package harness

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStrategy   = errors.New("invalid strategy")
	ErrInvalidConfig     = errors.New("invalid run config")
	ErrWorkerStart       = errors.New("worker start failure")
	ErrWorkerFailed      = errors.New("worker failure")
	ErrPartitionOverflow = errors.New("partition overflow")
)

// OverflowError сообщает, сколько записей не поместилось в буферы партиций.
type OverflowError struct {
	Dropped  int
	Capacity int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: %d records dropped at capacity %d", ErrPartitionOverflow, e.Dropped, e.Capacity)
}

func (e *OverflowError) Unwrap() error {
	return ErrPartitionOverflow
}
