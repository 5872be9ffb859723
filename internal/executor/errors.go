package executor

import "errors"

var (
	ErrClosed      = errors.New("executor closed")
	ErrWorkerLimit = errors.New("worker limit reached")
	ErrInvalidSize = errors.New("invalid worker count")
	ErrTaskPanic   = errors.New("task panicked")
)
