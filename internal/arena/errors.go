package arena

import "errors"

var (
	ErrAllocationFailed    = errors.New("arena: allocation failed")
	ErrMemoryLimitExceeded = errors.New("arena: memory limit exceeded")
	ErrViewOutOfBounds     = errors.New("arena: view out of bounds")
)
