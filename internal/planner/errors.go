package planner

import "errors"

var (
	ErrSizing = errors.New("sizing error")
)
