package writer

import "errors"

var (
	ErrInvalidCapacity = errors.New("invalid capacity")
	ErrInvalidLayout   = errors.New("invalid buffer layout")
)
