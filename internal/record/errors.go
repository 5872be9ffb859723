package record

import "errors"

var (
	ErrInvalidCount = errors.New("invalid record count")
)
