package dispatcher

import (
	"errors"
	"time"
)

const (
	defaultBackoffMultiply     = 1.2
	defaultStartBackoffTimeout = 1 * time.Second
	defaultBackoffAttemptCount = 5
)

var (
	ErrBackoffTimeout = errors.New("backoff timeout")
	ErrInvalidBackoff = errors.New("invalid backoff")
)

// Backoff задаёт число попыток и рост таймаута одной попытки.
type Backoff struct {
	Attempts     int
	StartTimeout time.Duration
	Multiply     float64
}

// DefaultBackoff даёт пять попыток, начиная с секунды, с ростом в 1.2 раза.
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts:     defaultBackoffAttemptCount,
		StartTimeout: defaultStartBackoffTimeout,
		Multiply:     defaultBackoffMultiply,
	}
}

func (b Backoff) validate() error {
	if b.Attempts <= 0 || b.StartTimeout <= 0 || b.Multiply < 1 {
		return ErrInvalidBackoff
	}
	return nil
}
