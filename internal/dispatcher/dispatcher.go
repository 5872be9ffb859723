package dispatcher

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Dispatcher оборачивает Writer повторными попытками с растущим таймаутом.
// Сам Dispatcher тоже является Writer.
type Dispatcher[T any] struct {
	writer  Writer[T]
	backoff Backoff
}

// NewDispatcher создает Dispatcher с параметрами DefaultBackoff.
func NewDispatcher[T any](writer Writer[T]) *Dispatcher[T] {
	return &Dispatcher[T]{
		writer:  writer,
		backoff: DefaultBackoff(),
	}
}

// SetBackoff меняет параметры повторных попыток.
func (d *Dispatcher[T]) SetBackoff(b Backoff) error {
	if err := b.validate(); err != nil {
		return err
	}
	d.backoff = b
	return nil
}

// Write выполняет запись с использованием механизма повторных попыток (backoff).
func (d *Dispatcher[T]) Write(ctx context.Context, data T) error {
	return d.writeWithBackoff(ctx, data)
}

// Close закрывает обёрнутый Writer.
func (d *Dispatcher[T]) Close() error {
	return d.writer.Close()
}

// writeWithBackoff повторяет запись, пока она не пройдёт.
// После каждой неудачи таймаут попытки умножается на Multiply.
// Если контекст отменен — возвращается ошибка контекста.
// Если попытки кончились — возвращается ErrBackoffTimeout.
func (d *Dispatcher[T]) writeWithBackoff(ctx context.Context, data T) error {
	timeout := d.backoff.StartTimeout

	for attempt := range d.backoff.Attempts {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := d.singleWrite(ctx, timeout, data); err != nil {
			zap.L().Warn("write attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Duration("timeout", timeout),
				zap.Error(err))
			timeout = time.Duration(float64(timeout) * d.backoff.Multiply)
			continue
		}

		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrBackoffTimeout
}

// singleWrite выполняет одну попытку записи с ограничением по времени.
func (d *Dispatcher[T]) singleWrite(ctx context.Context, timeout time.Duration, data T) error {
	ctxT, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return d.writer.Write(ctxT, data)
}
