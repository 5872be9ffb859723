package dispatcher

import (
	"context"
	"io"
)

// Writer принимает значения по одному; Close сбрасывает и освобождает ресурсы.
type Writer[T any] interface {
	Write(ctx context.Context, data T) error
	io.Closer
}
