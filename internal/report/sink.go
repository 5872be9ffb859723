package report

import (
	"context"
	"errors"

	"hash-partition-bench/internal/dispatcher"
)

var ErrSinkClosed = errors.New("sink closed")

// Sink принимает строки отчёта.
type Sink = dispatcher.Writer[Row]

// MultiSink пишет каждую строку во все вложенные Sink.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Write пишет строку во все Sink, даже если часть из них вернула ошибку.
func (m *MultiSink) Write(ctx context.Context, row Row) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(ctx, row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
