package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

var Header = []string{"Method", "WorkerCount", "HashBits", "Throughput(MT/s)"}

// CSVSink пишет строки в CSV с заголовком Header.
// Пропускная способность выводится с двумя знаками после запятой.
type CSVSink struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
	closed bool
}

// NewCSVSink пишет заголовок в w. Если w реализует io.Closer,
// Close закроет его.
func NewCSVSink(w io.Writer) (*CSVSink, error) {
	s := &CSVSink{w: csv.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}

	if err := s.w.Write(Header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	return s, nil
}

// CreateCSV создаёт (или перезаписывает) файл path и возвращает CSVSink поверх него.
func CreateCSV(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	s, err := NewCSVSink(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

// Write пишет строку и сразу сбрасывает буфер.
func (s *CSVSink) Write(_ context.Context, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}

	err := s.w.Write([]string{
		row.Method,
		strconv.Itoa(row.WorkerCount),
		strconv.Itoa(row.HashBits),
		strconv.FormatFloat(row.Throughput, 'f', 2, 64),
	})
	if err != nil {
		return err
	}

	s.w.Flush()
	return s.w.Error()
}

func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	s.closed = true

	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
