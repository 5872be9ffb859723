package planner

import "fmt"

// Segment — полуинтервал [Start, End) индексов входного массива,
// закреплённый ровно за одним воркером.
type Segment struct {
	Start int
	End   int
}

// Len возвращает число записей в сегменте.
func (s Segment) Len() int {
	return s.End - s.Start
}

// Segments делит n записей между workers воркерами.
// Сегменты не пересекаются и покрывают [0, n) без пропусков;
// последний сегмент забирает остаток от целочисленного деления.
func Segments(n, workers int) ([]Segment, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("%w: worker count %d", ErrSizing, workers)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: record count %d", ErrSizing, n)
	}

	base := n / workers
	segments := make([]Segment, workers)
	for i := range segments {
		start := base * i
		end := start + base
		if i == workers-1 {
			end = n
		}
		segments[i] = Segment{Start: start, End: end}
	}

	return segments, nil
}
