// Package placement привязывает поток воркера к ядру или NUMA-узлу.
// Привязка влияет только на производительность и никогда на корректность.
package placement

import "errors"

var (
	ErrUnsupported = errors.New("placement: unsupported on this platform")
	ErrInvalidKind = errors.New("placement: invalid kind")
)

type Kind string

const (
	NoneKind Kind = "none"
	CoreKind Kind = "core"
	NUMAKind Kind = "numa"
)

// ParseKind проверяет имя политики. Пустая строка означает NoneKind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case NoneKind, CoreKind, NUMAKind:
		return Kind(s), nil
	case "":
		return NoneKind, nil
	}
	return "", ErrInvalidKind
}

// Policy привязывает текущий поток ОС воркера workerID.
// Вызывается воркером в начале задачи, до записи.
type Policy interface {
	Bind(workerID int) error
}

// Noop ничего не привязывает.
type Noop struct{}

func (Noop) Bind(int) error {
	return nil
}

// New возвращает политику по её имени.
func New(kind Kind) (Policy, error) {
	switch kind {
	case NoneKind, "":
		return Noop{}, nil
	case CoreKind:
		return NewCore(), nil
	case NUMAKind:
		n, err := NewNUMA()
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, ErrInvalidKind
}
