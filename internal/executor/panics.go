package executor

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// panics запоминает первую панику задач с последнего Wait.
type panics struct {
	mu  sync.Mutex
	err error
}

// catch вызывается только через defer внутри горутины задачи.
func (p *panics) catch() {
	r := recover()
	if r == nil {
		return
	}

	zap.L().Error("task panicked", zap.Any("panic", r))

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
	}
}

// take возвращает накопленную ошибку и сбрасывает её.
func (p *panics) take() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.err
	p.err = nil
	return err
}
