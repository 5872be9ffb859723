package executor

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool — фиксированный набор воркеров, каждый на собственном потоке ОС.
type Pool struct {
	tasksCh         chan Task
	pending         sync.WaitGroup
	workersFinished chan struct{}
	closeCh         chan struct{}
	mu              sync.RWMutex
	closed          atomic.Bool
	size            int
	panics          panics
}

// NewPool создаёт Pool и запускает workerCount воркеров
// и горутину, отслеживающую их завершение.
func NewPool(workerCount int) (*Pool, error) {
	if workerCount <= 0 {
		return nil, ErrInvalidSize
	}

	p := &Pool{
		tasksCh:         make(chan Task, workerCount),
		workersFinished: make(chan struct{}),
		closeCh:         make(chan struct{}),
		size:            workerCount,
	}

	wg := &sync.WaitGroup{}
	wg.Add(workerCount)
	for range workerCount {
		go p.worker(wg)
	}

	go func() {
		wg.Wait()
		close(p.workersFinished)
	}()

	return p, nil
}

// Size возвращает число воркеров.
func (p *Pool) Size() int {
	return p.size
}

// Submit ставит задачу в очередь. Блокируется, пока все воркеры заняты
// и очередь заполнена. Возвращает ErrClosed, если Pool закрыт.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed.Load() {
		return ErrClosed
	}

	p.pending.Add(1)
	p.tasksCh <- task

	return nil
}

// Wait блокируется до завершения всех поставленных задач.
// Возвращает ErrTaskPanic, если какая-то из них запаниковала.
func (p *Pool) Wait() error {
	p.pending.Wait()
	return p.panics.take()
}

// Close дожидается поставленных задач и останавливает воркеров.
// Повторный вызов возвращает ErrClosed.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed.Swap(true) {
		p.mu.Unlock()
		return ErrClosed
	}
	p.mu.Unlock()

	p.pending.Wait()
	close(p.closeCh)
	<-p.workersFinished

	return nil
}

// worker не отпускает поток ОС: при выходе горутины поток завершается
// вместе с привязкой к ядру, если она была.
func (p *Pool) worker(wg *sync.WaitGroup) {
	defer wg.Done()
	runtime.LockOSThread()

	for {
		select {
		case <-p.closeCh:
			return
		case task := <-p.tasksCh:
			p.run(task)
		}
	}
}

func (p *Pool) run(task Task) {
	defer p.pending.Done()
	defer p.panics.catch()

	task()
}
