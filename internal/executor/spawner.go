package executor

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Spawner запускает каждую задачу на отдельной горутине,
// закреплённой за собственным потоком ОС.
type Spawner struct {
	wg         sync.WaitGroup
	running    atomic.Int64
	maxWorkers int64
	panics     panics
}

func NewSpawner() *Spawner {
	return &Spawner{}
}

// SetMaxWorkers ограничивает число одновременно работающих задач.
// 0 снимает ограничение.
func (s *Spawner) SetMaxWorkers(n int) {
	s.maxWorkers = int64(n)
}

// Submit запускает задачу. Возвращает ErrWorkerLimit,
// если уже работает maxWorkers задач.
func (s *Spawner) Submit(task Task) error {
	if n := s.running.Add(1); s.maxWorkers > 0 && n > s.maxWorkers {
		s.running.Add(-1)
		return ErrWorkerLimit
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Add(-1)
		defer s.panics.catch()
		runtime.LockOSThread()

		task()
	}()

	return nil
}

// Wait блокируется до завершения всех запущенных задач.
// Возвращает ErrTaskPanic, если какая-то из задач запаниковала.
func (s *Spawner) Wait() error {
	s.wg.Wait()
	return s.panics.take()
}
