package executor

// Task обрабатывает один сегмент входных данных.
type Task = func()

// Executor запускает задачи воркеров и ожидает их завершения.
// Wait возвращает ErrTaskPanic, если хотя бы одна задача запаниковала.
type Executor interface {
	Submit(task Task) error
	Wait() error
}
