package executor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsAllTasks(t *testing.T) {
	p, err := NewPool(4)
	require.NoError(t, err)
	defer p.Close()

	var done atomic.Int32
	for range 100 {
		require.NoError(t, p.Submit(func() {
			done.Add(1)
		}))
	}
	p.Wait()

	assert.Equal(t, int32(100), done.Load())
}

func TestPool_WaitBlocksUntilFinished(t *testing.T) {
	p, err := NewPool(2)
	require.NoError(t, err)
	defer p.Close()

	var finished atomic.Bool
	require.NoError(t, p.Submit(func() {
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	}))

	start := time.Now()
	p.Wait()

	assert.True(t, finished.Load())
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestPool_ReusableAcrossBatches(t *testing.T) {
	p, err := NewPool(3)
	require.NoError(t, err)
	defer p.Close()

	var done atomic.Int32
	for batch := 1; batch <= 3; batch++ {
		for range 3 {
			require.NoError(t, p.Submit(func() { done.Add(1) }))
		}
		p.Wait()
		assert.Equal(t, int32(3*batch), done.Load())
	}
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p, err := NewPool(1)
	require.NoError(t, err)

	assert.NoError(t, p.Close())
	assert.ErrorIs(t, p.Submit(func() {}), ErrClosed)
	assert.ErrorIs(t, p.Close(), ErrClosed)
}

func TestPool_PanicDoesNotLeakPending(t *testing.T) {
	p, err := NewPool(1)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Submit(func() { panic("boom") }))

	waited := make(chan error, 1)
	go func() {
		waited <- p.Wait()
	}()

	select {
	case err := <-waited:
		assert.ErrorIs(t, err, ErrTaskPanic)
	case <-time.After(time.Second):
		assert.Fail(t, "Wait не вернулся после паники в задаче")
	}

	require.NoError(t, p.Submit(func() {}))
	assert.NoError(t, p.Wait(), "ошибка паники должна сбрасываться после Wait")
}

func TestSpawner_PanicReportedByWait(t *testing.T) {
	s := NewSpawner()

	var done atomic.Int32
	require.NoError(t, s.Submit(func() { done.Add(1) }))
	require.NoError(t, s.Submit(func() { panic("boom") }))

	assert.ErrorIs(t, s.Wait(), ErrTaskPanic)
	assert.Equal(t, int32(1), done.Load())

	require.NoError(t, s.Submit(func() {}))
	assert.NoError(t, s.Wait())
}

func TestNewPool_InvalidSize(t *testing.T) {
	_, err := NewPool(0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestSpawner_RunsAllTasks(t *testing.T) {
	s := NewSpawner()

	var done atomic.Int32
	for range 16 {
		require.NoError(t, s.Submit(func() { done.Add(1) }))
	}
	s.Wait()

	assert.Equal(t, int32(16), done.Load())
}

func TestSpawner_WorkerLimit(t *testing.T) {
	s := NewSpawner()
	s.SetMaxWorkers(1)

	release := make(chan struct{})
	require.NoError(t, s.Submit(func() { <-release }))
	assert.ErrorIs(t, s.Submit(func() {}), ErrWorkerLimit)

	close(release)
	s.Wait()

	assert.NoError(t, s.Submit(func() {}))
	s.Wait()
}

func TestExecutorInterface(t *testing.T) {
	p, err := NewPool(1)
	require.NoError(t, err)
	defer p.Close()

	var _ Executor = p
	var _ Executor = NewSpawner()
}
