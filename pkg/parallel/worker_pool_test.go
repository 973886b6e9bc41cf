package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(4)

	var counter int64
	for i := 0; i < 100; i++ {
		require.NoError(t, pool.Submit(func() { atomic.AddInt64(&counter, 1) }))
	}
	pool.Close()

	assert.Equal(t, int64(100), atomic.LoadInt64(&counter))
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolClosed)
}

func TestWorkerPoolDefaultsToNumCPU(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()
	assert.Greater(t, pool.Workers(), 0)
}

func TestMapPreservesOrder(t *testing.T) {
	got, err := Map(3, 10, func(i int) (int, error) { return i * i, nil })
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, got)
}

func TestMapFirstErrorByIndex(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	_, err := Map(4, 6, func(i int) (int, error) {
		switch i {
		case 2:
			return 0, errA
		case 4:
			return 0, errB
		}
		return i, nil
	})
	assert.ErrorIs(t, err, errA)
}

func TestMapRecoversPanics(t *testing.T) {
	_, err := Map(2, 3, func(i int) (int, error) {
		if i == 1 {
			panic("boom")
		}
		return i, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task 1 panicked: boom")
}

func TestMapEmpty(t *testing.T) {
	got, err := Map(4, 0, func(int) (string, error) { return "", nil })
	require.NoError(t, err)
	assert.Empty(t, got)
}
