package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	queue := NewRingQueue[int](4)
	assert.True(t, queue.IsEmpty())
	assert.Equal(t, 0, queue.Len())

	for i := 1; i <= 3; i++ {
		require.NoError(t, queue.Enqueue(i))
	}
	assert.Equal(t, 3, queue.Len())

	for i := 1; i <= 3; i++ {
		value, err := queue.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, value)
	}
	assert.True(t, queue.IsEmpty())
}

func TestRingQueueDequeueEmpty(t *testing.T) {
	queue := NewRingQueue[string](2)
	_, err := queue.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)

	_, err = queue.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRingQueueEnqueueFull(t *testing.T) {
	queue := NewRingQueue[int](2)
	require.NoError(t, queue.Enqueue(1))
	require.NoError(t, queue.Enqueue(2))
	assert.True(t, queue.IsFull())

	err := queue.Enqueue(3)
	assert.ErrorIs(t, err, ErrQueueFull)

	// The rejected element must not clobber the queued ones.
	value, err := queue.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestRingQueuePeekDoesNotRemove(t *testing.T) {
	queue := NewRingQueue[int](2)
	require.NoError(t, queue.Enqueue(7))

	for i := 0; i < 3; i++ {
		value, err := queue.Peek()
		require.NoError(t, err)
		assert.Equal(t, 7, value)
	}
	assert.Equal(t, 1, queue.Len())
}

func TestRingQueueWrapsAround(t *testing.T) {
	queue := NewRingQueue[int](3)
	require.NoError(t, queue.Enqueue(1))
	require.NoError(t, queue.Enqueue(2))
	require.NoError(t, queue.Enqueue(3))

	// Free two slots and refill across the buffer seam.
	for i := 1; i <= 2; i++ {
		value, err := queue.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, value)
	}
	require.NoError(t, queue.Enqueue(4))
	require.NoError(t, queue.Enqueue(5))

	for _, expected := range []int{3, 4, 5} {
		value, err := queue.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, expected, value)
	}
	assert.True(t, queue.IsEmpty())
}
