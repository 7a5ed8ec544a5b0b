package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_FIFO(t *testing.T) {
	q := NewInMemoryQueue(3)
	require.NoError(t, q.Enqueue(1))
	require.NoError(t, q.Enqueue(2))
	require.NoError(t, q.Enqueue(3))
	assert.ErrorIs(t, q.Enqueue(4), ErrQueueFull)
	assert.Equal(t, 3, q.Size())

	item, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, item)

	require.NoError(t, q.Enqueue(4))
	for _, want := range []int{2, 3, 4} {
		item, err := q.Dequeue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, item)
	}
	assert.Equal(t, 0, q.Size())
}

func TestInMemoryQueue_DequeueCancelled(t *testing.T) {
	q := NewInMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInMemoryQueue_ClearQueue(t *testing.T) {
	q := NewInMemoryQueue(0)
	for i := 0; i < 10; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	q.ClearQueue()
	assert.Equal(t, 0, q.Size())
}
