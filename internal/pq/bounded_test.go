package pq_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/pq"
)

func TestBoundedQueue_FIFOWithinBucket(t *testing.T) {
	q := pq.NewBoundedQueue(5)
	q.Push(1, 2)
	q.Push(2, 2)
	q.Push(3, 0)

	node, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, int32(3), node, "lowest weight bucket pops first")

	node, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, int32(1), node, "FIFO order within a bucket")

	node, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, int32(2), node)

	_, ok = q.Pop()
	require.False(t, ok, "queue should be empty")
}

func TestBoundedQueue_TopWeightAdvances(t *testing.T) {
	q := pq.NewBoundedQueue(3)
	q.Push(10, 3)
	require.Equal(t, 3, q.TopWeight())
	q.Push(11, 1)
	require.Equal(t, 1, q.TopWeight())
	_, _ = q.Pop()
	require.Equal(t, 3, q.TopWeight())
}

func TestBoundedQueue_ResetClearsState(t *testing.T) {
	q := pq.NewBoundedQueue(4)
	q.Push(1, 4)
	q.Push(2, 0)
	q.Reset()
	require.True(t, q.Empty())
	require.Equal(t, 0, q.Len())
	q.Push(9, 2)
	node, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, int32(9), node)
}
