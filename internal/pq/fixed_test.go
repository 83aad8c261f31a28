package pq_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/pq"
)

// maxAtTop orders Items by descending Priority, so pushing past capacity
// drops the largest value and the queue retains the K smallest.
func maxAtTop(a, b pq.Item) bool { return a.Priority > b.Priority }

func TestFixedQueue_RetainsKSmallestWhenMaxAtTop(t *testing.T) {
	q := pq.NewFixedQueue(3, maxAtTop)
	for _, v := range []float64{5, 1, 9, 2, 8, 0} {
		q.Push(pq.Item{Value: v, Priority: v})
	}
	require.Equal(t, 3, q.Len())

	var got []float64
	for _, it := range q.Items() {
		got = append(got, it.Priority)
	}
	require.ElementsMatch(t, []float64{1, 2, 0}, got, "queue should retain the 3 smallest values")
}

func TestFixedQueue_UnboundedWhenCapacityZero(t *testing.T) {
	q := pq.NewFixedQueue(0, maxAtTop)
	for i := 0; i < 100; i++ {
		q.Push(pq.Item{Priority: float64(i)})
	}
	require.Equal(t, 100, q.Len())
}

func TestFixedQueue_Sum(t *testing.T) {
	q := pq.NewFixedQueue(10, maxAtTop)
	q.Push(pq.Item{Priority: 1.5})
	q.Push(pq.Item{Priority: 2.5})
	require.InDelta(t, 4.0, q.Sum(), 1e-9)
}
