package topo

import "container/heap"

// waitingKey is one entry of the cycle-breaking "waiting" structure (spec
// §4.5/§4.13): iteration/pop order is descending path-weight-proxy, then
// ascending distance-to-start, then ascending node id.
type waitingKey struct {
	weight      int64
	distToStart int64
	node        int32
}

func (a waitingKey) less(b waitingKey) bool {
	if a.weight != b.weight {
		return a.weight > b.weight // descending weight
	}
	if a.distToStart != b.distToStart {
		return a.distToStart < b.distToStart // ascending dist-to-start
	}
	return a.node < b.node // ascending node id, tie breaker
}

// waitingHeap is a container/heap.Interface ordering waitingKey so that
// Pop always returns the "first" element per waitingKey.less.
type waitingHeap []waitingKey

func (h waitingHeap) Len() int            { return len(h) }
func (h waitingHeap) Less(i, j int) bool  { return h[i].less(h[j]) }
func (h waitingHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *waitingHeap) Push(x interface{}) { *h = append(*h, x.(waitingKey)) }
func (h *waitingHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// WaitingSet backs the topological driver's cycle-breaker: an ordered
// key-to-value structure supporting insert/erase/min, implemented as a
// binary heap with lazy deletion (spec §9 "Cycles in a topological
// graph"), the same lazy-decrease-key idiom the teacher's Dijkstra uses
// for stale heap entries.
type WaitingSet struct {
	h       waitingHeap
	removed map[int32]bool
	count   int
}

// NewWaitingSet returns an empty WaitingSet.
func NewWaitingSet() *WaitingSet {
	return &WaitingSet{removed: make(map[int32]bool)}
}

// Insert adds node with the given ordering key.
func (w *WaitingSet) Insert(node int32, weight, distToStart int64) {
	heap.Push(&w.h, waitingKey{weight: weight, distToStart: distToStart, node: node})
	delete(w.removed, node)
	w.count++
}

// Erase marks node as logically removed. O(1); the heap entry is skipped
// lazily on the next PopFirst.
func (w *WaitingSet) Erase(node int32) {
	if w.removed[node] {
		return
	}
	w.removed[node] = true
	w.count--
}

// Empty reports whether the set has no live (non-erased) entries.
func (w *WaitingSet) Empty() bool { return w.count == 0 }

// PopFirst removes and returns the first live entry by waitingKey order.
func (w *WaitingSet) PopFirst() (int32, bool) {
	for w.h.Len() > 0 {
		top := heap.Pop(&w.h).(waitingKey)
		if w.removed[top.node] {
			delete(w.removed, top.node)
			continue
		}
		w.count--
		return top.node, true
	}
	return 0, false
}

// Reset empties the set for reuse across pairs.
func (w *WaitingSet) Reset() {
	w.h = w.h[:0]
	for k := range w.removed {
		delete(w.removed, k)
	}
	w.count = 0
}
