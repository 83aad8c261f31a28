package topo

import "github.com/katalvlaran/wotanest/internal/rrgraph"

// Direction selects which adjacency list the driver walks.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

// legalUnset marks NumLegalIn/NumLegalOut as "not yet computed" (spec §4.5:
// "computed lazily on first visit").
const legalUnset = int32(-1)

// NodeInfo is the per-pair scratch the driver and its callbacks share for
// one node (spec §3 "topo_inf"): visitation counters, topological level,
// the cutline-recursive smoothing state, and the per-weight bucket arrays
// carried by the path-count propagator and the estimators.
type NodeInfo struct {
	DoneFromSrc, DoneFromSink     bool
	VisitsFromSrc, VisitsFromSink int32
	NumLegalIn, NumLegalOut       int32

	Level    int
	Smoothed bool

	AdjustedDemand float64

	SourceBuckets []float64
	SinkBuckets   []float64

	// DemandDiscounts accumulates, per source bucket, the sum of upstream
	// child_demand_contributions that fed this node during a PathDependence
	// forward propagate pass (spec §4.12, grounded on
	// analysis_propagate.cxx's demand_discounts array).
	DemandDiscounts []float64

	seen bool // true once this node has been touched during the current pair
}

func (n *NodeInfo) reset() {
	n.seen = false
	n.DoneFromSrc, n.DoneFromSink = false, false
	n.VisitsFromSrc, n.VisitsFromSink = 0, 0
	n.NumLegalIn, n.NumLegalOut = legalUnset, legalUnset
	n.Level = 0
	n.Smoothed = false
	n.AdjustedDemand = 0
	for i := range n.SourceBuckets {
		n.SourceBuckets[i] = rrgraph.Undefined
	}
	for i := range n.SinkBuckets {
		n.SinkBuckets[i] = rrgraph.Undefined
	}
	for i := range n.DemandDiscounts {
		n.DemandDiscounts[i] = 0
	}
}

// State is the reusable per-thread scratch for one traversal: topo_inf for
// every node plus the cycle-breaking waiting set. One State is owned by a
// single worker goroutine and reset between pairs by walking only the
// nodes actually touched (spec §3 "Lifecycle"), never by scanning the
// whole graph.
type State struct {
	info       []NodeInfo
	visited    []int32
	maxBuckets int
	Waiting    *WaitingSet
}

// NewState allocates scratch for a graph with the given node count.
// maxBuckets bounds the per-node bucket arrays; callers (enumerate,
// estimate) must never index beyond the W_max+1 (or +3 for hop-mode
// padding) they were given for the current pair.
func NewState(numNodes, maxBuckets int) *State {
	s := &State{
		info:       make([]NodeInfo, numNodes),
		visited:    make([]int32, 0, 64),
		maxBuckets: maxBuckets,
		Waiting:    NewWaitingSet(),
	}
	for i := range s.info {
		s.info[i].SourceBuckets = make([]float64, maxBuckets)
		s.info[i].SinkBuckets = make([]float64, maxBuckets)
		s.info[i].DemandDiscounts = make([]float64, maxBuckets)
		s.info[i].NumLegalIn, s.info[i].NumLegalOut = legalUnset, legalUnset
		for j := 0; j < maxBuckets; j++ {
			s.info[i].SourceBuckets[j] = rrgraph.Undefined
			s.info[i].SinkBuckets[j] = rrgraph.Undefined
		}
	}
	return s
}

// Info returns the mutable scratch for node idx.
func (s *State) Info(idx int32) *NodeInfo { return &s.info[idx] }

// MaxBuckets reports the capacity of every node's bucket arrays.
func (s *State) MaxBuckets() int { return s.maxBuckets }

// Touch marks idx as visited this pair so Reset clears its scratch. Callers
// outside this package (enumerate, estimate) must call this before writing
// directly into a node's bucket arrays via Info, so the O(|visited|) Reset
// still catches it.
func (s *State) Touch(idx int32) { s.touch(idx) }

// touch records idx as visited this pair, for O(|visited|) Reset.
func (s *State) touch(idx int32) {
	if !s.info[idx].seen {
		s.info[idx].seen = true
		s.visited = append(s.visited, idx)
	}
}

// Reset clears scratch for every node touched since the last Reset.
func (s *State) Reset() {
	for _, idx := range s.visited {
		s.info[idx].reset()
	}
	s.visited = s.visited[:0]
	s.Waiting.Reset()
}
