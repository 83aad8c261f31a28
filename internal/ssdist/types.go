package ssdist

import "github.com/katalvlaran/wotanest/internal/rrgraph"

// UndefinedDist marks a node as not yet reached from either end.
const UndefinedDist = int64(1) << 62

// Distances holds the per-node scratch a single (src,sink) pair resolves:
// weight-distance and hop-count from both ends (spec §3 "Per-pair
// scratch"). One Distances is owned by a single worker goroutine and
// reused across pairs via Reset.
type Distances struct {
	SrcDist  []int64
	SinkDist []int64
	SrcHops  []int64
	SinkHops []int64

	// Visited lists every node index touched while resolving this pair, so
	// callers can reset scratch in O(|visited|) instead of O(|graph|)
	// (spec §3 "Lifecycle").
	Visited []int32

	// WMax is the effective max path weight for this pair: the lesser of
	// the caller's bound and ceil(W_min * Flex) (spec §4.3).
	WMax int64
}

// NewDistances allocates scratch sized to the graph's node count.
func NewDistances(n int) *Distances {
	d := &Distances{
		SrcDist:  make([]int64, n),
		SinkDist: make([]int64, n),
		SrcHops:  make([]int64, n),
		SinkHops: make([]int64, n),
		Visited:  make([]int32, 0, 64),
	}
	for i := 0; i < n; i++ {
		d.SrcDist[i] = UndefinedDist
		d.SinkDist[i] = UndefinedDist
		d.SrcHops[i] = UndefinedDist
		d.SinkHops[i] = UndefinedDist
	}
	return d
}

// Reset clears only the nodes touched by the previous pair (spec §3).
func (d *Distances) Reset() {
	for _, idx := range d.Visited {
		d.SrcDist[idx] = UndefinedDist
		d.SinkDist[idx] = UndefinedDist
		d.SrcHops[idx] = UndefinedDist
		d.SinkHops[idx] = UndefinedDist
	}
	d.Visited = d.Visited[:0]
	d.WMax = 0
}

func (d *Distances) touch(idx int32) {
	if d.SrcDist[idx] == UndefinedDist && d.SinkDist[idx] == UndefinedDist &&
		d.SrcHops[idx] == UndefinedDist && d.SinkHops[idx] == UndefinedDist {
		d.Visited = append(d.Visited, idx)
	}
}

// IsLegal reports whether node idx can lie on some source->sink path of
// weight <= wMax given the currently resolved distances (spec §4.4, C4).
func (d *Distances) IsLegal(g *rrgraph.Graph, idx int32, wMax int64) bool {
	sd := d.SrcDist[idx]
	kd := d.SinkDist[idx]
	if sd == UndefinedDist || kd == UndefinedDist {
		return false
	}
	return IsLegalValues(sd, kd, g.Node(idx).Weight, wMax)
}

// IsLegalValues is the value-only form of the legality filter, usable by
// packages (topo, enumerate, estimate) that only carry raw distances, not
// a *Distances.
func IsLegalValues(srcDist, sinkDist, nodeWeight, wMax int64) bool {
	if srcDist == UndefinedDist || sinkDist == UndefinedDist {
		return false
	}
	return srcDist+sinkDist-nodeWeight <= wMax
}
