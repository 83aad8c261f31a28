package rrgraph

import "sync"

// Kind identifies what an RRG node represents.
type Kind uint8

const (
	Source Kind = iota
	Sink
	IPin
	OPin
	ChanX
	ChanY
)

func (k Kind) String() string {
	switch k {
	case Source:
		return "SOURCE"
	case Sink:
		return "SINK"
	case IPin:
		return "IPIN"
	case OPin:
		return "OPIN"
	case ChanX:
		return "CHANX"
	case ChanY:
		return "CHANY"
	default:
		return "UNKNOWN"
	}
}

// BucketMode selects whether per-node buckets are indexed by cumulative
// path weight or by hop count (spec §3 "Bucket semantics").
type BucketMode uint8

const (
	ByPathWeight BucketMode = iota
	ByPathHops
)

// SelfCongestionMode selects how demand attributable to the (src,sink) pair
// under analysis is subtracted back out (spec §4.12 / C12).
type SelfCongestionMode uint8

const (
	SelfCongestionNone SelfCongestionMode = iota
	SelfCongestionRadius
	SelfCongestionPathDependence
)

func (m SelfCongestionMode) String() string {
	switch m {
	case SelfCongestionRadius:
		return "radius"
	case SelfCongestionPathDependence:
		return "path_dependence"
	default:
		return "none"
	}
}

// ParseSelfCongestionMode maps the -self_congestion flag value to a mode.
func ParseSelfCongestionMode(s string) (SelfCongestionMode, error) {
	switch s {
	case "", "none":
		return SelfCongestionNone, nil
	case "radius":
		return SelfCongestionRadius, nil
	case "path_dependence":
		return SelfCongestionPathDependence, nil
	default:
		return 0, NewError(KindInit, "rrgraph.ParseSelfCongestionMode", "unknown self-congestion mode: "+s)
	}
}

// Undefined is the bucket sentinel distinguishing "no paths of this weight
// yet" from "zero paths" (spec §3).
const Undefined = -1.0

// NoVirtualSource marks a Node with no attached synthetic source.
const NoVirtualSource = -1

// PolarKey indexes the Radius self-congestion path-count history table by
// (manhattan radius, arc, source/sink ptc) as described in spec §4.12.
type PolarKey struct {
	Radius int
	Arc    int
	Ptc    int
}

// Node is one vertex of the routing-resource graph. Topology fields
// (Kind, coordinates, OutEdges/InEdges, Weight) are immutable once the
// graph is built; Demand and the two optional self-congestion side tables
// are mutated by many worker goroutines under Mu.
type Node struct {
	Index int32
	Kind  Kind

	XLow, YLow   int32
	Span         int32 // >=1; only ChanX/ChanY may exceed 1
	Ptc          int32 // within-tile pin/track/class index

	Weight int64 // routing cost; recomputable from demand

	// PinProb is the architecture-supplied usage probability of this node.
	// The orchestrator reads a Source node's own PinProb as the pair's
	// source_prob; it does not sum the PinProb values of the pins under
	// that source. Defaults to 1.0 for nodes the parser does not set it on.
	PinProb float64

	OutEdges []int32 // neighbor node indices
	InEdges  []int32 // derived in a post-load pass from OutEdges

	// VirtualSourceInd, if not NoVirtualSource, is the index of a synthetic
	// Source node attached to this node so paths can be enumerated backward
	// through it (fanout analysis). Only meaningful for Sink/ChanX/ChanY.
	VirtualSourceInd int32

	// IsVirtual marks a Source created by the virtual-source augmentation
	// pass (an external collaborator per spec §1); used by the metric
	// aggregator to route a connection into the fanout bucket instead of
	// the driver bucket.
	IsVirtual bool

	Mu sync.Mutex // guards Demand, ChildDemandContribution, PathCountHistory

	Demand float64

	// ChildDemandContribution[e][i] is the path count this node contributed
	// to child out-edge e at bucket i. Allocated only in PathDependence mode.
	ChildDemandContribution [][]float64

	// PathCountHistory is allocated iff self-congestion mode is Radius and
	// Kind is one of IPin/OPin/ChanX/ChanY (spec §3 invariant).
	PathCountHistory map[PolarKey]float64
}

// XHigh returns the tile-high x coordinate: xlow+span-1 for ChanX, xlow otherwise.
func (n *Node) XHigh() int32 {
	if n.Kind == ChanX {
		return n.XLow + n.Span - 1
	}
	return n.XLow
}

// YHigh returns the tile-high y coordinate: ylow+span-1 for ChanY, ylow otherwise.
func (n *Node) YHigh() int32 {
	if n.Kind == ChanY {
		return n.YLow + n.Span - 1
	}
	return n.YLow
}

// AddDemand atomically (under Mu) adds contribution*multiplier to Demand.
func (n *Node) AddDemand(contribution, multiplier float64) {
	n.Mu.Lock()
	n.Demand += contribution * multiplier
	n.Mu.Unlock()
}

// SnapshotDemand reads Demand under lock.
func (n *Node) SnapshotDemand() float64 {
	n.Mu.Lock()
	d := n.Demand
	n.Mu.Unlock()
	return d
}

// Graph is the immutable-topology routing-resource graph. Nodes are
// constructed once at load time and never destroyed until program exit
// (spec §3 "Lifecycle").
type Graph struct {
	Nodes []*Node

	GridW, GridH int32

	// FillBlockType is the dominant block type name on the tile grid.
	// Empty means "no fill type found", which is an Arch-kind invariant
	// violation once FPGA-mode analysis begins (spec §4.14).
	FillBlockType string
}

// Node returns the node at idx, or nil if out of range.
func (g *Graph) Node(idx int32) *Node {
	if idx < 0 || int(idx) >= len(g.Nodes) {
		return nil
	}
	return g.Nodes[idx]
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int { return len(g.Nodes) }

// DeriveInEdges populates InEdges for every node from the OutEdges of all
// nodes, maintaining the invariant "for every u->v in out_edges[u], there is
// a matching entry u in in_edges[v]" (spec §3). Must be called once after
// all nodes/out-edges are loaded, and again whenever topology changes (e.g.
// after virtual-source augmentation).
func (g *Graph) DeriveInEdges() {
	for _, n := range g.Nodes {
		n.InEdges = n.InEdges[:0]
	}
	for _, n := range g.Nodes {
		for _, to := range n.OutEdges {
			child := g.Node(to)
			if child == nil {
				continue
			}
			child.InEdges = append(child.InEdges, n.Index)
		}
	}
}

// ValidateInvariants re-checks the structural invariants declared in
// spec §3 and returns a *WotanError of Kind Graph on the first violation.
func (g *Graph) ValidateInvariants() error {
	inSet := make([]map[int32]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		inSet[i] = make(map[int32]bool, len(n.InEdges))
		for _, p := range n.InEdges {
			inSet[i][p] = true
		}
	}
	for _, n := range g.Nodes {
		for _, to := range n.OutEdges {
			child := g.Node(to)
			if child == nil {
				return Wrap(KindGraph, "Graph.ValidateInvariants",
					ErrNodeNotFound)
			}
			if !inSet[child.Index][n.Index] {
				return Wrap(KindGraph, "Graph.ValidateInvariants",
					ErrGraphAsymmetricEdge(n.Index, child.Index))
			}
		}
		if n.Kind == ChanX && n.YHigh() != n.YLow {
			return Wrap(KindGraph, "Graph.ValidateInvariants", ErrChanSpanInvariant)
		}
		if n.Kind == ChanY && n.XHigh() != n.XLow {
			return Wrap(KindGraph, "Graph.ValidateInvariants", ErrChanSpanInvariant)
		}
	}

	return nil
}
