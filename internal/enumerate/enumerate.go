package enumerate

import (
	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/ssdist"
	"github.com/katalvlaran/wotanest/internal/topo"
)

// Params configures one pair's enumeration pass.
type Params struct {
	// Scale seeds the forward source bucket directly. Ignored when
	// ScaleFromCount is set.
	Scale float64

	// ScaleFromCount, when non-nil, computes the forward seed from the
	// backward pass's own output: desired_scaling_factor /
	// num_enumerated_from_src (spec §4.6 "Seeding"). num_enumerated_from_src
	// is the sum of src's sink buckets after the backward run completes, so
	// the orchestrator never needs to run the backward pass itself just to
	// learn that count.
	ScaleFromCount func(numEnumeratedFromSrc float64) float64

	// Multiplier is the CLI -demand_multiplier applied when demand is
	// accumulated, not when it is computed (spec's original_source note
	// on commit 8392b21: "apply it when we actually use the demand").
	Multiplier float64

	Mode       rrgraph.BucketMode
	Congestion rrgraph.SelfCongestionMode
}

// Result carries the pair-scoped counters the orchestrator folds into the
// reliability-polynomial routing-node count (spec §4.9).
type Result struct {
	RoutingNodesInSubgraph int
}

// Run executes the backward-then-forward enumeration pass for one
// (src,sink) pair (spec §4.6, C6): a backward topo.Run seeded at sink
// populates every legal node's sink buckets, then a forward topo.Run
// seeded at src accumulates demand and propagates source buckets.
//
// state and d must already be populated by ssdist.Resolve for this pair;
// state is not reset here — the caller resets it once per pair after both
// C6 and any estimator have run (spec §4.10 step 7).
func Run(g *rrgraph.Graph, state *topo.State, d *ssdist.Distances, src, sink int32, p Params) (Result, error) {
	legal := func(idx int32) bool { return d.IsLegal(g, idx, d.WMax) }

	sinkInfo := state.Info(sink)
	state.Touch(sink)
	sinkInfo.SinkBuckets[0] = 1

	if err := topo.Run(g, state, sink, src, topo.Backward, legal, topo.Callbacks{
		OnChild: func(parent int32, edgeIdx int, child int32) bool {
			propagateBuckets(g, state, d, parent, edgeIdx, child, topo.Backward, p.Mode, p.Congestion)
			return false
		},
	}); err != nil {
		return Result{}, err
	}

	srcInfo := state.Info(src)
	state.Touch(src)
	scale := p.Scale
	if p.ScaleFromCount != nil {
		scale = p.ScaleFromCount(sumDefined(srcInfo.SinkBuckets))
	}
	srcInfo.SourceBuckets[0] = scale

	var res Result
	if err := topo.Run(g, state, src, sink, topo.Forward, legal, topo.Callbacks{
		OnPopped: func(popped int32) {
			res.RoutingNodesInSubgraph += onPopped(g, state, d, popped, src, sink, p)
		},
		OnChild: func(parent int32, edgeIdx int, child int32) bool {
			propagateBuckets(g, state, d, parent, edgeIdx, child, topo.Forward, p.Mode, p.Congestion)
			return false
		},
	}); err != nil {
		return Result{}, err
	}

	return res, nil
}

// sumDefined adds every non-Undefined bucket value.
func sumDefined(buckets []float64) float64 {
	var total float64
	for _, v := range buckets {
		if v != rrgraph.Undefined {
			total += v
		}
	}
	return total
}

// onPopped increments demand for eligible nodes during the forward pass
// (spec §4.6 "On pop") and returns 1 if this node counts toward the
// reliability-polynomial routing-node total, 0 otherwise.
func onPopped(g *rrgraph.Graph, state *topo.State, d *ssdist.Distances, popped, src, sink int32, p Params) int {
	node := g.Node(popped)
	if node.Kind == rrgraph.Source || node.Kind == rrgraph.Sink {
		return 0
	}

	info := state.Info(popped)
	contribution := pathsThrough(info.SourceBuckets, info.SinkBuckets, int(node.Weight), d.SrcDist[popped], d.WMax)
	if node.Kind != rrgraph.OPin {
		node.AddDemand(contribution, p.Multiplier)
	}

	if p.Congestion == rrgraph.SelfCongestionRadius {
		if node.Kind == rrgraph.OPin || node.Kind == rrgraph.IPin || node.Kind == rrgraph.ChanX || node.Kind == rrgraph.ChanY {
			scaled := contribution * p.Multiplier
			node.IncrementPathCountHistory(g.Node(src), scaled)
			node.IncrementPathCountHistory(g.Node(sink), scaled)
		}
	}

	routingNode := 0
	if d.IsLegal(g, popped, d.WMax) {
		switch node.Kind {
		case rrgraph.ChanX, rrgraph.ChanY, rrgraph.IPin, rrgraph.OPin:
			routingNode = 1
		}
	}
	return routingNode
}

// pathsThrough sums source[i]*sink[j] over i+j-nodeWeight<=wMax (both
// bucket indices include the node's own weight), i>=distToSource,
// using the running-prefix technique from the original engine's
// Node_Buckets::get_num_paths: expand the sink-side sum incrementally as
// i decreases from wMax, rather than recomputing it from scratch per i.
func pathsThrough(source, sink []float64, nodeWeight int, distToSource, wMax int64) float64 {
	var total float64
	var incrementalSinkPaths float64

	nextJ := nodeWeight + 1
	for j := 0; j < nextJ && j < len(sink); j++ {
		if sink[j] != rrgraph.Undefined {
			incrementalSinkPaths += sink[j]
		}
	}

	for i := int(wMax); i >= int(distToSource); i-- {
		if i >= 0 && i < len(source) && source[i] != rrgraph.Undefined {
			total += source[i] * incrementalSinkPaths
		}
		if nextJ >= 0 && nextJ < len(sink) && sink[nextJ] != rrgraph.Undefined {
			incrementalSinkPaths += sink[nextJ]
		}
		nextJ++
	}

	return total
}

// propagateBuckets carries parent's bucket array into child's, advancing
// by child's weight (or 1, in hop mode), bounded by how far child still
// has to go to reach the pair's other endpoint (spec §4.6 "On child
// iterate"). In PathDependence mode, the forward direction additionally
// records, under parent's lock, how many of parent's paths at each bucket
// flowed into this specific child edge.
func propagateBuckets(g *rrgraph.Graph, state *topo.State, d *ssdist.Distances, parent int32, edgeIdx int, child int32, dir topo.Direction, mode rrgraph.BucketMode, congestion rrgraph.SelfCongestionMode) {
	parentInfo := state.Info(parent)
	childInfo := state.Info(child)
	childNode := g.Node(child)

	var parentBuckets, childBuckets []float64
	var childDistToTarget, parentDistToStart int64
	childWeight := childNode.Weight
	maxDist := d.WMax

	if dir == topo.Forward {
		parentBuckets = parentInfo.SourceBuckets
		childBuckets = childInfo.SourceBuckets
		if mode == rrgraph.ByPathHops {
			childDistToTarget = d.SinkHops[child] + 1
			parentDistToStart = d.SrcHops[parent]
		} else {
			childDistToTarget = d.SinkDist[child]
			parentDistToStart = d.SrcDist[parent]
		}
	} else {
		parentBuckets = parentInfo.SinkBuckets
		childBuckets = childInfo.SinkBuckets
		if mode == rrgraph.ByPathHops {
			childDistToTarget = d.SrcHops[child] + 1
			parentDistToStart = d.SinkHops[parent]
		} else {
			childDistToTarget = d.SrcDist[child]
			parentDistToStart = d.SinkDist[parent]
		}
	}

	if mode == rrgraph.ByPathHops {
		childWeight = 1
		maxDist += 3
	}

	state.Touch(child)

	for ibucket := int(parentDistToStart); ibucket < len(parentBuckets); ibucket++ {
		if int64(ibucket)+childDistToTarget > maxDist {
			break
		}
		if parentBuckets[ibucket] == rrgraph.Undefined {
			continue
		}

		target := ibucket + int(childWeight)
		if target < 0 || target >= len(childBuckets) {
			continue
		}
		if childBuckets[target] == rrgraph.Undefined {
			childBuckets[target] = parentBuckets[ibucket]
		} else {
			childBuckets[target] += parentBuckets[ibucket]
		}

		if congestion == rrgraph.SelfCongestionPathDependence && dir == topo.Forward {
			recordContribution(g, parent, edgeIdx, ibucket, parentBuckets[ibucket])
		}
	}
}

// recordContribution lazily allocates parent's per-edge bucket ledger and
// adds value under the node's lock (spec §4.12 PathDependence bookkeeping).
func recordContribution(g *rrgraph.Graph, parent int32, edgeIdx, bucket int, value float64) {
	node := g.Node(parent)

	node.Mu.Lock()
	defer node.Mu.Unlock()

	if node.ChildDemandContribution == nil {
		node.ChildDemandContribution = make([][]float64, len(node.OutEdges))
	}
	if node.ChildDemandContribution[edgeIdx] == nil {
		size := bucket + 1
		node.ChildDemandContribution[edgeIdx] = make([]float64, size)
	}
	if bucket >= len(node.ChildDemandContribution[edgeIdx]) {
		grown := make([]float64, bucket+1)
		copy(grown, node.ChildDemandContribution[edgeIdx])
		node.ChildDemandContribution[edgeIdx] = grown
	}
	node.ChildDemandContribution[edgeIdx][bucket] += value
}
