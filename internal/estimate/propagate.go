package estimate

import (
	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/ssdist"
	"github.com/katalvlaran/wotanest/internal/topo"
)

// Propagate runs C7 (spec §4.7): a single forward topo.Run that carries
// per-weight reachability probabilities from src to sink, discounting
// each node's own demand (optionally adjusted for self-congestion) as it
// is popped, and combining probabilities with Or2 instead of summing path
// counts. It returns the OR-combined reachability at sink.
//
// state and d must already be resolved for this pair the same way they
// are for enumerate.Run; Propagate never touches SinkBuckets, so it can
// run standalone without a preceding backward enumerate pass.
func Propagate(g *rrgraph.Graph, state *topo.State, d *ssdist.Distances, src, sink int32, congestion rrgraph.SelfCongestionMode, fill FillInfo) (float64, error) {
	legal := func(idx int32) bool { return d.IsLegal(g, idx, d.WMax) }

	srcInfo := state.Info(src)
	state.Touch(src)
	srcInfo.SourceBuckets[0] = 1

	srcNode, sinkNode := g.Node(src), g.Node(sink)

	if err := topo.Run(g, state, src, sink, topo.Forward, legal, topo.Callbacks{
		OnPopped: func(popped int32) {
			accountForNodeProbability(g, state, popped, srcNode, sinkNode, congestion, fill)
		},
		OnChild: func(parent int32, edgeIdx int, child int32) bool {
			propagateProbabilities(g, state, d, parent, edgeIdx, child, congestion)
			return false
		},
	}); err != nil {
		return 0, err
	}

	sinkInfo := state.Info(sink)
	return probReachable(sinkInfo.SourceBuckets), nil
}

// accountForNodeProbability ANDs the probability of this node being
// available into every bucket that already carries a reachability value
// (spec §4.7 "On pop" / original's account_for_current_node_probability).
func accountForNodeProbability(g *rrgraph.Graph, state *topo.State, popped int32, srcNode, sinkNode *rrgraph.Node, congestion rrgraph.SelfCongestionMode, fill FillInfo) {
	node := g.Node(popped)
	info := state.Info(popped)

	demand := AdjustedDemand(node, srcNode, sinkNode, congestion, fill)
	adjustedDemand := clip01(demand)

	var totalDiscount float64
	if congestion == rrgraph.SelfCongestionPathDependence {
		for _, v := range info.DemandDiscounts {
			totalDiscount += v
		}
	}

	for i, v := range info.SourceBuckets {
		if v == rrgraph.Undefined {
			continue
		}
		perBucket := adjustedDemand
		if congestion == rrgraph.SelfCongestionPathDependence && info.DemandDiscounts[i] > 0 {
			perBucket -= totalDiscount
		}
		info.SourceBuckets[i] = v * (1 - clip01(perBucket))
	}
}

// propagateProbabilities carries parent's source buckets into child's,
// combining with Or2 instead of summing (spec §4.7 "On child iterate").
func propagateProbabilities(g *rrgraph.Graph, state *topo.State, d *ssdist.Distances, parent int32, edgeIdx int, child int32, congestion rrgraph.SelfCongestionMode) {
	parentInfo := state.Info(parent)
	childInfo := state.Info(child)
	childNode := g.Node(child)

	state.Touch(child)

	parentDistToStart := d.SrcDist[parent]
	childDistToTarget := d.SinkDist[child]

	parentNode := g.Node(parent)

	for ibucket := int(parentDistToStart); ibucket < len(parentInfo.SourceBuckets); ibucket++ {
		if int64(ibucket)+childDistToTarget > d.WMax {
			break
		}

		target := ibucket + int(childNode.Weight)
		if target < 0 || target >= len(childInfo.SourceBuckets) {
			continue
		}

		pv := parentInfo.SourceBuckets[ibucket]
		if childInfo.SourceBuckets[target] == rrgraph.Undefined {
			if pv != rrgraph.Undefined {
				childInfo.SourceBuckets[target] = pv
			}
		} else if pv != rrgraph.Undefined {
			childInfo.SourceBuckets[target] = Or2(childInfo.SourceBuckets[target], pv)
		}

		if congestion == rrgraph.SelfCongestionPathDependence {
			if edgeIdx < len(parentNode.ChildDemandContribution) && parentNode.ChildDemandContribution[edgeIdx] != nil {
				contribs := parentNode.ChildDemandContribution[edgeIdx]
				if ibucket < len(contribs) {
					childInfo.DemandDiscounts[target] += contribs[ibucket]
				}
			}
		}
	}
}

// probReachable OR-combines every defined bucket into one reachability
// probability (spec §4.7 "On done").
func probReachable(buckets []float64) float64 {
	var total float64
	for _, v := range buckets {
		if v != rrgraph.Undefined {
			total = Or2(total, v)
		}
	}
	return total
}
