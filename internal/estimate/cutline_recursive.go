package estimate

import (
	"errors"

	"github.com/katalvlaran/wotanest/internal/pq"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/ssdist"
	"github.com/katalvlaran/wotanest/internal/topo"
)

// MaxSmoothingDepth bounds recursive smoothing so a pathological graph
// cannot recurse unboundedly; in practice cutline height is bounded by
// W_max, which is always far smaller than this.
const MaxSmoothingDepth = 32

// CutlineRecursive runs the Recursive variant of C8 (spec §4.8). It is
// identical to CutlineLevelled except that a node which would otherwise
// violate the "at most one level above the running maximum" invariant is
// instead "smoothed": a fresh sub-traversal estimates the probability that
// the smoothed node's own sub-subgraph (src -> node) is routable, and the
// node's contribution to its assigned level becomes
// Or2(raw_demand(node), 1-p_routable_subgraph) (spec GLOSSARY "Smoothed
// node").
//
// Each smoothing recursion runs against its own freshly allocated
// ssdist.Distances/topo.State, scoped to the recursion. The original
// engine achieves the same isolation by backing up and restoring topo_inf
// in place for every smoothed node; allocating fresh scratch here reaches
// the same result without risking the recursion's bucket writes aliasing
// the outer traversal's.
func CutlineRecursive(g *rrgraph.Graph, state *topo.State, d *ssdist.Distances, src, sink int32, congestion rrgraph.SelfCongestionMode, fill FillInfo) (float64, error) {
	return cutlineRecursive(g, state, d, src, sink, congestion, fill, 0)
}

func cutlineRecursive(g *rrgraph.Graph, state *topo.State, d *ssdist.Distances, src, sink int32, congestion rrgraph.SelfCongestionMode, fill FillInfo, depth int) (float64, error) {
	legal := func(idx int32) bool { return d.IsLegal(g, idx, d.WMax) }

	levels := map[int][]int32{}
	maxLevel := 0
	var failErr error

	srcInfo := state.Info(src)
	state.Touch(src)
	srcInfo.Level = 0

	err := topo.Run(g, state, src, sink, topo.Forward, legal, topo.Callbacks{
		OnChild: func(parent int32, edgeIdx int, child int32) bool {
			if failErr != nil {
				return true
			}
			parentInfo := state.Info(parent)
			childInfo := state.Info(child)
			candidate := parentInfo.Level + 1
			firstVisit := childInfo.VisitsFromSrc == 0

			if candidate > maxLevel+1 {
				if depth >= MaxSmoothingDepth {
					failErr = rrgraph.Wrap(rrgraph.KindPathEnum, "estimate.CutlineRecursive", rrgraph.ErrLevelInvariant)
					return true
				}
				sub, subErr := smoothNode(g, d, src, sink, child, congestion, fill, depth+1)
				if subErr != nil {
					failErr = subErr
					return true
				}
				childInfo.Smoothed = true
				childInfo.AdjustedDemand = sub
				childInfo.Level = maxLevel + 1
			} else if firstVisit || candidate < childInfo.Level {
				childInfo.Level = candidate
			}
			if childInfo.Level > maxLevel {
				maxLevel = childInfo.Level
			}
			return false
		},
		OnPopped: func(popped int32) {
			if popped == src {
				return
			}
			info := state.Info(popped)
			levels[info.Level] = append(levels[info.Level], popped)
		},
	})
	if err != nil {
		return 0, err
	}
	if failErr != nil {
		return 0, failErr
	}

	sinkLevel := state.Info(sink).Level

	return combineLevels(g, state, levels, sinkLevel, src, sink, congestion, fill), nil
}

// smoothNode estimates Or2(raw_demand(node), 1-p_routable(src->node)) on
// node's own legal sub-subgraph, bounded by the outer pair's effective
// max weight (spec §4.8 "Recursive").
func smoothNode(g *rrgraph.Graph, outerD *ssdist.Distances, src, sink, node int32, congestion rrgraph.SelfCongestionMode, fill FillInfo, depth int) (float64, error) {
	subD := ssdist.NewDistances(g.NumNodes())
	q := pq.NewBoundedQueue(int(outerD.WMax) + 1)

	if err := ssdist.Resolve(g, src, node, outerD.WMax, q, subD); err != nil {
		if errors.Is(err, ssdist.ErrPairUnreachable) {
			// node cannot be reached from src at all within the sub-subgraph:
			// its sub-subgraph is fully unroutable.
			srcNode, sinkNode := g.Node(src), g.Node(sink)
			raw := clip01(AdjustedDemand(g.Node(node), srcNode, sinkNode, congestion, fill))
			return Or2(raw, 1.0), nil
		}
		return 0, err
	}

	subState := topo.NewState(g.NumNodes(), int(subD.WMax)+1)
	p, err := cutlineRecursive(g, subState, subD, src, node, congestion, fill, depth)
	if err != nil {
		return 0, err
	}

	srcNode, sinkNode := g.Node(src), g.Node(sink)
	raw := clip01(AdjustedDemand(g.Node(node), srcNode, sinkNode, congestion, fill))
	return Or2(raw, 1-p), nil
}
