package estimate

import (
	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/ssdist"
	"github.com/katalvlaran/wotanest/internal/topo"
)

// CutlineLevelled runs the Levelled variant of C8 (spec §4.8): levels are
// discovered dynamically during a forward topo.Run rather than computed
// up front from hop counts. level(child) = min over visiting parents of
// level(parent)+1; a node appearing more than one level above the running
// maximum violates the topo-order invariant and aborts the pair.
func CutlineLevelled(g *rrgraph.Graph, state *topo.State, d *ssdist.Distances, src, sink int32, congestion rrgraph.SelfCongestionMode, fill FillInfo) (float64, error) {
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
				failErr = rrgraph.Wrap(rrgraph.KindPathEnum, "estimate.CutlineLevelled", rrgraph.ErrLevelInvariant)
				return true
			}
			if firstVisit || candidate < childInfo.Level {
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

// combineLevels turns a level->nodes partition into a routability estimate:
// unroutable = OR over levels of (AND over nodes in that level of
// clip01(demand)); reachability = 1 - unroutable (spec §4.8 shared shape).
// Smoothed nodes (set only by CutlineRecursive) contribute their
// precomputed AdjustedDemand instead of a fresh AdjustedDemand lookup.
// Levels are only combined up to the sink's own assigned level: don't do
// anything at or past the sink's level, since the cycle-tolerant driver can
// legally visit nodes whose level exceeds the sink's.
func combineLevels(g *rrgraph.Graph, state *topo.State, levels map[int][]int32, sinkLevel int, src, sink int32, congestion rrgraph.SelfCongestionMode, fill FillInfo) float64 {
	srcNode, sinkNode := g.Node(src), g.Node(sink)

	var probUnreachable float64
	for lvl := 1; lvl < sinkLevel; lvl++ {
		nodes := levels[lvl]
		if len(nodes) == 0 {
			continue
		}
		levelProb := 1.0
		for _, idx := range nodes {
			info := state.Info(idx)
			var demand float64
			if info.Smoothed {
				demand = clip01(info.AdjustedDemand)
			} else {
				demand = clip01(AdjustedDemand(g.Node(idx), srcNode, sinkNode, congestion, fill))
			}
			levelProb *= demand
		}
		probUnreachable = Or2(levelProb, probUnreachable)
	}

	return 1 - probUnreachable
}
