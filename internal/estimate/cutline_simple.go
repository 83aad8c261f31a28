package estimate

import (
	"math"

	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/ssdist"
)

// CutlineSimple runs the Simple variant of C8 (spec §4.8): it needs no
// traversal of its own, only the hop counts ssdist.Resolve already filled
// in, since a node's level is a pure function of (src_hops, sink_hops).
//
// length is the pair's hop distance (source_sink_hops in the original
// engine); it determines how many level "slots" the source- and
// sink-halves of the connection are split into.
func CutlineSimple(g *rrgraph.Graph, d *ssdist.Distances, src, sink int32, length int, congestion rrgraph.SelfCongestionMode, fill FillInfo) (float64, error) {
	numLevels := length - 1
	if numLevels <= 0 {
		return 1.0, nil
	}

	sourceDemarcation := int(math.Ceil(float64(numLevels)/2.0)) - 1
	lastEntryIdx := numLevels - 1
	sinkDemarcation := lastEntryIdx - (sourceDemarcation + 1)

	levels := make([][]int32, numLevels)
	for _, idx := range d.Visited {
		if idx == src || idx == sink {
			continue
		}
		if !d.IsLegal(g, idx, d.WMax) {
			continue
		}

		levelFromSource := int(d.SrcHops[idx]) - 1
		levelFromSink := int(d.SinkHops[idx]) - 1

		if levelFromSource <= sourceDemarcation && levelFromSink <= sinkDemarcation {
			return 0, rrgraph.NewError(rrgraph.KindPathEnum, "estimate.CutlineSimple",
				"node falls into both the source and sink spheres of influence")
		}

		var index int
		switch {
		case levelFromSource <= sourceDemarcation:
			index = levelFromSource
		case levelFromSink <= sinkDemarcation:
			index = numLevels - 1 - levelFromSink
		default:
			continue
		}
		if index < 0 || index >= numLevels {
			continue
		}
		levels[index] = append(levels[index], idx)
	}

	srcNode, sinkNode := g.Node(src), g.Node(sink)

	var probUnreachable float64
	for _, nodes := range levels {
		if len(nodes) == 0 {
			continue
		}
		levelProb := 1.0
		for _, idx := range nodes {
			demand := AdjustedDemand(g.Node(idx), srcNode, sinkNode, congestion, fill)
			levelProb *= clip01(demand)
		}
		probUnreachable = Or2(levelProb, probUnreachable)
	}

	return 1 - probUnreachable, nil
}
