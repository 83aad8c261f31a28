package orchestrate

import (
	"github.com/katalvlaran/wotanest/internal/estimate"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

// ComputeFillInfo derives the architecture-wide OPin/IPin-per-terminal
// pin counts AdjustedDemand needs for Radius self-congestion (spec
// §4.12), approximating the per-tile pin inventory the (out-of-scope)
// architecture parser would otherwise supply by averaging out-degree
// across every Source and in-degree across every Sink in the graph.
// Enabled is false when the graph carries no fill (logic) block type,
// mirroring the original engine's fill_type==NULL short-circuit (spec
// §4.14).
func ComputeFillInfo(g *rrgraph.Graph) estimate.FillInfo {
	if g.FillBlockType == "" {
		return estimate.FillInfo{}
	}

	var sourceTerms, sourcePins, sinkTerms, sinkPins int
	for _, n := range g.Nodes {
		switch n.Kind {
		case rrgraph.Source:
			sourceTerms++
			sourcePins += len(n.OutEdges)
		case rrgraph.Sink:
			sinkTerms++
			sinkPins += len(n.InEdges)
		}
	}

	fi := estimate.FillInfo{Enabled: true}
	if sourceTerms > 0 {
		fi.NumSourcePins = sourcePins / sourceTerms
	}
	if sinkTerms > 0 {
		fi.NumSinkPins = sinkPins / sinkTerms
	}
	return fi
}

// ApplyFixedRoutingNodeDemand forces every ChanX/ChanY node's demand to a
// constant value, implementing -use_routing_node_demand (spec §6). This
// is a one-time graph preparation step run before any pair is analyzed;
// self-congestion must be SelfCongestionNone whenever this is used (spec
// §9 "reliability-polynomial... requires use_routing_node_demand to be
// set; interaction with self-congestion modes is undefined... and should
// be rejected at CLI-parse time" — enforced by internal/config).
func ApplyFixedRoutingNodeDemand(g *rrgraph.Graph, value float64) {
	for _, n := range g.Nodes {
		if n.Kind == rrgraph.ChanX || n.Kind == rrgraph.ChanY {
			n.Demand = value
		}
	}
}
