package estimate

import (
	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

// Or2 combines two independent-probability estimates: P(a or b) = a+b-ab
// (spec §4.7, grounded on the original engine's or_two_probs).
func Or2(a, b float64) float64 {
	return a + b - a*b
}

// clip01 clamps a probability-like value into [0, 1], matching the
// defensive clip01() the estimators use on demand before it is treated as
// a probability of unavailability.
func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FillInfo carries the architecture-derived pin counts needed to turn a
// node's Radius-mode path-count history into a fractional demand discount
// (spec §4.12). Enabled is false when no fill (logic) block type was
// found, in which case Radius-mode discounting is skipped entirely
// (mirrors the original engine's fill_type == NULL short-circuit).
type FillInfo struct {
	Enabled       bool
	NumSourcePins int
	NumSinkPins   int
}

// AdjustedDemand returns node's demand with the Radius self-congestion
// discount applied, if enabled (spec §4.12 "Radius" / original's
// get_node_demand_adjusted_for_path_history). PathDependence discounting
// is per-bucket and handled inline by the Propagate estimator instead,
// since it depends on which bucket is being evaluated.
func AdjustedDemand(node, srcNode, sinkNode *rrgraph.Node, congestion rrgraph.SelfCongestionMode, fill FillInfo) float64 {
	demand := node.SnapshotDemand()
	if congestion != rrgraph.SelfCongestionRadius || !fill.Enabled {
		return demand
	}

	sourceContribution := node.GetPathCountHistory(srcNode)
	if sourceContribution == rrgraph.Undefined {
		sourceContribution = 0
	} else if fill.NumSourcePins > 0 {
		sourceContribution /= float64(fill.NumSourcePins)
	}

	sinkContribution := node.GetPathCountHistory(sinkNode)
	if sinkContribution == rrgraph.Undefined {
		sinkContribution = 0
	} else if fill.NumSinkPins > 0 {
		sinkContribution /= float64(fill.NumSinkPins)
	}

	modifier := sourceContribution
	if sinkContribution > modifier {
		modifier = sinkContribution
	}
	modifier = clip01(modifier)

	demand -= modifier
	if demand < 0 {
		demand = 0
	}
	return demand
}
