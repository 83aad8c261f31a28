package orchestrate

import "github.com/katalvlaran/wotanest/internal/rrgraph"

// isRoutingKind matches the node kinds spec §4.10's "routing node" count
// and the demand-normalization denominator both use: every kind that can
// carry accumulated path-count demand.
func isRoutingKind(k rrgraph.Kind) bool {
	switch k {
	case rrgraph.ChanX, rrgraph.ChanY, rrgraph.IPin, rrgraph.OPin:
		return true
	default:
		return false
	}
}

// CountRoutingNodes returns the number of ChanX/ChanY/IPin/OPin nodes in g,
// the denominator spec §6's "Normalized demand" output divides by.
func CountRoutingNodes(g *rrgraph.Graph) int {
	var n int
	for _, node := range g.Nodes {
		if isRoutingKind(node.Kind) {
			n++
		}
	}
	return n
}

// CollectDemand folds every routing node's final demand into agg, meant to
// run once after Run completes over the whole work list (spec §6 "Total
// demand"/"Total squared demand" outputs).
func CollectDemand(g *rrgraph.Graph, agg *Aggregator) {
	for _, node := range g.Nodes {
		if isRoutingKind(node.Kind) {
			agg.AddNodeDemand(node.SnapshotDemand())
		}
	}
}
