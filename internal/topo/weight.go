package topo

import "github.com/katalvlaran/wotanest/internal/rrgraph"

// waitingKeyFor derives the ordering key used while a node sits in the
// cycle-breaking waiting set: the node's own weight stands in for the
// path-weight proxy (heavier nodes are preferred, matching the C++
// source's use of node weight as the traversal's tie-break proxy instead
// of a full recomputed path cost), and distance-to-start is approximated
// by the node's total in-edge count (out-edge count when walking
// backward), legal or not — the closest integer proxy available without
// re-running Dijkstra from inside the topological driver.
func waitingKeyFor(g *rrgraph.Graph, node int32, dir Direction) (weight, distToStart int64) {
	n := g.Node(node)
	weight = n.Weight
	if dir == Forward {
		distToStart = int64(len(n.InEdges))
	} else {
		distToStart = int64(len(n.OutEdges))
	}

	return weight, distToStart
}
