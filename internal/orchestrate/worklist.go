package orchestrate

import "github.com/katalvlaran/wotanest/internal/rrgraph"

// coreMargin is the perimeter exclusion band enforced by -analyze_core
// (spec §6): a sink tile within this many tiles of the grid edge is
// dropped from probability-mode analysis.
const coreMargin = 3

// BuildWorkList enumerates every (source, sink) pair whose Manhattan tile
// distance falls within [1, settings.MaxConnectionLength], skipping pairs
// whose connection-length probability is zero (spec §4.10 step 1) and,
// in Probability mode with AnalyzeCore set, pairs whose sink lies within
// coreMargin tiles of the grid perimeter (spec §6 "-analyze_core").
func BuildWorkList(g *rrgraph.Graph, settings Settings) []Pair {
	var pairs []Pair

	for _, s := range g.Nodes {
		if s.Kind != rrgraph.Source {
			continue
		}
		for _, k := range g.Nodes {
			if k.Kind != rrgraph.Sink {
				continue
			}
			length := manhattan(s, k)
			if length <= 0 || length > settings.MaxConnectionLength {
				continue
			}
			if settings.ConnectionLengthProb != nil && settings.ConnectionLengthProb(length) == 0 {
				continue
			}
			if settings.Mode == Probability && settings.AnalyzeCore && nearPerimeter(g, k) {
				continue
			}
			pairs = append(pairs, Pair{Src: s.Index, Sink: k.Index, Length: length, IsVirtual: s.IsVirtual})
		}
	}

	return pairs
}

func manhattan(a, b *rrgraph.Node) int {
	dx := int(a.XLow) - int(b.XLow)
	if dx < 0 {
		dx = -dx
	}
	dy := int(a.YLow) - int(b.YLow)
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func nearPerimeter(g *rrgraph.Graph, n *rrgraph.Node) bool {
	if int(n.XLow) < coreMargin || int(n.YLow) < coreMargin {
		return true
	}
	if int(g.GridW)-1-int(n.XLow) < coreMargin {
		return true
	}
	if int(g.GridH)-1-int(n.YLow) < coreMargin {
		return true
	}
	return false
}

// Partition splits pairs round-robin across numWorkers slices, matching
// spec §5 "a fixed pool of N worker tasks... process pairs from a
// preassigned partition and do not steal between partitions".
func Partition(pairs []Pair, numWorkers int) [][]Pair {
	if numWorkers < 1 {
		numWorkers = 1
	}
	out := make([][]Pair, numWorkers)
	for i, p := range pairs {
		w := i % numWorkers
		out[w] = append(out[w], p)
	}
	return out
}
