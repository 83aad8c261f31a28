package estimate

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

// probEpsilon is the floating-point tolerance spec §8's "0<=p<=1" invariant
// is checked against, matching gonum's maximum-flow convergence epsilon.
const probEpsilon = 1e-9

// convertHopsToRoutingNodes converts an edge-hop count between source and
// sink into the routing-node count that same path crosses: source and sink
// are not themselves routing nodes, so an h-hop path visits h-1 of them.
func convertHopsToRoutingNodes(hops int) int {
	return hops - 1
}

// ReliabilityPolynomial derives a polynomial bound on reachability from a
// path-cardinality spectrum and evaluates it at the network-wide
// per-node operational probability p (spec §4.9, C9).
//
// spectrum[l] is the number of source->sink paths of edge-count l (the
// sink's SourceBuckets after a ByPathHops enumerate pass); m is the
// routing-node count in the pair's legal subgraph (enumerate.Result's
// RoutingNodesInSubgraph). Undefined entries (rrgraph.Undefined) are
// treated as zero.
func ReliabilityPolynomial(spectrum []float64, m int, p float64) (float64, error) {
	if m < 0 {
		return 0, rrgraph.NewError(rrgraph.KindPathEnum, "estimate.ReliabilityPolynomial", "negative routing-node count")
	}
	if p < 0 || p > 1 {
		return 0, rrgraph.NewError(rrgraph.KindPathEnum, "estimate.ReliabilityPolynomial", "operational probability p outside [0,1]")
	}

	hopIndex := -1
	for i, v := range spectrum {
		if v != rrgraph.Undefined && v > 0 {
			hopIndex = i
			break
		}
	}
	if hopIndex < 0 {
		// No enumerated path at all within the subgraph: unreachable.
		return 0, nil
	}

	// spectrum is indexed by raw edge-hop count, but coeffs is indexed by
	// routing-node count: a path of h hops crosses h-1 routing nodes
	// (source and sink themselves don't count), so convert before using
	// the index as a cardinality subscript.
	lMin := convertHopsToRoutingNodes(hopIndex)
	if lMin < 0 || lMin > m {
		return 0, nil
	}

	coeffs := make([]float64, m+1)
	coeffs[lMin] = spectrum[hopIndex]

	if lMin+1 <= m {
		// Derived, not read off the spectrum directly: cycle-breaking in the
		// topological driver can undercount the raw l_min+1 bucket (spec §4.5
		// "cycle-break"), so the l_min+1 coefficient is reconstructed instead.
		coeffs[lMin+1] = spectrum[hopIndex] * float64(m-lMin)
	}

	// Propagate the Sperner-inequality bound N_i <= (i+1)/(m-i) * N_{i+1}
	// forward as an equality, i.e. treat consecutive coefficients as
	// following the same ratio a binomial-like spectrum would.
	for i := lMin + 1; i < m; i++ {
		coeffs[i+1] = coeffs[i] * float64(m-i) / float64(i+1)
	}
	coeffs[m] = 1 // top coefficient is always exactly 1 (spec §4.9).

	var reliability float64
	for i := lMin; i <= m; i++ {
		if coeffs[i] == 0 {
			continue
		}
		reliability += coeffs[i] * math.Pow(p, float64(i)) * math.Pow(1-p, float64(m-i))
	}

	if reliability < 0 {
		if !scalar.EqualWithinAbs(reliability, 0, probEpsilon) {
			return 0, rrgraph.Wrap(rrgraph.KindPathEnum, "estimate.ReliabilityPolynomial", rrgraph.ErrProbabilityRange)
		}
		reliability = 0
	}
	if reliability > 1 {
		if !scalar.EqualWithinAbs(reliability, 1, probEpsilon) {
			return 0, rrgraph.Wrap(rrgraph.KindPathEnum, "estimate.ReliabilityPolynomial", rrgraph.ErrProbabilityRange)
		}
		reliability = 1
	}

	return reliability, nil
}
