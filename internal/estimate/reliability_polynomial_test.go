package estimate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/estimate"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

// TestReliabilityPolynomial_SingleChainMatchesDirectFormula exercises spec
// §8 scenario 2: a 3-routing-node chain with exactly one path through all
// three routing nodes (4 edges, so spectrum index 4) evaluated at p=0.5
// should equal 1*0.5^3*0.5^(m-3) with m=3, i.e. 1*0.5^3*1 = 0.125.
func TestReliabilityPolynomial_SingleChainMatchesDirectFormula(t *testing.T) {
	m := 3
	spectrum := make([]float64, m+2)
	for i := range spectrum {
		spectrum[i] = rrgraph.Undefined
	}
	spectrum[4] = 1

	got, err := estimate.ReliabilityPolynomial(spectrum, m, 0.5)
	require.NoError(t, err)
	require.InDelta(t, math.Pow(0.5, 3), got, 1e-9)
}

func TestReliabilityPolynomial_NoPathsIsZero(t *testing.T) {
	m := 4
	spectrum := make([]float64, m+1)
	for i := range spectrum {
		spectrum[i] = rrgraph.Undefined
	}

	got, err := estimate.ReliabilityPolynomial(spectrum, m, 0.9)
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestReliabilityPolynomial_RejectsProbabilityOutOfRange(t *testing.T) {
	_, err := estimate.ReliabilityPolynomial([]float64{1}, 0, 1.5)
	require.Error(t, err)
}
