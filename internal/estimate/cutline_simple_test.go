package estimate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/estimate"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

func TestCutlineSimple_StraightChainZeroDemandIsFullyReachable(t *testing.T) {
	g, src, sink, _ := buildChain(t)
	d := resolvePair(t, g, src, sink, 6)

	p, err := estimate.CutlineSimple(g, d, src, sink, 5, rrgraph.SelfCongestionNone, estimate.FillInfo{})
	require.NoError(t, err)
	require.InDelta(t, 1.0, p, 1e-9)
}

func TestCutlineSimple_MiddleNodeHalfDemand(t *testing.T) {
	g, src, sink, chanX1 := buildChain(t)
	g.Node(chanX1).Demand = 0.5
	d := resolvePair(t, g, src, sink, 6)

	p, err := estimate.CutlineSimple(g, d, src, sink, 5, rrgraph.SelfCongestionNone, estimate.FillInfo{})
	require.NoError(t, err)
	require.InDelta(t, 0.5, p, 1e-9)
}
