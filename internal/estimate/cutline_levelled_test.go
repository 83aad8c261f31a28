package estimate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/estimate"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/topo"
)

func TestCutlineLevelled_StraightChainZeroDemandIsFullyReachable(t *testing.T) {
	g, src, sink, _ := buildChain(t)
	d := resolvePair(t, g, src, sink, 6)
	state := topo.NewState(g.NumNodes(), int(d.WMax)+1)

	p, err := estimate.CutlineLevelled(g, state, d, src, sink, rrgraph.SelfCongestionNone, estimate.FillInfo{})
	require.NoError(t, err)
	require.InDelta(t, 1.0, p, 1e-9)
}

func TestCutlineLevelled_MiddleNodeHalfDemand(t *testing.T) {
	g, src, sink, chanX1 := buildChain(t)
	g.Node(chanX1).Demand = 0.5
	d := resolvePair(t, g, src, sink, 6)
	state := topo.NewState(g.NumNodes(), int(d.WMax)+1)

	p, err := estimate.CutlineLevelled(g, state, d, src, sink, rrgraph.SelfCongestionNone, estimate.FillInfo{})
	require.NoError(t, err)
	require.InDelta(t, 0.5, p, 1e-9)
}

func TestCutlineRecursive_StraightChainZeroDemandIsFullyReachable(t *testing.T) {
	g, src, sink, _ := buildChain(t)
	d := resolvePair(t, g, src, sink, 6)
	state := topo.NewState(g.NumNodes(), int(d.WMax)+1)

	p, err := estimate.CutlineRecursive(g, state, d, src, sink, rrgraph.SelfCongestionNone, estimate.FillInfo{})
	require.NoError(t, err)
	require.InDelta(t, 1.0, p, 1e-9)
}

func TestCutlineRecursive_MiddleNodeHalfDemand(t *testing.T) {
	g, src, sink, chanX1 := buildChain(t)
	g.Node(chanX1).Demand = 0.5
	d := resolvePair(t, g, src, sink, 6)
	state := topo.NewState(g.NumNodes(), int(d.WMax)+1)

	p, err := estimate.CutlineRecursive(g, state, d, src, sink, rrgraph.SelfCongestionNone, estimate.FillInfo{})
	require.NoError(t, err)
	require.InDelta(t, 0.5, p, 1e-9)
}
