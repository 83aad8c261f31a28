package estimate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/estimate"
	"github.com/katalvlaran/wotanest/internal/pq"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/ssdist"
	"github.com/katalvlaran/wotanest/internal/topo"
)

func resolvePair(t *testing.T, g *rrgraph.Graph, src, sink int32, wMax int64) *ssdist.Distances {
	t.Helper()
	d := ssdist.NewDistances(g.NumNodes())
	q := pq.NewBoundedQueue(int(wMax) + 1)
	require.NoError(t, ssdist.Resolve(g, src, sink, wMax, q, d))
	return d
}

func buildChain(t *testing.T) (*rrgraph.Graph, int32, int32, int32) {
	t.Helper()
	b := rrgraph.NewBuilder(4, 1)
	src := b.AddNode(rrgraph.Source, 0, 0, 1, 0, 0)
	opin := b.AddNode(rrgraph.OPin, 0, 0, 1, 0, 1)
	chanX1 := b.AddNode(rrgraph.ChanX, 1, 0, 1, 0, 1)
	chanX2 := b.AddNode(rrgraph.ChanX, 2, 0, 1, 0, 1)
	ipin := b.AddNode(rrgraph.IPin, 3, 0, 1, 0, 1)
	sink := b.AddNode(rrgraph.Sink, 3, 0, 1, 0, 0)

	b.AddEdge(src, opin)
	b.AddEdge(opin, chanX1)
	b.AddEdge(chanX1, chanX2)
	b.AddEdge(chanX2, ipin)
	b.AddEdge(ipin, sink)

	return b.Build(), src, sink, chanX1
}

func TestPropagate_StraightChainZeroDemandIsFullyReachable(t *testing.T) {
	g, src, sink, _ := buildChain(t)
	d := resolvePair(t, g, src, sink, 6)
	state := topo.NewState(g.NumNodes(), int(d.WMax)+1)

	p, err := estimate.Propagate(g, state, d, src, sink, rrgraph.SelfCongestionNone, estimate.FillInfo{})
	require.NoError(t, err)
	require.InDelta(t, 1.0, p, 1e-9)
}

func TestPropagate_MiddleNodeHalfDemand(t *testing.T) {
	g, src, sink, chanX1 := buildChain(t)
	g.Node(chanX1).Demand = 0.5
	d := resolvePair(t, g, src, sink, 6)
	state := topo.NewState(g.NumNodes(), int(d.WMax)+1)

	p, err := estimate.Propagate(g, state, d, src, sink, rrgraph.SelfCongestionNone, estimate.FillInfo{})
	require.NoError(t, err)
	require.InDelta(t, 0.5, p, 1e-9)
}

// buildDiamond constructs two disjoint length-3 chains from a shared
// source to a shared sink (spec §8 scenario 3).
func buildDiamond(t *testing.T) (*rrgraph.Graph, int32, int32) {
	t.Helper()
	b := rrgraph.NewBuilder(5, 5)
	src := b.AddNode(rrgraph.Source, 0, 0, 1, 0, 0)
	sink := b.AddNode(rrgraph.Sink, 4, 0, 1, 0, 0)

	a1 := b.AddNode(rrgraph.ChanX, 1, 0, 1, 0, 1)
	a2 := b.AddNode(rrgraph.ChanX, 2, 0, 1, 0, 1)
	a3 := b.AddNode(rrgraph.ChanX, 3, 0, 1, 0, 1)
	b1 := b.AddNode(rrgraph.ChanX, 1, 1, 1, 1, 1)
	b2 := b.AddNode(rrgraph.ChanX, 2, 1, 1, 1, 1)
	b3 := b.AddNode(rrgraph.ChanX, 3, 1, 1, 1, 1)

	b.AddEdge(src, a1)
	b.AddEdge(a1, a2)
	b.AddEdge(a2, a3)
	b.AddEdge(a3, sink)

	b.AddEdge(src, b1)
	b.AddEdge(b1, b2)
	b.AddEdge(b2, b3)
	b.AddEdge(b3, sink)

	g := b.Build()
	for _, idx := range []int32{a1, a2, a3, b1, b2, b3} {
		g.Node(idx).Demand = 0.3
	}
	return g, src, sink
}

func TestPropagate_DiamondORsTwoBranches(t *testing.T) {
	g, src, sink := buildDiamond(t)
	d := resolvePair(t, g, src, sink, 6)
	state := topo.NewState(g.NumNodes(), int(d.WMax)+1)

	p, err := estimate.Propagate(g, state, d, src, sink, rrgraph.SelfCongestionNone, estimate.FillInfo{})
	require.NoError(t, err)

	perBranch := 0.7 * 0.7 * 0.7
	expected := estimate.Or2(perBranch, perBranch)
	require.InDelta(t, expected, p, 1e-9)
}
