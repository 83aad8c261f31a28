package enumerate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/enumerate"
	"github.com/katalvlaran/wotanest/internal/pq"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/ssdist"
	"github.com/katalvlaran/wotanest/internal/topo"
)

// buildChain mirrors spec §8 scenario 1: src -> OPin -> ChanX(w=1) ->
// ChanX(w=1) -> IPin -> sink, W_max = 6, demand 0 everywhere.
func buildChain(t *testing.T) (*rrgraph.Graph, int32, int32) {
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

	return b.Build(), src, sink
}

func resolvePair(t *testing.T, g *rrgraph.Graph, src, sink int32, wMax int64) *ssdist.Distances {
	t.Helper()
	d := ssdist.NewDistances(g.NumNodes())
	q := pq.NewBoundedQueue(int(wMax) + 1)
	require.NoError(t, ssdist.Resolve(g, src, sink, wMax, q, d))
	return d
}

func TestRun_StraightChainExactlyOnePath(t *testing.T) {
	g, src, sink := buildChain(t)
	d := resolvePair(t, g, src, sink, 6)

	state := topo.NewState(g.NumNodes(), int(d.WMax)+1)
	_, err := enumerate.Run(g, state, d, src, sink, enumerate.Params{
		Scale:      1,
		Multiplier: 1,
		Mode:       rrgraph.ByPathWeight,
		Congestion: rrgraph.SelfCongestionNone,
	})
	require.NoError(t, err)

	for _, idx := range []int32{2, 3, 4} { // chanX1, chanX2, ipin
		require.InDelta(t, 1.0, g.Node(idx).SnapshotDemand(), 1e-9, "node %d should carry exactly one path's worth of demand", idx)
	}
	require.Zero(t, g.Node(1).SnapshotDemand(), "OPin is excluded from demand accumulation")
}

func TestRun_DoubleEnumerateDoublesDemand(t *testing.T) {
	g, src, sink := buildChain(t)
	d := resolvePair(t, g, src, sink, 6)
	state := topo.NewState(g.NumNodes(), int(d.WMax)+1)

	params := enumerate.Params{Scale: 1, Multiplier: 1, Mode: rrgraph.ByPathWeight, Congestion: rrgraph.SelfCongestionNone}

	_, err := enumerate.Run(g, state, d, src, sink, params)
	require.NoError(t, err)
	state.Reset()

	d2 := resolvePair(t, g, src, sink, 6)
	_, err = enumerate.Run(g, state, d2, src, sink, params)
	require.NoError(t, err)

	require.InDelta(t, 2.0, g.Node(2).SnapshotDemand(), 1e-9, "running enumerate twice without clearing demand must double it")
}

func TestRun_PathDependenceRecordsContribution(t *testing.T) {
	g, src, sink := buildChain(t)
	d := resolvePair(t, g, src, sink, 6)
	state := topo.NewState(g.NumNodes(), int(d.WMax)+1)

	_, err := enumerate.Run(g, state, d, src, sink, enumerate.Params{
		Scale:      1,
		Multiplier: 1,
		Mode:       rrgraph.ByPathWeight,
		Congestion: rrgraph.SelfCongestionPathDependence,
	})
	require.NoError(t, err)

	opin := g.Node(1)
	require.NotNil(t, opin.ChildDemandContribution)
	var total float64
	for _, bucket := range opin.ChildDemandContribution[0] {
		if bucket != rrgraph.Undefined {
			total += bucket
		}
	}
	require.Greater(t, total, 0.0)
}
