package ssdist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/pq"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/ssdist"
)

// buildChain constructs src -> OPin -> ChanX(w=1) -> ChanX(w=1) -> IPin -> sink,
// the straight-line scenario from spec §8 scenario 1.
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

func TestResolve_StraightChain(t *testing.T) {
	g, src, sink := buildChain(t)
	d := ssdist.NewDistances(g.NumNodes())
	q := pq.NewBoundedQueue(10)

	err := ssdist.Resolve(g, src, sink, 6, q, d)
	require.NoError(t, err)

	require.Equal(t, int64(0), d.SrcDist[src])
	require.Equal(t, int64(4), d.SrcDist[sink], "opin+chanX1+chanX2+ipin+sink weights sum to 1+1+1+1+0")
	for _, idx := range []int32{src, sink} {
		require.True(t, d.IsLegal(g, idx, d.WMax))
	}
}

func TestResolve_UnreachablePairIsSkipped(t *testing.T) {
	b := rrgraph.NewBuilder(2, 1)
	src := b.AddNode(rrgraph.Source, 0, 0, 1, 0, 0)
	sink := b.AddNode(rrgraph.Sink, 1, 0, 1, 0, 0)
	g := b.Build() // no edge between them

	d := ssdist.NewDistances(g.NumNodes())
	q := pq.NewBoundedQueue(10)
	err := ssdist.Resolve(g, src, sink, 6, q, d)
	require.ErrorIs(t, err, ssdist.ErrPairUnreachable)
}

func TestIsLegalValues(t *testing.T) {
	require.True(t, ssdist.IsLegalValues(2, 2, 1, 3))
	require.False(t, ssdist.IsLegalValues(2, 2, 1, 2))
	require.False(t, ssdist.IsLegalValues(ssdist.UndefinedDist, 2, 1, 10))
}
