package topo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/topo"
)

func allLegal(int32) bool { return true }

func TestRun_StraightChainVisitsEveryNodeOnce(t *testing.T) {
	b := rrgraph.NewBuilder(4, 1)
	src := b.AddNode(rrgraph.Source, 0, 0, 1, 0, 0)
	opin := b.AddNode(rrgraph.OPin, 0, 0, 1, 0, 1)
	chanX := b.AddNode(rrgraph.ChanX, 1, 0, 1, 0, 1)
	ipin := b.AddNode(rrgraph.IPin, 2, 0, 1, 0, 1)
	sink := b.AddNode(rrgraph.Sink, 2, 0, 1, 0, 0)

	b.AddEdge(src, opin)
	b.AddEdge(opin, chanX)
	b.AddEdge(chanX, ipin)
	b.AddEdge(ipin, sink)
	g := b.Build()

	state := topo.NewState(g.NumNodes(), 4)

	var popped []int32
	err := topo.Run(g, state, src, sink, topo.Forward, allLegal, topo.Callbacks{
		OnPopped: func(n int32) { popped = append(popped, n) },
	})
	require.NoError(t, err)
	require.Equal(t, []int32{src, opin, chanX, ipin}, popped, "sink is terminal and must never be popped")
}

// TestRun_ToleratesCycle builds a small cycle between two channel nodes
// on the main path and checks the traversal still completes, reaches ipin,
// and pops chanA exactly once (spec §8 scenario 4).
func TestRun_ToleratesCycle(t *testing.T) {
	b := rrgraph.NewBuilder(4, 1)
	src := b.AddNode(rrgraph.Source, 0, 0, 1, 0, 0)
	opin := b.AddNode(rrgraph.OPin, 0, 0, 1, 0, 1)
	chanA := b.AddNode(rrgraph.ChanX, 1, 0, 1, 0, 1)
	chanB := b.AddNode(rrgraph.ChanX, 2, 0, 1, 0, 1)
	ipin := b.AddNode(rrgraph.IPin, 3, 0, 1, 0, 1)
	sink := b.AddNode(rrgraph.Sink, 3, 0, 1, 0, 0)

	b.AddEdge(src, opin)
	b.AddEdge(opin, chanA)
	b.AddEdge(chanA, chanB)
	b.AddEdge(chanB, chanA) // cycle back
	b.AddEdge(chanB, ipin)
	b.AddEdge(ipin, sink)
	g := b.Build()

	state := topo.NewState(g.NumNodes(), 4)

	var popped []int32
	err := topo.Run(g, state, src, sink, topo.Forward, allLegal, topo.Callbacks{
		OnPopped: func(n int32) { popped = append(popped, n) },
	})
	require.NoError(t, err)
	require.Contains(t, popped, ipin)
	require.Len(t, popped, 5) // src, opin, chanA, chanB, ipin -- sink terminal, no infinite loop

	var count int
	for _, n := range popped {
		if n == chanA {
			count++
		}
	}
	require.Equal(t, 1, count, "cycle must not cause chanA to be visited twice")
}

func TestRun_BackwardDirectionFollowsInEdges(t *testing.T) {
	b := rrgraph.NewBuilder(3, 1)
	src := b.AddNode(rrgraph.Source, 0, 0, 1, 0, 0)
	mid := b.AddNode(rrgraph.ChanX, 1, 0, 1, 0, 1)
	sink := b.AddNode(rrgraph.Sink, 2, 0, 1, 0, 0)
	b.AddEdge(src, mid)
	b.AddEdge(mid, sink)
	g := b.Build()

	state := topo.NewState(g.NumNodes(), 4)
	var popped []int32
	err := topo.Run(g, state, sink, src, topo.Backward, allLegal, topo.Callbacks{
		OnPopped: func(n int32) { popped = append(popped, n) },
	})
	require.NoError(t, err)
	require.Equal(t, []int32{sink, mid}, popped)
}
