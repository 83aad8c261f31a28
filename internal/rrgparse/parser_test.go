package rrgparse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/rrgparse"
)

const simpleFixture = `
.grid 4 1
.fill CLB
0 SOURCE 0 0 1 0 0 edges:1
1 OPIN 0 0 1 0 1 edges:2
2 CHANX 1 0 1 0 1 edges:3
3 IPIN 3 0 1 0 1 edges:4
4 SINK 3 0 1 0 0
`

func TestParseSimple_BuildsStraightChain(t *testing.T) {
	g, err := rrgparse.Parse(strings.NewReader(simpleFixture), rrgparse.Simple)
	require.NoError(t, err)
	require.Equal(t, 5, g.NumNodes())
	require.Equal(t, "CLB", g.FillBlockType)
	require.Equal(t, []int32{1}, g.Node(0).OutEdges)
	require.Equal(t, []int32{0}, g.Node(1).InEdges)
}

func TestParseSimple_RejectsOutOfOrderIndex(t *testing.T) {
	fixture := ".grid 1 1\n.fill CLB\n0 SOURCE 0 0 1 0 0\n0 SINK 0 0 1 0 0\n"
	_, err := rrgparse.Parse(strings.NewReader(fixture), rrgparse.Simple)
	require.Error(t, err)

	var werr *rrgraph.WotanError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, rrgraph.KindInit, werr.Kind)
}

func TestParseSimple_MissingFillTypeIsArchError(t *testing.T) {
	fixture := ".grid 1 1\n0 SOURCE 0 0 1 0 0\n"
	_, err := rrgparse.Parse(strings.NewReader(fixture), rrgparse.Simple)
	require.Error(t, err)

	var werr *rrgraph.WotanError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, rrgraph.KindArch, werr.Kind)
}

func TestParseSimple_PinProbOverride(t *testing.T) {
	fixture := ".grid 1 1\n.fill CLB\n0 OPIN 0 0 1 0 1 0.25\n1 SINK 0 0 1 0 0\n"
	g, err := rrgparse.Parse(strings.NewReader(fixture), rrgparse.Simple)
	require.NoError(t, err)
	require.InDelta(t, 0.25, g.Node(0).PinProb, 1e-12)
	require.InDelta(t, 1.0, g.Node(1).PinProb, 1e-12, "nodes without an explicit pin_prob default to 1.0")
}

const vprFixture = `.rr_node(3)
node_0: rr_type(SOURCE) xlow(0) xhigh(0) ylow(0) yhigh(0) ptc_num(0) fan_in(0) direction(NONE) R(0) C(0)
 .edges(1)
  0: edge(1) switch(0)
 .end edges
node_1: rr_type(CHANX) xlow(0) xhigh(1) ylow(0) yhigh(0) ptc_num(0) fan_in(1) direction(INC) R(0) C(0) pin_prob(0.5)
 .edges(1)
  0: edge(2) switch(0)
 .end edges
node_2: rr_type(SINK) xlow(1) xhigh(1) ylow(0) yhigh(0) ptc_num(0) fan_in(1) direction(NONE) R(0) C(0)
 .edges(0)
 .end edges
.end rr_node
.rr_switch(1)
switch_0: name(mux) R(0) Cin(0) Cout(0)
.block_type(1)
type_0: name(CLB)
.grid(2,1)
0,0: type(CLB)
1,0: type(CLB)
.rr_node_indices(1,2,1)
`

func TestParseVPR_BuildsGraphAndDerivesFillType(t *testing.T) {
	g, err := rrgparse.Parse(strings.NewReader(vprFixture), rrgparse.VPR)
	require.NoError(t, err)
	require.Equal(t, 3, g.NumNodes())
	require.Equal(t, "CLB", g.FillBlockType)
	require.Equal(t, rrgraph.ChanX, g.Node(1).Kind)
	require.Equal(t, int32(2), g.Node(1).Span, "xhigh(1)-xlow(0)+1")
	require.InDelta(t, 0.5, g.Node(1).PinProb, 1e-12)
	require.Equal(t, []int32{2}, g.Node(1).OutEdges)
}

func TestParseVPR_RejectsUnknownRRType(t *testing.T) {
	fixture := strings.Replace(vprFixture, "rr_type(SOURCE)", "rr_type(BOGUS)", 1)
	_, err := rrgparse.Parse(strings.NewReader(fixture), rrgparse.VPR)
	require.Error(t, err)
}

func TestParseMode_DefaultsToVPR(t *testing.T) {
	mode, err := rrgparse.ParseMode("")
	require.NoError(t, err)
	require.Equal(t, rrgparse.VPR, mode)

	_, err = rrgparse.ParseMode("nonsense")
	require.Error(t, err)
}
