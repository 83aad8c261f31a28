package rrgraph

// Builder assembles a Graph incrementally, mirroring lvlath's builder
// package: a thin, deterministic helper with no hidden algorithmic
// complexity, used by the RRG parser and by tests that need small,
// hand-built graphs (straight chains, diamonds, cycles — spec §8).
type Builder struct {
	g *Graph
}

// NewBuilder starts a Graph with the given tile-grid dimensions.
func NewBuilder(gridW, gridH int32) *Builder {
	return &Builder{g: &Graph{GridW: gridW, GridH: gridH}}
}

// AddNode appends a new Node and returns its index.
func (b *Builder) AddNode(kind Kind, xlow, ylow int32, span int32, ptc int32, weight int64) int32 {
	idx := int32(len(b.g.Nodes))
	n := &Node{
		Index:            idx,
		Kind:             kind,
		XLow:             xlow,
		YLow:             ylow,
		Span:             span,
		Ptc:              ptc,
		Weight:           weight,
		VirtualSourceInd: NoVirtualSource,
		PinProb:          1.0,
	}
	b.g.Nodes = append(b.g.Nodes, n)
	return idx
}

// AddEdge appends a directed edge from -> to.
func (b *Builder) AddEdge(from, to int32) {
	n := b.g.Node(from)
	n.OutEdges = append(n.OutEdges, to)
}

// SetFillBlockType records the dominant block type name.
func (b *Builder) SetFillBlockType(name string) { b.g.FillBlockType = name }

// SetGridDimensions records the tile-grid size once it is known (the VPR
// grammar's .grid header arrives after nodes may already have been added).
func (b *Builder) SetGridDimensions(w, h int32) {
	b.g.GridW = w
	b.g.GridH = h
}

// SetPinProb overrides the default 1.0 usage probability on a pin node
// once the parser has read an architecture-supplied value for it.
func (b *Builder) SetPinProb(idx int32, prob float64) {
	if n := b.g.Node(idx); n != nil {
		n.PinProb = prob
	}
}

// Build derives InEdges and returns the finished Graph.
func (b *Builder) Build() *Graph {
	b.g.DeriveInEdges()
	return b.g
}
