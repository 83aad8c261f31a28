package rrgparse

import (
	"io"
	"os"

	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

// ParseFile opens path and parses it under mode, returning a fully built
// and invariant-checked Graph.
func ParseFile(path string, mode Mode) (*rrgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rrgraph.Wrap(rrgraph.KindInit, "rrgparse.ParseFile", err)
	}
	defer f.Close()

	return Parse(f, mode)
}

// Parse reads r under the given grammar mode and returns a Graph with
// InEdges derived and every structural invariant checked (spec §3/§4.14).
func Parse(r io.Reader, mode Mode) (*rrgraph.Graph, error) {
	var (
		g   *rrgraph.Graph
		err error
	)

	switch mode {
	case VPR:
		g, err = parseVPR(r)
	case Simple:
		g, err = parseSimple(r)
	default:
		return nil, rrgraph.Wrap(rrgraph.KindInit, "rrgparse.Parse", ErrUnknownMode)
	}
	if err != nil {
		return nil, err
	}

	if g.FillBlockType == "" {
		return nil, rrgraph.Wrap(rrgraph.KindArch, "rrgparse.Parse", rrgraph.ErrNilFillType)
	}

	if err := g.ValidateInvariants(); err != nil {
		return nil, err
	}

	return g, nil
}
