package rrgparse

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

// parseSimple implements the lighter, one-line-per-node grammar used by
// hand-authored fixtures and tests. Two directive lines configure the
// architecture-level fields the VPR grammar derives from its .grid and
// .block_type sections:
//
//	.grid W H
//	.fill NAME
//
// Every node line has the form:
//
//	I KIND XLOW YLOW SPAN PTC WEIGHT [PINPROB] [edges:D1,D2,...]
//
// with I strictly ascending, matching spec §6's ascending-index invariant.
func parseSimple(r io.Reader) (*rrgraph.Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	builder := rrgraph.NewBuilder(0, 0)
	lineNo := 0
	lastIdx := -1

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, ".grid") {
			fields := strings.Fields(line)
			if len(fields) != 3 {
				return nil, lineError("rrgparse.parseSimple", lineNo, line, ErrMalformedLine)
			}
			w, err1 := strconv.Atoi(fields[1])
			h, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				return nil, lineError("rrgparse.parseSimple", lineNo, line, ErrMalformedLine)
			}
			builder.SetGridDimensions(int32(w), int32(h))
			continue
		}
		if strings.HasPrefix(line, ".fill") {
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, lineError("rrgparse.parseSimple", lineNo, line, ErrMalformedLine)
			}
			builder.SetFillBlockType(fields[1])
			continue
		}

		idx, err := parseSimpleNode(builder, line, lastIdx)
		if err != nil {
			return nil, lineError("rrgparse.parseSimple", lineNo, line, err)
		}
		lastIdx = idx
	}
	if err := sc.Err(); err != nil {
		return nil, rrgraph.Wrap(rrgraph.KindInit, "rrgparse.parseSimple", err)
	}

	return builder.Build(), nil
}

func parseSimpleNode(builder *rrgraph.Builder, line string, lastIdx int) (int, error) {
	var edgesClause string
	if at := strings.Index(line, "edges:"); at >= 0 {
		edgesClause = line[at+len("edges:"):]
		line = strings.TrimSpace(line[:at])
	}

	fields := strings.Fields(line)
	if len(fields) != 7 && len(fields) != 8 {
		return 0, ErrMalformedLine
	}

	idx, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, ErrMalformedLine
	}
	if idx <= lastIdx {
		return 0, ErrIndexOutOfOrder
	}

	kind, ok := parseKind(fields[1])
	if !ok {
		return 0, ErrUnknownRRType
	}

	xlow, e1 := strconv.ParseInt(fields[2], 10, 32)
	ylow, e2 := strconv.ParseInt(fields[3], 10, 32)
	span, e3 := strconv.ParseInt(fields[4], 10, 32)
	ptc, e4 := strconv.ParseInt(fields[5], 10, 32)
	weight, e5 := strconv.ParseInt(fields[6], 10, 64)
	if e1 != nil || e2 != nil || e3 != nil || e4 != nil || e5 != nil {
		return 0, ErrMalformedLine
	}

	newIdx := builder.AddNode(kind, int32(xlow), int32(ylow), int32(span), int32(ptc), weight)
	if int(newIdx) != idx {
		return 0, ErrIndexOutOfOrder
	}

	if len(fields) == 8 {
		prob, err := strconv.ParseFloat(fields[7], 64)
		if err != nil {
			return 0, ErrMalformedLine
		}
		builder.SetPinProb(newIdx, prob)
	}

	if edgesClause != "" {
		for _, tok := range strings.Split(edgesClause, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			dst, err := strconv.Atoi(tok)
			if err != nil {
				return 0, ErrMalformedLine
			}
			builder.AddEdge(newIdx, int32(dst))
		}
	}

	return idx, nil
}
