package ssdist

import "github.com/katalvlaran/wotanest/internal/rrgraph"

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// manhattanRemain computes the Manhattan lower bound on the remaining
// weight between a candidate node and a point destination (dx,dy), per
// spec §4.3's geometric pruning rule. ChanY nodes span in y only; ChanX
// nodes span in x only; every other kind is treated as a single point.
func manhattanRemain(n *rrgraph.Node, dx, dy int32) int64 {
	var xDiff, yDiff int32

	switch n.Kind {
	case rrgraph.ChanY:
		xDiff = abs32(dx - n.XLow)
		ylo, yhi := n.YLow, n.YHigh()
		switch {
		case dy > yhi:
			yDiff = dy - yhi
		case dy >= ylo:
			yDiff = 0
		default:
			yDiff = ylo - dy
		}
	case rrgraph.ChanX:
		yDiff = abs32(dy - n.YLow)
		xlo, xhi := n.XLow, n.XHigh()
		switch {
		case dx > xhi:
			xDiff = dx - xhi
		case dx >= xlo:
			xDiff = 0
		default:
			xDiff = xlo - dx
		}
	default:
		xDiff = abs32(dx - n.XLow)
		yDiff = abs32(dy - n.YLow)
	}

	remain := int64(xDiff) + int64(yDiff) - 1
	if remain < 0 {
		remain = 0
	}
	return remain
}
