package rrgraph

// PolarKeyFor computes the (manhattan_radius, arc, ptc) key used by Radius
// self-congestion bookkeeping (spec §4.12, C12) to index the path-count
// history a routing/pin node keeps relative to a source or sink target.
// The quadrant-based arc numbering is grounded directly on the original
// engine's access_path_count_history: arc increases clockwise starting
// from the positive-x axis, wrapping at each of the four quadrants.
func PolarKeyFor(n, target *Node) PolarKey {
	diffX := n.XLow - target.XLow
	diffY := n.YLow - target.YLow
	dist := abs32(diffX) + abs32(diffY)

	var arc int32
	switch {
	case dist == 0:
		arc = 0
	case diffX > 0 && diffY >= 0:
		arc = diffY
	case diffX <= 0 && diffY > 0:
		arc = -diffX + dist
	case diffX < 0 && diffY <= 0:
		arc = -diffY + 2*dist
	default:
		arc = diffX + 3*dist
	}

	return PolarKey{Radius: int(dist), Arc: int(arc), Ptc: int(target.Ptc)}
}

// IncrementPathCountHistory adds increment to this node's path-count
// history against target (a Source or Sink), allocating the map lazily
// under the node's lock. target must be Source or Sink; callers enforce
// this the way the original engine throws a PathEnum error otherwise.
func (n *Node) IncrementPathCountHistory(target *Node, increment float64) {
	key := PolarKeyFor(n, target)

	n.Mu.Lock()
	if n.PathCountHistory == nil {
		n.PathCountHistory = make(map[PolarKey]float64)
	}
	n.PathCountHistory[key] += increment
	n.Mu.Unlock()
}

// GetPathCountHistory reads this node's recorded path count against
// target, or Undefined if no history was ever recorded for that key.
func (n *Node) GetPathCountHistory(target *Node) float64 {
	key := PolarKeyFor(n, target)

	n.Mu.Lock()
	defer n.Mu.Unlock()
	if n.PathCountHistory == nil {
		return Undefined
	}
	v, ok := n.PathCountHistory[key]
	if !ok {
		return Undefined
	}
	return v
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
