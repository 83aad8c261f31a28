package ssdist

import (
	"math"

	"github.com/katalvlaran/wotanest/internal/pq"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

// Flex is the adaptive-bound multiplier from spec §4.3: the per-pair
// effective max weight is min(userBound, ceil(W_min*Flex)).
const Flex = 2.0

// direction selects which adjacency list and which Distances arrays a
// Dijkstra run traverses/fills.
type direction uint8

const (
	dirForward direction = iota
	dirBackward
)

// Resolve computes SS-distances for the (src,sink) pair, refines the
// effective max path weight per spec §4.3, and fills hop counts. It
// returns ErrPairUnreachable (a transient, skip-worthy sentinel) if src
// cannot reach sink within userBound at all.
//
// d is caller-owned scratch (NewDistances(graph.NumNodes())), reused
// across pairs via d.Reset() before each call. scratch must be a
// pq.BoundedQueue sized to at least userBound (effectiveMax never exceeds
// userBound), reused across pairs and phases via its own Reset.
func Resolve(g *rrgraph.Graph, src, sink int32, userBound int64, scratch *pq.BoundedQueue, d *Distances) error {
	d.Reset()
	srcNode, sinkNode := g.Node(src), g.Node(sink)

	// Phase A: unconstrained-by-refinement forward run, bounded only by the
	// caller's bound, to discover the real shortest distance W_min.
	if err := runDijkstra(g, src, dirForward, userBound, sinkNode.XLow, sinkNode.YLow, rrgraph.IPin, scratch, d); err != nil {
		return err
	}
	wMin := d.SrcDist[sink]
	if wMin == UndefinedDist {
		d.Reset()
		return ErrPairUnreachable
	}

	effectiveMax := int64(math.Ceil(float64(wMin) * Flex))
	if effectiveMax > userBound {
		effectiveMax = userBound
	}
	// Phase B: refine both directions bounded by the effective max weight.
	d.Reset()
	d.WMax = effectiveMax
	if err := runDijkstra(g, src, dirForward, effectiveMax, sinkNode.XLow, sinkNode.YLow, rrgraph.IPin, scratch, d); err != nil {
		return err
	}
	if err := runDijkstra(g, sink, dirBackward, effectiveMax, srcNode.XLow, srcNode.YLow, rrgraph.OPin, scratch, d); err != nil {
		return err
	}

	setNodeHops(g, src, sink, d)

	return nil
}

// runDijkstra performs one bounded, geometrically-pruned Dijkstra pass
// (spec §4.3). restrictKind children are only enqueued when they lie in
// the destination tile (dx,dy) (the "IPin forward / OPin backward"
// restriction).
func runDijkstra(g *rrgraph.Graph, start int32, dir direction, wMax int64, dx, dy int32, restrictKind rrgraph.Kind, q *pq.BoundedQueue, d *Distances) error {
	dist, touch := distArray(dir, d)
	q.Reset()
	touch(start)
	dist[start] = 0
	q.Push(start, 0)

	for {
		u, ok := q.Pop()
		if !ok {
			break
		}
		un := g.Node(u)
		du := dist[u]

		children := un.OutEdges
		if dir == dirBackward {
			children = un.InEdges
		}
		for _, c := range children {
			cn := g.Node(c)
			if cn == nil {
				continue
			}
			if cn.Weight < 0 {
				return rrgraph.Wrap(rrgraph.KindGraph, "ssdist.runDijkstra", ErrNegativeWeight)
			}
			newDist := du + cn.Weight
			if newDist > wMax {
				continue
			}
			if cn.Kind == restrictKind && !(cn.XLow == dx && cn.YLow == dy) {
				continue
			}
			// Geometric pruning: drop nodes whose remaining Manhattan lower
			// bound cannot possibly close the path within wMax.
			remain := manhattanRemain(cn, dx, dy)
			if newDist+remain > wMax {
				continue
			}
			// On backward traversal, additionally require that the node is
			// already legal given the forward distances resolved in Phase B.
			if dir == dirBackward && !IsLegalValues(d.SrcDist[c], newDist, cn.Weight, wMax) {
				continue
			}
			if newDist < dist[c] {
				touch(c)
				dist[c] = newDist
				q.Push(c, int(newDist))
			}
		}
	}

	return nil
}

func distArray(dir direction, d *Distances) ([]int64, func(int32)) {
	if dir == dirForward {
		return d.SrcDist, d.touch
	}
	return d.SinkDist, d.touch
}

// setNodeHops runs a plain BFS over legal nodes from both ends, filling
// SrcHops/SinkHops (spec §4.3 "set_node_hops").
func setNodeHops(g *rrgraph.Graph, src, sink int32, d *Distances) {
	bfsHops(g, src, dirForward, d)
	bfsHops(g, sink, dirBackward, d)
}

func bfsHops(g *rrgraph.Graph, start int32, dir direction, d *Distances) {
	hops, _ := hopsArray(dir, d)
	hops[start] = 0
	queue := []int32{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		un := g.Node(u)
		children := un.OutEdges
		if dir == dirBackward {
			children = un.InEdges
		}
		for _, c := range children {
			if !d.IsLegal(g, c, d.WMax) {
				continue
			}
			if hops[c] != UndefinedDist {
				continue
			}
			hops[c] = hops[u] + 1
			queue = append(queue, c)
		}
	}
}

func hopsArray(dir direction, d *Distances) ([]int64, func(int32)) {
	if dir == dirForward {
		return d.SrcHops, d.touch
	}
	return d.SinkHops, d.touch
}
