package topo

import "github.com/katalvlaran/wotanest/internal/rrgraph"

// PopFunc runs when a node is popped off the expansion queue.
type PopFunc func(popped int32)

// ChildFunc runs while iterating a popped node's legal children; parent,
// the index of the out/in edge within the parent's adjacency list, and
// the child itself are supplied. Returning true tells the driver to
// ignore (not enqueue) this child.
type ChildFunc func(parent int32, edgeIdx int, child int32) (ignore bool)

// DoneFunc runs once after the whole traversal completes.
type DoneFunc func()

// Callbacks is the trait the traversal driver is parameterized by (spec
// §9 "Callback triples vs. inheritance"). Any field may be nil.
type Callbacks struct {
	OnPopped PopFunc
	OnChild  ChildFunc
	OnDone   DoneFunc
}

// IsLegal reports whether idx can lie on a <=W-weight source-sink path,
// bound to a specific (pair, wMax) by the caller (ssdist.Distances.IsLegal).
type IsLegal func(idx int32) bool

// Run performs one cycle-tolerant topological traversal from `from`
// (spec §4.5, C5). dir selects whether out-edges (Forward) or in-edges
// (Backward) are followed. `to` is the pair's other endpoint: it is
// never enqueued (it is terminal — counts still propagate into it via the
// child-iterated callback).
//
// state must be sized to the graph and reset (state.Reset()) by the
// caller before each pair.
func Run(g *rrgraph.Graph, state *State, from, to int32, dir Direction, legal IsLegal, cb Callbacks) error {
	queue := make([]int32, 0, 64)

	markStart := func(idx int32) {
		state.touch(idx)
		info := state.Info(idx)
		if dir == Forward {
			info.VisitsFromSrc++
			info.DoneFromSrc = true
		} else {
			info.VisitsFromSink++
			info.DoneFromSink = true
		}
	}
	markStart(from)
	queue = append(queue, from)

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		children := g.Node(node).OutEdges
		if dir == Backward {
			children = g.Node(node).InEdges
		}

		if cb.OnPopped != nil {
			cb.OnPopped(node)
		}

		queue = putChildren(g, state, children, node, to, dir, legal, cb, queue)

		if len(queue) == 0 && !state.Waiting.Empty() {
			next, ok := state.Waiting.PopFirst()
			if !ok {
				return rrgraph.NewError(rrgraph.KindPathEnum, "topo.Run", "waiting set reported non-empty but PopFirst failed")
			}
			queue = append(queue, next)
			info := state.Info(next)
			if dir == Forward {
				info.DoneFromSrc = true
			} else {
				info.DoneFromSink = true
			}
		}
	}

	if cb.OnDone != nil {
		cb.OnDone()
	}

	return nil
}

func putChildren(g *rrgraph.Graph, state *State, children []int32, parent, to int32, dir Direction, legal IsLegal, cb Callbacks, queue []int32) []int32 {
	for edgeIdx, child := range children {
		info := state.Info(child)
		if dir == Forward && info.DoneFromSrc {
			continue
		}
		if dir == Backward && info.DoneFromSink {
			continue
		}
		if !legal(child) {
			continue
		}

		ignore := false
		if cb.OnChild != nil {
			ignore = cb.OnChild(parent, edgeIdx, child)
		}
		if ignore {
			continue
		}

		state.touch(child)

		var numTimesVisited, numLegalPredecessors int32
		if dir == Forward {
			info.VisitsFromSrc++
			numTimesVisited = info.VisitsFromSrc
			if info.NumLegalIn == legalUnset {
				info.NumLegalIn = countLegal(g.Node(child).InEdges, legal)
			}
			numLegalPredecessors = info.NumLegalIn
		} else {
			info.VisitsFromSink++
			numTimesVisited = info.VisitsFromSink
			if info.NumLegalOut == legalUnset {
				info.NumLegalOut = countLegal(g.Node(child).OutEdges, legal)
			}
			numLegalPredecessors = info.NumLegalOut
		}

		if child == to {
			// Destination is terminal: counts propagate via OnChild but the
			// node itself is never enqueued or tracked in the waiting set.
			continue
		}

		remaining := numLegalPredecessors - numTimesVisited
		switch {
		case numTimesVisited == 1 && remaining > 0:
			weight, distToStart := waitingKeyFor(g, child, dir)
			state.Waiting.Insert(child, weight, distToStart)
		case numTimesVisited == 1 && remaining == 0:
			queue = append(queue, child)
			markDone(info, dir)
		case remaining > 0:
			// already waiting; nothing to do
		case remaining == 0:
			state.Waiting.Erase(child)
			queue = append(queue, child)
			markDone(info, dir)
		}
	}
	return queue
}

func markDone(info *NodeInfo, dir Direction) {
	if dir == Forward {
		info.DoneFromSrc = true
	} else {
		info.DoneFromSink = true
	}
}

func countLegal(edges []int32, legal IsLegal) int32 {
	var n int32
	for _, e := range edges {
		if legal(e) {
			n++
		}
	}
	return n
}
