// Package enumerate implements the path-count propagator (spec §4.6, C6):
// a pair of topo.Run passes (backward from sink, then forward from source)
// that carry per-weight path counts through a pair's legal subgraph and
// accumulate node demand, grounded directly on the original engine's
// enumerate.cxx callback triple.
package enumerate
