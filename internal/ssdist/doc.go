// Package ssdist resolves, for a single (source, sink) pair, the per-node
// minimum weight-distance and minimum hop-count from both ends (spec §4.3,
// C3), and exposes the legality filter (spec §4.4, C4) used everywhere
// else in the engine to decide whether a node can lie on a <=W-weight path.
package ssdist
