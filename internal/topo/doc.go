// Package topo implements the cycle-tolerant topological traversal driver
// (spec §4.5, C5) shared by the path-count propagator and every
// reachability estimator. It is parameterized by three callbacks — popped,
// child-iterated, and traversal-done — exactly like lvlath's bfs/dfs
// hook-based Options, so callers plug in enumerate/C6 or one of the C7-C9
// estimators without the driver knowing anything about their payloads.
package topo
