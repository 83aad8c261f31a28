// Package rrgraph defines the routing-resource graph (RRG) data model:
// nodes (sources, sinks, pins, channel wires), directed edges, and the
// mutable per-node demand bookkeeping shared by many analysis workers.
//
// Topology (OutEdges/InEdges/Kind/coordinates) is read-only once the graph
// is built. Demand and the self-congestion side tables are the only
// mutable fields, and each is guarded by a single per-node mutex so that
// many worker goroutines can accumulate demand concurrently without a
// single global lock (see internal/orchestrate for the callers).
package rrgraph
