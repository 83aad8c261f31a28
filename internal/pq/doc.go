// Package pq provides the two bespoke priority queues the analysis engine
// needs: a weight-bounded FIFO-bucket queue for SS-distance Dijkstra runs
// (BoundedQueue, spec §4.1) and a capacity-bounded binary heap that keeps
// only the K most/least extreme items pushed into it (FixedQueue, spec
// §4.2), used by the metric aggregator's per-length top-K accumulators.
package pq
