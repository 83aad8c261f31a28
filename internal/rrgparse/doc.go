// Package rrgparse reads the line-based RRG dump format (spec §6) and
// drives an rrgraph.Builder to produce a validated Graph. Two grammars are
// supported, selected by -rr_structs_mode: VPR (the full multi-line block
// grammar) and Simple (one line per node, for hand-authored fixtures).
//
// Every section enforces the "strictly ascending index" invariant spec §6
// requires for rr_node/rr_switch/block_type/grid entries; the first
// violation aborts parsing with a KindInit WotanError, matching spec §4.14
// ("malformed RRG dumps: abort before analysis begins").
package rrgparse
