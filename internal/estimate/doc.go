// Package estimate implements the five reachability estimators that read
// node demand rather than write it (spec §4.7-4.9, C7-C9): Propagate,
// the three Cutline variants (Simple/Levelled/Recursive), and the
// Reliability-polynomial bound. Each is grounded on the matching
// analysis_*.cxx file in the original engine. Propagate, CutlineLevelled
// and CutlineRecursive share the topo.Run driver with the path-count
// propagator; CutlineSimple works from the resolved hop counts alone, and
// ReliabilityPolynomial evaluates a path-count spectrum its caller
// supplies.
package estimate
