package ssdist

import "errors"

// ErrPairUnreachable is a transient sentinel (spec §7): the source cannot
// reach the sink within the caller-supplied weight bound. The orchestrator
// must skip the pair silently and bump only the desired-conns denominator.
var ErrPairUnreachable = errors.New("ssdist: pair unreachable under max path weight")

// ErrNegativeWeight indicates an edge weight went negative, a hard
// invariant violation (wrapped by callers into a rrgraph.WotanError).
var ErrNegativeWeight = errors.New("ssdist: negative edge weight")
