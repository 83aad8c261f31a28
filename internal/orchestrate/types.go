package orchestrate

import (
	"strings"

	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

// Mode selects whether a pair is run through the path-count propagator
// (Enumerate, C6) or one of the reachability estimators (Probability,
// C7-C9).
type Mode uint8

const (
	Enumerate Mode = iota
	Probability
)

func (m Mode) String() string {
	if m == Probability {
		return "probability"
	}
	return "enumerate"
}

// ParseMode maps the -analysis_mode flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "enumerate":
		return Enumerate, nil
	case "probability":
		return Probability, nil
	default:
		return 0, rrgraph.NewError(rrgraph.KindInit, "orchestrate.ParseMode", "unknown analysis mode: "+s)
	}
}

// Estimator selects which reachability estimator backs Probability mode
// (spec §9 Open Questions: "the selector... should be exposed at
// runtime").
type Estimator uint8

const (
	EstimatorPropagate Estimator = iota
	EstimatorCutlineSimple
	EstimatorCutlineLevelled
	EstimatorCutlineRecursive
	EstimatorReliabilityPolynomial
)

func (e Estimator) String() string {
	switch e {
	case EstimatorPropagate:
		return "propagate"
	case EstimatorCutlineSimple:
		return "cutline_simple"
	case EstimatorCutlineLevelled:
		return "cutline_levelled"
	case EstimatorCutlineRecursive:
		return "cutline_recursive"
	case EstimatorReliabilityPolynomial:
		return "reliability_polynomial"
	default:
		return "unknown"
	}
}

// ParseEstimator maps the -estimator flag value to an Estimator.
func ParseEstimator(s string) (Estimator, error) {
	switch strings.ToLower(s) {
	case "", "propagate":
		return EstimatorPropagate, nil
	case "cutline_simple":
		return EstimatorCutlineSimple, nil
	case "cutline_levelled":
		return EstimatorCutlineLevelled, nil
	case "cutline_recursive":
		return EstimatorCutlineRecursive, nil
	case "reliability_polynomial":
		return EstimatorReliabilityPolynomial, nil
	default:
		return 0, rrgraph.NewError(rrgraph.KindInit, "orchestrate.ParseEstimator", "unknown estimator: "+s)
	}
}

// Settings bundles the analysis-wide knobs spec §6's CLI surface exposes,
// already validated by internal/config.
type Settings struct {
	Mode      Mode
	Estimator Estimator

	MaxConnectionLength int
	Threads             int

	AnalyzeCore bool // restrict probability-mode analysis to tiles >=3 from perimeter

	UseRoutingNodeDemand     bool // forces ChanX/Y demand to a fixed value, disables self-congestion
	FixedRoutingNodeDemand   float64
	OPinDemand               float64
	DemandMultiplier         float64
	SelfCongestion           rrgraph.SelfCongestionMode
	OperationalProbability   float64 // p for ReliabilityPolynomial
	BucketMode               rrgraph.BucketMode
	DriverWeight             float64 // w_drv, spec §4.11 (default 0.5)
	FanoutWeight             float64 // w_fan, spec §4.11 (default 0.0)
	WorstPercentile          float64 // per-length bottom-x% retained by C11's FixedQueue
	MaxPathWeightForLength   func(length int) int64
	ConnectionLengthProb     func(length int) float64
}

// Pair is one (src, sink) work item the orchestrator resolves, enumerates
// or estimates (spec §4.10).
type Pair struct {
	Src, Sink int32
	Length    int
	IsVirtual bool // true if Src is a synthetic Source (fanout direction)
}
