package orchestrate

import (
	"errors"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/katalvlaran/wotanest/internal/enumerate"
	"github.com/katalvlaran/wotanest/internal/estimate"
	"github.com/katalvlaran/wotanest/internal/pq"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/ssdist"
	"github.com/katalvlaran/wotanest/internal/topo"
)

const probEpsilon = 1e-9

// ConnsAtLength counts how many pairs in a work list share each length,
// used both to size C11's per-length FixedQueues and to compute each
// pair's demand-scaling factor (spec §4.10 steps 5/6).
func ConnsAtLength(pairs []Pair) map[int]int {
	counts := make(map[int]int)
	for _, p := range pairs {
		counts[p.Length]++
	}
	return counts
}

// workerScratch is the per-thread state spec §5 requires: an independent
// copy of every per-pair structure, sized to the graph once and reused
// across every pair the worker is assigned (spec §5 "Scheduling model").
type workerScratch struct {
	dist  *ssdist.Distances
	queue *pq.BoundedQueue
	state *topo.State
}

func newWorkerScratch(g *rrgraph.Graph, maxBuckets int) *workerScratch {
	return &workerScratch{
		dist:  ssdist.NewDistances(g.NumNodes()),
		queue: pq.NewBoundedQueue(maxBuckets),
		state: topo.NewState(g.NumNodes(), maxBuckets),
	}
}

// Run executes the full connection orchestrator (spec §4.10) over every
// pair in the supplied work list, split across settings.Threads true
// OS-threaded workers that never steal between partitions (spec §5
// "Scheduling model"). It returns once every worker has processed its
// partition, or the first typed error any worker raised.
func Run(g *rrgraph.Graph, pairs []Pair, settings Settings, agg *Aggregator, fill estimate.FillInfo) error {
	counts := ConnsAtLength(pairs)
	partitions := Partition(pairs, settings.Threads)

	maxBuckets := maxBucketCapacity(settings)

	var wg sync.WaitGroup
	errs := make([]error, len(partitions))
	for i, part := range partitions {
		if len(part) == 0 {
			continue
		}
		i, part := i, part
		wg.Add(1)
		go func() {
			defer wg.Done()
			scratch := newWorkerScratch(g, maxBuckets)
			for _, pair := range part {
				if err := processPair(g, pair, settings, scratch, agg, counts, fill); err != nil {
					errs[i] = err
					return
				}
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// maxBucketCapacity sizes the per-worker bucket arrays to the largest
// effective weight any length in [1, MaxConnectionLength] could need,
// plus the +3 hop-mode padding (spec §3 "Bucket semantics").
func maxBucketCapacity(settings Settings) int {
	var maxWeight int64 = 1
	for l := 1; l <= settings.MaxConnectionLength; l++ {
		w := int64(settings.MaxConnectionLength)
		if settings.MaxPathWeightForLength != nil {
			w = settings.MaxPathWeightForLength(l)
		}
		if w > maxWeight {
			maxWeight = w
		}
	}
	return int(maxWeight) + 4
}

// processPair implements the single-pair state machine of spec §4.13:
// DISTANCES -> PRUNED? -> ENUMERATE|ESTIMATE -> METRIC-ADD -> CLEANUP.
func processPair(g *rrgraph.Graph, pair Pair, settings Settings, scratch *workerScratch, agg *Aggregator, counts map[int]int, fill estimate.FillInfo) error {
	lengthProb := 1.0
	if settings.ConnectionLengthProb != nil {
		lengthProb = settings.ConnectionLengthProb(pair.Length)
	}
	if lengthProb == 0 {
		return nil
	}

	srcNode := g.Node(pair.Src)
	sourceProb := srcNode.PinProb
	if sourceProb <= 0 {
		// Filtered before distance computation (spec §8 "A source with
		// pin_prob = 0 is filtered before distance computation").
		return nil
	}

	agg.AddDesiredConn()

	userBound := int64(settings.MaxConnectionLength)
	if settings.MaxPathWeightForLength != nil {
		userBound = settings.MaxPathWeightForLength(pair.Length)
	}
	if userBound <= 0 {
		return nil
	}

	if err := ssdist.Resolve(g, pair.Src, pair.Sink, userBound, scratch.queue, scratch.dist); err != nil {
		if errors.Is(err, ssdist.ErrPairUnreachable) {
			return nil // transient: pair unreachable under W_max
		}
		return err
	}

	numConnsAtLength := float64(counts[pair.Length])
	if numConnsAtLength == 0 {
		numConnsAtLength = 1
	}
	const numSinks = 1.0
	desiredScale := numSinks * sourceProb * lengthProb / numConnsAtLength

	var err error
	switch settings.Mode {
	case Enumerate:
		err = runEnumerate(g, scratch, pair, settings, desiredScale)
	case Probability:
		err = runProbability(g, scratch, pair, settings, fill, desiredScale, counts, agg)
	}
	scratch.state.Reset()
	return err
}

func runEnumerate(g *rrgraph.Graph, scratch *workerScratch, pair Pair, settings Settings, desiredScale float64) error {
	_, err := enumerate.Run(g, scratch.state, scratch.dist, pair.Src, pair.Sink, enumerate.Params{
		ScaleFromCount: func(numEnumerated float64) float64 {
			if numEnumerated == 0 {
				return 0
			}
			return desiredScale / numEnumerated
		},
		Multiplier: settings.DemandMultiplier,
		Mode:       settings.BucketMode,
		Congestion: settings.SelfCongestion,
	})
	return err
}

func runProbability(g *rrgraph.Graph, scratch *workerScratch, pair Pair, settings Settings, fill estimate.FillInfo, desiredScale float64, counts map[int]int, agg *Aggregator) error {
	prob, err := runEstimator(g, scratch, settings, pair, fill)
	if err != nil {
		return err
	}
	if prob < 0 && !scalar.EqualWithinAbs(prob, 0, probEpsilon) {
		return rrgraph.Wrap(rrgraph.KindPathEnum, "orchestrate.runProbability", rrgraph.ErrProbabilityRange)
	}
	if prob > 1 && !scalar.EqualWithinAbs(prob, 1, probEpsilon) {
		return rrgraph.Wrap(rrgraph.KindPathEnum, "orchestrate.runProbability", rrgraph.ErrProbabilityRange)
	}
	prob = math.Max(0, math.Min(1, prob))
	if agg.Observer != nil {
		agg.Observer(pair.Length, prob)
	}

	agg.AddEnumeratedConn()
	capacityFor := func(length int) int {
		return int(math.Ceil(float64(counts[length]) * settings.WorstPercentile))
	}
	agg.AddProbability(pair.IsVirtual, pair.Length, prob*desiredScale, desiredScale, capacityFor)
	return nil
}

func runEstimator(g *rrgraph.Graph, scratch *workerScratch, settings Settings, pair Pair, fill estimate.FillInfo) (float64, error) {
	switch settings.Estimator {
	case EstimatorPropagate:
		return estimate.Propagate(g, scratch.state, scratch.dist, pair.Src, pair.Sink, settings.SelfCongestion, fill)
	case EstimatorCutlineSimple:
		return estimate.CutlineSimple(g, scratch.dist, pair.Src, pair.Sink, pair.Length, settings.SelfCongestion, fill)
	case EstimatorCutlineLevelled:
		return estimate.CutlineLevelled(g, scratch.state, scratch.dist, pair.Src, pair.Sink, settings.SelfCongestion, fill)
	case EstimatorCutlineRecursive:
		return estimate.CutlineRecursive(g, scratch.state, scratch.dist, pair.Src, pair.Sink, settings.SelfCongestion, fill)
	case EstimatorReliabilityPolynomial:
		res, err := enumerate.Run(g, scratch.state, scratch.dist, pair.Src, pair.Sink, enumerate.Params{
			Scale:      1,
			Multiplier: 0, // reliability-polynomial reads path counts, never mutates demand
			Mode:       rrgraph.ByPathHops,
			Congestion: rrgraph.SelfCongestionNone,
		})
		if err != nil {
			return 0, err
		}
		sinkInfo := scratch.state.Info(pair.Sink)
		return estimate.ReliabilityPolynomial(sinkInfo.SourceBuckets, res.RoutingNodesInSubgraph, settings.OperationalProbability)
	default:
		return 0, rrgraph.NewError(rrgraph.KindInit, "orchestrate.runEstimator", "unknown estimator")
	}
}
