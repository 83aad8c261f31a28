package orchestrate

import (
	"math"
	"sync"

	"github.com/katalvlaran/wotanest/internal/pq"
)

// metricState is one of C11's two parallel metrics: Driver (paths from
// real sources) or Fanout (paths from synthetic sources attached to
// sinks). All fields are guarded by Aggregator.mu.
type metricState struct {
	totalProb       float64
	maxPossibleProb float64
	perLength       map[int]*pq.FixedQueue
}

func newMetricState() *metricState {
	return &metricState{perLength: make(map[int]*pq.FixedQueue)}
}

// worstFirst orders Items so the largest Priority sorts to the heap root;
// FixedQueue drops the root on overflow, so this retains the K *smallest*
// probabilities pushed -- the "worst x%" of connections at a given length
// (spec §4.2, §4.11).
func worstFirst(a, b pq.Item) bool { return a.Priority > b.Priority }

func (m *metricState) add(length int, prob, scale float64, capacityFor func(length int) int) {
	m.totalProb += prob
	m.maxPossibleProb += scale

	q, ok := m.perLength[length]
	if !ok {
		q = pq.NewFixedQueue(capacityFor(length), worstFirst)
		m.perLength[length] = q
	}
	q.Push(pq.Item{Value: length, Priority: prob})
}

// metric implements spec §4.11's final formula:
// metric = sum_len(top-K sum at len) / (max_possible * worst_percentile).
func (m *metricState) metric(worstPercentile float64) float64 {
	if m.maxPossibleProb == 0 || worstPercentile == 0 {
		return 0
	}
	var sum float64
	for _, q := range m.perLength {
		sum += q.Sum()
	}
	return sum / (m.maxPossibleProb * worstPercentile)
}

// Aggregator is C11: the thread-safe metric aggregator shared by every
// orchestrator worker. One global mutex protects all shared reads/writes
// (spec §5 "Shared-resource discipline").
type Aggregator struct {
	mu sync.Mutex

	driver *metricState
	fanout *metricState

	worstPercentile float64
	driverWeight    float64
	fanoutWeight    float64

	desiredConns    float64
	enumeratedConns float64

	totalDemand        float64
	totalSquaredDemand float64

	// Observer, when set, is called with each pair's raw (unscaled)
	// reachability probability as it is folded into the metric, letting
	// internal/wmetrics feed a per-pair histogram without the aggregator
	// importing Prometheus itself.
	Observer func(length int, rawProb float64)
}

// NewAggregator returns an empty Aggregator. worstPercentile, driverWeight
// and fanoutWeight come from validated Settings.
func NewAggregator(worstPercentile, driverWeight, fanoutWeight float64) *Aggregator {
	return &Aggregator{
		driver:          newMetricState(),
		fanout:          newMetricState(),
		worstPercentile: worstPercentile,
		driverWeight:    driverWeight,
		fanoutWeight:    fanoutWeight,
	}
}

// AddProbability folds one pair's scaled reachability probability into the
// driver or fanout metric, per spec §4.10 step 6 / §4.11.
func (a *Aggregator) AddProbability(isVirtual bool, length int, prob, scale float64, capacityFor func(length int) int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if isVirtual {
		a.fanout.add(length, prob, scale, capacityFor)
	} else {
		a.driver.add(length, prob, scale, capacityFor)
	}
}

// AddDesiredConn increments the desired-conns denominator. processPair
// calls it for every pair that passes the length-probability and
// source-probability filters, including pairs it then skips as
// unreachable (spec §4.14 "Transient conditions... increment only the
// desired_conns denominator"); pairs dropped by those two filters are not
// counted.
func (a *Aggregator) AddDesiredConn() {
	a.mu.Lock()
	a.desiredConns++
	a.mu.Unlock()
}

// AddEnumeratedConn increments the enumerated-conns counter for a pair
// that was actually run through C6/C7-C9.
func (a *Aggregator) AddEnumeratedConn() {
	a.mu.Lock()
	a.enumeratedConns++
	a.mu.Unlock()
}

// AddNodeDemand folds one node's final demand into the Total/Total-squared
// demand counters reported at the end of a run (spec §6 outputs).
func (a *Aggregator) AddNodeDemand(demand float64) {
	a.mu.Lock()
	a.totalDemand += demand
	a.totalSquaredDemand += demand * demand
	a.mu.Unlock()
}

// Report is the final, read-only snapshot of everything C11 accumulated,
// formatted as spec §6's stdout key-value lines.
type Report struct {
	DesiredConns      float64
	EnumeratedConns   float64
	FractionEnumerate float64
	TotalDemand       float64
	TotalSquaredDemand float64
	NormalizedDemand  float64
	DriverMetric      float64
	FanoutMetric      float64
	RoutabilityMetric float64
}

// Finalize computes the report. numRoutingNodes is used to normalize
// TotalDemand (spec §6 "Normalized demand").
func (a *Aggregator) Finalize(numRoutingNodes int) Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	driverMetric := a.driver.metric(a.worstPercentile)
	fanoutMetric := a.fanout.metric(a.worstPercentile)

	var fraction float64
	if a.desiredConns > 0 {
		fraction = a.enumeratedConns / a.desiredConns
	}

	var normalized float64
	if numRoutingNodes > 0 {
		normalized = a.totalDemand / float64(numRoutingNodes)
	}

	routability := a.driverWeight*driverMetric + a.fanoutWeight*fanoutMetric
	routability = math.Max(0, math.Min(1, routability))

	return Report{
		DesiredConns:       a.desiredConns,
		EnumeratedConns:    a.enumeratedConns,
		FractionEnumerate:  fraction,
		TotalDemand:        a.totalDemand,
		TotalSquaredDemand: a.totalSquaredDemand,
		NormalizedDemand:   normalized,
		DriverMetric:       driverMetric,
		FanoutMetric:       fanoutMetric,
		RoutabilityMetric:  routability,
	}
}
