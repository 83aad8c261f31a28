package wmetrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/wotanest/internal/orchestrate"
)

// Collector holds every gauge/histogram a run reports, registered against
// its own registry so concurrent test runs never collide on the global
// DefaultRegisterer.
type Collector struct {
	registry *prometheus.Registry

	desiredConns      prometheus.Gauge
	enumeratedConns   prometheus.Gauge
	fractionEnumerate prometheus.Gauge
	totalDemand       prometheus.Gauge
	normalizedDemand  prometheus.Gauge
	driverMetric      prometheus.Gauge
	fanoutMetric      prometheus.Gauge
	routabilityMetric prometheus.Gauge

	pairReachability *prometheus.HistogramVec
}

// New registers every gauge and returns the Collector.
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry:          reg,
		desiredConns:      prometheus.NewGauge(prometheus.GaugeOpts{Name: "wotanest_desired_conns", Help: "Connections considered for analysis"}),
		enumeratedConns:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "wotanest_enumerated_conns", Help: "Connections actually enumerated or estimated"}),
		fractionEnumerate: prometheus.NewGauge(prometheus.GaugeOpts{Name: "wotanest_fraction_enumerated", Help: "enumerated_conns / desired_conns"}),
		totalDemand:       prometheus.NewGauge(prometheus.GaugeOpts{Name: "wotanest_total_demand", Help: "Sum of final per-node demand"}),
		normalizedDemand:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "wotanest_normalized_demand", Help: "total_demand / num_routing_nodes"}),
		driverMetric:      prometheus.NewGauge(prometheus.GaugeOpts{Name: "wotanest_driver_metric", Help: "Driver-direction routability metric"}),
		fanoutMetric:      prometheus.NewGauge(prometheus.GaugeOpts{Name: "wotanest_fanout_metric", Help: "Fanout-direction routability metric"}),
		routabilityMetric: prometheus.NewGauge(prometheus.GaugeOpts{Name: "wotanest_routability_metric", Help: "w_drv*driver + w_fan*fanout"}),
		pairReachability: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wotanest_pair_reachability",
			Help:    "Per-pair reachability probability, bucketed by connection length",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"length"}),
	}

	reg.MustRegister(c.desiredConns, c.enumeratedConns, c.fractionEnumerate, c.totalDemand,
		c.normalizedDemand, c.driverMetric, c.fanoutMetric, c.routabilityMetric, c.pairReachability)

	return c
}

// Observe records one pair's raw reachability probability, meant to be
// wired as orchestrate.Aggregator.Observer.
func (c *Collector) Observe(length int, rawProb float64) {
	c.pairReachability.WithLabelValues(strconv.Itoa(length)).Observe(rawProb)
}

// SetReport copies a finished orchestrate.Report onto the gauges.
func (c *Collector) SetReport(r orchestrate.Report) {
	c.desiredConns.Set(r.DesiredConns)
	c.enumeratedConns.Set(r.EnumeratedConns)
	c.fractionEnumerate.Set(r.FractionEnumerate)
	c.totalDemand.Set(r.TotalDemand)
	c.normalizedDemand.Set(r.NormalizedDemand)
	c.driverMetric.Set(r.DriverMetric)
	c.fanoutMetric.Set(r.FanoutMetric)
	c.routabilityMetric.Set(r.RoutabilityMetric)
}

// Serve starts an HTTP server exposing /metrics on addr, blocking until it
// errors (spec §6 domain stack: optional -metrics_addr listener).
func (c *Collector) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
