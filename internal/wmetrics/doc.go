// Package wmetrics instruments one orchestrator run with Prometheus
// gauges, optionally exposed over HTTP via -metrics_addr (spec §6 domain
// stack expansion). This is a one-shot analyzer (spec §6 "Persisted
// state: None"), not a long-lived scrape target: the gauges are
// snapshot-set once after the run completes, and only the per-pair
// reachability histogram is fed live during the run (via Observe).
package wmetrics
