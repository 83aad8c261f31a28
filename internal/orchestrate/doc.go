// Package orchestrate implements the connection orchestrator (spec §4.10,
// C10), the metric aggregator (spec §4.11, C11), and the self-congestion
// FillInfo wiring (spec §4.12, C12) that ties internal/ssdist,
// internal/enumerate and internal/estimate together into a full
// routability run over every (source, sink, length) triple.
package orchestrate
