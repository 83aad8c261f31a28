package config

import "errors"

var (
	// ErrMissingRRStructsFile indicates -rr_structs_file was not provided.
	ErrMissingRRStructsFile = errors.New("config: rr_structs_file is required")

	// ErrInvalidThreads indicates -threads was less than 1.
	ErrInvalidThreads = errors.New("config: threads must be >= 1")

	// ErrInvalidMaxConnectionLength indicates -max_connection_length was less than 1.
	ErrInvalidMaxConnectionLength = errors.New("config: max_connection_length must be >= 1")

	// ErrInvalidWorstPercentile indicates -worst_percentile fell outside (0,1].
	ErrInvalidWorstPercentile = errors.New("config: worst_percentile must be in (0,1]")

	// ErrInvalidWeight indicates a driver/fanout metric weight was negative.
	ErrInvalidWeight = errors.New("config: metric weight must be >= 0")

	// ErrInvalidOperationalProbability indicates -operational_probability fell outside [0,1].
	ErrInvalidOperationalProbability = errors.New("config: operational_probability must be in [0,1]")

	// ErrReliabilityRequiresFixedDemand indicates reliability_polynomial was
	// selected without -use_routing_node_demand (spec §9 Open Question
	// resolution: "reliability-polynomial requires use_routing_node_demand
	// to be set").
	ErrReliabilityRequiresFixedDemand = errors.New("config: reliability_polynomial estimator requires use_routing_node_demand")

	// ErrReliabilityIncompatibleWithCongestion indicates reliability_polynomial
	// was combined with a non-none self-congestion mode (spec §9 Open
	// Question resolution: "self_congestion != none together with
	// estimator reliability_polynomial is rejected at config-validation time").
	ErrReliabilityIncompatibleWithCongestion = errors.New("config: reliability_polynomial estimator is incompatible with self_congestion != none")
)
