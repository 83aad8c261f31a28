package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/wotanest/internal/orchestrate"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
	"github.com/katalvlaran/wotanest/internal/rrgparse"
)

// Config is the fully-specified set of knobs spec §6's CLI surface exposes,
// plus the SPEC_FULL runtime-estimator-selector and metric-weight additions
// (spec §9 Open Questions). Every field maps 1:1 to a CLI flag bound in
// cmd/wotanest; this package never touches cobra/pflag itself.
type Config struct {
	RRStructsFile string `yaml:"rr_structs_file"`
	RRStructsMode string `yaml:"rr_structs_mode"`

	Threads             int  `yaml:"threads"`
	MaxConnectionLength int  `yaml:"max_connection_length"`
	AnalyzeCore         bool `yaml:"analyze_core"`

	UseRoutingNodeDemand   bool    `yaml:"use_routing_node_demand"`
	FixedRoutingNodeDemand float64 `yaml:"fixed_routing_node_demand"`
	OPinDemand             float64 `yaml:"opin_demand"`
	DemandMultiplier       float64 `yaml:"demand_multiplier"`
	SelfCongestion         string  `yaml:"self_congestion"`
	Seed                   int64   `yaml:"seed"`
	NoDisp                 bool    `yaml:"nodisp"`

	// AnalysisMode and Estimator resolve spec §9's open selector question
	// as a runtime flag rather than a compile-time constant.
	AnalysisMode           string  `yaml:"analysis_mode"`
	Estimator              string  `yaml:"estimator"`
	OperationalProbability float64 `yaml:"operational_probability"`

	WorstPercentile float64 `yaml:"worst_percentile"`
	DriverWeight    float64 `yaml:"driver_weight"`
	FanoutWeight    float64 `yaml:"fanout_weight"`

	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// Default returns a Config with spec §6's documented defaults plus the
// SPEC_FULL additions' defaults (propagate estimator, enumerate mode,
// w_drv=0.5/w_fan=0.0 per spec §4.11).
func Default() Config {
	return Config{
		RRStructsMode:       "VPR",
		Threads:             1,
		MaxConnectionLength: 3,
		DemandMultiplier:    1.0,
		SelfCongestion:      "none",
		AnalysisMode:        "enumerate",
		Estimator:           "propagate",
		WorstPercentile:     1.0,
		DriverWeight:        0.5,
		FanoutWeight:        0.0,
		LogLevel:            "info",
		LogFormat:           "console",
	}
}

// LoadYAML overlays path's contents onto a copy of cfg; CLI flags the
// caller already parsed should be re-applied on top of the result since
// flags win over file values (mirrors chaos-utils' env-over-file priority
// in pkg/config.Load).
func LoadYAML(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, rrgraph.Wrap(rrgraph.KindInit, "config.LoadYAML", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, rrgraph.Wrap(rrgraph.KindInit, "config.LoadYAML", err)
	}
	return cfg, nil
}

// Validate checks every field spec §6/§9 constrains and returns a KindInit
// WotanError on the first violation found, fail-fast with no panics.
func (c Config) Validate() error {
	if c.RRStructsFile == "" {
		return rrgraph.Wrap(rrgraph.KindInit, "Config.Validate", ErrMissingRRStructsFile)
	}
	if c.Threads < 1 {
		return rrgraph.Wrap(rrgraph.KindInit, "Config.Validate", ErrInvalidThreads)
	}
	if c.MaxConnectionLength < 1 {
		return rrgraph.Wrap(rrgraph.KindInit, "Config.Validate", ErrInvalidMaxConnectionLength)
	}
	if c.WorstPercentile <= 0 || c.WorstPercentile > 1 {
		return rrgraph.Wrap(rrgraph.KindInit, "Config.Validate", ErrInvalidWorstPercentile)
	}
	if c.DriverWeight < 0 || c.FanoutWeight < 0 {
		return rrgraph.Wrap(rrgraph.KindInit, "Config.Validate", ErrInvalidWeight)
	}

	if _, err := rrgparse.ParseMode(c.RRStructsMode); err != nil {
		return err
	}
	if _, err := rrgraph.ParseSelfCongestionMode(c.SelfCongestion); err != nil {
		return err
	}
	if _, err := orchestrate.ParseMode(c.AnalysisMode); err != nil {
		return err
	}
	estimator, err := orchestrate.ParseEstimator(c.Estimator)
	if err != nil {
		return err
	}

	if estimator == orchestrate.EstimatorReliabilityPolynomial {
		if !c.UseRoutingNodeDemand {
			return rrgraph.Wrap(rrgraph.KindInit, "Config.Validate", ErrReliabilityRequiresFixedDemand)
		}
		congestion, _ := rrgraph.ParseSelfCongestionMode(c.SelfCongestion)
		if congestion != rrgraph.SelfCongestionNone {
			return rrgraph.Wrap(rrgraph.KindInit, "Config.Validate", ErrReliabilityIncompatibleWithCongestion)
		}
		if c.OperationalProbability < 0 || c.OperationalProbability > 1 {
			return rrgraph.Wrap(rrgraph.KindInit, "Config.Validate", ErrInvalidOperationalProbability)
		}
	}

	return nil
}

// Resolved bundles everything cmd/wotanest needs after validation: the
// parser mode for rrgparse and the fully-populated orchestrate.Settings.
type Resolved struct {
	RRStructsFile string
	RRStructsMode rrgparse.Mode
	Settings      orchestrate.Settings
}

// Resolve validates c and, on success, parses every enum field once and
// builds the closures orchestrate.Settings needs for per-length bounds.
func (c Config) Resolve() (Resolved, error) {
	if err := c.Validate(); err != nil {
		return Resolved{}, err
	}

	rrMode, err := rrgparse.ParseMode(c.RRStructsMode)
	if err != nil {
		return Resolved{}, err
	}
	congestion, err := rrgraph.ParseSelfCongestionMode(c.SelfCongestion)
	if err != nil {
		return Resolved{}, err
	}
	if c.UseRoutingNodeDemand {
		congestion = rrgraph.SelfCongestionNone
	}
	mode, err := orchestrate.ParseMode(c.AnalysisMode)
	if err != nil {
		return Resolved{}, err
	}
	estimator, err := orchestrate.ParseEstimator(c.Estimator)
	if err != nil {
		return Resolved{}, err
	}

	maxLen := c.MaxConnectionLength
	settings := orchestrate.Settings{
		Mode:                   mode,
		Estimator:              estimator,
		MaxConnectionLength:    maxLen,
		Threads:                c.Threads,
		AnalyzeCore:            c.AnalyzeCore,
		UseRoutingNodeDemand:   c.UseRoutingNodeDemand,
		FixedRoutingNodeDemand: c.FixedRoutingNodeDemand,
		OPinDemand:             c.OPinDemand,
		DemandMultiplier:       c.DemandMultiplier,
		SelfCongestion:         congestion,
		OperationalProbability: c.OperationalProbability,
		BucketMode:             rrgraph.ByPathWeight,
		DriverWeight:           c.DriverWeight,
		FanoutWeight:           c.FanoutWeight,
		WorstPercentile:        c.WorstPercentile,
		MaxPathWeightForLength: func(int) int64 { return int64(maxLen) },
		ConnectionLengthProb: func(length int) float64 {
			if length <= 0 || length > maxLen {
				return 0
			}
			return 1
		},
	}

	return Resolved{RRStructsFile: c.RRStructsFile, RRStructsMode: rrMode, Settings: settings}, nil
}

// String renders the resolved configuration for startup log lines.
func (c Config) String() string {
	return fmt.Sprintf("rr_structs_file=%s mode=%s threads=%d max_connection_length=%d analysis_mode=%s estimator=%s self_congestion=%s",
		c.RRStructsFile, c.RRStructsMode, c.Threads, c.MaxConnectionLength, c.AnalysisMode, c.Estimator, c.SelfCongestion)
}
