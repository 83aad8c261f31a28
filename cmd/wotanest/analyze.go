package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/wotanest/internal/config"
	"github.com/katalvlaran/wotanest/internal/orchestrate"
	"github.com/katalvlaran/wotanest/internal/rrgparse"
	"github.com/katalvlaran/wotanest/internal/wlog"
	"github.com/katalvlaran/wotanest/internal/wmetrics"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Args:  cobra.NoArgs,
	Short: "Analyze an RRG dump and report routability metrics",
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.String("rr_structs_file", "", "path to the RRG dump file (required)")
	f.String("rr_structs_mode", "VPR", "RRG dump grammar: VPR or simple")
	f.Int("threads", 1, "number of worker goroutines")
	f.Int("max_connection_length", 3, "maximum Manhattan connection length analyzed")
	f.String("analyze_core", "n", "y/n: restrict probability-mode analysis to tiles >=3 from the grid perimeter")
	f.Float64("use_routing_node_demand", 0, "forces ChanX/ChanY demand to this fixed value and disables self-congestion (0 disables the override)")
	f.Float64("opin_demand", 1.0, "per-OPin usage probability")
	f.Float64("demand_multiplier", 1.0, "scalar applied to accumulated demand")
	f.String("self_congestion", "none", "none | radius | path_dependence")
	f.Int64("seed", 0, "RNG seed (reserved for the out-of-scope virtual-source augmentation pass)")
	f.Bool("nodisp", true, "disable graphics (always true; no graphics surface is implemented)")

	f.String("analysis_mode", "enumerate", "enumerate | probability")
	f.String("estimator", "propagate", "propagate | cutline_simple | cutline_levelled | cutline_recursive | reliability_polynomial")
	f.Float64("operational_probability", 1.0, "per-edge operational probability p for the reliability_polynomial estimator")
	f.Float64("worst_percentile", 1.0, "fraction of worst-case connections per length retained by the metric aggregator")
	f.Float64("driver_weight", 0.5, "w_drv in routability = w_drv*metric_drv + w_fan*metric_fan")
	f.Float64("fanout_weight", 0.0, "w_fan in routability = w_drv*metric_drv + w_fan*metric_fan")

	f.String("metrics_addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090) until the run completes")
	f.String("log_level", "info", "debug | info | warn | error")
	f.String("log_format", "console", "console | json")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logLevel := wlog.LogLevel(cfg.LogLevel)
	if verbose {
		logLevel = wlog.LogLevelDebug
	}
	logger := wlog.New(wlog.Config{Level: logLevel, Format: wlog.LogFormat(cfg.LogFormat), Output: os.Stderr})
	logger.Info("wotanest starting", "version", version, "config", cfg.String())

	resolved, err := cfg.Resolve()
	if err != nil {
		logger.Error("invalid configuration", "error", err.Error())
		return err
	}

	logger.Info("parsing RRG dump", "file", resolved.RRStructsFile, "mode", cfg.RRStructsMode)
	g, err := rrgparse.ParseFile(resolved.RRStructsFile, resolved.RRStructsMode)
	if err != nil {
		logger.Error("failed to parse RRG dump", "error", err.Error())
		return err
	}

	if resolved.Settings.UseRoutingNodeDemand {
		orchestrate.ApplyFixedRoutingNodeDemand(g, resolved.Settings.FixedRoutingNodeDemand)
	}
	fill := orchestrate.ComputeFillInfo(g)

	var metrics *wmetrics.Collector
	if cfg.MetricsAddr != "" {
		metrics = wmetrics.New()
		go func() {
			if err := metrics.Serve(cfg.MetricsAddr); err != nil {
				logger.Warn("metrics server stopped", "error", err.Error())
			}
		}()
	}

	agg := orchestrate.NewAggregator(resolved.Settings.WorstPercentile, resolved.Settings.DriverWeight, resolved.Settings.FanoutWeight)
	if metrics != nil {
		agg.Observer = metrics.Observe
	}

	pairs := orchestrate.BuildWorkList(g, resolved.Settings)
	logger.Info("work list built", "pairs", len(pairs), "threads", resolved.Settings.Threads)

	if err := orchestrate.Run(g, pairs, resolved.Settings, agg, fill); err != nil {
		logger.Error("orchestrator run failed", "error", err.Error())
		return err
	}

	orchestrate.CollectDemand(g, agg)
	report := agg.Finalize(orchestrate.CountRoutingNodes(g))
	if metrics != nil {
		metrics.SetReport(report)
	}

	printReport(report)
	return nil
}

func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if cfgFile != "" {
		var err error
		cfg, err = config.LoadYAML(cfg, cfgFile)
		if err != nil {
			return config.Config{}, err
		}
	}

	f := cmd.Flags()
	cfg.RRStructsFile, _ = f.GetString("rr_structs_file")
	cfg.RRStructsMode, _ = f.GetString("rr_structs_mode")
	cfg.Threads, _ = f.GetInt("threads")
	cfg.MaxConnectionLength, _ = f.GetInt("max_connection_length")
	core, _ := f.GetString("analyze_core")
	cfg.AnalyzeCore = core == "y" || core == "Y"

	demand, _ := f.GetFloat64("use_routing_node_demand")
	cfg.UseRoutingNodeDemand = demand != 0
	cfg.FixedRoutingNodeDemand = demand

	cfg.OPinDemand, _ = f.GetFloat64("opin_demand")
	cfg.DemandMultiplier, _ = f.GetFloat64("demand_multiplier")
	cfg.SelfCongestion, _ = f.GetString("self_congestion")
	cfg.Seed, _ = f.GetInt64("seed")
	cfg.NoDisp, _ = f.GetBool("nodisp")

	cfg.AnalysisMode, _ = f.GetString("analysis_mode")
	cfg.Estimator, _ = f.GetString("estimator")
	cfg.OperationalProbability, _ = f.GetFloat64("operational_probability")
	cfg.WorstPercentile, _ = f.GetFloat64("worst_percentile")
	cfg.DriverWeight, _ = f.GetFloat64("driver_weight")
	cfg.FanoutWeight, _ = f.GetFloat64("fanout_weight")

	cfg.MetricsAddr, _ = f.GetString("metrics_addr")
	cfg.LogLevel, _ = f.GetString("log_level")
	cfg.LogFormat, _ = f.GetString("log_format")

	return cfg, nil
}

// printReport writes the key-value lines spec §6 specifies.
func printReport(r orchestrate.Report) {
	fmt.Printf("desired conns: %g\n", r.DesiredConns)
	fmt.Printf("enumerated: %g\n", r.EnumeratedConns)
	fmt.Printf("fraction enumerated: %g\n", r.FractionEnumerate)
	fmt.Printf("Total demand: %g\n", r.TotalDemand)
	fmt.Printf("Total squared demand: %g\n", r.TotalSquaredDemand)
	fmt.Printf("Normalized demand: %g\n", r.NormalizedDemand)
	fmt.Printf("Driver metric: %g\n", r.DriverMetric)
	fmt.Printf("Fanout metric: %g\n", r.FanoutMetric)
	fmt.Printf("Routability metric: %g\n", r.RoutabilityMetric)
}
