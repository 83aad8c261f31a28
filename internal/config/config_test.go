package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/config"
	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

func TestValidate_RequiresRRStructsFile(t *testing.T) {
	cfg := config.Default()
	err := cfg.Validate()
	require.Error(t, err)

	var werr *rrgraph.WotanError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, rrgraph.KindInit, werr.Kind)
}

func TestValidate_AcceptsDefaultsOnceFileIsSet(t *testing.T) {
	cfg := config.Default()
	cfg.RRStructsFile = "fixture.rr"
	require.NoError(t, cfg.Validate())
}

func TestValidate_RejectsReliabilityWithoutFixedDemand(t *testing.T) {
	cfg := config.Default()
	cfg.RRStructsFile = "fixture.rr"
	cfg.Estimator = "reliability_polynomial"
	cfg.AnalysisMode = "probability"

	err := cfg.Validate()
	require.ErrorIs(t, err, config.ErrReliabilityRequiresFixedDemand)
}

func TestValidate_RejectsReliabilityWithSelfCongestion(t *testing.T) {
	cfg := config.Default()
	cfg.RRStructsFile = "fixture.rr"
	cfg.AnalysisMode = "probability"
	cfg.Estimator = "reliability_polynomial"
	cfg.UseRoutingNodeDemand = true
	cfg.SelfCongestion = "radius"

	err := cfg.Validate()
	require.ErrorIs(t, err, config.ErrReliabilityIncompatibleWithCongestion)
}

func TestResolve_BuildsWorkingSettings(t *testing.T) {
	cfg := config.Default()
	cfg.RRStructsFile = "fixture.rr"
	cfg.MaxConnectionLength = 5

	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, "fixture.rr", resolved.RRStructsFile)
	require.Equal(t, int64(5), resolved.Settings.MaxPathWeightForLength(3))
	require.Equal(t, float64(1), resolved.Settings.ConnectionLengthProb(5))
	require.Equal(t, float64(0), resolved.Settings.ConnectionLengthProb(6))
}
