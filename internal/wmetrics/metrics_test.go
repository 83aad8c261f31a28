package wmetrics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wotanest/internal/orchestrate"
	"github.com/katalvlaran/wotanest/internal/wmetrics"
)

func TestCollector_SetReportAndObserveDoNotPanic(t *testing.T) {
	c := wmetrics.New()
	require.NotPanics(t, func() {
		c.Observe(3, 0.42)
		c.SetReport(orchestrate.Report{
			DesiredConns:      10,
			EnumeratedConns:   8,
			FractionEnumerate: 0.8,
			RoutabilityMetric: 0.55,
		})
	})
}
