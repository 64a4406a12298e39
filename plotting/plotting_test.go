package plotting_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/crispdm/crispdm"
	"github.com/ezoic/crispdm/datasets"
	"github.com/ezoic/crispdm/plotting"
)

func buildReport(t *testing.T, includeSeries bool) *crispdm.Report {
	t.Helper()
	p := datasets.DefaultParams()
	seed := datasets.DeriveSeed(datasets.DefaultBaseSeed, p, 0)
	ds := datasets.Generate(p, &seed)

	opts := crispdm.DefaultReportOptions()
	opts.IncludeSeries = includeSeries
	r, err := crispdm.BuildReport(p, ds, opts)
	require.NoError(t, err)
	return r
}

func TestDistributionSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plotting.DistributionSVG(&buf, buildReport(t, false)))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Distribution of X")
	assert.Contains(t, out, "Distribution of y")
}

func TestDiagnosticsSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plotting.DiagnosticsSVG(&buf, buildReport(t, true)))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	for _, title := range []string{
		"Linear Regression: Fitted vs True Line",
		"Residuals Plot",
		"Predicted vs Actual",
		"Distribution of Residuals",
	} {
		assert.Contains(t, out, title)
	}
}

func TestDiagnosticsSVG_RequiresSeries(t *testing.T) {
	var buf bytes.Buffer
	err := plotting.DiagnosticsSVG(&buf, buildReport(t, false))
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
