package server

import (
	"fmt"
	"html/template"

	"github.com/ezoic/crispdm/crispdm"
	"github.com/ezoic/crispdm/datasets"
)

// pageData feeds templates/index.html.tmpl.
type pageData struct {
	Params    datasets.Params
	Slope     datasets.Range
	Intercept datasets.Range
	Noise     datasets.Range
	Samples   datasets.Range

	FixedSeed   bool
	SeedCounter uint64
	PredictX    float64
	Query       template.URL

	Report     *crispdm.Report
	Prediction crispdm.Prediction

	Error     string
	ErrorCode string
}

var templateFuncs = template.FuncMap{
	"f1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"f3": func(v float64) string { return fmt.Sprintf("%.3f", v) },
	"f4": func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"g":  func(v float64) string { return fmt.Sprintf("%g", v) },
	"describeRows": func(r *crispdm.Report) []describeRow {
		x, y := r.Data.DescribeX, r.Data.DescribeY
		return []describeRow{
			{"count", float64(x.Count), float64(y.Count)},
			{"mean", x.Mean, y.Mean},
			{"std", x.Std, y.Std},
			{"min", x.Min, y.Min},
			{"25%", x.Q25, y.Q25},
			{"50%", x.Q50, y.Q50},
			{"75%", x.Q75, y.Q75},
			{"max", x.Max, y.Max},
		}
	},
}

type describeRow struct {
	Name string
	X, Y float64
}
