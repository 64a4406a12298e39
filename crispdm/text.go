package crispdm

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteText renders the report as plain text, one section per phase.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p := &printer{w: tw}

	p.section("1. Business Understanding")
	p.line("Objective:\t%s", r.Business.Objective)
	for _, c := range r.Business.SuccessCriteria {
		p.line("  - %s", c)
	}
	p.line("Question:\t%s", r.Business.Question)

	d := r.Data
	p.section("2. Data Understanding")
	p.line("Observations:\t%d", d.Observations)
	p.line("X range:\t[%.2f, %.2f]", d.XRange[0], d.XRange[1])
	p.line("y range:\t[%.2f, %.2f]", d.YRange[0], d.YRange[1])
	p.line("Pearson correlation:\t%.3f", d.Correlation)
	p.line("")
	p.line("\tX\ty")
	for _, row := range []struct {
		name string
		x, y float64
	}{
		{"count", float64(d.DescribeX.Count), float64(d.DescribeY.Count)},
		{"mean", d.DescribeX.Mean, d.DescribeY.Mean},
		{"std", d.DescribeX.Std, d.DescribeY.Std},
		{"min", d.DescribeX.Min, d.DescribeY.Min},
		{"25%", d.DescribeX.Q25, d.DescribeY.Q25},
		{"50%", d.DescribeX.Q50, d.DescribeY.Q50},
		{"75%", d.DescribeX.Q75, d.DescribeY.Q75},
		{"max", d.DescribeX.Max, d.DescribeY.Max},
	} {
		p.line("%s\t%.4f\t%.4f", row.name, row.x, row.y)
	}
	p.line("")
	p.line("#\tX\ty")
	for i, row := range d.Head {
		p.line("%d\t%.4f\t%.4f", i, row.X, row.Y)
	}

	prep := r.Preparation
	p.section("3. Data Preparation")
	p.line("Missing values in X:\t%d", prep.MissingX)
	p.line("Missing values in y:\t%d", prep.MissingY)
	p.line("Data type X:\t%s", prep.DTypeX)
	p.line("Data type y:\t%s", prep.DTypeY)
	p.line("Training set size:\t%d samples", prep.TrainSize)
	p.line("Test set size:\t%d samples", prep.TestSize)

	m := r.Modeling
	p.section("4. Modeling")
	p.line("True parameters:\ta = %g, b = %g", m.TrueA, m.TrueB)
	p.line("Estimated parameters:\ta = %.3f, b = %.3f", m.EstimatedA, m.EstimatedB)
	p.line("Error in a:\t%.3f", m.ErrorA)
	p.line("Error in b:\t%.3f", m.ErrorB)
	p.line("Model equation:\t%s", m.FittedEquation)
	p.line("True equation:\t%s", m.TrueEquation)

	e := r.Evaluation
	p.section("5. Evaluation")
	p.line("\tTrain\tTest")
	p.line("R²\t%.3f\t%.3f", e.Train.R2, e.Test.R2)
	p.line("RMSE\t%.3f\t%.3f", e.Train.RMSE, e.Test.RMSE)
	p.line("MSE\t%.3f\t%.3f", e.Train.MSE, e.Test.MSE)
	p.line("MAE\t%.3f\t%.3f", e.Train.MAE, e.Test.MAE)
	p.line("Noise level:\t%.1f", e.NoiseLevel)
	p.line("Sample size:\t%d", e.SampleSize)

	dep := r.Deployment
	p.section("6. Deployment")
	for i, s := range dep.Strategy {
		p.line("%d. %s", i+1, s)
	}
	for _, c := range dep.Checklist {
		p.line("[x] %s", c)
	}
	p.line("Input X:\t%.2f", dep.Prediction.X)
	p.line("Predicted y:\t%.2f", dep.Prediction.Predicted)
	p.line("True y (no noise):\t%.2f", dep.Prediction.True)

	s := r.Summary
	p.section("Summary")
	p.line("Dataset size:\t%d points", s.DatasetSize)
	p.line("Model type:\t%s", s.ModelType)
	p.line("True parameters:\ta = %g, b = %g", s.TrueA, s.TrueB)
	p.line("Estimated parameters:\ta = %.3f, b = %.3f", s.EstimatedA, s.EstimatedB)
	p.line("Model performance:\tR² = %.3f, RMSE = %.3f", s.TestR2, s.TestRMSE)
	p.line("Noise level:\t%g", s.NoiseLevel)

	if p.err != nil {
		return p.err
	}
	return tw.Flush()
}

type printer struct {
	w       io.Writer
	err     error
	started bool
}

func (p *printer) line(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) section(title string) {
	if p.started {
		p.line("")
	}
	p.started = true
	p.line("== %s ==", title)
}
