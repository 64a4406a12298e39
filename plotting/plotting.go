// Package plotting renders the report's figures as SVG with gonum/plot.
//
// DistributionSVG draws the X and y histograms of the data-preparation
// phase side by side. DiagnosticsSVG draws the 2x2 evaluation grid: data
// with fitted and true lines, residuals against predictions, predictions
// against actual values, and the residual histograms.
package plotting

import (
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/ezoic/crispdm/crispdm"
	"github.com/ezoic/crispdm/linear"
	"github.com/ezoic/crispdm/pkg/errors"
)

// Figure sizes.
const (
	DistributionWidth  = 10 * vg.Inch
	DistributionHeight = 4 * vg.Inch
	DiagnosticsWidth   = 15 * vg.Inch
	DiagnosticsHeight  = 10 * vg.Inch
)

var (
	trainColor = color.NRGBA{R: 31, G: 119, B: 180, A: 160}
	testColor  = color.NRGBA{R: 214, G: 39, B: 40, A: 160}
	fitColor   = color.NRGBA{R: 44, G: 160, B: 44, A: 255}
	trueColor  = color.NRGBA{R: 255, G: 127, B: 14, A: 255}
	refColor   = color.NRGBA{A: 200}
)

func tiles(rows, cols int) draw.Tiles {
	return draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter * 8,
		PadY:      vg.Millimeter * 8,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}
}

// DistributionSVG writes the X and y histograms of r.
func DistributionSVG(w io.Writer, r *crispdm.Report) error {
	px, err := histogramPlot("Distribution of X", "X values", r.Preparation.HistogramX, trainColor)
	if err != nil {
		return err
	}
	py, err := histogramPlot("Distribution of y", "y values", r.Preparation.HistogramY, testColor)
	if err != nil {
		return err
	}

	return render(w, DistributionWidth, DistributionHeight, [][]*plot.Plot{{px, py}})
}

// DiagnosticsSVG writes the 2x2 evaluation figure of r. r must have been
// built with series included.
func DiagnosticsSVG(w io.Writer, r *crispdm.Report) error {
	d := r.Evaluation.Diagnostics
	if d == nil {
		return errors.NewValueError("DiagnosticsSVG", "report was built without diagnostic series")
	}

	fit, err := fitPlot(r, d)
	if err != nil {
		return err
	}
	resid, err := residualPlot(d)
	if err != nil {
		return err
	}
	actual, err := actualPlot(d)
	if err != nil {
		return err
	}
	hist, err := residualHistogramPlot(d)
	if err != nil {
		return err
	}

	return render(w, DiagnosticsWidth, DiagnosticsHeight, [][]*plot.Plot{
		{fit, resid},
		{actual, hist},
	})
}

func render(w io.Writer, width, height vg.Length, plots [][]*plot.Plot) error {
	c := vgsvg.New(width, height)
	dc := draw.New(c)

	canvases := plot.Align(plots, tiles(len(plots), len(plots[0])), dc)
	for j, row := range plots {
		for i, p := range row {
			p.Draw(canvases[j][i])
		}
	}

	if _, err := c.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write svg")
	}
	return nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

func histogramPlot(title, xLabel string, h crispdm.Histogram, fill color.Color) (*plot.Plot, error) {
	p := newPlot(title, xLabel, "Frequency")
	hist, err := bars(h, fill)
	if err != nil {
		return nil, err
	}
	p.Add(hist)
	return p, nil
}

func bars(h crispdm.Histogram, fill color.Color) (*plotter.Histogram, error) {
	if len(h.Counts) == 0 || len(h.Edges) != len(h.Counts)+1 {
		return nil, errors.NewValueError("plotting", "malformed histogram")
	}
	bins := make([]plotter.HistogramBin, len(h.Counts))
	for i, c := range h.Counts {
		bins[i] = plotter.HistogramBin{Min: h.Edges[i], Max: h.Edges[i+1], Weight: c}
	}
	return &plotter.Histogram{
		Bins:      bins,
		Width:     h.Edges[1] - h.Edges[0],
		FillColor: fill,
		LineStyle: plotter.DefaultLineStyle,
	}, nil
}

func scatter(xs, ys []float64, c color.Color) (*plotter.Scatter, error) {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scatter")
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(2.5)
	return s, nil
}

func line(xs, ys []float64, c color.Color, dashed bool) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create line")
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(2)
	if dashed {
		l.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	}
	return l, nil
}

func fitPlot(r *crispdm.Report, d *crispdm.Diagnostics) (*plot.Plot, error) {
	p := newPlot("Linear Regression: Fitted vs True Line", "X", "y")
	p.Legend.Left = true

	train, err := scatter(d.Train.X, d.Train.Y, trainColor)
	if err != nil {
		return nil, err
	}
	test, err := scatter(d.Test.X, d.Test.Y, testColor)
	if err != nil {
		return nil, err
	}
	fit, err := line(d.LineX, d.FitLine, fitColor, false)
	if err != nil {
		return nil, err
	}
	truth, err := line(d.LineX, d.TrueLine, trueColor, true)
	if err != nil {
		return nil, err
	}

	p.Add(train, test, fit, truth)
	p.Legend.Add("Training data", train)
	p.Legend.Add("Test data", test)
	p.Legend.Add("Fitted line: "+linear.FormatEquation(r.Modeling.EstimatedA, r.Modeling.EstimatedB), fit)
	p.Legend.Add("True line: "+linear.FormatEquation(r.Modeling.TrueA, r.Modeling.TrueB)+" (no noise)", truth)
	return p, nil
}

func residualPlot(d *crispdm.Diagnostics) (*plot.Plot, error) {
	p := newPlot("Residuals Plot", "Predicted values", "Residuals")

	train, err := scatter(d.Train.Predicted, d.Train.Residuals, trainColor)
	if err != nil {
		return nil, err
	}
	test, err := scatter(d.Test.Predicted, d.Test.Residuals, testColor)
	if err != nil {
		return nil, err
	}

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.LineStyle.Color = refColor
	zero.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	p.Add(train, test, zero)
	p.Legend.Add("Training", train)
	p.Legend.Add("Test", test)
	return p, nil
}

func actualPlot(d *crispdm.Diagnostics) (*plot.Plot, error) {
	p := newPlot("Predicted vs Actual", "Actual values", "Predicted values")
	p.Legend.Left = true

	train, err := scatter(d.Train.Y, d.Train.Predicted, trainColor)
	if err != nil {
		return nil, err
	}
	test, err := scatter(d.Test.Y, d.Test.Predicted, testColor)
	if err != nil {
		return nil, err
	}
	ident, err := line(d.PerfectFit[:], d.PerfectFit[:], refColor, true)
	if err != nil {
		return nil, err
	}

	p.Add(train, test, ident)
	p.Legend.Add("Training", train)
	p.Legend.Add("Test", test)
	p.Legend.Add("Perfect fit", ident)
	return p, nil
}

func residualHistogramPlot(d *crispdm.Diagnostics) (*plot.Plot, error) {
	p := newPlot("Distribution of Residuals", "Residuals", "Frequency")

	train, err := bars(d.TrainResiduals, trainColor)
	if err != nil {
		return nil, err
	}
	test, err := bars(d.TestResiduals, testColor)
	if err != nil {
		return nil, err
	}

	p.Add(train, test)
	p.Legend.Add("Training residuals", train)
	p.Legend.Add("Test residuals", test)
	return p, nil
}
