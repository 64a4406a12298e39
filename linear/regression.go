// Package linear implements single-feature ordinary least squares.
//
// LinearRegression fits y = Slope*x + Intercept in closed form:
//
//	slope     = cov(x, y) / var(x)
//	intercept = mean(y) - slope*mean(x)
//
// using gonum/stat. A fit needs at least two samples and at least two
// distinct x values; anything less returns an InsufficientDataError.
//
// Example usage:
//
//	lr := linear.NewLinearRegression()
//	if err := lr.Fit(x, y); err != nil {
//		return err
//	}
//	yHat := lr.Predict(7.5)
//
// A fitted model can be exported in the scikit-learn compatible JSON
// envelope of core/model and loaded back:
//
//	err = lr.ExportToSKLearnWriter(w)
//	err = lr.LoadFromSKLearnReader(r)
package linear

import (
	"fmt"
	"io"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/crispdm/core/model"
	"github.com/ezoic/crispdm/metrics"
	"github.com/ezoic/crispdm/pkg/errors"
	"github.com/ezoic/crispdm/pkg/log"
)

// MinSamples is the smallest sample count a line can be fitted to.
const MinSamples = 2

// LinearRegression is a fitted (or not yet fitted) least-squares line.
type LinearRegression struct {
	State     *model.StateManager // Public so the fitted flag survives encoding
	Slope     float64
	Intercept float64
	logger    log.Logger
}

// NewLinearRegression creates an unfitted model.
func NewLinearRegression() *LinearRegression {
	lr := &LinearRegression{
		State: model.NewStateManager(),
	}

	lr.logger = log.GetLoggerWithName("linear").With(
		log.ModelNameKey, "LinearRegression",
	)

	return lr
}

// Fit estimates Slope and Intercept from paired samples. Any previous fit is
// discarded first, so a failed Fit leaves the model unfitted.
//
// Errors:
//   - ErrDimensionMismatch: if x and y differ in length
//   - ErrInsufficientData: if fewer than two samples are given or every x
//     is identical
func (lr *LinearRegression) Fit(x, y []float64) (err error) {
	defer errors.Recover(&err, "LinearRegression.Fit")

	startTime := time.Now()
	n := len(x)

	lr.State.Reset()
	lr.Slope, lr.Intercept = 0, 0

	if lr.logger != nil {
		lr.logger.Info("Training started",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.SamplesKey, n,
		)
	}

	if len(y) != n {
		return errors.NewDimensionError("LinearRegression.Fit", n, len(y), 0)
	}
	if n < MinSamples {
		return errors.NewInsufficientDataError("LinearRegression.Fit", n, MinSamples, "")
	}
	if floats.Min(x) == floats.Max(x) {
		return errors.NewInsufficientDataError("LinearRegression.Fit", n, MinSamples,
			"x has zero variance")
	}

	// stat.LinearRegression returns (alpha, beta) for y = alpha + beta*x.
	alpha, beta := stat.LinearRegression(x, y, nil, false)

	lr.Intercept = alpha
	lr.Slope = beta

	lr.State.SetFitted()
	lr.State.SetDimensions(1, n)

	if lr.logger != nil {
		lr.logger.Info("Training completed",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.DurationMsKey, time.Since(startTime).Milliseconds(),
			log.SamplesKey, n,
			"model.slope", lr.Slope,
			"model.intercept", lr.Intercept,
		)
	}

	return nil
}

// Predict returns Slope*x + Intercept. Any finite x is accepted, including
// values outside the training range. An unfitted model predicts 0.
func (lr *LinearRegression) Predict(x float64) float64 {
	return lr.Slope*x + lr.Intercept
}

// PredictBatch applies Predict to every element of x.
//
// Errors:
//   - ErrNotFitted: if the model hasn't been trained yet
func (lr *LinearRegression) PredictBatch(x []float64) (_ []float64, err error) {
	defer errors.Recover(&err, "LinearRegression.PredictBatch")
	if !lr.State.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "PredictBatch")
	}

	if lr.logger != nil {
		lr.logger.Debug("Prediction started",
			log.OperationKey, log.OperationPredict,
			log.PhaseKey, log.PhaseInference,
			log.SamplesKey, len(x),
		)
	}

	preds := make([]float64, len(x))
	for i, v := range x {
		preds[i] = lr.Predict(v)
	}
	return preds, nil
}

// Score returns the coefficient of determination (R²) of the model on x, y.
func (lr *LinearRegression) Score(x, y []float64) (_ float64, err error) {
	defer errors.Recover(&err, "LinearRegression.Score")
	if len(x) != len(y) {
		return 0, errors.NewDimensionError("LinearRegression.Score", len(x), len(y), 0)
	}

	preds, err := lr.PredictBatch(x)
	if err != nil {
		return 0, err
	}

	return metrics.R2Score(mat.NewVecDense(len(y), y), mat.NewVecDense(len(preds), preds))
}

// IsFitted returns whether the model has been fitted.
func (lr *LinearRegression) IsFitted() bool {
	return lr.State.IsFitted()
}

// GetParams returns the fitted coefficients.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"slope":     lr.Slope,
		"intercept": lr.Intercept,
		"fitted":    lr.State.IsFitted(),
	}
}

// Equation renders the fitted line, e.g. "y = 2.013x + 4.871".
func (lr *LinearRegression) Equation() string {
	return FormatEquation(lr.Slope, lr.Intercept)
}

// FormatEquation renders y = ax + b with three decimals.
func FormatEquation(a, b float64) string {
	sign := "+"
	if b < 0 {
		sign = "-"
		b = -b
	}
	return fmt.Sprintf("y = %.3fx %s %.3f", a, sign, b)
}

// LoadFromSKLearnReader loads a scikit-learn model from a Reader.
func (lr *LinearRegression) LoadFromSKLearnReader(r io.Reader) (err error) {
	defer errors.Recover(&err, "LinearRegression.LoadFromSKLearnReader")

	skModel, err := model.LoadSKLearnModelFromReader(r)
	if err != nil {
		return errors.Wrap(err, "failed to load sklearn model")
	}

	params, err := model.LoadLinearRegressionParams(skModel)
	if err != nil {
		return errors.Wrap(err, "failed to load linear regression params")
	}
	if params.NFeatures != 1 {
		return errors.NewDimensionError("LinearRegression.LoadFromSKLearnReader", 1, params.NFeatures, 1)
	}

	lr.Slope = params.Coefficients[0]
	lr.Intercept = params.Intercept

	lr.State.SetFitted()
	// Sample count is unknown for a loaded model.
	lr.State.SetDimensions(1, 0)

	return nil
}

// ExportToSKLearnWriter writes the model in scikit-learn compatible format.
func (lr *LinearRegression) ExportToSKLearnWriter(w io.Writer) (err error) {
	defer errors.Recover(&err, "LinearRegression.ExportToSKLearnWriter")
	if !lr.State.IsFitted() {
		return errors.NewNotFittedError("LinearRegression", "ExportToSKLearnWriter")
	}

	params := model.SKLearnLinearRegressionParams{
		Coefficients: []float64{lr.Slope},
		Intercept:    lr.Intercept,
		NFeatures:    1,
	}

	return model.ExportSKLearnModel("LinearRegression", params, w)
}
