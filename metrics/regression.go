// Package metrics provides evaluation metrics for regression models.
//
// Regression Metrics:
//   - MSE: Mean Squared Error
//   - RMSE: Root Mean Squared Error (square root of MSE)
//   - MAE: Mean Absolute Error
//   - R²: coefficient of determination, defined for constant targets
//   - Explained Variance Score: proportion of variance explained by the model
//
// Inputs are gonum vectors. Every function returns an error for empty or
// mismatched inputs and never returns NaN for valid ones.
//
// Example usage:
//
//	rmse, err := metrics.RMSE(yTrue, yPred)
//	r2, err := metrics.R2Score(yTrue, yPred)
//
//	// or everything at once
//	report, err := metrics.Evaluate(yTrue, yPred)
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/crispdm/pkg/errors"
)

// DegenerateTolerance scales the residual sum of squares below which a fit
// to a constant target counts as perfect.
const DegenerateTolerance = 1e-12

func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewModelError(op, "empty vector", errors.ErrEmptyData)
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// Residuals returns yTrue - yPred.
func Residuals(yTrue, yPred *mat.VecDense) (*mat.VecDense, error) {
	n, err := checkPair("Residuals", yTrue, yPred)
	if err != nil {
		return nil, err
	}
	res := mat.NewVecDense(n, nil)
	res.SubVec(yTrue, yPred)
	return res, nil
}

// MSE calculates the Mean Squared Error between true and predicted values.
//
// Errors:
//   - ErrEmptyData: if input vectors are empty
//   - ErrDimensionMismatch: if yTrue and yPred have different lengths
//
// Example:
//
//	mse, err := metrics.MSE(yTrue, yPred)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("MSE: %.4f\n", mse)
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return sumSquaredResiduals(yTrue, yPred) / float64(n), nil
}

// RMSE is the square root of MSE, in the units of the target.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE calculates the Mean Absolute Error between true and predicted values.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score calculates the coefficient of determination (R²) score.
//
// R² = 1 - SS_res/SS_tot. It is 1 for perfect predictions, 0 for predictions
// no better than the mean and negative for worse ones.
//
// When every yTrue is identical SS_tot is zero and the ratio is undefined.
// In that case the score is 1 if SS_res <= DegenerateTolerance*max(1, n),
// otherwise 0.
//
// Errors:
//   - ErrEmptyData: if input vectors are empty
//   - ErrDimensionMismatch: if yTrue and yPred have different lengths
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	t := vecData(yTrue)
	rss := sumSquaredResiduals(yTrue, yPred)

	// A constant target is detected by value, not by a rounded SS_tot.
	if floats.Min(t) == floats.Max(t) {
		return degenerateScore(rss, n), nil
	}

	yMean := stat.Mean(t, nil)
	var tss float64
	for _, v := range t {
		d := v - yMean
		tss += d * d
	}

	return 1 - rss/tss, nil
}

// ExplainedVarianceScore returns 1 - Var(yTrue - yPred) / Var(yTrue).
//
// Unlike R² it ignores a constant offset in the predictions. The same
// degenerate rule as R2Score applies when yTrue has no variance.
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	t := vecData(yTrue)
	diff := make([]float64, n)
	for i := range t {
		diff[i] = t[i] - yPred.AtVec(i)
	}

	if floats.Min(t) == floats.Max(t) {
		return degenerateScore(floats.Dot(diff, diff), n), nil
	}

	// Population variances, matching scikit-learn.
	_, varTrue := stat.PopMeanVariance(t, nil)
	_, varDiff := stat.PopMeanVariance(diff, nil)

	return 1 - varDiff/varTrue, nil
}

// Regression bundles the regression metrics of one partition.
type Regression struct {
	R2                float64 `json:"r2" yaml:"r2"`
	RMSE              float64 `json:"rmse" yaml:"rmse"`
	MSE               float64 `json:"mse" yaml:"mse"`
	MAE               float64 `json:"mae" yaml:"mae"`
	ExplainedVariance float64 `json:"explained_variance" yaml:"explained_variance"`
}

// Evaluate computes every metric in Regression.
func Evaluate(yTrue, yPred *mat.VecDense) (Regression, error) {
	var r Regression
	var err error

	if r.MSE, err = MSE(yTrue, yPred); err != nil {
		return Regression{}, err
	}
	r.RMSE = math.Sqrt(r.MSE)
	if r.MAE, err = MAE(yTrue, yPred); err != nil {
		return Regression{}, err
	}
	if r.R2, err = R2Score(yTrue, yPred); err != nil {
		return Regression{}, err
	}
	if r.ExplainedVariance, err = ExplainedVarianceScore(yTrue, yPred); err != nil {
		return Regression{}, err
	}
	return r, nil
}

func sumSquaredResiduals(yTrue, yPred *mat.VecDense) float64 {
	var sum float64
	for i := 0; i < yTrue.Len(); i++ {
		d := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += d * d
	}
	return sum
}

func degenerateScore(rss float64, n int) float64 {
	if rss <= DegenerateTolerance*math.Max(1, float64(n)) {
		return 1
	}
	return 0
}

func vecData(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
