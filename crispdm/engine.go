// Package crispdm runs the regression pipeline behind the demo and lays the
// results out along the six CRISP-DM phases.
//
// FitAndEvaluate is the engine: it splits a dataset 80/20 with a fixed
// partition seed, fits a least-squares line on the training partition and
// scores both partitions. BuildReport wraps the engine with the descriptive
// statistics, histograms and diagnostic series the page displays.
package crispdm

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/crispdm/datasets"
	"github.com/ezoic/crispdm/linear"
	"github.com/ezoic/crispdm/metrics"
	"github.com/ezoic/crispdm/pkg/errors"
	"github.com/ezoic/crispdm/pkg/log"
	"github.com/ezoic/crispdm/preprocessing"
)

// Options control the train/test split.
type Options struct {
	TestSize    float64
	RandomState uint64
}

// DefaultOptions returns a 20% test partition with partition seed 42.
func DefaultOptions() Options {
	return Options{
		TestSize:    preprocessing.DefaultTestSize,
		RandomState: preprocessing.DefaultRandomState,
	}
}

// Partition holds one side of the split with its predictions and scores.
type Partition struct {
	X         []float64          `json:"x" yaml:"x,flow"`
	Y         []float64          `json:"y" yaml:"y,flow"`
	Predicted []float64          `json:"predicted" yaml:"predicted,flow"`
	Residuals []float64          `json:"residuals" yaml:"residuals,flow"`
	Metrics   metrics.Regression `json:"metrics" yaml:"metrics"`
}

// Len returns the number of samples in the partition.
func (p Partition) Len() int { return len(p.X) }

// Result is the outcome of one fit.
type Result struct {
	Model *linear.LinearRegression
	Split *preprocessing.Split
	Train Partition
	Test  Partition
}

// Prediction is a single-point prediction next to the noiseless truth.
type Prediction struct {
	X         float64 `json:"x" yaml:"x"`
	Predicted float64 `json:"predicted_y" yaml:"predicted_y"`
	True      float64 `json:"true_y" yaml:"true_y"`
}

// FitAndEvaluate fits and scores a line with DefaultOptions.
func FitAndEvaluate(x, y []float64) (*Result, error) {
	return FitAndEvaluateWithOptions(x, y, DefaultOptions())
}

// FitAndEvaluateWithOptions splits x, y, fits on the training partition and
// scores both partitions.
//
// Errors:
//   - ErrInsufficientData: if the training partition has fewer than two
//     samples or its x values are all equal
//   - ErrDimensionMismatch: if x and y differ in length
func FitAndEvaluateWithOptions(x, y []float64, opts Options) (*Result, error) {
	start := time.Now()

	if len(x) != len(y) {
		return nil, errors.NewDimensionError("FitAndEvaluate", len(x), len(y), 0)
	}
	if len(x) == 0 {
		return nil, errors.NewInsufficientDataError("FitAndEvaluate", 0, linear.MinSamples, "empty dataset")
	}

	split, err := preprocessing.TrainTestSplit(x, y, opts.TestSize, opts.RandomState)
	if err != nil {
		return nil, err
	}
	if split.NTrain() < linear.MinSamples {
		return nil, errors.NewInsufficientDataError("FitAndEvaluate", split.NTrain(), linear.MinSamples,
			"training partition")
	}

	lr := linear.NewLinearRegression()
	if err := lr.Fit(split.XTrain, split.YTrain); err != nil {
		return nil, err
	}

	res := &Result{Model: lr, Split: split}
	if res.Train, err = evaluate(lr, split.XTrain, split.YTrain); err != nil {
		return nil, err
	}
	if res.Test, err = evaluate(lr, split.XTest, split.YTest); err != nil {
		return nil, err
	}

	log.GetLoggerWithName("crispdm").Info("Model evaluated",
		log.PhaseKey, PhaseEvaluation,
		log.TrainKey, split.NTrain(),
		log.TestKey, split.NTest(),
		log.R2ScoreKey, res.Test.Metrics.R2,
		log.RMSEKey, res.Test.Metrics.RMSE,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return res, nil
}

func evaluate(lr *linear.LinearRegression, x, y []float64) (Partition, error) {
	pred, err := lr.PredictBatch(x)
	if err != nil {
		return Partition{}, err
	}

	yVec := mat.NewVecDense(len(y), y)
	predVec := mat.NewVecDense(len(pred), pred)

	m, err := metrics.Evaluate(yVec, predVec)
	if err != nil {
		return Partition{}, err
	}
	resid, err := metrics.Residuals(yVec, predVec)
	if err != nil {
		return Partition{}, err
	}

	return Partition{
		X:         x,
		Y:         y,
		Predicted: pred,
		Residuals: resid.RawVector().Data,
		Metrics:   m,
	}, nil
}

// PredictPoint predicts y at x and pairs it with the noiseless value of the
// generating line described by truth.
func (r *Result) PredictPoint(x float64, truth datasets.Params) Prediction {
	return Prediction{
		X:         x,
		Predicted: r.Model.Predict(x),
		True:      truth.TrueY(x),
	}
}
