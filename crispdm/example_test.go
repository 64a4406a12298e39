package crispdm_test

import (
	"fmt"

	"github.com/ezoic/crispdm/crispdm"
	"github.com/ezoic/crispdm/datasets"
)

func ExampleFitAndEvaluate() {
	p := datasets.Params{A: 2, B: 5, NoiseSigma: 0, N: 200}
	seed := datasets.DeriveSeed(datasets.DefaultBaseSeed, p, 0)
	ds := datasets.Generate(p, &seed)

	res, err := crispdm.FitAndEvaluate(ds.X, ds.Y)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("train=%d test=%d\n", res.Train.Len(), res.Test.Len())
	fmt.Printf("a=%.3f b=%.3f\n", res.Model.Slope, res.Model.Intercept)
	fmt.Printf("test R²=%.3f\n", res.Test.Metrics.R2)

	pred := res.PredictPoint(1.5, p)
	fmt.Printf("predict(%.1f) = %.2f (true %.2f)\n", pred.X, pred.Predicted, pred.True)

	// Output:
	// train=160 test=40
	// a=2.000 b=5.000
	// test R²=1.000
	// predict(1.5) = 8.00 (true 8.00)
}

func ExampleFitAndEvaluate_insufficientData() {
	_, err := crispdm.FitAndEvaluate([]float64{1, 2}, []float64{3, 5})
	fmt.Println(err)

	// Output:
	// crispdm: FitAndEvaluate: insufficient data: got 1 samples, need at least 2 (training partition)
}
