package crispdm

import (
	"math"

	"github.com/ezoic/crispdm/datasets"
	"github.com/ezoic/crispdm/linear"
	"github.com/ezoic/crispdm/metrics"
	"github.com/ezoic/crispdm/pkg/log"
)

// CRISP-DM phase names, also used as log.PhaseKey values.
const (
	PhaseBusiness    = "business_understanding"
	PhaseData        = "data_understanding"
	PhasePreparation = "data_preparation"
	PhaseModeling    = "modeling"
	PhaseEvaluation  = "evaluation"
	PhaseDeployment  = "deployment"
)

// Display sizes.
const (
	HeadRows           = 10
	DistributionBins   = 20
	TrainResidualBins  = 15
	TestResidualBins   = 10
	LinePoints         = 100
	DataTypeName       = "float64"
	ModelTypeName      = "Simple Linear Regression"
	DefaultPredictionX = 0.0
)

// ReportOptions tune BuildReport.
type ReportOptions struct {
	Options

	// PredictX is the input of the deployment-phase prediction.
	PredictX float64

	// IncludeSeries adds the per-point diagnostic series used by the plots.
	IncludeSeries bool
}

// DefaultReportOptions returns the engine defaults with prediction at 0 and
// diagnostic series included.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		Options:       DefaultOptions(),
		PredictX:      DefaultPredictionX,
		IncludeSeries: true,
	}
}

// Report is the full analysis of one dataset, phase by phase.
type Report struct {
	Params     datasets.Params `json:"params" yaml:"params"`
	Generation Generation      `json:"generation" yaml:"generation"`

	Business    BusinessUnderstanding `json:"business_understanding" yaml:"business_understanding"`
	Data        DataUnderstanding     `json:"data_understanding" yaml:"data_understanding"`
	Preparation DataPreparation       `json:"data_preparation" yaml:"data_preparation"`
	Modeling    Modeling              `json:"modeling" yaml:"modeling"`
	Evaluation  Evaluation            `json:"evaluation" yaml:"evaluation"`
	Deployment  Deployment            `json:"deployment" yaml:"deployment"`
	Summary     Summary               `json:"summary" yaml:"summary"`

	result *Result
}

// Result returns the engine output the report was built from.
func (r *Report) Result() *Result { return r.result }

// Generation records how the dataset was drawn.
type Generation struct {
	Seed   uint64 `json:"seed" yaml:"seed"`
	Seeded bool   `json:"seeded" yaml:"seeded"`
}

// BusinessUnderstanding is phase 1.
type BusinessUnderstanding struct {
	Objective       string   `json:"objective" yaml:"objective"`
	SuccessCriteria []string `json:"success_criteria" yaml:"success_criteria"`
	Question        string   `json:"question" yaml:"question"`
}

// Row is one (X, y) observation.
type Row struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// DataUnderstanding is phase 2.
type DataUnderstanding struct {
	Observations int        `json:"observations" yaml:"observations"`
	XRange       [2]float64 `json:"x_range" yaml:"x_range,flow"`
	YRange       [2]float64 `json:"y_range" yaml:"y_range,flow"`
	DescribeX    Stats      `json:"describe_x" yaml:"describe_x"`
	DescribeY    Stats      `json:"describe_y" yaml:"describe_y"`
	Correlation  float64    `json:"correlation" yaml:"correlation"`
	Head         []Row      `json:"head" yaml:"head"`
}

// DataPreparation is phase 3.
type DataPreparation struct {
	MissingX      int       `json:"missing_x" yaml:"missing_x"`
	MissingY      int       `json:"missing_y" yaml:"missing_y"`
	DTypeX        string    `json:"dtype_x" yaml:"dtype_x"`
	DTypeY        string    `json:"dtype_y" yaml:"dtype_y"`
	HistogramX    Histogram `json:"histogram_x" yaml:"histogram_x"`
	HistogramY    Histogram `json:"histogram_y" yaml:"histogram_y"`
	TrainSize     int       `json:"train_size" yaml:"train_size"`
	TestSize      int       `json:"test_size" yaml:"test_size"`
	PartitionSeed uint64    `json:"partition_seed" yaml:"partition_seed"`
}

// Modeling is phase 4.
type Modeling struct {
	TrueA          float64 `json:"true_a" yaml:"true_a"`
	TrueB          float64 `json:"true_b" yaml:"true_b"`
	EstimatedA     float64 `json:"estimated_a" yaml:"estimated_a"`
	EstimatedB     float64 `json:"estimated_b" yaml:"estimated_b"`
	ErrorA         float64 `json:"error_a" yaml:"error_a"`
	ErrorB         float64 `json:"error_b" yaml:"error_b"`
	FittedEquation string  `json:"fitted_equation" yaml:"fitted_equation"`
	TrueEquation   string  `json:"true_equation" yaml:"true_equation"`
}

// Evaluation is phase 5.
type Evaluation struct {
	Train       metrics.Regression `json:"train" yaml:"train"`
	Test        metrics.Regression `json:"test" yaml:"test"`
	NoiseLevel  float64            `json:"noise_level" yaml:"noise_level"`
	SampleSize  int                `json:"sample_size" yaml:"sample_size"`
	Diagnostics *Diagnostics       `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Diagnostics are the series behind the 2x2 diagnostic figure.
type Diagnostics struct {
	LineX    []float64 `json:"line_x" yaml:"line_x,flow"`
	FitLine  []float64 `json:"fit_line" yaml:"fit_line,flow"`
	TrueLine []float64 `json:"true_line" yaml:"true_line,flow"`

	Train Partition `json:"train" yaml:"train"`
	Test  Partition `json:"test" yaml:"test"`

	// PerfectFit is the [min, max] extent of the identity reference line
	// on the predicted-vs-actual panel.
	PerfectFit [2]float64 `json:"perfect_fit" yaml:"perfect_fit,flow"`

	TrainResiduals Histogram `json:"train_residuals" yaml:"train_residuals"`
	TestResiduals  Histogram `json:"test_residuals" yaml:"test_residuals"`
}

// Deployment is phase 6.
type Deployment struct {
	Strategy   []string   `json:"strategy" yaml:"strategy"`
	Checklist  []string   `json:"checklist" yaml:"checklist"`
	Prediction Prediction `json:"prediction" yaml:"prediction"`
}

// Summary closes the report.
type Summary struct {
	DatasetSize int     `json:"dataset_size" yaml:"dataset_size"`
	ModelType   string  `json:"model_type" yaml:"model_type"`
	TrueA       float64 `json:"true_a" yaml:"true_a"`
	TrueB       float64 `json:"true_b" yaml:"true_b"`
	EstimatedA  float64 `json:"estimated_a" yaml:"estimated_a"`
	EstimatedB  float64 `json:"estimated_b" yaml:"estimated_b"`
	TestR2      float64 `json:"test_r2" yaml:"test_r2"`
	TestRMSE    float64 `json:"test_rmse" yaml:"test_rmse"`
	NoiseLevel  float64 `json:"noise_level" yaml:"noise_level"`
}

// BuildReport fits a line to ds and assembles every phase. ds is assumed to
// have been generated from p.
func BuildReport(p datasets.Params, ds datasets.Dataset, opts ReportOptions) (*Report, error) {
	logger := log.GetLoggerWithName("crispdm.report")

	res, err := FitAndEvaluateWithOptions(ds.X, ds.Y, opts.Options)
	if err != nil {
		logger.Warn("Report aborted",
			log.PhaseKey, PhaseModeling,
			log.SamplesKey, ds.Len(),
			"error", err.Error(),
		)
		return nil, err
	}

	r := &Report{
		Params:     p,
		Generation: Generation{Seed: ds.Seed, Seeded: ds.Seeded},
		Business:   businessUnderstanding(),
		result:     res,
	}
	r.Data = dataUnderstanding(ds)
	r.Preparation = dataPreparation(ds, res, opts.RandomState)
	r.Modeling = modeling(p, res.Model)
	r.Evaluation = Evaluation{
		Train:      res.Train.Metrics,
		Test:       res.Test.Metrics,
		NoiseLevel: p.NoiseSigma,
		SampleSize: p.N,
	}
	if opts.IncludeSeries {
		r.Evaluation.Diagnostics = diagnostics(p, ds, res)
	}
	r.Deployment = Deployment{
		Strategy:   deploymentStrategy,
		Checklist:  deploymentChecklist,
		Prediction: res.PredictPoint(opts.PredictX, p),
	}
	r.Summary = Summary{
		DatasetSize: ds.Len(),
		ModelType:   ModelTypeName,
		TrueA:       p.A,
		TrueB:       p.B,
		EstimatedA:  res.Model.Slope,
		EstimatedB:  res.Model.Intercept,
		TestR2:      res.Test.Metrics.R2,
		TestRMSE:    res.Test.Metrics.RMSE,
		NoiseLevel:  p.NoiseSigma,
	}

	logger.Debug("Report built",
		log.SamplesKey, ds.Len(),
		log.RandomSeedKey, ds.Seed,
	)

	return r, nil
}

// Predict returns the deployment-phase prediction for x.
func (r *Report) Predict(x float64) Prediction {
	return r.result.PredictPoint(x, r.Params)
}

func businessUnderstanding() BusinessUnderstanding {
	return BusinessUnderstanding{
		Objective: "Understand the linear relationship between variables X and y",
		SuccessCriteria: []string{
			"Build a simple linear regression model with good fit",
			"Allow interactive parameter adjustment",
			"Visualize the relationship clearly",
		},
		Question: "Can we predict y given X using a linear relationship?",
	}
}

func dataUnderstanding(ds datasets.Dataset) DataUnderstanding {
	dx, dy := Describe(ds.X), Describe(ds.Y)

	head := make([]Row, 0, HeadRows)
	for i := 0; i < ds.Len() && i < HeadRows; i++ {
		head = append(head, Row{X: ds.X[i], Y: ds.Y[i]})
	}

	return DataUnderstanding{
		Observations: ds.Len(),
		XRange:       [2]float64{dx.Min, dx.Max},
		YRange:       [2]float64{dy.Min, dy.Max},
		DescribeX:    dx,
		DescribeY:    dy,
		Correlation:  Pearson(ds.X, ds.Y),
		Head:         head,
	}
}

func dataPreparation(ds datasets.Dataset, res *Result, partitionSeed uint64) DataPreparation {
	return DataPreparation{
		MissingX:      CountNaN(ds.X),
		MissingY:      CountNaN(ds.Y),
		DTypeX:        DataTypeName,
		DTypeY:        DataTypeName,
		HistogramX:    NewHistogram(ds.X, DistributionBins),
		HistogramY:    NewHistogram(ds.Y, DistributionBins),
		TrainSize:     res.Train.Len(),
		TestSize:      res.Test.Len(),
		PartitionSeed: partitionSeed,
	}
}

func modeling(p datasets.Params, lr *linear.LinearRegression) Modeling {
	return Modeling{
		TrueA:          p.A,
		TrueB:          p.B,
		EstimatedA:     lr.Slope,
		EstimatedB:     lr.Intercept,
		ErrorA:         math.Abs(lr.Slope - p.A),
		ErrorB:         math.Abs(lr.Intercept - p.B),
		FittedEquation: lr.Equation(),
		TrueEquation:   linear.FormatEquation(p.A, p.B) + " + ε",
	}
}

func diagnostics(p datasets.Params, ds datasets.Dataset, res *Result) *Diagnostics {
	dx := Describe(ds.X)
	lineX := Linspace(dx.Min, dx.Max, LinePoints)

	fit := make([]float64, len(lineX))
	truth := make([]float64, len(lineX))
	for i, x := range lineX {
		fit[i] = res.Model.Predict(x)
		truth[i] = p.TrueY(x)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range [][]float64{ds.Y, res.Train.Predicted, res.Test.Predicted} {
		for _, v := range s {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	return &Diagnostics{
		LineX:          lineX,
		FitLine:        fit,
		TrueLine:       truth,
		Train:          res.Train,
		Test:           res.Test,
		PerfectFit:     [2]float64{lo, hi},
		TrainResiduals: NewHistogram(res.Train.Residuals, TrainResidualBins),
		TestResiduals:  NewHistogram(res.Test.Residuals, TestResidualBins),
	}
}

var deploymentStrategy = []string{
	"Current implementation: interactive web application",
	"Model persistence: the fitted line exports as scikit-learn compatible JSON",
	"API integration: REST endpoints serve analysis, predictions and the model",
	"Container support: a single static binary serves the application",
	"Monitoring: Prometheus metrics for requests, regenerations and fits",
}

var deploymentChecklist = []string{
	"Interactive parameter tuning",
	"Real-time visualization",
	"Model performance metrics",
	"Data quality checks",
	"CRISP-DM methodology documentation",
}
