// Standard attribute keys for structured log records.
//
// Keys follow a dotted, hierarchical naming convention ("data.samples",
// "ml.operation") so log records from every package can be filtered the
// same way.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "LinearRegression".
	ModelNameKey = "model.name"

	// OperationKey names the operation: "fit", "predict", "score", "generate".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey is the lifecycle phase. The CRISP-DM phase names are used by
	// the report builder.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	TrainKey    = "data.train_samples"
	TestKey     = "data.test_samples"
)

// Performance and quality.
const (
	DurationMsKey = "perf.duration_ms"
	R2ScoreKey    = "metrics.r2_score"
	RMSEKey       = "metrics.rmse"
	PredsKey      = "preds.count"
)

// Configuration and session.
const (
	RandomSeedKey  = "config.random_seed"
	SeedCounterKey = "config.seed_counter"
	FixedSeedKey   = "config.fixed_seed"
	SessionIDKey   = "session.id"
	RegeneratedKey = "session.regenerated"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationScore    = "score"
	OperationGenerate = "generate"
	OperationSplit    = "split"

	PhaseTraining   = "training"
	PhaseInference  = "inference"
	PhaseValidation = "validation"
	PhaseGeneration = "generation"

	ErrorInvalidParameter = "INVALID_PARAMETER"
	ErrorInsufficientData = "INSUFFICIENT_DATA"
	ErrorInvalidRequest   = "INVALID_REQUEST"
	ErrorInternal         = "INTERNAL"
)
