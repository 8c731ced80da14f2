// Package log defines standard attribute keys for pipeline operations.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "metrics.accuracy") so log lines from every stage can be filtered the
// same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the classifier, e.g. "MultinomialNB", "ridge".
	ModelNameKey = "model.name"

	// OperationKey is the operation being performed: "fit", "predict", ...
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the pipeline phase.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey is the number of rows processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// ClassesKey is the number of distinct labels.
	ClassesKey = "data.classes"

	// TrainSamplesKey and TestSamplesKey record the realized split sizes.
	TrainSamplesKey = "data.train_samples"
	TestSamplesKey  = "data.test_samples"
)

// Feature extraction
const (
	// VocabularySizeKey is the number of n-gram columns.
	VocabularySizeKey = "features.vocabulary_size"

	// NGramMinKey and NGramMaxKey record the n-gram range.
	NGramMinKey = "features.ngram_min"
	NGramMaxKey = "features.ngram_max"

	// MinDocumentFrequencyKey is the trim threshold.
	MinDocumentFrequencyKey = "features.min_df"

	// VocabularyScopeKey records whether the vocabulary saw the test rows.
	VocabularyScopeKey = "features.vocabulary_scope"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// PrecisionKey and RecallKey are relative to PositiveClassKey.
	PrecisionKey     = "metrics.precision"
	RecallKey        = "metrics.recall"
	PositiveClassKey = "metrics.positive_class"

	// IterationKey records the iteration count of iterative solvers.
	IterationKey = "training.iteration"
)

// Error and Configuration Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// TrainProportionKey records the requested train proportion.
	TrainProportionKey = "config.train_proportion"

	// SplitStrategyKey records the split variant in use.
	SplitStrategyKey = "config.split_strategy"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationTrim         = "trim"
	OperationSplit        = "split"
	OperationScore        = "score"

	PhaseExtraction = "extraction"
	PhaseSplit      = "split"
	PhaseTraining   = "training"
	PhaseInference  = "inference"
	PhaseEvaluation = "evaluation"

	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInputShape        = "INPUT_SHAPE"
	ErrorTraining          = "TRAINING"
	ErrorUndefinedMetric   = "UNDEFINED_METRIC"
)
