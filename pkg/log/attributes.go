// Package log defines standard attribute keys for the analysis pipeline.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in genreclf. Using these standard keys enables better
// log analysis and debugging of pipeline runs.
//
// The keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples") to enable structured log analysis and filtering.

package log

// Model and Operation Context
// These attributes identify the model type, instance, and operation being performed.
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "LogisticRegression", "RandomForestClassifier"
	ModelNameKey = "model.name"

	// ModelKindKey identifies the candidate-model kind selected by the
	// inner cross-validation loop.
	ModelKindKey = "model.kind"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "transform", "impute", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "dataset", "preprocessing", "modelselection"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the pipeline.
	// Examples: "cleaning", "imputation", "transform", "nested_cv", "report"
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
// These attributes describe the structure and properties of data being processed.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// DroppedRowsKey indicates how many rows were removed during cleaning.
	DroppedRowsKey = "data.dropped_rows"

	// ImputedCellsKey indicates how many cells were filled by imputation.
	ImputedCellsKey = "data.imputed_cells"

	// GenresKey names the two genre labels under comparison.
	GenresKey = "data.genres"
)

// Cross-Validation Context
// These attributes track the nested cross-validation driver.
const (
	// FoldKey indicates the 1-based outer fold index.
	FoldKey = "cv.fold"

	// InnerFoldKey indicates the 1-based inner fold index.
	InnerFoldKey = "cv.inner_fold"

	// MTryKey records the tuned random-forest mtry value.
	MTryKey = "cv.mtry"

	// SeedKey records the run seed all randomness derives from.
	SeedKey = "cv.seed"
)

// Performance Metrics
// These attributes capture timing and accuracy information.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records a classification accuracy in [0, 1].
	AccuracyKey = "perf.accuracy"

	// InnerScoreKey records a candidate's inner cross-validated mean accuracy.
	InnerScoreKey = "perf.inner_score"
)
