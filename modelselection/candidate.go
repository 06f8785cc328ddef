package modelselection

import (
	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/core/model"
	"github.com/tunelab/genreclf/linear"
	"github.com/tunelab/genreclf/preprocessing"
	"github.com/tunelab/genreclf/tree"
)

// Candidate is one model configuration entered into the selection. Fit must
// fully reset fitted state, so the same candidate can be refit across folds.
type Candidate interface {
	Kind() model.Kind
	Name() string
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
	Score(X, y mat.Matrix) (float64, error)
}

// LogisticCandidate standardizes features before fitting logistic
// regression. Gradient descent on raw music features stalls because
// duration_ms is five orders of magnitude larger than the proportion-scale
// columns.
type LogisticCandidate struct {
	scaler *preprocessing.StandardScaler
	clf    *linear.LogisticRegression
}

// NewLogisticCandidate returns the logistic regression candidate.
func NewLogisticCandidate() *LogisticCandidate {
	return &LogisticCandidate{
		scaler: preprocessing.NewStandardScaler(),
		clf:    linear.NewLogisticRegression(),
	}
}

func (c *LogisticCandidate) Kind() model.Kind { return model.KindLogisticRegression }

func (c *LogisticCandidate) Name() string { return model.KindLogisticRegression.String() }

func (c *LogisticCandidate) Fit(X, y mat.Matrix) error {
	scaled, err := c.scaler.FitTransform(X)
	if err != nil {
		return err
	}
	return c.clf.Fit(scaled, y)
}

func (c *LogisticCandidate) Predict(X mat.Matrix) (mat.Matrix, error) {
	scaled, err := c.scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return c.clf.Predict(scaled)
}

func (c *LogisticCandidate) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scaled, err := c.scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return c.clf.PredictProba(scaled)
}

func (c *LogisticCandidate) Score(X, y mat.Matrix) (float64, error) {
	scaled, err := c.scaler.Transform(X)
	if err != nil {
		return 0, err
	}
	return c.clf.Score(scaled, y)
}

// Classes returns the labels seen by the underlying logistic regression.
func (c *LogisticCandidate) Classes() []int { return c.clf.Classes() }

// ForestCandidate wraps a random forest with a fixed mtry.
type ForestCandidate struct {
	forest *tree.RandomForestClassifier
	mTry   int
}

// NewForestCandidate returns a random forest candidate with nTrees trees,
// mtry features per split and the given seed.
func NewForestCandidate(nTrees, mTry int, seed int64) *ForestCandidate {
	return &ForestCandidate{
		forest: tree.NewRandomForestClassifier(
			tree.WithNEstimators(nTrees),
			tree.WithMTry(mTry),
			tree.WithForestRandomState(seed),
		),
		mTry: mTry,
	}
}

func (c *ForestCandidate) Kind() model.Kind { return model.KindRandomForest }

func (c *ForestCandidate) Name() string { return model.KindRandomForest.String() }

// MTry returns the per-split feature subset size.
func (c *ForestCandidate) MTry() int { return c.mTry }

func (c *ForestCandidate) Fit(X, y mat.Matrix) error { return c.forest.Fit(X, y) }

func (c *ForestCandidate) Predict(X mat.Matrix) (mat.Matrix, error) { return c.forest.Predict(X) }

func (c *ForestCandidate) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	return c.forest.PredictProba(X)
}

func (c *ForestCandidate) Score(X, y mat.Matrix) (float64, error) { return c.forest.Score(X, y) }

// Classes returns the labels seen by the underlying forest.
func (c *ForestCandidate) Classes() []int { return c.forest.Classes() }

// FeatureImportances exposes the fitted forest's importances.
func (c *ForestCandidate) FeatureImportances() []float64 { return c.forest.FeatureImportances() }
