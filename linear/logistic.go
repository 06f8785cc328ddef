// Package linear implements the logistic-regression candidate model.
package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/core/model"
	"github.com/tunelab/genreclf/pkg/errors"
)

// LogisticRegression is a binary classifier fit by maximum likelihood with
// gradient descent. Predicted probabilities are thresholded at 0.5 for
// classification.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	penalty      string  // Regularization: "l2" or "none"
	c            float64 // Inverse regularization strength (1/alpha)
	fitIntercept bool    // Whether to fit intercept
	maxIter      int     // Maximum iterations
	tol          float64 // Tolerance for stopping

	// Model parameters
	coef_      []float64 // Coefficients, one per feature
	intercept_ float64   // Intercept term
	classes_   []int     // Unique class labels, sorted
	nFeatures_ int       // Number of features
	nIter_     int       // Actual iterations run
}

// Option is a functional option for LogisticRegression.
type Option func(*LogisticRegression)

// WithPenalty sets the regularization type ("l2" or "none").
func WithPenalty(penalty string) Option {
	return func(lr *LogisticRegression) { lr.penalty = penalty }
}

// WithC sets the inverse regularization strength.
func WithC(c float64) Option {
	return func(lr *LogisticRegression) { lr.c = c }
}

// WithFitIntercept sets whether to fit an intercept term.
func WithFitIntercept(fit bool) Option {
	return func(lr *LogisticRegression) { lr.fitIntercept = fit }
}

// WithMaxIter sets the maximum number of gradient-descent iterations.
func WithMaxIter(maxIter int) Option {
	return func(lr *LogisticRegression) { lr.maxIter = maxIter }
}

// WithTol sets the tolerance for the stopping criterion.
func WithTol(tol float64) Option {
	return func(lr *LogisticRegression) { lr.tol = tol }
}

// NewLogisticRegression creates a new LogisticRegression classifier.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "none",
		c:            1.0,
		fitIntercept: true,
		maxIter:      500,
		tol:          1e-6,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit trains the logistic regression model on X (n_samples x n_features)
// and a column vector y of two class labels.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples != yRows {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LogisticRegression.Fit", "y must be a column vector")
	}
	if nSamples == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}

	lr.extractClasses(y)
	if len(lr.classes_) != 2 {
		return errors.NewValidationError("y", "expected exactly two classes", lr.classes_)
	}
	lr.nFeatures_ = nFeatures

	// Convert labels to 0/1 against the sorted class order.
	yBinary := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		if int(y.At(i, 0)) == lr.classes_[1] {
			yBinary[i] = 1.0
		}
	}

	lr.coef_ = make([]float64, nFeatures)
	lr.intercept_ = 0

	// Gradient descent with a decaying learning rate, stopping when the
	// largest gradient component drops below tol.
	baseLearningRate := 1.0
	converged := false

	gradWeights := make([]float64, nFeatures)
	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range gradWeights {
			gradWeights[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := lr.intercept_
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * lr.coef_[j]
			}
			residual := sigmoid(z) - yBinary[i]
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] /= float64(nSamples)
		}
		gradIntercept /= float64(nSamples)

		if lr.penalty == "l2" {
			lambda := 1.0 / lr.c
			for j := range lr.coef_ {
				gradWeights[j] += lambda * lr.coef_[j] / float64(nSamples)
			}
		}

		if err := errors.CheckNumericalStability("gradient_update", gradWeights, iter); err != nil {
			return err
		}

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))
		for j := range lr.coef_ {
			lr.coef_[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			lr.intercept_ -= learningRate * gradIntercept
		}

		lr.nIter_ = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.nIter_, ""))
	}

	lr.state.SetFitted()
	lr.state.SetDimensions(nFeatures, nSamples)
	return nil
}

// extractClasses identifies the unique class labels, sorted ascending.
func (lr *LogisticRegression) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	classMap := make(map[int]bool)
	for i := 0; i < rows; i++ {
		classMap[int(y.At(i, 0))] = true
	}

	lr.classes_ = make([]int, 0, len(classMap))
	for class := range classMap {
		lr.classes_ = append(lr.classes_, class)
	}
	for i := 0; i < len(lr.classes_)-1; i++ {
		for j := i + 1; j < len(lr.classes_); j++ {
			if lr.classes_[i] > lr.classes_[j] {
				lr.classes_[i], lr.classes_[j] = lr.classes_[j], lr.classes_[i]
			}
		}
	}
}

// Predict returns the predicted class label for each row of X, using the
// 0.5 probability cutoff.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "Predict")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != lr.nFeatures_ {
		return nil, errors.NewDimensionError("LogisticRegression.Predict", lr.nFeatures_, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		prob := lr.probability(X, i)
		if prob >= 0.5 {
			predictions.Set(i, 0, float64(lr.classes_[1]))
		} else {
			predictions.Set(i, 0, float64(lr.classes_[0]))
		}
	}
	return predictions, nil
}

// PredictProba returns class probability estimates with one column per
// class, in sorted class order.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProba")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != lr.nFeatures_ {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", lr.nFeatures_, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, 2, nil)
	for i := 0; i < nSamples; i++ {
		prob1 := lr.probability(X, i)
		probas.Set(i, 0, 1.0-prob1)
		probas.Set(i, 1, prob1)
	}
	return probas, nil
}

// probability computes P(class = classes_[1]) for row i of X.
func (lr *LogisticRegression) probability(X mat.Matrix, i int) float64 {
	z := lr.intercept_
	for j := 0; j < lr.nFeatures_; j++ {
		z += X.At(i, j) * lr.coef_[j]
	}
	return sigmoid(z)
}

// Score returns the mean accuracy on the given test data and labels.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples), nil
}

// Classes returns the unique class labels seen during fitting.
func (lr *LogisticRegression) Classes() []int {
	return lr.classes_
}

// Coef returns the fitted coefficients, one per feature.
func (lr *LogisticRegression) Coef() []float64 {
	return lr.coef_
}

// Intercept returns the fitted intercept term.
func (lr *LogisticRegression) Intercept() float64 {
	return lr.intercept_
}

// NIter returns the number of gradient-descent iterations run.
func (lr *LogisticRegression) NIter() int {
	return lr.nIter_
}

// GetParams returns the model hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.c,
		"fit_intercept": lr.fitIntercept,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
	}
}

// sigmoid computes the logistic function.
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
