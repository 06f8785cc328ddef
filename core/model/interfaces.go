// Package model provides additional interfaces and types for machine learning models.
// This file complements the existing interfaces in estimator.go and transformer.go
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the mean accuracy of the prediction on the given data.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Estimator
	Scorer

	// PredictProba returns probability estimates for each class.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}

// Kind identifies a candidate classifier over a small closed set.
// It replaces dispatching on free-form name strings: the model selection
// loop switches on Kind values, so an unknown candidate is a compile-time
// concern rather than a runtime typo.
type Kind int

const (
	// KindLogisticRegression is the maximum-likelihood linear classifier.
	KindLogisticRegression Kind = iota
	// KindRandomForest is the bagged decision-tree ensemble.
	KindRandomForest
)

// String returns the human-readable name of the model kind.
func (k Kind) String() string {
	switch k {
	case KindLogisticRegression:
		return "LogisticRegression"
	case KindRandomForest:
		return "RandomForest"
	default:
		return "Unknown"
	}
}
