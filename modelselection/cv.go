package modelselection

import (
	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/pkg/errors"
)

// CVResult stores per-fold test scores of one candidate.
type CVResult struct {
	TestScores []float64
}

// GetMeanScore returns the mean test score.
func (cv *CVResult) GetMeanScore() float64 {
	mean, _ := meanStd(cv.TestScores)
	return mean
}

// GetStdScore returns the sample standard deviation of test scores.
func (cv *CVResult) GetStdScore() float64 {
	_, std := meanStd(cv.TestScores)
	return std
}

// CrossValidate fits the candidate on each fold's training split and scores
// it on the matching test split. Folds run sequentially so candidates that
// refit in place stay valid.
func CrossValidate(c Candidate, X, y mat.Matrix, splitter Splitter) (*CVResult, error) {
	folds := splitter.Split(X, y)
	result := &CVResult{TestScores: make([]float64, len(folds))}

	for i, fold := range folds {
		trainX, trainY := extractSubset(X, y, fold.TrainIndices)
		testX, testY := extractSubset(X, y, fold.TestIndices)

		if err := c.Fit(trainX, trainY); err != nil {
			return nil, errors.Wrapf(err, "genreclf: fold %d training failed", i)
		}
		score, err := c.Score(testX, testY)
		if err != nil {
			return nil, errors.Wrapf(err, "genreclf: fold %d scoring failed", i)
		}
		result.TestScores[i] = score
	}
	return result, nil
}
