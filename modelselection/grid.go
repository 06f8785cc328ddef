package modelselection

import (
	"github.com/tunelab/genreclf/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// GridSearchCV selects a random-forest mtry by inner k-fold accuracy.
type GridSearchCV struct {
	// Grid holds the mtry values to evaluate, in order. Ties on inner
	// mean accuracy keep the earlier value.
	Grid []int

	NTrees      int
	InnerSplits int
	Seed        int64
}

// GridSearchResult reports the winning mtry and the scores of every grid
// value.
type GridSearchResult struct {
	BestMTry   int
	BestScore  float64
	GridScores map[int]float64
}

// Search evaluates every grid value with inner cross-validation on (X, y)
// and returns the best. A later value must score strictly higher to replace
// the incumbent.
func (gs *GridSearchCV) Search(X, y mat.Matrix) (*GridSearchResult, error) {
	if len(gs.Grid) == 0 {
		return nil, errors.NewValueError("GridSearchCV.Search", "empty grid")
	}

	result := &GridSearchResult{
		BestMTry:   -1,
		GridScores: make(map[int]float64, len(gs.Grid)),
	}

	inner := NewKFold(gs.InnerSplits, true, gs.Seed)
	for _, mTry := range gs.Grid {
		candidate := NewForestCandidate(gs.NTrees, mTry, gs.Seed)
		cv, err := CrossValidate(candidate, X, y, inner)
		if err != nil {
			return nil, errors.Wrapf(err, "genreclf: grid search mtry=%d", mTry)
		}
		score := cv.GetMeanScore()
		result.GridScores[mTry] = score
		if result.BestMTry == -1 || score > result.BestScore {
			result.BestMTry = mTry
			result.BestScore = score
		}
	}
	return result, nil
}
