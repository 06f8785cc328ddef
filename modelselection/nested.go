package modelselection

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/core/model"
	"github.com/tunelab/genreclf/metrics"
	"github.com/tunelab/genreclf/pkg/errors"
	"github.com/tunelab/genreclf/pkg/log"
)

// NestedCV estimates generalization accuracy with an outer k-fold loop while
// an inner k-fold loop, run on each outer training split only, picks the
// model. The held-out fold never influences the choice made for it.
type NestedCV struct {
	OuterSplits int
	InnerSplits int
	MTryGrid    []int
	NTrees      int
	Seed        int64
	Logger      *slog.Logger
}

// NewNestedCV returns a driver with the usual 5x5 layout.
func NewNestedCV(seed int64) *NestedCV {
	return &NestedCV{
		OuterSplits: 5,
		InnerSplits: 5,
		MTryGrid:    []int{2, 3, 4, 5},
		NTrees:      100,
		Seed:        seed,
	}
}

// FoldResult records what happened on one outer fold.
type FoldResult struct {
	Fold       int // 1-based
	ChosenKind model.Kind
	MTry       int // -1 when logistic regression won
	InnerScore float64
	TestScore  float64
}

// NestedCVResult aggregates the outer loop.
type NestedCVResult struct {
	Folds     []FoldResult
	MeanScore float64
	StdScore  float64

	// Confusion pools the held-out predictions of every outer fold, so its
	// accuracy is the out-of-fold accuracy over the full dataset.
	Confusion *metrics.ConfusionMatrix

	// OOFPredictions holds each sample's prediction from the one outer fold
	// that held it out, aligned with the input row order.
	OOFPredictions *mat.Dense
}

// Run executes the nested loop on X and the (n,1) label column y.
//
// Per outer fold, the logistic regression candidate is scored by inner
// cross-validation and the random forest by an mtry grid search on the same
// training split. The forest must beat the logistic score strictly to be
// chosen. All randomness derives from Seed, so equal seeds reproduce the
// folds, the choices and the confusion matrix exactly.
func (nc *NestedCV) Run(X, y mat.Matrix) (*NestedCVResult, error) {
	nSamples, _ := X.Dims()
	if nSamples == 0 {
		return nil, errors.NewModelError("NestedCV.Run", "empty data", errors.ErrEmptyData)
	}

	logger := nc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	labels := labelSet(y, nSamples)
	result := &NestedCVResult{
		Folds:          make([]FoldResult, 0, nc.OuterSplits),
		Confusion:      metrics.NewConfusionMatrix(labels),
		OOFPredictions: mat.NewDense(nSamples, 1, nil),
	}

	outer := NewKFold(nc.OuterSplits, true, nc.Seed)
	for i, fold := range outer.Split(X, y) {
		trainX, trainY := extractSubset(X, y, fold.TrainIndices)
		testX, testY := extractSubset(X, y, fold.TestIndices)

		// Each outer fold gets its own seed so inner folds and forests
		// differ across the outer loop but not across runs.
		foldSeed := nc.Seed + int64(i+1)

		winner, fr, err := nc.selectCandidate(trainX, trainY, foldSeed)
		if err != nil {
			return nil, errors.Wrapf(err, "genreclf: outer fold %d selection", i+1)
		}
		fr.Fold = i + 1

		if err := winner.Fit(trainX, trainY); err != nil {
			return nil, errors.Wrapf(err, "genreclf: outer fold %d refit", i+1)
		}
		pred, err := winner.Predict(testX)
		if err != nil {
			return nil, errors.Wrapf(err, "genreclf: outer fold %d prediction", i+1)
		}

		for j, idx := range fold.TestIndices {
			p := pred.At(j, 0)
			result.OOFPredictions.Set(idx, 0, p)
			if err := result.Confusion.Observe(int(testY.At(j, 0)), int(p)); err != nil {
				return nil, err
			}
		}

		acc, err := metrics.AccuracyMatrix(testY, pred)
		if err != nil {
			return nil, errors.Wrapf(err, "genreclf: outer fold %d scoring", i+1)
		}
		fr.TestScore = acc
		result.Folds = append(result.Folds, fr)

		logger.Info("outer fold complete",
			slog.Int(log.FoldKey, fr.Fold),
			slog.String(log.ModelKindKey, fr.ChosenKind.String()),
			slog.Int(log.MTryKey, fr.MTry),
			slog.Float64(log.InnerScoreKey, fr.InnerScore),
			slog.Float64(log.AccuracyKey, fr.TestScore),
		)
	}

	scores := make([]float64, len(result.Folds))
	for i, fr := range result.Folds {
		scores[i] = fr.TestScore
	}
	result.MeanScore, result.StdScore = meanStd(scores)
	return result, nil
}

// selectCandidate runs the inner loop on one outer training split and
// returns the winner, unfitted against that full split.
func (nc *NestedCV) selectCandidate(trainX, trainY mat.Matrix, foldSeed int64) (Candidate, FoldResult, error) {
	inner := NewKFold(nc.InnerSplits, true, foldSeed)

	lrCV, err := CrossValidate(NewLogisticCandidate(), trainX, trainY, inner)
	if err != nil {
		return nil, FoldResult{}, errors.Wrap(err, "genreclf: logistic inner CV")
	}
	lrScore := lrCV.GetMeanScore()

	gs := &GridSearchCV{
		Grid:        nc.MTryGrid,
		NTrees:      nc.NTrees,
		InnerSplits: nc.InnerSplits,
		Seed:        foldSeed,
	}
	rf, err := gs.Search(trainX, trainY)
	if err != nil {
		return nil, FoldResult{}, err
	}

	// Logistic regression is evaluated first and keeps ties.
	if rf.BestScore > lrScore {
		return NewForestCandidate(nc.NTrees, rf.BestMTry, foldSeed), FoldResult{
			ChosenKind: model.KindRandomForest,
			MTry:       rf.BestMTry,
			InnerScore: rf.BestScore,
		}, nil
	}
	return NewLogisticCandidate(), FoldResult{
		ChosenKind: model.KindLogisticRegression,
		MTry:       -1,
		InnerScore: lrScore,
	}, nil
}

func labelSet(y mat.Matrix, nSamples int) []int {
	seen := make(map[int]bool)
	for i := 0; i < nSamples; i++ {
		seen[int(y.At(i, 0))] = true
	}
	labels := make([]int, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return labels
}
