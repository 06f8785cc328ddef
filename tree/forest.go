package tree

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/core/model"
	"github.com/tunelab/genreclf/core/parallel"
	"github.com/tunelab/genreclf/pkg/errors"
)

// RandomForestClassifier averages an ensemble of bootstrap-trained decision
// trees. Each split considers a random subset of MTry features.
type RandomForestClassifier struct {
	state *model.StateManager

	// Hyperparameters
	nEstimators    int
	mTry           int // features per split; 0 => floor(sqrt(n_features))
	criterion      string
	maxDepth       int
	minSamplesLeaf int
	randomState    int64

	// Fitted state
	trees      []*DecisionTreeClassifier
	classes_   []int
	nFeatures_ int
}

// ForestOption is a functional option for RandomForestClassifier.
type ForestOption func(*RandomForestClassifier)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) ForestOption {
	return func(f *RandomForestClassifier) { f.nEstimators = n }
}

// WithMTry sets the number of candidate features per split.
func WithMTry(k int) ForestOption {
	return func(f *RandomForestClassifier) { f.mTry = k }
}

// WithForestCriterion sets the impurity criterion for all trees.
func WithForestCriterion(c string) ForestOption {
	return func(f *RandomForestClassifier) { f.criterion = c }
}

// WithForestMaxDepth limits each tree's depth (0 means no limit).
func WithForestMaxDepth(d int) ForestOption {
	return func(f *RandomForestClassifier) { f.maxDepth = d }
}

// WithForestMinSamplesLeaf sets the minimum samples per leaf in each tree.
func WithForestMinSamplesLeaf(n int) ForestOption {
	return func(f *RandomForestClassifier) { f.minSamplesLeaf = n }
}

// WithForestRandomState seeds the ensemble. Tree i draws its bootstrap and
// split randomness from seed + i, so the forest is reproducible regardless
// of how many goroutines fit the trees.
func WithForestRandomState(seed int64) ForestOption {
	return func(f *RandomForestClassifier) { f.randomState = seed }
}

// NewRandomForestClassifier returns a forest with sensible defaults.
func NewRandomForestClassifier(opts ...ForestOption) *RandomForestClassifier {
	f := &RandomForestClassifier{
		state:          model.NewStateManager(),
		nEstimators:    100,
		criterion:      "gini",
		minSamplesLeaf: 1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fit trains the ensemble on X (n_samples x n_features) and column vector y.
func (f *RandomForestClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples != yRows {
		return errors.NewDimensionError("RandomForestClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("RandomForestClassifier.Fit", "y must be a column vector")
	}
	if nSamples == 0 {
		return errors.NewModelError("RandomForestClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if f.nEstimators <= 0 {
		return errors.NewValueError("RandomForestClassifier.Fit", "n_estimators must be positive")
	}

	mTry := f.mTry
	if mTry <= 0 {
		mTry = intSqrt(nFeatures)
	}
	if mTry > nFeatures {
		return errors.NewValueError("RandomForestClassifier.Fit", "mtry exceeds feature count")
	}

	f.nFeatures_ = nFeatures
	f.classes_ = collectClasses(y, nSamples)

	f.trees = make([]*DecisionTreeClassifier, f.nEstimators)
	fitErrs := make([]error, f.nEstimators)

	parallel.ParallelizeWithThreshold(f.nEstimators, 4, func(start, end int) {
		for i := start; i < end; i++ {
			f.fitTree(X, y, i, nSamples, mTry, fitErrs)
		}
	})

	for _, err := range fitErrs {
		if err != nil {
			return err
		}
	}

	f.state.SetFitted()
	f.state.SetDimensions(nFeatures, nSamples)
	return nil
}

// fitTree trains tree i on its own bootstrap sample. The trees fit inside
// bare goroutines with no error return, so a panic during a fit is recovered
// into the tree's error slot instead of killing the process.
func (f *RandomForestClassifier) fitTree(X, y mat.Matrix, i, nSamples, mTry int, fitErrs []error) {
	defer errors.RecoverWithHandler("RandomForestClassifier.Fit", func(err error) {
		fitErrs[i] = err
	})

	rng := rand.New(rand.NewSource(f.randomState + int64(i)))

	rows := make([]int, nSamples)
	for j := range rows {
		rows[j] = rng.Intn(nSamples)
	}

	t := NewDecisionTreeClassifier(
		WithCriterion(f.criterion),
		WithMaxDepth(f.maxDepth),
		WithMinSamplesLeaf(f.minSamplesLeaf),
		WithMaxFeatures(mTry),
	)
	if err := t.fitIndices(X, y, rows, rng); err != nil {
		fitErrs[i] = err
		return
	}
	f.trees[i] = t
}

// PredictProba returns the mean of the trees' probability estimates, columns
// in sorted class order. Trees that never saw a class contribute zero to its
// column.
func (f *RandomForestClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !f.state.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", "PredictProba")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != f.nFeatures_ {
		return nil, errors.NewDimensionError("RandomForestClassifier.PredictProba", f.nFeatures_, nFeatures, 1)
	}

	sum := mat.NewDense(nSamples, len(f.classes_), nil)
	for _, t := range f.trees {
		p, err := t.PredictProba(X)
		if err != nil {
			return nil, err
		}
		// Bootstrap samples may miss a class, so align tree columns with
		// the forest's class order.
		for j, class := range t.classes_ {
			col := f.forestClassIndex(class)
			for i := 0; i < nSamples; i++ {
				sum.Set(i, col, sum.At(i, col)+p.At(i, j))
			}
		}
	}
	sum.Scale(1.0/float64(len(f.trees)), sum)
	return sum, nil
}

// Predict returns the class with the highest mean probability for each row.
func (f *RandomForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := f.PredictProba(X)
	if err != nil {
		return nil, err
	}
	nSamples, nClasses := probas.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		maxIdx := 0
		for j := 1; j < nClasses; j++ {
			if probas.At(i, j) > probas.At(i, maxIdx) {
				maxIdx = j
			}
		}
		predictions.Set(i, 0, float64(f.classes_[maxIdx]))
	}
	return predictions, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (f *RandomForestClassifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := f.Predict(X)
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
func (f *RandomForestClassifier) Classes() []int {
	return f.classes_
}

// FeatureImportances returns the mean of the trees' normalized impurity
// decreases, renormalized to sum to one.
func (f *RandomForestClassifier) FeatureImportances() []float64 {
	out := make([]float64, f.nFeatures_)
	if len(f.trees) == 0 {
		return out
	}
	for _, t := range f.trees {
		for i, v := range t.FeatureImportances() {
			out[i] += v
		}
	}
	total := 0.0
	for _, v := range out {
		total += v
	}
	if total == 0 {
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// GetParams returns the model hyperparameters.
func (f *RandomForestClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":     f.nEstimators,
		"mtry":             f.mTry,
		"criterion":        f.criterion,
		"max_depth":        f.maxDepth,
		"min_samples_leaf": f.minSamplesLeaf,
		"random_state":     f.randomState,
	}
}

func (f *RandomForestClassifier) forestClassIndex(label int) int {
	for i, c := range f.classes_ {
		if c == label {
			return i
		}
	}
	return -1
}

func collectClasses(y mat.Matrix, nSamples int) []int {
	classMap := make(map[int]bool)
	for i := 0; i < nSamples; i++ {
		classMap[int(y.At(i, 0))] = true
	}
	classes := make([]int, 0, len(classMap))
	for class := range classMap {
		classes = append(classes, class)
	}
	sort.Ints(classes)
	return classes
}

func intSqrt(n int) int {
	k := 1
	for (k+1)*(k+1) <= n {
		k++
	}
	return k
}
