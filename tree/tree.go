// Package tree implements CART decision trees and the random-forest
// candidate model built from them.
package tree

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/core/model"
	"github.com/tunelab/genreclf/pkg/errors"
)

// DecisionTreeClassifier is a CART-style classifier: binary splits chosen by
// impurity decrease, majority-class leaves.
type DecisionTreeClassifier struct {
	state *model.StateManager

	// Hyperparameters
	criterion           string  // "gini" (default) or "entropy"
	maxDepth            int     // 0 => no limit
	minSamplesSplit     int     // minimum samples to attempt a split
	minSamplesLeaf      int     // minimum samples required in each leaf
	maxFeatures         int     // 0 => all features, >0 => random subset per node
	minImpurityDecrease float64 // minimal weighted gain to accept a split
	randomState         int64   // seed for feature subsampling

	// Fitted state
	root       *node
	classes_   []int
	nFeatures_ int

	// importances_ accumulates impurity decrease per feature during Fit.
	importances_ []float64
}

// node is one tree node; leaves carry a class distribution.
type node struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *node
	right     *node

	n         int
	probas    []float64 // aligned with classes_
	predIndex int
}

// Option is a functional option for DecisionTreeClassifier.
type Option func(*DecisionTreeClassifier)

// WithCriterion sets the impurity criterion ("gini" or "entropy").
func WithCriterion(c string) Option {
	return func(t *DecisionTreeClassifier) { t.criterion = c }
}

// WithMaxDepth limits the tree depth (root depth = 0; 0 means no limit).
func WithMaxDepth(d int) Option {
	return func(t *DecisionTreeClassifier) { t.maxDepth = d }
}

// WithMinSamplesSplit sets the minimum node size to attempt a split.
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum samples required in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.minSamplesLeaf = n }
}

// WithMaxFeatures sets how many randomly chosen features are considered at
// each split point (the forest's mtry). 0 considers all features.
func WithMaxFeatures(k int) Option {
	return func(t *DecisionTreeClassifier) { t.maxFeatures = k }
}

// WithMinImpurityDecrease sets the minimal gain to accept a split.
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeClassifier) { t.minImpurityDecrease = v }
}

// WithRandomState seeds the feature subsampling. All tree randomness
// derives from this seed.
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.randomState = seed }
}

// NewDecisionTreeClassifier returns a classifier with sensible defaults.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	t := &DecisionTreeClassifier{
		state:           model.NewStateManager(),
		criterion:       "gini",
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fit trains the decision tree on X (n_samples x n_features) and column
// vector y of integer class labels.
func (t *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	return t.fitIndices(X, y, nil, rand.New(rand.NewSource(t.randomState)))
}

// fitIndices trains on the given row subset (nil means all rows), with tree
// randomness drawn from rng. The forest uses this to pass bootstrap samples
// without copying the matrix.
func (t *DecisionTreeClassifier) fitIndices(X, y mat.Matrix, rows []int, rng *rand.Rand) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples != yRows {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "y must be a column vector")
	}
	if nSamples == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}

	if rows == nil {
		rows = make([]int, nSamples)
		for i := range rows {
			rows[i] = i
		}
	}

	t.extractClasses(y, rows)
	t.nFeatures_ = nFeatures
	t.importances_ = make([]float64, nFeatures)

	t.root = t.buildNode(X, y, rows, 0, rng)
	t.state.SetFitted()
	t.state.SetDimensions(nFeatures, len(rows))
	return nil
}

// extractClasses collects the unique labels over the given rows, sorted.
func (t *DecisionTreeClassifier) extractClasses(y mat.Matrix, rows []int) {
	classMap := make(map[int]bool)
	for _, i := range rows {
		classMap[int(y.At(i, 0))] = true
	}
	t.classes_ = make([]int, 0, len(classMap))
	for class := range classMap {
		t.classes_ = append(t.classes_, class)
	}
	sort.Ints(t.classes_)
}

func (t *DecisionTreeClassifier) classIndex(label int) int {
	for i, c := range t.classes_ {
		if c == label {
			return i
		}
	}
	return -1
}

// buildNode grows the tree recursively.
func (t *DecisionTreeClassifier) buildNode(X, y mat.Matrix, idx []int, depth int, rng *rand.Rand) *node {
	nd := &node{n: len(idx)}

	counts := t.countClasses(y, idx)
	if isPure(counts) ||
		(t.minSamplesSplit > 0 && len(idx) < t.minSamplesSplit) ||
		(t.maxDepth > 0 && depth >= t.maxDepth) {
		return t.makeLeaf(nd, counts)
	}

	// Feature subset for this node. The shuffle consumes the node's rng in
	// a fixed order, so a fixed seed reproduces the same tree.
	nFeatures := t.nFeatures_
	featIndices := make([]int, nFeatures)
	for j := range featIndices {
		featIndices[j] = j
	}
	if t.maxFeatures > 0 && t.maxFeatures < nFeatures {
		rng.Shuffle(nFeatures, func(a, b int) {
			featIndices[a], featIndices[b] = featIndices[b], featIndices[a]
		})
		featIndices = featIndices[:t.maxFeatures]
		sort.Ints(featIndices)
	}

	parentImpurity := t.impurity(counts)
	best := splitResult{feature: -1}
	for _, f := range featIndices {
		if res := t.bestSplitForFeature(X, y, idx, f, parentImpurity); res.gain > best.gain {
			best = res
		}
	}

	if best.feature == -1 || best.gain <= t.minImpurityDecrease {
		return t.makeLeaf(nd, counts)
	}

	t.importances_[best.feature] += float64(len(idx)) * best.gain

	nd.feature = best.feature
	nd.threshold = best.threshold
	nd.left = t.buildNode(X, y, best.leftIdx, depth+1, rng)
	nd.right = t.buildNode(X, y, best.rightIdx, depth+1, rng)
	return nd
}

func (t *DecisionTreeClassifier) makeLeaf(nd *node, counts []int) *node {
	nd.isLeaf = true
	nd.probas = countsToProbas(counts)
	nd.predIndex = argmax(counts)
	return nd
}

// splitResult holds the best split found for one feature.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	leftIdx   []int
	rightIdx  []int
}

// valueIndex pairs a feature value with its row index for sorting.
type valueIndex struct {
	v float64
	i int
}

// bestSplitForFeature scans midpoints between distinct sorted values of
// feature f and keeps the split with the largest impurity decrease.
func (t *DecisionTreeClassifier) bestSplitForFeature(X, y mat.Matrix, idx []int, f int, parentImpurity float64) splitResult {
	result := splitResult{feature: -1}

	vals := make([]valueIndex, len(idx))
	for k, i := range idx {
		vals[k] = valueIndex{X.At(i, f), i}
	}
	sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

	nClasses := len(t.classes_)
	total := len(vals)

	// Running class counts for the left partition.
	leftCounts := make([]int, nClasses)
	rightCounts := t.countClasses(y, idx)

	for s := 1; s < total; s++ {
		ci := t.classIndex(int(y.At(vals[s-1].i, 0)))
		leftCounts[ci]++
		rightCounts[ci]--

		if vals[s].v == vals[s-1].v {
			continue
		}
		if s < t.minSamplesLeaf || total-s < t.minSamplesLeaf {
			continue
		}

		impL := t.impurity(leftCounts)
		impR := t.impurity(rightCounts)
		weighted := float64(s)/float64(total)*impL + float64(total-s)/float64(total)*impR
		gain := parentImpurity - weighted
		if gain > result.gain {
			left := make([]int, s)
			right := make([]int, total-s)
			for k := 0; k < s; k++ {
				left[k] = vals[k].i
			}
			for k := s; k < total; k++ {
				right[k-s] = vals[k].i
			}
			result = splitResult{
				gain:      gain,
				feature:   f,
				threshold: (vals[s-1].v + vals[s].v) / 2.0,
				leftIdx:   left,
				rightIdx:  right,
			}
		}
	}
	return result
}

func (t *DecisionTreeClassifier) countClasses(y mat.Matrix, idx []int) []int {
	counts := make([]int, len(t.classes_))
	for _, i := range idx {
		counts[t.classIndex(int(y.At(i, 0)))]++
	}
	return counts
}

func (t *DecisionTreeClassifier) impurity(counts []int) float64 {
	if t.criterion == "entropy" {
		return entropyFromCounts(counts)
	}
	return giniFromCounts(counts)
}

// Predict returns the predicted class label for each row of X.
func (t *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !t.state.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "Predict")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != t.nFeatures_ {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.Predict", t.nFeatures_, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		leaf := t.leafFor(X, i)
		predictions.Set(i, 0, float64(t.classes_[leaf.predIndex]))
	}
	return predictions, nil
}

// PredictProba returns per-class probability estimates, columns in sorted
// class order.
func (t *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !t.state.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != t.nFeatures_ {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.PredictProba", t.nFeatures_, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, len(t.classes_), nil)
	for i := 0; i < nSamples; i++ {
		probas.SetRow(i, t.leafFor(X, i).probas)
	}
	return probas, nil
}

// leafFor walks row i down the tree to its leaf. The leaf carries both the
// class distribution and the precomputed majority index.
func (t *DecisionTreeClassifier) leafFor(X mat.Matrix, i int) *node {
	nd := t.root
	for !nd.isLeaf {
		if X.At(i, nd.feature) <= nd.threshold {
			nd = nd.left
		} else {
			nd = nd.right
		}
	}
	return nd
}

// Score returns the mean accuracy on the given test data and labels.
func (t *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := t.Predict(X)
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
func (t *DecisionTreeClassifier) Classes() []int {
	return t.classes_
}

// FeatureImportances returns per-feature impurity decrease, normalized to
// sum to one. Zero-length before fitting.
func (t *DecisionTreeClassifier) FeatureImportances() []float64 {
	out := make([]float64, len(t.importances_))
	total := 0.0
	for _, v := range t.importances_ {
		total += v
	}
	if total == 0 {
		return out
	}
	for i, v := range t.importances_ {
		out[i] = v / total
	}
	return out
}

// GetParams returns the model hyperparameters.
func (t *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":             t.criterion,
		"max_depth":             t.maxDepth,
		"min_samples_split":     t.minSamplesSplit,
		"min_samples_leaf":      t.minSamplesLeaf,
		"max_features":          t.maxFeatures,
		"min_impurity_decrease": t.minImpurityDecrease,
		"random_state":          t.randomState,
	}
}

// Impurity helpers.

func giniFromCounts(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

func entropyFromCounts(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []int) []float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	probas := make([]float64, len(counts))
	if total == 0 {
		return probas
	}
	for i, c := range counts {
		probas[i] = float64(c) / float64(total)
	}
	return probas
}

func argmax(counts []int) int {
	maxIdx := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[maxIdx] {
			maxIdx = i
		}
	}
	return maxIdx
}
