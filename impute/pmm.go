// Package impute fills missing values by predictive mean matching.
//
// Predictive mean matching fits a linear regression of the incomplete column
// on the remaining features over the complete cases, then replaces each
// missing value with the observed value of a donor row whose predicted value
// is among the closest to the prediction for the missing row. Because the
// fill is always an observed value, imputed columns keep a realistic
// distribution (no negative durations, no fractional counts).
package impute

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/core/model"
	"github.com/tunelab/genreclf/pkg/errors"
)

// PMMImputer imputes missing (NaN) cells column by column using predictive
// mean matching. It generates several plausible completed datasets; callers
// that need a single table conventionally use the first.
type PMMImputer struct {
	state *model.StateManager

	// Hyperparameters
	neighbors   int   // donor pool size per missing cell
	imputations int   // number of completed datasets to generate
	seed        int64 // seed for donor draws

	// Fitted state
	nFeatures int
	columns   []pmmColumn

	rng *rand.Rand
}

// pmmColumn holds the fitted regression and donor pool for one incomplete column.
type pmmColumn struct {
	index     int
	coef      []float64 // intercept followed by one weight per predictor
	donorPred []float64 // predicted values of donor rows
	donorObs  []float64 // observed values of donor rows
}

// Option is a functional option for PMMImputer.
type Option func(*PMMImputer)

// WithNeighbors sets the donor pool size (default 5).
func WithNeighbors(k int) Option {
	return func(p *PMMImputer) { p.neighbors = k }
}

// WithImputations sets how many completed datasets Complete generates (default 5).
func WithImputations(m int) Option {
	return func(p *PMMImputer) { p.imputations = m }
}

// WithSeed sets the seed for donor draws. All randomness in the imputer
// derives from this seed; there is no dependence on global generator state.
func WithSeed(seed int64) Option {
	return func(p *PMMImputer) { p.seed = seed }
}

// NewPMMImputer creates a PMMImputer with the given options.
func NewPMMImputer(opts ...Option) *PMMImputer {
	p := &PMMImputer{
		state:       model.NewStateManager(),
		neighbors:   5,
		imputations: 5,
		seed:        0,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.rng = rand.New(rand.NewSource(p.seed))
	return p
}

// Fit learns one regression per incomplete column from the complete cases.
// Complete cases are rows without any NaN; the regression of the target
// column uses every other column as predictor, with an intercept.
func (p *PMMImputer) Fit(X mat.Matrix) error {
	n, c := X.Dims()
	if n == 0 || c == 0 {
		return errors.NewModelError("PMMImputer.Fit", "empty data", errors.ErrEmptyData)
	}
	p.nFeatures = c
	p.columns = nil

	// Identify complete rows and incomplete columns.
	completeRows := make([]int, 0, n)
	missingCols := make(map[int]bool)
	for i := 0; i < n; i++ {
		rowComplete := true
		for j := 0; j < c; j++ {
			if math.IsNaN(X.At(i, j)) {
				missingCols[j] = true
				rowComplete = false
			}
		}
		if rowComplete {
			completeRows = append(completeRows, i)
		}
	}

	if len(missingCols) == 0 {
		p.state.SetFitted()
		p.state.SetDimensions(c, n)
		return nil
	}
	if len(completeRows) < c+1 {
		return errors.NewValueError("PMMImputer.Fit",
			"not enough complete cases to fit donor regressions")
	}

	cols := make([]int, 0, len(missingCols))
	for j := range missingCols {
		cols = append(cols, j)
	}
	sort.Ints(cols)

	for _, j := range cols {
		col, err := fitColumn(X, completeRows, j, c)
		if err != nil {
			return err
		}
		p.columns = append(p.columns, col)
	}

	p.state.SetFitted()
	p.state.SetDimensions(c, n)
	return nil
}

// fitColumn regresses column j on the remaining columns over the complete rows.
func fitColumn(X mat.Matrix, rows []int, j, c int) (pmmColumn, error) {
	nRows := len(rows)
	// Design matrix with intercept column.
	A := mat.NewDense(nRows, c, nil)
	b := mat.NewVecDense(nRows, nil)
	for ri, i := range rows {
		A.Set(ri, 0, 1.0)
		k := 1
		for jj := 0; jj < c; jj++ {
			if jj == j {
				continue
			}
			A.Set(ri, k, X.At(i, jj))
			k++
		}
		b.SetVec(ri, X.At(i, j))
	}

	var coef mat.VecDense
	if err := coef.SolveVec(A, b); err != nil {
		return pmmColumn{}, errors.Wrapf(errors.ErrSingularMatrix,
			"PMMImputer: donor regression for column %d", j)
	}

	col := pmmColumn{
		index:     j,
		coef:      make([]float64, c),
		donorPred: make([]float64, nRows),
		donorObs:  make([]float64, nRows),
	}
	for k := 0; k < c; k++ {
		col.coef[k] = coef.AtVec(k)
	}
	for ri, i := range rows {
		col.donorPred[ri] = predictRow(X, i, j, col.coef, c)
		col.donorObs[ri] = X.At(i, j)
	}
	return col, nil
}

// predictRow evaluates the column regression for row i, skipping column j.
func predictRow(X mat.Matrix, i, j int, coef []float64, c int) float64 {
	pred := coef[0]
	k := 1
	for jj := 0; jj < c; jj++ {
		if jj == j {
			continue
		}
		pred += coef[k] * X.At(i, jj)
		k++
	}
	return pred
}

// Complete generates the configured number of completed datasets. Each cell
// that was NaN is filled with an independently drawn donor value; all other
// cells are copied unchanged. The first completed dataset is the
// conventional single-imputation result.
func (p *PMMImputer) Complete(X mat.Matrix) ([]*mat.Dense, error) {
	if !p.state.IsFitted() {
		return nil, errors.NewNotFittedError("PMMImputer", "Complete")
	}
	n, c := X.Dims()
	if c != p.nFeatures {
		return nil, errors.NewDimensionError("PMMImputer.Complete", p.nFeatures, c, 1)
	}

	out := make([]*mat.Dense, p.imputations)
	for m := 0; m < p.imputations; m++ {
		completed := mat.DenseCopyOf(X)
		for _, col := range p.columns {
			for i := 0; i < n; i++ {
				if !math.IsNaN(X.At(i, col.index)) {
					continue
				}
				v, err := p.drawDonor(X, i, col)
				if err != nil {
					return nil, err
				}
				completed.Set(i, col.index, v)
			}
		}
		out[m] = completed
	}
	return out, nil
}

// Transform fills missing values using a single imputation, the first of the
// generated completed datasets.
func (p *PMMImputer) Transform(X mat.Matrix) (mat.Matrix, error) {
	completed, err := p.Complete(X)
	if err != nil {
		return nil, err
	}
	return completed[0], nil
}

// FitTransform fits the imputer and fills missing values in one step.
func (p *PMMImputer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// drawDonor predicts the missing cell, ranks donors by closeness of their
// predicted value, and draws one of the closest donors' observed values.
func (p *PMMImputer) drawDonor(X mat.Matrix, i int, col pmmColumn) (float64, error) {
	for jj := 0; jj < p.nFeatures; jj++ {
		if jj != col.index && math.IsNaN(X.At(i, jj)) {
			return 0, errors.NewDataError("PMMImputer.Complete",
				"", i, "predictor value missing; drop incomplete rows before imputing")
		}
	}
	pred := predictRow(X, i, col.index, col.coef, p.nFeatures)

	k := p.neighbors
	if k > len(col.donorPred) {
		errors.Warn(errors.NewImputationWarning("", i, "donor pool smaller than neighbors; shrinking"))
		k = len(col.donorPred)
	}

	// Indices of the k donors with closest predicted values.
	idx := make([]int, len(col.donorPred))
	for d := range idx {
		idx[d] = d
	}
	sort.Slice(idx, func(a, b int) bool {
		da := math.Abs(col.donorPred[idx[a]] - pred)
		db := math.Abs(col.donorPred[idx[b]] - pred)
		if da == db {
			return idx[a] < idx[b]
		}
		return da < db
	})

	chosen := idx[p.rng.Intn(k)]
	return col.donorObs[chosen], nil
}

// MissingMask returns a boolean matrix marking the NaN cells of X and the
// total count of missing cells.
func MissingMask(X mat.Matrix) ([][]bool, int) {
	n, c := X.Dims()
	mask := make([][]bool, n)
	total := 0
	for i := 0; i < n; i++ {
		mask[i] = make([]bool, c)
		for j := 0; j < c; j++ {
			if math.IsNaN(X.At(i, j)) {
				mask[i][j] = true
				total++
			}
		}
	}
	return mask, total
}
