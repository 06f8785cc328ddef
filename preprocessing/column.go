package preprocessing

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/core/model"
	"github.com/tunelab/genreclf/pkg/errors"
)

// ColumnTransformer applies a fixed per-column transformer to a matrix.
// Columns without an entry pass through unchanged. The column assignment is
// a design decision made up front, not chosen from the data at run time.
type ColumnTransformer struct {
	model.BaseEstimator

	// NFeatures is the number of columns seen during Fit.
	NFeatures int

	byColumn map[int]model.Transformer
}

// NewColumnTransformer creates a ColumnTransformer from a column-index to
// transformer assignment.
func NewColumnTransformer(byColumn map[int]model.Transformer) *ColumnTransformer {
	return &ColumnTransformer{byColumn: byColumn}
}

// Columns returns the transformed column indices in ascending order.
func (ct *ColumnTransformer) Columns() []int {
	cols := make([]int, 0, len(ct.byColumn))
	for j := range ct.byColumn {
		cols = append(cols, j)
	}
	sort.Ints(cols)
	return cols
}

// TransformerFor returns the transformer assigned to a column, or nil.
func (ct *ColumnTransformer) TransformerFor(col int) model.Transformer {
	return ct.byColumn[col]
}

// Fit fits each column's transformer on its column of X.
func (ct *ColumnTransformer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("ColumnTransformer.Fit", "empty data", errors.ErrEmptyData)
	}
	for _, j := range ct.Columns() {
		if j < 0 || j >= c {
			return errors.NewValidationError("column", "transform plan references a column outside the matrix", j)
		}
		if err := ct.byColumn[j].Fit(extractColumn(X, j)); err != nil {
			return errors.Wrapf(err, "fitting transformer for column %d", j)
		}
	}
	ct.NFeatures = c
	ct.SetFitted()
	return nil
}

// Transform applies every column transformer and returns the combined matrix.
func (ct *ColumnTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	return ct.apply(X, "Transform", func(t model.Transformer, col mat.Matrix) (mat.Matrix, error) {
		return t.Transform(col)
	})
}

// FitTransform fits all column transformers and transforms the same data.
func (ct *ColumnTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := ct.Fit(X); err != nil {
		return nil, err
	}
	return ct.Transform(X)
}

// InverseTransform maps a transformed matrix back to the original scale.
func (ct *ColumnTransformer) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	return ct.apply(X, "InverseTransform", func(t model.Transformer, col mat.Matrix) (mat.Matrix, error) {
		return t.InverseTransform(col)
	})
}

func (ct *ColumnTransformer) apply(X mat.Matrix, method string,
	fn func(model.Transformer, mat.Matrix) (mat.Matrix, error)) (mat.Matrix, error) {

	if !ct.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnTransformer", method)
	}
	r, c := X.Dims()
	if c != ct.NFeatures {
		return nil, errors.NewDimensionError("ColumnTransformer."+method, ct.NFeatures, c, 1)
	}

	result := mat.DenseCopyOf(X)
	for _, j := range ct.Columns() {
		out, err := fn(ct.byColumn[j], extractColumn(X, j))
		if err != nil {
			return nil, errors.Wrapf(err, "column %d", j)
		}
		for i := 0; i < r; i++ {
			result.Set(i, j, out.At(i, 0))
		}
	}
	return result, nil
}

// extractColumn copies column j of X into an (r x 1) matrix.
func extractColumn(X mat.Matrix, j int) *mat.Dense {
	r, _ := X.Dims()
	col := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		col.Set(i, 0, X.At(i, j))
	}
	return col
}
