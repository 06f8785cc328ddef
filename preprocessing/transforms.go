package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/core/model"
	"github.com/tunelab/genreclf/pkg/errors"
)

// LogTransformer applies a natural-log transform with an optional shift,
// y = ln(x + shift), to every column. The shift accommodates zero-inflated
// features such as instrumentalness; inputs must satisfy x + shift > 0.
type LogTransformer struct {
	model.BaseEstimator

	// Shift is added before taking the logarithm.
	Shift float64

	// NFeatures is the number of columns seen during Fit.
	NFeatures int
}

// NewLogTransformer creates a LogTransformer with the given shift.
func NewLogTransformer(shift float64) *LogTransformer {
	return &LogTransformer{Shift: shift}
}

// Fit records the input width. The log transform has no learned parameters.
func (l *LogTransformer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LogTransformer.Fit", "empty data", errors.ErrEmptyData)
	}
	l.NFeatures = c
	l.SetFitted()
	return nil
}

// Transform applies y = ln(x + shift) elementwise.
func (l *LogTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !l.IsFitted() {
		return nil, errors.NewNotFittedError("LogTransformer", "Transform")
	}
	r, c := X.Dims()
	if c != l.NFeatures {
		return nil, errors.NewDimensionError("LogTransformer.Transform", l.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j) + l.Shift
			if v <= 0 {
				return nil, errors.NewValueError("LogTransformer.Transform",
					fmt.Sprintf("value %g at column %d is outside the log domain", X.At(i, j), j))
			}
			result.Set(i, j, math.Log(v))
		}
	}
	return result, nil
}

// FitTransform fits the transformer and transforms the same data.
func (l *LogTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := l.Fit(X); err != nil {
		return nil, err
	}
	return l.Transform(X)
}

// InverseTransform applies x = exp(y) - shift elementwise.
func (l *LogTransformer) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !l.IsFitted() {
		return nil, errors.NewNotFittedError("LogTransformer", "InverseTransform")
	}
	r, c := X.Dims()
	if c != l.NFeatures {
		return nil, errors.NewDimensionError("LogTransformer.InverseTransform", l.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, math.Exp(X.At(i, j))-l.Shift)
		}
	}
	return result, nil
}

// String returns the transformer's string representation.
func (l *LogTransformer) String() string {
	return fmt.Sprintf("LogTransformer(shift=%g)", l.Shift)
}

// AsinhTransformer applies the inverse hyperbolic sine transform,
// y = asinh(x) = ln(x + sqrt(x^2+1)). Unlike log or Box-Cox it is defined
// for all reals, which makes it the right choice for loudness (measured in
// negative decibels).
type AsinhTransformer struct {
	model.BaseEstimator

	// NFeatures is the number of columns seen during Fit.
	NFeatures int
}

// NewAsinhTransformer creates an AsinhTransformer.
func NewAsinhTransformer() *AsinhTransformer {
	return &AsinhTransformer{}
}

// Fit records the input width. Asinh has no learned parameters.
func (a *AsinhTransformer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("AsinhTransformer.Fit", "empty data", errors.ErrEmptyData)
	}
	a.NFeatures = c
	a.SetFitted()
	return nil
}

// Transform applies y = asinh(x) elementwise.
func (a *AsinhTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !a.IsFitted() {
		return nil, errors.NewNotFittedError("AsinhTransformer", "Transform")
	}
	r, c := X.Dims()
	if c != a.NFeatures {
		return nil, errors.NewDimensionError("AsinhTransformer.Transform", a.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, math.Asinh(X.At(i, j)))
		}
	}
	return result, nil
}

// FitTransform fits the transformer and transforms the same data.
func (a *AsinhTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := a.Fit(X); err != nil {
		return nil, err
	}
	return a.Transform(X)
}

// InverseTransform applies x = sinh(y) elementwise.
func (a *AsinhTransformer) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !a.IsFitted() {
		return nil, errors.NewNotFittedError("AsinhTransformer", "InverseTransform")
	}
	r, c := X.Dims()
	if c != a.NFeatures {
		return nil, errors.NewDimensionError("AsinhTransformer.InverseTransform", a.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, math.Sinh(X.At(i, j)))
		}
	}
	return result, nil
}

// IdentityTransformer passes data through unchanged. It exists so a
// per-column plan can treat every column uniformly.
type IdentityTransformer struct {
	model.BaseEstimator

	// NFeatures is the number of columns seen during Fit.
	NFeatures int
}

// NewIdentityTransformer creates an IdentityTransformer.
func NewIdentityTransformer() *IdentityTransformer {
	return &IdentityTransformer{}
}

// Fit records the input width.
func (t *IdentityTransformer) Fit(X mat.Matrix) error {
	_, c := X.Dims()
	t.NFeatures = c
	t.SetFitted()
	return nil
}

// Transform returns a copy of the input.
func (t *IdentityTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("IdentityTransformer", "Transform")
	}
	return mat.DenseCopyOf(X), nil
}

// FitTransform fits the transformer and transforms the same data.
func (t *IdentityTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return t.Transform(X)
}

// InverseTransform returns a copy of the input.
func (t *IdentityTransformer) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("IdentityTransformer", "InverseTransform")
	}
	return mat.DenseCopyOf(X), nil
}
