package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/core/model"
	"github.com/tunelab/genreclf/pkg/errors"
)

// PowerTransformer applies a Box-Cox power transform to each column, with
// the exponent lambda estimated per column by maximum profile likelihood.
// Box-Cox requires strictly positive inputs; use AsinhTransformer for
// columns that can be negative.
//
// The transform is
//
//	y = (x^lambda - 1) / lambda   (lambda != 0)
//	y = ln(x)                     (lambda == 0)
//
// which is monotonic and invertible on the positive reals.
type PowerTransformer struct {
	model.BaseEstimator

	// Lambdas holds the estimated exponent per column after Fit.
	Lambdas []float64

	// NFeatures is the number of columns seen during Fit.
	NFeatures int

	// Search interval and tolerance for the lambda estimate.
	LambdaMin float64
	LambdaMax float64
	Tol       float64
}

// NewPowerTransformer creates a PowerTransformer with the default lambda
// search interval [-5, 5].
func NewPowerTransformer() *PowerTransformer {
	return &PowerTransformer{
		LambdaMin: -5,
		LambdaMax: 5,
		Tol:       1e-6,
	}
}

// Fit estimates the Box-Cox lambda for each column by maximizing the profile
// log-likelihood with a golden-section search over [LambdaMin, LambdaMax].
func (p *PowerTransformer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("PowerTransformer.Fit", "empty data", errors.ErrEmptyData)
	}

	col := make([]float64, r)
	p.NFeatures = c
	p.Lambdas = make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			v := X.At(i, j)
			if v <= 0 {
				return errors.NewValueError("PowerTransformer.Fit",
					fmt.Sprintf("column %d contains non-positive value %g; Box-Cox requires x > 0", j, v))
			}
			col[i] = v
		}
		p.Lambdas[j] = goldenSectionMax(func(lambda float64) float64 {
			return boxCoxLogLik(col, lambda)
		}, p.LambdaMin, p.LambdaMax, p.Tol)
	}

	p.SetFitted()
	return nil
}

// Transform applies the fitted per-column Box-Cox transform.
func (p *PowerTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PowerTransformer", "Transform")
	}
	r, c := X.Dims()
	if c != p.NFeatures {
		return nil, errors.NewDimensionError("PowerTransformer.Transform", p.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if v <= 0 {
				return nil, errors.NewValueError("PowerTransformer.Transform",
					fmt.Sprintf("column %d contains non-positive value %g", j, v))
			}
			result.Set(i, j, boxCox(v, p.Lambdas[j]))
		}
	}
	return result, nil
}

// FitTransform fits the transformer and transforms the same data.
func (p *PowerTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// InverseTransform maps transformed values back to the original scale.
func (p *PowerTransformer) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PowerTransformer", "InverseTransform")
	}
	r, c := X.Dims()
	if c != p.NFeatures {
		return nil, errors.NewDimensionError("PowerTransformer.InverseTransform", p.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, boxCoxInverse(X.At(i, j), p.Lambdas[j]))
		}
	}
	return result, nil
}

// String returns the transformer's string representation.
func (p *PowerTransformer) String() string {
	if !p.IsFitted() {
		return "PowerTransformer()"
	}
	return fmt.Sprintf("PowerTransformer(n_features=%d, lambdas=%v)", p.NFeatures, p.Lambdas)
}

// boxCox applies the Box-Cox transform to a single positive value.
func boxCox(x, lambda float64) float64 {
	if math.Abs(lambda) < 1e-12 {
		return math.Log(x)
	}
	return (math.Pow(x, lambda) - 1) / lambda
}

// boxCoxInverse inverts the Box-Cox transform.
func boxCoxInverse(y, lambda float64) float64 {
	if math.Abs(lambda) < 1e-12 {
		return math.Exp(y)
	}
	return math.Pow(lambda*y+1, 1/lambda)
}

// boxCoxLogLik is the profile log-likelihood of lambda for one column,
// up to constants:
//
//	llf = -n/2 * ln(var(y(lambda))) + (lambda-1) * sum(ln x)
func boxCoxLogLik(x []float64, lambda float64) float64 {
	n := float64(len(x))

	sumLog := 0.0
	mean := 0.0
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = boxCox(v, lambda)
		mean += y[i]
		sumLog += math.Log(v)
	}
	mean /= n

	variance := 0.0
	for _, v := range y {
		d := v - mean
		variance += d * d
	}
	variance /= n
	if variance <= 0 {
		return math.Inf(-1)
	}

	return -n/2*math.Log(variance) + (lambda-1)*sumLog
}

// goldenSectionMax maximizes a unimodal function on [a, b] to within tol.
func goldenSectionMax(f func(float64) float64, a, b, tol float64) float64 {
	invPhi := (math.Sqrt(5) - 1) / 2

	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := f(c), f(d)
	for b-a > tol {
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
	}
	return (a + b) / 2
}
