package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// logNormalColumn builds n exactly log-normal values via normal scores.
func logNormalColumn(n int) *mat.Dense {
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	X := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		z := norm.Quantile((float64(i) + 0.5) / float64(n))
		X.Set(i, 0, math.Exp(z))
	}
	return X
}

func TestPowerTransformerLambdaLogNormal(t *testing.T) {
	X := logNormalColumn(200)

	p := NewPowerTransformer()
	if err := p.Fit(X); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// Log-normal data is normalized by the log transform, so the estimated
	// lambda should sit near zero.
	if math.Abs(p.Lambdas[0]) > 0.2 {
		t.Errorf("lambda = %v, want near 0 for log-normal data", p.Lambdas[0])
	}
}

func TestPowerTransformerRoundTrip(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		0.5, 10,
		1.2, 25,
		3.4, 7,
		0.9, 120,
		2.2, 44,
		5.1, 68,
	})

	p := NewPowerTransformer()
	transformed, err := p.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	back, err := p.InverseTransform(transformed)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}

	for i := 0; i < 6; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(back.At(i, j)-X.At(i, j)) > 1e-6 {
				t.Errorf("round trip (%d,%d): got %v, want %v", i, j, back.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestPowerTransformerRejectsNonPositive(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 0, 2})
	p := NewPowerTransformer()
	if err := p.Fit(X); err == nil {
		t.Error("Fit() with zero value should fail")
	}

	X2 := mat.NewDense(3, 1, []float64{1, 2, 3})
	if err := p.Fit(X2); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	XNeg := mat.NewDense(1, 1, []float64{-1})
	if _, err := p.Transform(XNeg); err == nil {
		t.Error("Transform() with negative value should fail")
	}
}

func TestPowerTransformerNotFitted(t *testing.T) {
	p := NewPowerTransformer()
	X := mat.NewDense(1, 1, []float64{1})
	if _, err := p.Transform(X); err == nil {
		t.Error("Transform() before Fit() should fail")
	}
	if _, err := p.InverseTransform(X); err == nil {
		t.Error("InverseTransform() before Fit() should fail")
	}
}

func TestBoxCoxLambdaZeroIsLog(t *testing.T) {
	for _, x := range []float64{0.1, 1, 2.5, 100} {
		if got := boxCox(x, 0); math.Abs(got-math.Log(x)) > 1e-12 {
			t.Errorf("boxCox(%v, 0) = %v, want %v", x, got, math.Log(x))
		}
		if got := boxCoxInverse(math.Log(x), 0); math.Abs(got-x) > 1e-9 {
			t.Errorf("boxCoxInverse(log %v, 0) = %v, want %v", x, got, x)
		}
	}
}

func TestGoldenSectionMax(t *testing.T) {
	// Maximum of -(x-2)^2 is at x=2
	got := goldenSectionMax(func(x float64) float64 { return -(x - 2) * (x - 2) }, -5, 5, 1e-8)
	if math.Abs(got-2) > 1e-6 {
		t.Errorf("goldenSectionMax = %v, want 2", got)
	}
}
