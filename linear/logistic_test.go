package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func separableData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 2, []float64{
		-2.0, -1.5,
		-1.8, -0.9,
		-1.2, -1.1,
		-0.9, -1.8,
		-1.5, -0.6,
		1.1, 1.4,
		1.7, 0.8,
		0.9, 1.9,
		1.4, 1.2,
		2.0, 0.7,
	})
	y := mat.NewDense(10, 1, []float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1})
	return X, y
}

func TestLogisticRegressionFitPredict(t *testing.T) {
	X, y := separableData()

	lr := NewLogisticRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	predictions, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		if predictions.At(i, 0) != y.At(i, 0) {
			t.Errorf("sample %d: predicted %v, want %v", i, predictions.At(i, 0), y.At(i, 0))
		}
	}

	score, err := lr.Score(X, y)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if score != 1.0 {
		t.Errorf("Score() = %v, want 1.0 on separable data", score)
	}
}

func TestLogisticRegressionPredictProba(t *testing.T) {
	X, y := separableData()

	lr := NewLogisticRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	probas, err := lr.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}

	rows, cols := probas.Dims()
	if rows != 10 || cols != 2 {
		t.Fatalf("probas shape = (%d, %d), want (10, 2)", rows, cols)
	}

	for i := 0; i < rows; i++ {
		p0 := probas.At(i, 0)
		p1 := probas.At(i, 1)
		if math.Abs(p0+p1-1.0) > 1e-9 {
			t.Errorf("row %d: probabilities sum to %v", i, p0+p1)
		}
		// Class-1 probability should exceed 0.5 exactly for class-1 rows
		if (p1 > 0.5) != (y.At(i, 0) == 1) {
			t.Errorf("row %d: p1 = %v inconsistent with label %v", i, p1, y.At(i, 0))
		}
	}
}

func TestLogisticRegressionClassLabels(t *testing.T) {
	// Labels other than 0/1 map onto sorted class order
	X := mat.NewDense(6, 1, []float64{-2, -1.5, -1, 1, 1.5, 2})
	y := mat.NewDense(6, 1, []float64{3, 3, 3, 7, 7, 7})

	lr := NewLogisticRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	classes := lr.Classes()
	if len(classes) != 2 || classes[0] != 3 || classes[1] != 7 {
		t.Fatalf("Classes() = %v, want [3 7]", classes)
	}

	pred, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.At(0, 0) != 3 || pred.At(5, 0) != 7 {
		t.Errorf("predictions = %v, %v, want 3 and 7", pred.At(0, 0), pred.At(5, 0))
	}
}

func TestLogisticRegressionRejectsMulticlass(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{0, 1, 2})

	lr := NewLogisticRegression()
	if err := lr.Fit(X, y); err == nil {
		t.Error("Fit() with three classes should fail")
	}
}

func TestLogisticRegressionNotFitted(t *testing.T) {
	lr := NewLogisticRegression()
	X := mat.NewDense(1, 1, []float64{1})
	if _, err := lr.Predict(X); err == nil {
		t.Error("Predict() before Fit() should fail")
	}
	if _, err := lr.PredictProba(X); err == nil {
		t.Error("PredictProba() before Fit() should fail")
	}
}

func TestLogisticRegressionL2Penalty(t *testing.T) {
	X, y := separableData()

	plain := NewLogisticRegression()
	if err := plain.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	reg := NewLogisticRegression(WithPenalty("l2"), WithC(0.1))
	if err := reg.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// Strong regularization shrinks coefficients
	normPlain := math.Hypot(plain.Coef()[0], plain.Coef()[1])
	normReg := math.Hypot(reg.Coef()[0], reg.Coef()[1])
	if normReg >= normPlain {
		t.Errorf("regularized norm %v should be below unregularized %v", normReg, normPlain)
	}
}

func TestLogisticRegressionDimensionMismatch(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(2, 1, []float64{0, 1})

	lr := NewLogisticRegression()
	if err := lr.Fit(X, y); err == nil {
		t.Error("Fit() with mismatched rows should fail")
	}

	y2 := mat.NewDense(3, 1, []float64{0, 1, 0})
	if err := lr.Fit(X, y2); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	XBad := mat.NewDense(1, 3, []float64{1, 2, 3})
	if _, err := lr.Predict(XBad); err == nil {
		t.Error("Predict() with wrong feature count should fail")
	}
}
