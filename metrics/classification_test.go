package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// vec builds a column vector, or a typed nil for empty input so the
// nil-argument paths stay covered.
func vec(vals []float64) *mat.VecDense {
	if len(vals) == 0 {
		return nil
	}
	return mat.NewVecDense(len(vals), vals)
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		genres  []float64 // 0 = Country, 1 = Rock
		pred    []float64
		want    float64
		wantErr bool
	}{
		{
			name:   "all genres recovered",
			genres: []float64{0, 1, 1, 0, 1},
			pred:   []float64{0, 1, 1, 0, 1},
			want:   1.0,
		},
		{
			name:   "one rock track called country",
			genres: []float64{0, 1, 1, 0, 1},
			pred:   []float64{0, 1, 0, 0, 1},
			want:   0.8,
		},
		{
			name:   "labels inverted",
			genres: []float64{0, 0, 1},
			pred:   []float64{1, 1, 0},
			want:   0.0,
		},
		{
			name:    "empty input",
			genres:  nil,
			pred:    nil,
			wantErr: true,
		},
		{
			name:    "length mismatch",
			genres:  []float64{0, 1},
			pred:    []float64{0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(vec(tt.genres), vec(tt.pred))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassificationErrorComplementsAccuracy(t *testing.T) {
	genres := vec([]float64{0, 0, 1, 1, 1, 0})
	pred := vec([]float64{0, 1, 1, 1, 0, 0})

	acc, err := Accuracy(genres, pred)
	if err != nil {
		t.Fatalf("Accuracy() error = %v", err)
	}
	clfErr, err := ClassificationError(genres, pred)
	if err != nil {
		t.Fatalf("ClassificationError() error = %v", err)
	}
	if math.Abs(acc+clfErr-1.0) > 1e-9 {
		t.Errorf("accuracy %v and error %v should sum to 1", acc, clfErr)
	}
	if math.Abs(clfErr-2.0/6.0) > 1e-9 {
		t.Errorf("ClassificationError() = %v, want %v", clfErr, 2.0/6.0)
	}
}

func TestAUC(t *testing.T) {
	tests := []struct {
		name    string
		genres  []float64
		scores  []float64 // predicted probability of Rock
		want    float64
		wantErr bool
	}{
		{
			name:   "rock always scored higher",
			genres: []float64{0, 0, 0, 1, 1, 1},
			scores: []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9},
			want:   1.0,
		},
		{
			name:   "ranking fully reversed",
			genres: []float64{0, 0, 0, 1, 1, 1},
			scores: []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1},
			want:   0.0,
		},
		{
			name:   "uninformative constant score",
			genres: []float64{0, 1, 0, 1},
			scores: []float64{0.5, 0.5, 0.5, 0.5},
			want:   0.5,
		},
		{
			name:   "one rank inversion",
			genres: []float64{0, 0, 1, 1},
			scores: []float64{0.1, 0.4, 0.35, 0.8},
			want:   0.75,
		},
		{
			name:   "tied score across classes averages the ranks",
			genres: []float64{0, 0, 1, 1},
			scores: []float64{0.2, 0.6, 0.6, 0.9},
			want:   0.875,
		},
		{
			name:   "only rock tracks present",
			genres: []float64{1, 1, 1, 1},
			scores: []float64{0.1, 0.4, 0.35, 0.8},
			want:   0.5, // degenerate input, warned and defined as 0.5
		},
		{
			name:   "only country tracks present",
			genres: []float64{0, 0, 0, 0},
			scores: []float64{0.1, 0.4, 0.35, 0.8},
			want:   0.5,
		},
		{
			name:    "labels outside {0,1}",
			genres:  []float64{0, 0.5, 1},
			scores:  []float64{0.1, 0.5, 0.9},
			wantErr: true,
		},
		{
			name:    "length mismatch",
			genres:  []float64{0, 1},
			scores:  []float64{0.5},
			wantErr: true,
		},
		{
			name:    "empty input",
			genres:  nil,
			scores:  nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(vec(tt.genres), vec(tt.scores))
			if (err != nil) != tt.wantErr {
				t.Fatalf("AUC() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AUC() = %v, want %v", got, tt.want)
			}
		})
	}
}

// The matrix forms accept (n,1) label columns as the cross-validation
// driver produces them, and use only the first column of wider input.
func TestMatrixForms(t *testing.T) {
	genres := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	scores := mat.NewDense(4, 1, []float64{0.1, 0.4, 0.35, 0.8})

	auc, err := AUCMatrix(genres, scores)
	if err != nil {
		t.Fatalf("AUCMatrix() error = %v", err)
	}
	if math.Abs(auc-0.75) > 1e-9 {
		t.Errorf("AUCMatrix() = %v, want 0.75", auc)
	}

	wideGenres := mat.NewDense(4, 2, []float64{0, 9, 0, 9, 1, 9, 1, 9})
	widePred := mat.NewDense(4, 2, []float64{0, 9, 1, 9, 1, 9, 1, 9})
	acc, err := AccuracyMatrix(wideGenres, widePred)
	if err != nil {
		t.Fatalf("AccuracyMatrix() error = %v", err)
	}
	if math.Abs(acc-0.75) > 1e-9 {
		t.Errorf("AccuracyMatrix() = %v, want 0.75", acc)
	}

	if _, err := AUCMatrix(nil, scores); err == nil {
		t.Error("AUCMatrix() with nil labels should fail")
	}
	if _, err := AccuracyMatrix(&mat.Dense{}, &mat.Dense{}); err == nil {
		t.Error("AccuracyMatrix() with empty matrices should fail")
	}
}

func TestBinaryLogLoss(t *testing.T) {
	tests := []struct {
		name    string
		genres  []float64
		scores  []float64
		want    float64
		tol     float64
		wantErr bool
	}{
		{
			name:   "confident correct scores",
			genres: []float64{0, 0, 1, 1},
			scores: []float64{0.1, 0.2, 0.8, 0.9},
			want:   0.164252,
			tol:    1e-5,
		},
		{
			name:   "confident wrong scores",
			genres: []float64{0, 0, 1, 1},
			scores: []float64{0.9, 0.9, 0.1, 0.1},
			want:   2.302585,
			tol:    1e-5,
		},
		{
			name:   "hard 0 and 1 scores are clipped away from log(0)",
			genres: []float64{0, 1},
			scores: []float64{0, 1},
			want:   0.0,
			tol:    1e-9,
		},
		{
			name:    "labels outside {0,1}",
			genres:  []float64{0, 0.5, 1},
			scores:  []float64{0.1, 0.5, 0.9},
			wantErr: true,
		},
		{
			name:    "empty input",
			genres:  nil,
			scores:  nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BinaryLogLoss(vec(tt.genres), vec(tt.scores))
			if (err != nil) != tt.wantErr {
				t.Fatalf("BinaryLogLoss() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > tt.tol {
				t.Errorf("BinaryLogLoss() = %v, want %v", got, tt.want)
			}
		})
	}
}
