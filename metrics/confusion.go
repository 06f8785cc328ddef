package metrics

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/pkg/errors"
)

// ConfusionMatrix は混同行列。行が真のラベル、列が予測ラベル。
type ConfusionMatrix struct {
	// Labels は行・列に対応するクラスラベル（昇順）
	Labels []int

	counts [][]int
}

// NewConfusionMatrix returns a zeroed matrix over the given labels.
func NewConfusionMatrix(labels []int) *ConfusionMatrix {
	sorted := make([]int, len(labels))
	copy(sorted, labels)
	sort.Ints(sorted)

	counts := make([][]int, len(sorted))
	for i := range counts {
		counts[i] = make([]int, len(sorted))
	}
	return &ConfusionMatrix{Labels: sorted, counts: counts}
}

// ConfusionMatrixFrom counts (true, predicted) pairs from the first columns
// of yTrue and yPred over the given label set.
func ConfusionMatrixFrom(yTrue, yPred mat.Matrix, labels []int) (*ConfusionMatrix, error) {
	tv, pv, err := firstColumns("ConfusionMatrixFrom", yTrue, yPred)
	if err != nil {
		return nil, err
	}

	cm := NewConfusionMatrix(labels)
	for i := 0; i < tv.Len(); i++ {
		if err := cm.Observe(int(tv.AtVec(i)), int(pv.AtVec(i))); err != nil {
			return nil, err
		}
	}
	return cm, nil
}

// Observe adds one (true, predicted) pair.
func (cm *ConfusionMatrix) Observe(trueLabel, predLabel int) error {
	ti := cm.labelIndex(trueLabel)
	pi := cm.labelIndex(predLabel)
	if ti < 0 {
		return errors.NewValueError("ConfusionMatrix.Observe", fmt.Sprintf("unknown true label %d", trueLabel))
	}
	if pi < 0 {
		return errors.NewValueError("ConfusionMatrix.Observe", fmt.Sprintf("unknown predicted label %d", predLabel))
	}
	cm.counts[ti][pi]++
	return nil
}

// At returns the count of samples with the given true label predicted as
// predLabel. Unknown labels count as zero.
func (cm *ConfusionMatrix) At(trueLabel, predLabel int) int {
	ti := cm.labelIndex(trueLabel)
	pi := cm.labelIndex(predLabel)
	if ti < 0 || pi < 0 {
		return 0
	}
	return cm.counts[ti][pi]
}

// Total returns the number of observed samples.
func (cm *ConfusionMatrix) Total() int {
	total := 0
	for _, row := range cm.counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// Accuracy は対角成分の和を総数で割った値
func (cm *ConfusionMatrix) Accuracy() float64 {
	total := cm.Total()
	if total == 0 {
		return 0
	}
	trace := 0
	for i := range cm.counts {
		trace += cm.counts[i][i]
	}
	return float64(trace) / float64(total)
}

// Merge adds another matrix's counts into this one. Both must cover the
// same label set. Used to aggregate per-fold matrices.
func (cm *ConfusionMatrix) Merge(other *ConfusionMatrix) error {
	if len(cm.Labels) != len(other.Labels) {
		return errors.NewValueError("ConfusionMatrix.Merge", "label sets differ")
	}
	for i, l := range cm.Labels {
		if other.Labels[i] != l {
			return errors.NewValueError("ConfusionMatrix.Merge", "label sets differ")
		}
	}
	for i := range cm.counts {
		for j := range cm.counts[i] {
			cm.counts[i][j] += other.counts[i][j]
		}
	}
	return nil
}

// String renders the matrix with row/column label headers.
func (cm *ConfusionMatrix) String() string {
	var b strings.Builder
	b.WriteString("true\\pred")
	for _, l := range cm.Labels {
		fmt.Fprintf(&b, "\t%d", l)
	}
	b.WriteByte('\n')
	for i, l := range cm.Labels {
		fmt.Fprintf(&b, "%d", l)
		for j := range cm.Labels {
			fmt.Fprintf(&b, "\t%d", cm.counts[i][j])
		}
		if i < len(cm.Labels)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (cm *ConfusionMatrix) labelIndex(label int) int {
	for i, l := range cm.Labels {
		if l == label {
			return i
		}
	}
	return -1
}
