package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/pkg/errors"
)

// logLossEpsilon は log(0) を避けるための確率クリッピング幅
const logLossEpsilon = 1e-15

// Accuracy は正解率（正しく分類されたサンプルの割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1.0 - acc, nil
}

// AccuracyMatrix は行列入力用のAccuracy（最初の列のみ使用）
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, pv, err := firstColumns("AccuracyMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(tv, pv)
}

// AUC はROC曲線下面積を計算する。同順位の予測値は平均順位で扱う
// （Mann-Whitney U統計量と等価）。
//
// ラベルが片方のクラスのみの場合、AUCは未定義のため0.5を返し、
// UndefinedMetricWarningを発行する。
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("AUC", "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("AUC", n, yPred.Len(), 0)
	}

	nPos := 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
		default:
			return 0, errors.NewValueError("AUC", "labels must be 0 or 1")
		}
	}
	nNeg := n - nPos
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", "only one class present", 0.5))
		return 0.5, nil
	}

	// 予測値でソートし、同値グループには平均順位を割り当てる
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return yPred.AtVec(order[a]) < yPred.AtVec(order[b])
	})

	var sumRanksPos float64
	i := 0
	for i < n {
		j := i
		for j < n && yPred.AtVec(order[j]) == yPred.AtVec(order[i]) {
			j++
		}
		// ranks are 1-based; ties share the average rank of the group
		avgRank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			if yTrue.AtVec(order[k]) == 1 {
				sumRanksPos += avgRank
			}
		}
		i = j
	}

	u := sumRanksPos - float64(nPos)*float64(nPos+1)/2.0
	return u / (float64(nPos) * float64(nNeg)), nil
}

// AUCMatrix は行列入力用のAUC（最初の列のみ使用）
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, pv, err := firstColumns("AUCMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return AUC(tv, pv)
}

// BinaryLogLoss は二値分類の交差エントロピー損失を計算する。
// 予測確率は [eps, 1-eps] にクリップされる。
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("BinaryLogLoss", "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("BinaryLogLoss", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		if t != 0 && t != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "labels must be 0 or 1")
		}
		p := yPred.AtVec(i)
		if p < logLossEpsilon {
			p = logLossEpsilon
		} else if p > 1-logLossEpsilon {
			p = 1 - logLossEpsilon
		}
		sum -= t*math.Log(p) + (1-t)*math.Log(1-p)
	}
	return sum / float64(n), nil
}

// firstColumns は行列の最初の列をVecDenseとして取り出す共通処理
func firstColumns(op string, yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	if yTrue == nil || yPred == nil {
		return nil, nil, errors.NewValueError(op, "nil matrix")
	}
	r1, c1 := yTrue.Dims()
	r2, c2 := yPred.Dims()
	if r1 == 0 || c1 == 0 || r2 == 0 || c2 == 0 {
		return nil, nil, errors.NewValueError(op, "empty matrix")
	}
	if r1 != r2 {
		return nil, nil, errors.NewDimensionError(op, r1, r2, 0)
	}

	tv := mat.NewVecDense(r1, nil)
	pv := mat.NewVecDense(r1, nil)
	for i := 0; i < r1; i++ {
		tv.SetVec(i, yTrue.At(i, 0))
		pv.SetVec(i, yPred.At(i, 0))
	}
	return tv, pv, nil
}
