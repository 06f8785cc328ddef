package model

// EstimatorState は変換器や分類器の学習状態を表す
type EstimatorState int

const (
	// NotFitted は未学習の状態
	NotFitted EstimatorState = iota
	// Fitted は学習済みの状態
	Fitted
)

// BaseEstimator は学習状態のみを持つ軽量な基底構造体。
// 並行アクセスが不要な変換器はこちらを埋め込み、
// 並行に学習される分類器は StateManager を使う。
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted は学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted は学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset は未学習状態に戻す
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
