// Package parallel は独立した作業単位をCPUコアへ分配するヘルパーを提供する
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize は items 個の独立した作業を連続した範囲に分割し、
// fn(start, end) を範囲ごとにゴルーチンで実行する。
// 全ての範囲が完了するまでブロックする。
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := start + chunk
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold は items が threshold 以下なら単一ゴルーチンで
// 逐次実行し、それ以外は Parallelize に委譲する。
// 木の本数が少ないアンサンブルではゴルーチン起動のコストが支配的になる。
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}
