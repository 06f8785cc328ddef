// Package eda computes summary statistics and renders exploratory plots for
// the music-feature dataset.
package eda

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/tunelab/genreclf/dataset"
	"github.com/tunelab/genreclf/pkg/errors"
)

// FeatureSummary holds the descriptive statistics of one feature column.
// NaN cells are skipped, so summaries are valid before imputation too.
type FeatureSummary struct {
	Name     string
	N        int
	Mean     float64
	Std      float64
	Min      float64
	Q1       float64
	Median   float64
	Q3       float64
	Max      float64
	Skewness float64
}

// Describe returns one summary per feature, in feature order.
func Describe(ds *dataset.Dataset) ([]FeatureSummary, error) {
	if ds.Len() == 0 {
		return nil, errors.NewValueError("eda.Describe", "empty dataset")
	}

	summaries := make([]FeatureSummary, 0, len(dataset.FeatureNames))
	for j, name := range dataset.FeatureNames {
		vals := featureValues(ds, j)
		if len(vals) == 0 {
			return nil, errors.NewDataError("eda.Describe", name, -1, "no observed values")
		}
		sort.Float64s(vals)

		mean, std := stat.MeanStdDev(vals, nil)
		summaries = append(summaries, FeatureSummary{
			Name:     name,
			N:        len(vals),
			Mean:     mean,
			Std:      std,
			Min:      vals[0],
			Q1:       stat.Quantile(0.25, stat.Empirical, vals, nil),
			Median:   stat.Quantile(0.5, stat.Empirical, vals, nil),
			Q3:       stat.Quantile(0.75, stat.Empirical, vals, nil),
			Max:      vals[len(vals)-1],
			Skewness: stat.Skew(vals, nil),
		})
	}
	return summaries, nil
}

// GenreComparison pairs per-genre location statistics for one feature.
type GenreComparison struct {
	Feature string
	// Mean and Median are keyed by genre name.
	Mean   map[string]float64
	Median map[string]float64
}

// CompareByGenre returns per-feature mean and median broken out by genre.
func CompareByGenre(ds *dataset.Dataset) ([]GenreComparison, error) {
	if ds.Len() == 0 {
		return nil, errors.NewValueError("eda.CompareByGenre", "empty dataset")
	}

	genres := ds.Genres()
	comparisons := make([]GenreComparison, 0, len(dataset.FeatureNames))
	for j, name := range dataset.FeatureNames {
		cmp := GenreComparison{
			Feature: name,
			Mean:    make(map[string]float64, len(genres)),
			Median:  make(map[string]float64, len(genres)),
		}
		for _, genre := range genres {
			vals := genreFeatureValues(ds, j, genre)
			if len(vals) == 0 {
				continue
			}
			sort.Float64s(vals)
			cmp.Mean[genre] = stat.Mean(vals, nil)
			cmp.Median[genre] = stat.Quantile(0.5, stat.Empirical, vals, nil)
		}
		comparisons = append(comparisons, cmp)
	}
	return comparisons, nil
}

// FormatSummaries renders summaries as an aligned text table.
func FormatSummaries(summaries []FeatureSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %7s %12s %12s %12s %12s %12s %12s %12s %9s\n",
		"feature", "n", "mean", "std", "min", "q1", "median", "q3", "max", "skew")
	for _, s := range summaries {
		fmt.Fprintf(&b, "%-16s %7d %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f %9.3f\n",
			s.Name, s.N, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Skewness)
	}
	return b.String()
}

func featureValues(ds *dataset.Dataset, col int) []float64 {
	vals := make([]float64, 0, ds.Len())
	for _, r := range ds.Records {
		v := r.Features()[col]
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

func genreFeatureValues(ds *dataset.Dataset, col int, genre string) []float64 {
	vals := make([]float64, 0, ds.Len())
	for _, r := range ds.Records {
		if r.Genre != genre {
			continue
		}
		v := r.Features()[col]
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return vals
}
