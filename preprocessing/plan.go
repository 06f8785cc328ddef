package preprocessing

import (
	"github.com/tunelab/genreclf/core/model"
	"github.com/tunelab/genreclf/dataset"
)

// logShift is added before the log transform of zero-inflated features.
// Instrumentalness in particular is exactly zero for most vocal tracks.
const logShift = 1e-6

// GenreFeaturePlan returns the fixed per-feature transform assignment used
// by the genre pipeline, chosen by inspection of each feature's skewness:
//
//	acousticness, energy, speechiness  -> Box-Cox power transform
//	instrumentalness, liveness         -> log (with a small shift)
//	loudness                           -> inverse hyperbolic sine
//	everything else                    -> identity (no transform)
//
// Loudness gets asinh rather than log or Box-Cox because it is measured in
// negative decibels.
func GenreFeaturePlan() *ColumnTransformer {
	byColumn := map[int]model.Transformer{
		dataset.FeatureIndex("acousticness"):     NewPowerTransformer(),
		dataset.FeatureIndex("energy"):           NewPowerTransformer(),
		dataset.FeatureIndex("speechiness"):      NewPowerTransformer(),
		dataset.FeatureIndex("instrumentalness"): NewLogTransformer(logShift),
		dataset.FeatureIndex("liveness"):         NewLogTransformer(logShift),
		dataset.FeatureIndex("loudness"):         NewAsinhTransformer(),
	}
	return NewColumnTransformer(byColumn)
}
