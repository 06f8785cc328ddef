// Package dataset loads and cleans the music-track feature table used by the
// genre classification pipeline.
//
// A Dataset is an ordered collection of Records, one per track. Identifier and
// free-text columns (track id, artist, track name, acquisition date) are
// dropped at load time; the remaining columns are the numeric audio features,
// the key/mode categoricals and the genre label.
package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tunelab/genreclf/pkg/errors"
)

// Feature column names, in the order used by FeatureMatrix.
// Missing values are represented as NaN until imputation.
var FeatureNames = []string{
	"acousticness",
	"danceability",
	"duration_ms",
	"energy",
	"instrumentalness",
	"key",
	"liveness",
	"loudness",
	"mode",
	"speechiness",
	"tempo",
	"valence",
	"popularity",
}

// NumFeatures is the number of feature columns in a Record.
var NumFeatures = len(FeatureNames)

// FeatureIndex returns the column index of a named feature, or -1.
func FeatureIndex(name string) int {
	for i, n := range FeatureNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Record is one track with its numeric audio features, the key/mode
// categorical features (encoded as pitch class 0..11 and Major=1/Minor=0),
// and the genre label.
type Record struct {
	Acousticness     float64
	Danceability     float64
	DurationMS       float64
	Energy           float64
	Instrumentalness float64
	Key              float64
	Liveness         float64
	Loudness         float64
	Mode             float64
	Speechiness      float64
	Tempo            float64
	Valence          float64
	Popularity       float64

	Genre string
}

// Features returns the record's feature values in FeatureNames order.
func (r Record) Features() []float64 {
	return []float64{
		r.Acousticness,
		r.Danceability,
		r.DurationMS,
		r.Energy,
		r.Instrumentalness,
		r.Key,
		r.Liveness,
		r.Loudness,
		r.Mode,
		r.Speechiness,
		r.Tempo,
		r.Valence,
		r.Popularity,
	}
}

// SetFeatures overwrites the record's feature values from a slice in
// FeatureNames order. The genre label is left untouched.
func (r *Record) SetFeatures(vals []float64) {
	r.Acousticness = vals[0]
	r.Danceability = vals[1]
	r.DurationMS = vals[2]
	r.Energy = vals[3]
	r.Instrumentalness = vals[4]
	r.Key = vals[5]
	r.Liveness = vals[6]
	r.Loudness = vals[7]
	r.Mode = vals[8]
	r.Speechiness = vals[9]
	r.Tempo = vals[10]
	r.Valence = vals[11]
	r.Popularity = vals[12]
}

// HasMissing reports whether any feature value is NaN.
func (r Record) HasMissing() bool {
	for _, v := range r.Features() {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Dataset is an ordered collection of Records.
type Dataset struct {
	Records []Record
}

// Len returns the number of records.
func (ds *Dataset) Len() int {
	return len(ds.Records)
}

// Genres returns the distinct genre labels in sorted order.
func (ds *Dataset) Genres() []string {
	seen := make(map[string]bool)
	for _, r := range ds.Records {
		seen[r.Genre] = true
	}
	genres := make([]string, 0, len(seen))
	for g := range seen {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// FeatureMatrix builds the (n_samples x n_features) design matrix in
// FeatureNames order. Missing values stay NaN; callers that require a
// complete matrix should validate with CheckComplete first.
func (ds *Dataset) FeatureMatrix() *mat.Dense {
	n := ds.Len()
	X := mat.NewDense(n, NumFeatures, nil)
	for i, r := range ds.Records {
		X.SetRow(i, r.Features())
	}
	return X
}

// LabelVector encodes genre labels as a (n_samples x 1) column matrix.
// Classes are assigned by sorted genre name, so for {Country, Rock} the
// encoding is Country=0, Rock=1.
func (ds *Dataset) LabelVector() (*mat.Dense, []string, error) {
	genres := ds.Genres()
	if len(genres) != 2 {
		return nil, nil, errors.NewValidationError("genre", "expected exactly two genre labels", genres)
	}
	classOf := map[string]float64{genres[0]: 0, genres[1]: 1}

	n := ds.Len()
	y := mat.NewDense(n, 1, nil)
	for i, r := range ds.Records {
		y.Set(i, 0, classOf[r.Genre])
	}
	return y, genres, nil
}

// SetFromMatrix overwrites all feature values from a completed matrix,
// typically the output of imputation. Row count must match.
func (ds *Dataset) SetFromMatrix(X mat.Matrix) error {
	r, c := X.Dims()
	if r != ds.Len() {
		return errors.NewDimensionError("Dataset.SetFromMatrix", ds.Len(), r, 0)
	}
	if c != NumFeatures {
		return errors.NewDimensionError("Dataset.SetFromMatrix", NumFeatures, c, 1)
	}
	row := make([]float64, NumFeatures)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		ds.Records[i].SetFeatures(row)
	}
	return nil
}

// Clone returns a deep copy of the dataset.
func (ds *Dataset) Clone() *Dataset {
	records := make([]Record, len(ds.Records))
	copy(records, ds.Records)
	return &Dataset{Records: records}
}
