package dataset

import (
	"math"

	"github.com/tunelab/genreclf/pkg/errors"
)

// CleaningStats summarizes what a cleaning pass did to the table.
type CleaningStats struct {
	TotalRows       int `json:"total_rows"`
	FilteredRows    int `json:"filtered_rows"`
	KeptRows        int `json:"kept_rows"`
	DroppedRows     int `json:"dropped_rows"`
	MarkedDurations int `json:"marked_durations"`
}

// FilterGenres keeps only records whose genre is one of the given labels.
func (ds *Dataset) FilterGenres(genres ...string) *Dataset {
	keep := make(map[string]bool, len(genres))
	for _, g := range genres {
		keep[g] = true
	}
	out := &Dataset{}
	for _, r := range ds.Records {
		if keep[r.Genre] {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// MarkNegativeDurations recodes duration values below zero as missing so the
// imputation step treats them as recoverable rather than rejecting the row.
// It returns the number of durations marked.
func (ds *Dataset) MarkNegativeDurations() int {
	marked := 0
	for i := range ds.Records {
		if ds.Records[i].DurationMS < 0 {
			ds.Records[i].DurationMS = math.NaN()
			marked++
		}
	}
	return marked
}

// DropIncomplete removes records that are missing anything the imputation
// step cannot recover: an empty genre label, or a NaN in any feature other
// than duration. A NaN duration survives, to be filled by predictive mean
// matching. Returns the number of rows dropped.
func (ds *Dataset) DropIncomplete() int {
	durIdx := FeatureIndex("duration_ms")
	kept := ds.Records[:0]
	dropped := 0
	for _, r := range ds.Records {
		ok := r.Genre != ""
		if ok {
			for j, v := range r.Features() {
				if j == durIdx {
					continue
				}
				if math.IsNaN(v) {
					ok = false
					break
				}
			}
		}
		if ok {
			kept = append(kept, r)
		} else {
			dropped++
		}
	}
	ds.Records = kept
	return dropped
}

// CheckComplete verifies the post-cleaning invariant: no feature is missing
// and every duration is non-negative.
func (ds *Dataset) CheckComplete() error {
	for i, r := range ds.Records {
		if r.HasMissing() {
			return errors.Wrapf(errors.ErrMissingValues, "record %d", i)
		}
		if r.DurationMS < 0 {
			return errors.NewDataError("CheckComplete", "duration_ms", i, "negative duration after cleaning")
		}
	}
	return nil
}

// Clean runs the standard cleaning sequence for a two-genre comparison:
// filter to the two genres, drop unrecoverable rows, then mark negative
// durations as missing for the imputation step.
func Clean(ds *Dataset, genreA, genreB string) (*Dataset, CleaningStats, error) {
	stats := CleaningStats{TotalRows: ds.Len()}

	out := ds.FilterGenres(genreA, genreB)
	if out.Len() == 0 {
		return nil, stats, errors.NewValidationError("genres", "no records match the requested genres", []string{genreA, genreB})
	}

	stats.FilteredRows = ds.Len() - out.Len()
	stats.DroppedRows = out.DropIncomplete()
	stats.MarkedDurations = out.MarkNegativeDurations()
	stats.KeptRows = out.Len()
	return out, stats, nil
}
