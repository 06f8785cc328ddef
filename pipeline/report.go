package pipeline

import (
	"fmt"
	"strings"

	"github.com/tunelab/genreclf/dataset"
	"github.com/tunelab/genreclf/eda"
	"github.com/tunelab/genreclf/modelselection"
)

// Report collects everything a run produced.
type Report struct {
	Config      *Config
	Cleaning    dataset.CleaningStats
	Summaries   []eda.FeatureSummary
	Comparisons []eda.GenreComparison

	// ClassNames maps class index to genre name (sorted genre order).
	ClassNames []string

	CV          *modelselection.NestedCVResult
	FinalMTry   int
	Importances []float64
}

// String renders the report as the operator-facing text artifact.
func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "genre classification: %s vs %s (seed %d)\n\n",
		r.ClassNames[0], r.ClassNames[1], r.Config.Seed)

	fmt.Fprintf(&b, "cleaning: %d rows read, %d kept, %d dropped, %d negative durations marked\n\n",
		r.Cleaning.TotalRows, r.Cleaning.KeptRows, r.Cleaning.DroppedRows, r.Cleaning.MarkedDurations)

	b.WriteString("feature summary\n")
	b.WriteString(eda.FormatSummaries(r.Summaries))
	b.WriteByte('\n')

	b.WriteString("per-genre means\n")
	fmt.Fprintf(&b, "%-16s", "feature")
	for _, g := range r.ClassNames {
		fmt.Fprintf(&b, " %12s", g)
	}
	b.WriteByte('\n')
	for _, cmp := range r.Comparisons {
		fmt.Fprintf(&b, "%-16s", cmp.Feature)
		for _, g := range r.ClassNames {
			fmt.Fprintf(&b, " %12.4f", cmp.Mean[g])
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString("outer folds\n")
	for _, fr := range r.CV.Folds {
		if fr.MTry > 0 {
			fmt.Fprintf(&b, "fold %d: %s (mtry=%d), inner %.4f, test %.4f\n",
				fr.Fold, fr.ChosenKind, fr.MTry, fr.InnerScore, fr.TestScore)
		} else {
			fmt.Fprintf(&b, "fold %d: %s, inner %.4f, test %.4f\n",
				fr.Fold, fr.ChosenKind, fr.InnerScore, fr.TestScore)
		}
	}
	fmt.Fprintf(&b, "outer accuracy: %.4f ± %.4f\n\n", r.CV.MeanScore, r.CV.StdScore)

	b.WriteString("pooled confusion matrix (rows true, cols predicted)\n")
	b.WriteString(r.CV.Confusion.String())
	b.WriteByte('\n')
	fmt.Fprintf(&b, "out-of-fold accuracy: %.4f\n\n", r.CV.Confusion.Accuracy())

	fmt.Fprintf(&b, "variable importance (forest, mtry=%d)\n", r.FinalMTry)
	for j, name := range dataset.FeatureNames {
		fmt.Fprintf(&b, "%-16s %.4f\n", name, r.Importances[j])
	}

	return b.String()
}
