package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tunelab/genreclf/dataset"
	"github.com/tunelab/genreclf/eda"
	"github.com/tunelab/genreclf/impute"
	"github.com/tunelab/genreclf/modelselection"
	"github.com/tunelab/genreclf/pkg/errors"
	"github.com/tunelab/genreclf/pkg/log"
	"github.com/tunelab/genreclf/preprocessing"
)

// Run executes the full pipeline described by cfg and returns the report.
// Any failure halts the run; nothing is retried.
func Run(cfg *Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := slog.Default()
	start := time.Now()

	// Load
	ds, err := dataset.LoadCSV(cfg.Input.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded",
		slog.String(log.PhaseKey, "load"),
		slog.Int(log.SamplesKey, ds.Len()),
		slog.Int(log.FeaturesKey, dataset.NumFeatures),
	)

	// Clean
	ds, stats, err := dataset.Clean(ds, cfg.Input.Genres[0], cfg.Input.Genres[1])
	if err != nil {
		return nil, err
	}
	logger.Info("dataset cleaned",
		slog.String(log.PhaseKey, "clean"),
		slog.String(log.GenresKey, strings.Join(cfg.Input.Genres, "/")),
		slog.Int(log.SamplesKey, ds.Len()),
		slog.Int(log.DroppedRowsKey, stats.DroppedRows),
	)

	// EDA on the cleaned (pre-imputation) data
	summaries, err := eda.Describe(ds)
	if err != nil {
		return nil, err
	}
	comparisons, err := eda.CompareByGenre(ds)
	if err != nil {
		return nil, err
	}

	X := ds.FeatureMatrix()
	y, classNames, err := ds.LabelVector()
	if err != nil {
		return nil, err
	}

	// Impute
	_, missing := impute.MissingMask(X)
	imputer := impute.NewPMMImputer(
		impute.WithNeighbors(cfg.Impute.Neighbors),
		impute.WithImputations(cfg.Impute.Imputations),
		impute.WithSeed(cfg.Seed),
	)
	Xc, err := imputer.FitTransform(X)
	if err != nil {
		return nil, err
	}
	if err := ds.SetFromMatrix(Xc); err != nil {
		return nil, err
	}
	if err := ds.CheckComplete(); err != nil {
		return nil, err
	}
	logger.Info("imputation complete",
		slog.String(log.PhaseKey, "impute"),
		slog.Int(log.ImputedCellsKey, missing),
	)

	// Fixed per-feature transforms
	plan := preprocessing.GenreFeaturePlan()
	Xt, err := plan.FitTransform(Xc)
	if err != nil {
		return nil, err
	}
	logger.Info("features transformed",
		slog.String(log.PhaseKey, "transform"),
		slog.Int(log.FeaturesKey, len(plan.Columns())),
	)

	// Nested cross-validation
	nc := modelselection.NewNestedCV(cfg.Seed)
	nc.OuterSplits = cfg.CV.OuterFolds
	nc.InnerSplits = cfg.CV.InnerFolds
	nc.MTryGrid = cfg.CV.MTryGrid
	nc.NTrees = cfg.CV.Trees
	nc.Logger = logger

	logger.Info("nested cross-validation started",
		slog.String(log.PhaseKey, "cv"),
		slog.Int64(log.SeedKey, cfg.Seed),
	)
	cv, err := nc.Run(Xt, y)
	if err != nil {
		return nil, err
	}

	// Final forest on the full dataset, for the variable-importance report.
	finalMTry := modalMTry(cv, cfg.CV.MTryGrid)
	final := modelselection.NewForestCandidate(cfg.CV.Trees, finalMTry, cfg.Seed)
	if err := final.Fit(Xt, y); err != nil {
		return nil, err
	}

	report := &Report{
		Config:      cfg,
		Cleaning:    stats,
		Summaries:   summaries,
		Comparisons: comparisons,
		ClassNames:  classNames,
		CV:          cv,
		FinalMTry:   finalMTry,
		Importances: final.FeatureImportances(),
	}

	if cfg.Output.Dir != "" {
		if err := writeArtifacts(cfg, ds, report); err != nil {
			return nil, err
		}
	}

	logger.Info("pipeline complete",
		slog.String(log.PhaseKey, "report"),
		slog.Float64(log.AccuracyKey, cv.Confusion.Accuracy()),
		slog.Int64(log.DurationMsKey, time.Since(start).Milliseconds()),
	)
	return report, nil
}

// modalMTry returns the mtry chosen most often across outer folds where the
// forest won, smaller values keeping ties. Falls back to the first grid
// value when the forest never won.
func modalMTry(cv *modelselection.NestedCVResult, grid []int) int {
	counts := make(map[int]int)
	for _, fr := range cv.Folds {
		if fr.MTry > 0 {
			counts[fr.MTry]++
		}
	}
	best := -1
	for _, m := range grid {
		if best == -1 || counts[m] > counts[best] {
			best = m
		}
	}
	if best == -1 {
		return grid[0]
	}
	return best
}

// writeArtifacts saves the text report and, when enabled, the plots.
func writeArtifacts(cfg *Config, ds *dataset.Dataset, report *Report) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return errors.Wrap(err, "genreclf: create output dir")
	}

	reportPath := filepath.Join(cfg.Output.Dir, "report.txt")
	if err := os.WriteFile(reportPath, []byte(report.String()), 0o644); err != nil {
		return errors.Wrap(err, "genreclf: write report")
	}

	if !cfg.Output.Plots {
		return nil
	}

	counts := make([]float64, len(report.ClassNames))
	for _, r := range ds.Records {
		for i, g := range report.ClassNames {
			if r.Genre == g {
				counts[i]++
			}
		}
	}
	if err := eda.BarChart(report.ClassNames, counts, "genre counts",
		filepath.Join(cfg.Output.Dir, "genre_counts.png")); err != nil {
		return err
	}

	if err := eda.BarChart(dataset.FeatureNames, report.Importances, "variable importance",
		filepath.Join(cfg.Output.Dir, "importances.png")); err != nil {
		return err
	}

	for _, name := range dataset.FeatureNames {
		hist := filepath.Join(cfg.Output.Dir, fmt.Sprintf("hist_%s.png", name))
		if err := eda.Histogram(ds, name, hist); err != nil {
			return err
		}
		box := filepath.Join(cfg.Output.Dir, fmt.Sprintf("box_%s.png", name))
		if err := eda.BoxplotByGenre(ds, name, box); err != nil {
			return err
		}
	}
	return nil
}
