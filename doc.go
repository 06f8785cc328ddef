// Package genreclf builds a binary music-genre classifier (Rock vs Country)
// from raw audio-feature CSV data.
//
// The library covers the full workflow: loading and cleaning the table,
// predictive-mean-matching imputation of missing cells, fixed per-feature
// variance-stabilizing transforms, and a nested cross-validation driver that
// compares logistic regression against a tuned random forest.
//
// # Quick Start
//
// The usual entry point is the pipeline package:
//
//	cfg := pipeline.DefaultConfig()
//	cfg.Input.Path = "music_features.csv"
//
//	report, err := pipeline.Run(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(report.String())
//
// Individual stages are available as packages: dataset (loading, cleaning),
// impute (PMM), preprocessing (Box-Cox, log, asinh, standardization), linear
// and tree (the candidate models), metrics, and modelselection (k-fold and
// nested cross-validation).
//
// All randomness is driven by explicit seeds; runs with equal configuration
// reproduce folds, model choices and the confusion matrix exactly.
package genreclf
