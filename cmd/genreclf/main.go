// Command genreclf runs the Rock-vs-Country classification pipeline: clean
// the raw feature CSV, impute, transform, and compare candidate models with
// nested cross-validation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tunelab/genreclf/pipeline"
	"github.com/tunelab/genreclf/pkg/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg, err := pipeline.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "genreclf: %v\n", err)
		os.Exit(1)
	}

	log.SetupLogger(cfg.Log.Level)

	report, err := pipeline.Run(cfg)
	if err != nil {
		slog.Error("pipeline failed", log.ErrAttr(err))
		os.Exit(1)
	}

	fmt.Print(report.String())
}
