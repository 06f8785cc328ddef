package eda

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/tunelab/genreclf/dataset"
	"github.com/tunelab/genreclf/pkg/errors"
)

// Histogram saves a histogram of one feature as a PNG. NaN cells are
// skipped.
func Histogram(ds *dataset.Dataset, feature, path string) error {
	col := dataset.FeatureIndex(feature)
	if col < 0 {
		return errors.NewValueError("eda.Histogram", "unknown feature "+feature)
	}
	vals := featureValues(ds, col)
	if len(vals) == 0 {
		return errors.NewDataError("eda.Histogram", feature, -1, "no observed values")
	}

	p := plot.New()
	p.Title.Text = feature
	p.X.Label.Text = feature
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(vals), 30)
	if err != nil {
		return errors.Wrap(err, "genreclf: histogram")
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "genreclf: save histogram")
	}
	return nil
}

// BoxplotByGenre saves side-by-side box plots of one feature, one box per
// genre, as a PNG.
func BoxplotByGenre(ds *dataset.Dataset, feature, path string) error {
	col := dataset.FeatureIndex(feature)
	if col < 0 {
		return errors.NewValueError("eda.BoxplotByGenre", "unknown feature "+feature)
	}

	p := plot.New()
	p.Title.Text = feature + " by genre"
	p.Y.Label.Text = feature

	genres := ds.Genres()
	for i, genre := range genres {
		vals := genreFeatureValues(ds, col, genre)
		if len(vals) == 0 {
			return errors.NewDataError("eda.BoxplotByGenre", feature, -1, "no observed values for "+genre)
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(vals))
		if err != nil {
			return errors.Wrap(err, "genreclf: box plot")
		}
		p.Add(box)
	}
	p.NominalX(genres...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "genreclf: save box plot")
	}
	return nil
}

// BarChart saves a labeled bar chart as a PNG. Used for genre counts and
// feature importances.
func BarChart(labels []string, values []float64, title, path string) error {
	if len(labels) != len(values) {
		return errors.NewDimensionError("eda.BarChart", len(labels), len(values), 0)
	}
	if len(values) == 0 {
		return errors.NewValueError("eda.BarChart", "no values")
	}
	for _, v := range values {
		if math.IsNaN(v) {
			return errors.NewValueError("eda.BarChart", "NaN value")
		}
	}

	p := plot.New()
	p.Title.Text = title

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(25))
	if err != nil {
		return errors.Wrap(err, "genreclf: bar chart")
	}
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "genreclf: save bar chart")
	}
	return nil
}
