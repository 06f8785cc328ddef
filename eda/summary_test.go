package eda

import (
	"math"
	"strings"
	"testing"

	"github.com/tunelab/genreclf/dataset"
)

func testDataset() *dataset.Dataset {
	ds := &dataset.Dataset{}
	base := []float64{0.2, 0.5, 200000, 0.7, 0.01, 5, 0.15, -8, 1, 0.05, 120, 0.6, 50}
	for i := 0; i < 10; i++ {
		r := dataset.Record{Genre: "Rock"}
		vals := make([]float64, dataset.NumFeatures)
		copy(vals, base)
		vals[dataset.FeatureIndex("energy")] = 0.6 + 0.02*float64(i)
		vals[dataset.FeatureIndex("tempo")] = 110 + float64(i)
		r.SetFeatures(vals)
		ds.Records = append(ds.Records, r)
	}
	for i := 0; i < 10; i++ {
		r := dataset.Record{Genre: "Country"}
		vals := make([]float64, dataset.NumFeatures)
		copy(vals, base)
		vals[dataset.FeatureIndex("energy")] = 0.3 + 0.02*float64(i)
		vals[dataset.FeatureIndex("tempo")] = 90 + float64(i)
		r.SetFeatures(vals)
		ds.Records = append(ds.Records, r)
	}
	return ds
}

func TestDescribe(t *testing.T) {
	ds := testDataset()

	summaries, err := Describe(ds)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if len(summaries) != dataset.NumFeatures {
		t.Fatalf("len(summaries) = %d, want %d", len(summaries), dataset.NumFeatures)
	}

	var tempo *FeatureSummary
	for i := range summaries {
		if summaries[i].Name == "tempo" {
			tempo = &summaries[i]
		}
	}
	if tempo == nil {
		t.Fatal("tempo summary missing")
	}
	if tempo.N != 20 {
		t.Errorf("tempo N = %d, want 20", tempo.N)
	}
	// Rock 110..119, Country 90..99 -> mean 104.5
	if math.Abs(tempo.Mean-104.5) > 1e-9 {
		t.Errorf("tempo mean = %v, want 104.5", tempo.Mean)
	}
	if tempo.Min != 90 || tempo.Max != 119 {
		t.Errorf("tempo range = [%v, %v], want [90, 119]", tempo.Min, tempo.Max)
	}
	if tempo.Q1 > tempo.Median || tempo.Median > tempo.Q3 {
		t.Errorf("quartiles out of order: %v %v %v", tempo.Q1, tempo.Median, tempo.Q3)
	}
}

func TestDescribeSkipsNaN(t *testing.T) {
	ds := testDataset()
	ds.Records[0].DurationMS = math.NaN()

	summaries, err := Describe(ds)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	for _, s := range summaries {
		if s.Name == "duration_ms" && s.N != 19 {
			t.Errorf("duration_ms N = %d, want 19 after one NaN", s.N)
		}
	}
}

func TestCompareByGenre(t *testing.T) {
	ds := testDataset()

	comparisons, err := CompareByGenre(ds)
	if err != nil {
		t.Fatalf("CompareByGenre() error = %v", err)
	}

	var tempo *GenreComparison
	for i := range comparisons {
		if comparisons[i].Feature == "tempo" {
			tempo = &comparisons[i]
		}
	}
	if tempo == nil {
		t.Fatal("tempo comparison missing")
	}
	if math.Abs(tempo.Mean["Rock"]-114.5) > 1e-9 {
		t.Errorf("Rock tempo mean = %v, want 114.5", tempo.Mean["Rock"])
	}
	if math.Abs(tempo.Mean["Country"]-94.5) > 1e-9 {
		t.Errorf("Country tempo mean = %v, want 94.5", tempo.Mean["Country"])
	}
	if tempo.Median["Rock"] <= tempo.Median["Country"] {
		t.Error("Rock tempo median should exceed Country")
	}
}

func TestFormatSummaries(t *testing.T) {
	summaries, err := Describe(testDataset())
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	table := FormatSummaries(summaries)
	if !strings.Contains(table, "feature") || !strings.Contains(table, "tempo") {
		t.Error("formatted table missing expected content")
	}
	if len(strings.Split(strings.TrimSpace(table), "\n")) != dataset.NumFeatures+1 {
		t.Error("formatted table should have a header plus one line per feature")
	}
}

func TestDescribeEmpty(t *testing.T) {
	if _, err := Describe(&dataset.Dataset{}); err == nil {
		t.Error("Describe() on empty dataset should fail")
	}
}
