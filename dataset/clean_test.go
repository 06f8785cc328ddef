package dataset

import (
	"math"
	"testing"
)

func makeRecord(genre string, duration float64) Record {
	r := Record{Genre: genre}
	vals := make([]float64, NumFeatures)
	for i := range vals {
		vals[i] = 0.5
	}
	vals[FeatureIndex("duration_ms")] = duration
	r.SetFeatures(vals)
	return r
}

func TestFilterGenres(t *testing.T) {
	ds := &Dataset{Records: []Record{
		makeRecord("Rock", 200000),
		makeRecord("Country", 180000),
		makeRecord("Jazz", 240000),
		makeRecord("Rock", 210000),
	}}

	out := ds.FilterGenres("Rock", "Country")
	if out.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", out.Len())
	}
	for _, r := range out.Records {
		if r.Genre != "Rock" && r.Genre != "Country" {
			t.Errorf("unexpected genre %q after filter", r.Genre)
		}
	}
	// Original untouched
	if ds.Len() != 4 {
		t.Errorf("source dataset mutated, Len() = %d", ds.Len())
	}
}

func TestMarkNegativeDurations(t *testing.T) {
	ds := &Dataset{Records: []Record{
		makeRecord("Rock", 200000),
		makeRecord("Rock", -1),
		makeRecord("Country", -500),
	}}

	marked := ds.MarkNegativeDurations()
	if marked != 2 {
		t.Fatalf("marked = %d, want 2", marked)
	}
	if !math.IsNaN(ds.Records[1].DurationMS) || !math.IsNaN(ds.Records[2].DurationMS) {
		t.Error("negative durations should become NaN")
	}
	if ds.Records[0].DurationMS != 200000 {
		t.Error("valid duration should be untouched")
	}
}

func TestDropIncomplete(t *testing.T) {
	missing := makeRecord("Rock", 200000)
	missing.Energy = math.NaN()

	missingDur := makeRecord("Country", math.NaN())

	noGenre := makeRecord("", 150000)

	ds := &Dataset{Records: []Record{
		makeRecord("Rock", 180000),
		missing,
		missingDur,
		noGenre,
	}}

	dropped := ds.DropIncomplete()
	if dropped != 2 {
		t.Fatalf("dropped = %d, want 2 (bad energy + empty genre)", dropped)
	}
	if ds.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ds.Len())
	}
	// The NaN duration row survives for imputation
	if !math.IsNaN(ds.Records[1].DurationMS) {
		t.Error("row with missing duration should be kept")
	}
}

func TestClean(t *testing.T) {
	missing := makeRecord("Rock", 190000)
	missing.Valence = math.NaN()

	ds := &Dataset{Records: []Record{
		makeRecord("Rock", 200000),
		makeRecord("Country", -30),
		makeRecord("Jazz", 220000),
		missing,
	}}

	out, stats, err := Clean(ds, "Rock", "Country")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if stats.TotalRows != 4 {
		t.Errorf("TotalRows = %d, want 4", stats.TotalRows)
	}
	if stats.FilteredRows != 1 {
		t.Errorf("FilteredRows = %d, want 1 (Jazz)", stats.FilteredRows)
	}
	if stats.DroppedRows != 1 {
		t.Errorf("DroppedRows = %d, want 1 (NaN valence)", stats.DroppedRows)
	}
	if stats.MarkedDurations != 1 {
		t.Errorf("MarkedDurations = %d, want 1", stats.MarkedDurations)
	}
	if stats.KeptRows != 2 || out.Len() != 2 {
		t.Errorf("KeptRows = %d, Len = %d, want 2", stats.KeptRows, out.Len())
	}
}

func TestCleanNoMatches(t *testing.T) {
	ds := &Dataset{Records: []Record{makeRecord("Jazz", 100000)}}
	if _, _, err := Clean(ds, "Rock", "Country"); err == nil {
		t.Error("Clean() with no matching genres should fail")
	}
}

func TestCheckComplete(t *testing.T) {
	ds := &Dataset{Records: []Record{makeRecord("Rock", 100000)}}
	if err := ds.CheckComplete(); err != nil {
		t.Errorf("CheckComplete() on complete data = %v", err)
	}

	bad := makeRecord("Rock", 100000)
	bad.Tempo = math.NaN()
	ds2 := &Dataset{Records: []Record{bad}}
	if err := ds2.CheckComplete(); err == nil {
		t.Error("CheckComplete() with NaN should fail")
	}

	neg := &Dataset{Records: []Record{makeRecord("Rock", -5)}}
	if err := neg.CheckComplete(); err == nil {
		t.Error("CheckComplete() with negative duration should fail")
	}
}

func TestLabelVector(t *testing.T) {
	ds := &Dataset{Records: []Record{
		makeRecord("Rock", 1),
		makeRecord("Country", 2),
		makeRecord("Rock", 3),
	}}

	y, classes, err := ds.LabelVector()
	if err != nil {
		t.Fatalf("LabelVector() error = %v", err)
	}
	// Sorted order: Country=0, Rock=1
	if classes[0] != "Country" || classes[1] != "Rock" {
		t.Fatalf("classes = %v, want [Country Rock]", classes)
	}
	want := []float64{1, 0, 1}
	for i, w := range want {
		if y.At(i, 0) != w {
			t.Errorf("y[%d] = %v, want %v", i, y.At(i, 0), w)
		}
	}
}
