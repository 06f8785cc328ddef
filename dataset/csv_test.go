package dataset

import (
	"math"
	"strings"
	"testing"
)

const testHeader = "instance_id,artist_name,track_name,popularity,acousticness,danceability,duration_ms,energy,instrumentalness,key,liveness,loudness,mode,speechiness,tempo,obtained_date,valence,music_genre"

func testCSV(rows ...string) string {
	return testHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func TestReadCSV(t *testing.T) {
	data := testCSV(
		"1,AC/DC,Thunderstruck,82,0.01,0.53,292880,0.89,0.012,B,0.36,-5.2,Major,0.09,133.5,4-Apr,0.52,Rock",
		"2,Dolly Parton,Jolene,77,0.58,0.62,162000,0.47,0.0,C#,0.11,-9.1,Minor,0.03,110.0,4-Apr,0.81,Country",
	)

	ds, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ds.Len())
	}

	r := ds.Records[0]
	if r.Genre != "Rock" {
		t.Errorf("Genre = %q, want Rock", r.Genre)
	}
	if r.Key != 11 {
		t.Errorf("Key = %v, want 11 (B)", r.Key)
	}
	if r.Mode != 1 {
		t.Errorf("Mode = %v, want 1 (Major)", r.Mode)
	}
	if r.DurationMS != 292880 {
		t.Errorf("DurationMS = %v, want 292880", r.DurationMS)
	}

	r2 := ds.Records[1]
	if r2.Key != 1 {
		t.Errorf("Key = %v, want 1 (C#)", r2.Key)
	}
	if r2.Mode != 0 {
		t.Errorf("Mode = %v, want 0 (Minor)", r2.Mode)
	}
}

func TestReadCSVMissingCells(t *testing.T) {
	data := testCSV(
		"1,A,B,50,?,0.5,,0.5,0.1,G,0.2,-7.0,Major,0.04,120.0,4-Apr,0.5,Rock",
	)

	ds, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	r := ds.Records[0]
	if !math.IsNaN(r.Acousticness) {
		t.Errorf("Acousticness = %v, want NaN for '?'", r.Acousticness)
	}
	if !math.IsNaN(r.DurationMS) {
		t.Errorf("DurationMS = %v, want NaN for empty cell", r.DurationMS)
	}
	if !r.HasMissing() {
		t.Error("HasMissing() = false, want true")
	}
}

func TestReadCSVShortRow(t *testing.T) {
	data := testCSV(
		"1,A,B,50,0.1,0.5,180000,0.5,0.1,G,0.2,-7.0,Major,0.04,120.0,4-Apr,0.5,Rock",
		"2,too short",
	)

	_, err := ReadCSV(strings.NewReader(data))
	if err == nil {
		t.Fatal("ReadCSV() should reject a row with too few fields")
	}
	if !strings.Contains(err.Error(), "too few fields") {
		t.Errorf("error = %v, want a too-few-fields data error", err)
	}
}

func TestReadCSVMissingGenreColumn(t *testing.T) {
	data := "acousticness,danceability\n0.1,0.2\n"
	if _, err := ReadCSV(strings.NewReader(data)); err == nil {
		t.Error("ReadCSV() without music_genre column should fail")
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader(testHeader + "\n")); err == nil {
		t.Error("ReadCSV() with no data rows should fail")
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		cell string
		want float64
	}{
		{"C", 0},
		{"C#", 1},
		{"Db", 1},
		{"A#", 10},
		{"B", 11},
		{"7", 7},
	}
	for _, tt := range tests {
		if got := parseKey(tt.cell); got != tt.want {
			t.Errorf("parseKey(%q) = %v, want %v", tt.cell, got, tt.want)
		}
	}
	if got := parseKey("H"); !math.IsNaN(got) {
		t.Errorf("parseKey(\"H\") = %v, want NaN", got)
	}
	if got := parseKey("13"); !math.IsNaN(got) {
		t.Errorf("parseKey(\"13\") = %v, want NaN", got)
	}
}

func TestParseMode(t *testing.T) {
	if got := parseMode("Major"); got != 1 {
		t.Errorf("parseMode(Major) = %v, want 1", got)
	}
	if got := parseMode("minor"); got != 0 {
		t.Errorf("parseMode(minor) = %v, want 0", got)
	}
	if got := parseMode("dorian"); !math.IsNaN(got) {
		t.Errorf("parseMode(dorian) = %v, want NaN", got)
	}
}
