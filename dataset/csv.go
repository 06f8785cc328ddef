package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tunelab/genreclf/pkg/errors"
)

// Column names recognized in the input table. Identifier and free-text
// columns are listed so they can be skipped explicitly; every other unknown
// column is ignored.
const (
	colGenre = "music_genre"
)

var droppedColumns = map[string]bool{
	"instance_id":   true,
	"track_id":      true,
	"artist_name":   true,
	"track_name":    true,
	"obtained_date": true,
}

// Pitch-class encoding for the key column. The input table carries note
// names; records with an unrecognized key get NaN and fall through to
// imputation or row dropping.
var pitchClass = map[string]float64{
	"C": 0, "C#": 1, "Db": 1,
	"D": 2, "D#": 3, "Eb": 3,
	"E": 4,
	"F": 5, "F#": 6, "Gb": 6,
	"G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10,
	"B": 11,
}

// LoadCSV reads the track feature table from a CSV file.
// The file must have a header row including a music_genre column.
// Unparseable or empty numeric cells become NaN rather than failing the
// load; downstream cleaning decides whether to drop or impute them.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening dataset %s", path)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV reads the track feature table from an io.Reader in CSV format.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading CSV header")
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(strings.ToLower(name))] = i
	}

	if _, ok := colIdx[colGenre]; !ok {
		return nil, errors.NewDataError("LoadCSV", colGenre, -1, "required column not found")
	}
	for _, name := range FeatureNames {
		if _, ok := colIdx[name]; !ok {
			return nil, errors.NewDataError("LoadCSV", name, -1, "required column not found")
		}
	}

	// Highest index any required column lives at. Rows shorter than this
	// are malformed; FieldsPerRecord is disabled so they reach us here.
	maxIdx := colIdx[colGenre]
	for _, name := range FeatureNames {
		if colIdx[name] > maxIdx {
			maxIdx = colIdx[name]
		}
	}

	ds := &Dataset{}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading CSV row %d", rowNum+1)
		}
		rowNum++

		if len(row) <= maxIdx {
			return nil, errors.NewDataError("LoadCSV", "", rowNum,
				"row has too few fields")
		}

		rec := Record{Genre: strings.TrimSpace(row[colIdx[colGenre]])}
		vals := make([]float64, NumFeatures)
		for j, name := range FeatureNames {
			cell := strings.TrimSpace(row[colIdx[name]])
			switch name {
			case "key":
				vals[j] = parseKey(cell)
			case "mode":
				vals[j] = parseMode(cell)
			default:
				vals[j] = parseNumeric(cell)
			}
		}
		rec.SetFeatures(vals)
		ds.Records = append(ds.Records, rec)
	}

	if ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "LoadCSV")
	}
	return ds, nil
}

// parseNumeric parses a numeric cell, mapping empty cells and the dataset's
// "?" placeholder to NaN.
func parseNumeric(cell string) float64 {
	if cell == "" || cell == "?" || cell == "NA" || cell == "NaN" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseKey maps a key cell to its pitch class. Both note names ("A#") and
// pre-encoded integers are accepted.
func parseKey(cell string) float64 {
	if v, ok := pitchClass[cell]; ok {
		return v
	}
	v := parseNumeric(cell)
	if v >= 0 && v <= 11 {
		return v
	}
	return math.NaN()
}

// parseMode maps a mode cell to Major=1, Minor=0.
func parseMode(cell string) float64 {
	switch strings.ToLower(cell) {
	case "major":
		return 1
	case "minor":
		return 0
	}
	v := parseNumeric(cell)
	if v == 0 || v == 1 {
		return v
	}
	return math.NaN()
}
