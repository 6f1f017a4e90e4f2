package data

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrMissingColumn means a required column is absent from the header.
	ErrMissingColumn = errors.New("required column missing")
	// ErrEmptyDataset means a stage that needs records received none.
	ErrEmptyDataset = errors.New("empty dataset")
)

// RequiredColumns are the raw header names the extractor maps, lowercased.
// "milage" is the spelling used by the source dataset.
var RequiredColumns = []string{"brand", "model", "model_year", "milage", "engine", "accident", "price"}

// ExtractOptions control the parts of extraction the source leaves ambiguous.
type ExtractOptions struct {
	// MatchAccidentAnyCase relaxes the "None" containment check on the
	// accident column to be case-insensitive. The source matches
	// case-sensitively, so the default preserves that.
	MatchAccidentAnyCase bool
}

// ExtractReport counts per-field parse failures. A failed parse nulls the
// field and never aborts the run.
type ExtractReport struct {
	Rows          int
	BadModelYear  int
	BadMileage    int
	BadHorsepower int
	BadPrice      int
	EmptyAccident int
}

var (
	horsepowerRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)HP`)
	nonDigitRe   = regexp.MustCompile(`\D`)
)

// Extract turns raw CSV rows (header first) into a typed Dataset. Malformed
// fields resolve to null and are tallied in the report; only a missing
// required column is fatal.
func Extract(rows [][]string, opts ExtractOptions) (Dataset, ExtractReport, error) {
	var rep ExtractReport
	if len(rows) == 0 {
		return nil, rep, fmt.Errorf("no header row: %w", ErrEmptyDataset)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range RequiredColumns {
		if _, ok := col[name]; !ok {
			return nil, rep, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	ds := make(Dataset, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := Record{
			Brand: strings.TrimSpace(row[col["brand"]]),
			Model: strings.TrimSpace(row[col["model"]]),
		}
		if y, err := strconv.Atoi(strings.TrimSpace(row[col["model_year"]])); err == nil {
			r.ModelYear = &y
		} else {
			rep.BadModelYear++
		}
		if m, ok := parseDigits(row[col["milage"]]); ok {
			r.Mileage = &m
		} else {
			rep.BadMileage++
		}
		if hp, ok := parseHorsepower(row[col["engine"]]); ok {
			r.Horsepower = &hp
		} else {
			rep.BadHorsepower++
		}
		if p, ok := parseDigits(row[col["price"]]); ok {
			r.Price = &p
		} else {
			rep.BadPrice++
		}
		if a, ok := parseAccident(row[col["accident"]], opts); ok {
			r.Accident = &a
		} else {
			rep.EmptyAccident++
		}
		ds = append(ds, r)
		rep.Rows++
	}
	return ds, rep, nil
}

// ExtractOne runs the extractor on a single raw row with the given header.
func ExtractOne(header, row []string, opts ExtractOptions) (Record, error) {
	ds, _, err := Extract([][]string{header, row}, opts)
	if err != nil {
		return Record{}, err
	}
	return ds[0], nil
}

// parseDigits strips every non-digit character and parses what remains, so
// "10,000 mi." and "$4,999" both come out as plain integers.
func parseDigits(raw string) (int, bool) {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return 0, false
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseHorsepower(engine string) (float64, bool) {
	m := horsepowerRe.FindStringSubmatch(engine)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseAccident(raw string, opts ExtractOptions) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	none := "None"
	if opts.MatchAccidentAnyCase {
		s = strings.ToLower(s)
		none = "none"
	}
	if strings.Contains(s, none) {
		return 0, true
	}
	return 1, true
}
