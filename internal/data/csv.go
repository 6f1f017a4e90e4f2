package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// csvHeader is the deterministic column order of persisted datasets.
var csvHeader = []string{"Brand", "Model", "Model_year", "Mileage", "Horsepower", "Accident", "Price"}

// WriteCSV persists a dataset as tabular text, one row per record. Null
// fields become empty cells, so both the cleaned (with nulls) and the
// complete-case datasets use the same format.
func WriteCSV(path string, ds Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range ds {
		rec := []string{
			r.Brand,
			r.Model,
			formatInt(r.ModelYear),
			formatInt(r.Mileage),
			formatFloat(r.Horsepower),
			formatInt(r.Accident),
			formatInt(r.Price),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadCSV reads a dataset previously written by WriteCSV. Empty cells read
// back as null fields.
func ReadCSV(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDataset)
	}
	if len(rows[0]) != len(csvHeader) {
		return nil, fmt.Errorf("%s: expected %d columns, got %d", path, len(csvHeader), len(rows[0]))
	}

	ds := make(Dataset, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := Record{Brand: row[0], Model: row[1]}
		r.ModelYear = parseIntCell(row[2])
		r.Mileage = parseIntCell(row[3])
		r.Horsepower = parseFloatCell(row[4])
		r.Accident = parseIntCell(row[5])
		r.Price = parseIntCell(row[6])
		ds = append(ds, r)
	}
	return ds, nil
}

func formatInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func formatFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func parseIntCell(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatCell(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
