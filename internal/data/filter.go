package data

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// FilterReport accounts for one filtering stage. Retained+Removed == Original.
type FilterReport struct {
	Original int
	Retained int
	Removed  int
}

// Complete keeps only records with no null field.
func Complete(ds Dataset) (Dataset, FilterReport) {
	out := make(Dataset, 0, len(ds))
	for _, r := range ds {
		if r.Complete() {
			out = append(out, r)
		}
	}
	rep := FilterReport{Original: len(ds), Retained: len(out), Removed: len(ds) - len(out)}
	return out, rep
}

// zScoreLimit is the cutoff beyond which a record counts as an outlier.
const zScoreLimit = 3.0

// FilterOutliers removes records more than three standard deviations from the
// mean on any of price, mileage or horsepower. Mean and sample standard
// deviation are computed once over the input, not re-estimated as records
// drop out. The removed subset is returned for inspection. A field with zero
// standard deviation never flags a record, since its z-score is undefined.
func FilterOutliers(ds Dataset) (kept, removed Dataset, err error) {
	if len(ds) == 0 {
		return nil, nil, ErrEmptyDataset
	}
	cols := [][]float64{ds.Prices(), ds.Mileages(), ds.Horsepowers()}
	means := make([]float64, len(cols))
	sigmas := make([]float64, len(cols))
	for c, col := range cols {
		means[c] = stat.Mean(col, nil)
		sigmas[c] = stat.StdDev(col, nil)
	}

	kept = make(Dataset, 0, len(ds))
	removed = make(Dataset, 0)
	for i, r := range ds {
		outlier := false
		for c := range cols {
			if sigmas[c] == 0 || math.IsNaN(sigmas[c]) {
				continue
			}
			z := (cols[c][i] - means[c]) / sigmas[c]
			if math.Abs(z) > zScoreLimit {
				outlier = true
				break
			}
		}
		if outlier {
			removed = append(removed, r)
		} else {
			kept = append(kept, r)
		}
	}
	return kept, removed, nil
}
