package features

import (
	"fmt"

	"carprice/internal/data"
)

// Matrix builds the base design matrix over the four predictors, one row per
// record in record order. Accident is a two-level 0/1 indicator. Records must
// be complete cases.
func Matrix(ds data.Dataset) ([][]float64, []string) {
	names := []string{"Mileage", "Horsepower", "Accident", "ModelYear"}
	X := make([][]float64, len(ds))
	for i, r := range ds {
		X[i] = []float64{
			float64(*r.Mileage),
			*r.Horsepower,
			float64(*r.Accident),
			float64(*r.ModelYear),
		}
	}
	return X, names
}

// ExpandPolynomial raises the first expand columns of X to powers 1..degree,
// keeping the remaining columns linear. Column order is all powers of the
// expanded features first, then the untouched tail, matching the base layout
// produced by Matrix when degree is 1.
func ExpandPolynomial(X [][]float64, names []string, expand, degree int) ([][]float64, []string) {
	if degree < 1 {
		degree = 1
	}
	if expand > len(names) {
		expand = len(names)
	}
	outNames := make([]string, 0, expand*degree+len(names)-expand)
	for j := 0; j < expand; j++ {
		for d := 1; d <= degree; d++ {
			if d == 1 {
				outNames = append(outNames, names[j])
			} else {
				outNames = append(outNames, fmt.Sprintf("%s^%d", names[j], d))
			}
		}
	}
	outNames = append(outNames, names[expand:]...)

	out := make([][]float64, len(X))
	for i, row := range X {
		exp := make([]float64, 0, len(outNames))
		for j := 0; j < expand; j++ {
			v := row[j]
			p := 1.0
			for d := 1; d <= degree; d++ {
				p *= v
				exp = append(exp, p)
			}
		}
		exp = append(exp, row[expand:]...)
		out[i] = exp
	}
	return out, outNames
}
