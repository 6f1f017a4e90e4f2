package models

import (
	"fmt"
	"math"
	"math/rand"

	"carprice/internal/features"
)

// PolynomialModel expands the leading ExpandCols features (mileage and
// horsepower in the pipeline's layout) to powers 1..d and keeps the rest
// linear. The degree is chosen by k-fold cross-validation on mean squared
// error; ties keep the lowest degree. Fold assignment is a seeded shuffle, so
// the same seed always selects from identical folds.
type PolynomialModel struct {
	MaxDegree  int
	Folds      int
	ExpandCols int
	Seed       int64

	FeatureNames   []string
	SelectedDegree int
	// CVErrors[d-1] is the average cross-validation MSE of degree d.
	CVErrors []float64
	Lin      *LinearModel
}

func NewPolynomialModel(featureNames []string) *PolynomialModel {
	return &PolynomialModel{
		MaxDegree:    5,
		Folds:        10,
		ExpandCols:   2,
		Seed:         1,
		FeatureNames: featureNames,
	}
}

func (m *PolynomialModel) Name() string { return "PolynomialRegression" }

// Degree returns the cross-validated degree chosen by Fit.
func (m *PolynomialModel) Degree() int { return m.SelectedDegree }

func (m *PolynomialModel) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n < m.Folds || m.Folds < 2 {
		return fmt.Errorf("%w: %d rows for %d-fold cross-validation", ErrDegenerate, n, m.Folds)
	}

	rng := rand.New(rand.NewSource(m.Seed))
	perm := rng.Perm(n)

	m.CVErrors = make([]float64, m.MaxDegree)
	for d := 1; d <= m.MaxDegree; d++ {
		Xd, _ := features.ExpandPolynomial(X, m.FeatureNames, m.ExpandCols, d)
		cv, err := m.crossValidate(Xd, y, perm)
		if err != nil {
			cv = math.Inf(1)
		}
		m.CVErrors[d-1] = cv
	}

	best := -1
	bestErr := math.Inf(1)
	for d := 1; d <= m.MaxDegree; d++ {
		if m.CVErrors[d-1] < bestErr {
			bestErr = m.CVErrors[d-1]
			best = d
		}
	}
	if best == -1 {
		return fmt.Errorf("%w: no degree produced a solvable design", ErrDegenerate)
	}
	m.SelectedDegree = best

	Xd, names := features.ExpandPolynomial(X, m.FeatureNames, m.ExpandCols, best)
	m.Lin = NewLinearModel(names)
	return m.Lin.Fit(Xd, y)
}

func (m *PolynomialModel) crossValidate(X [][]float64, y []float64, perm []int) (float64, error) {
	n := len(perm)
	k := m.Folds
	total := 0.0
	for f := 0; f < k; f++ {
		lo := f * n / k
		hi := (f + 1) * n / k
		test := perm[lo:hi]
		train := make([]int, 0, n-len(test))
		train = append(train, perm[:lo]...)
		train = append(train, perm[hi:]...)

		Xtr := make([][]float64, len(train))
		ytr := make([]float64, len(train))
		for i, idx := range train {
			Xtr[i] = X[idx]
			ytr[i] = y[idx]
		}
		lin := NewLinearModel(nil)
		if err := lin.Fit(Xtr, ytr); err != nil {
			return 0, err
		}

		Xte := make([][]float64, len(test))
		for i, idx := range test {
			Xte[i] = X[idx]
		}
		pred := lin.Predict(Xte)
		mse := 0.0
		for i, idx := range test {
			d := pred[i] - y[idx]
			mse += d * d
		}
		total += mse / float64(len(test))
	}
	return total / float64(k), nil
}

func (m *PolynomialModel) Predict(X [][]float64) []float64 {
	Xd, _ := features.ExpandPolynomial(X, m.FeatureNames, m.ExpandCols, m.SelectedDegree)
	return m.Lin.Predict(Xd)
}
