package features

import (
	"testing"

	"github.com/stretchr/testify/require"

	"carprice/internal/data"
)

func completeRecord(year, mileage int, hp float64, accident, price int) data.Record {
	return data.Record{
		ModelYear:  &year,
		Mileage:    &mileage,
		Horsepower: &hp,
		Accident:   &accident,
		Price:      &price,
	}
}

func TestMatrixLayout(t *testing.T) {
	ds := data.Dataset{
		completeRecord(2018, 10000, 300, 0, 31000),
		completeRecord(2012, 85000, 180, 1, 9000),
	}
	X, names := Matrix(ds)

	require.Equal(t, []string{"Mileage", "Horsepower", "Accident", "ModelYear"}, names)
	require.Len(t, X, 2)
	require.Equal(t, []float64{10000, 300, 0, 2018}, X[0])
	require.Equal(t, []float64{85000, 180, 1, 2012}, X[1])
}

func TestExpandPolynomial(t *testing.T) {
	X := [][]float64{{2, 3, 1, 2010}}
	names := []string{"Mileage", "Horsepower", "Accident", "ModelYear"}

	Xd, outNames := ExpandPolynomial(X, names, 2, 3)
	require.Equal(t, []string{
		"Mileage", "Mileage^2", "Mileage^3",
		"Horsepower", "Horsepower^2", "Horsepower^3",
		"Accident", "ModelYear",
	}, outNames)
	require.Equal(t, []float64{2, 4, 8, 3, 9, 27, 1, 2010}, Xd[0])
}

func TestExpandPolynomialDegreeOneIsBaseMatrix(t *testing.T) {
	X := [][]float64{{5, 7, 0, 2015}, {1, 2, 1, 2020}}
	names := []string{"Mileage", "Horsepower", "Accident", "ModelYear"}

	Xd, outNames := ExpandPolynomial(X, names, 2, 1)
	require.Equal(t, names, outNames)
	require.Equal(t, X, Xd)
}
