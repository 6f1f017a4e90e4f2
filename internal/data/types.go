package data

import "math"

// Record is one used-car listing. Numeric fields are pointers so that a value
// that was missing or unparseable in the raw file stays distinguishable from
// zero until the missing-data filter runs.
type Record struct {
	Brand      string
	Model      string
	ModelYear  *int
	Mileage    *int
	Horsepower *float64
	Accident   *int
	Price      *int
}

// Complete reports whether no field of the record is null.
func (r Record) Complete() bool {
	return r.ModelYear != nil && r.Mileage != nil && r.Horsepower != nil &&
		r.Accident != nil && r.Price != nil
}

// Dataset is an ordered sequence of records. Each pipeline stage produces a
// new Dataset; none mutates its input.
type Dataset []Record

// Column accessors return one value per record, in record order. A null field
// yields NaN; stages that consume these run after the missing-data filter.

func (ds Dataset) Prices() []float64 {
	out := make([]float64, len(ds))
	for i, r := range ds {
		out[i] = intOrNaN(r.Price)
	}
	return out
}

func (ds Dataset) Mileages() []float64 {
	out := make([]float64, len(ds))
	for i, r := range ds {
		out[i] = intOrNaN(r.Mileage)
	}
	return out
}

func (ds Dataset) Horsepowers() []float64 {
	out := make([]float64, len(ds))
	for i, r := range ds {
		if r.Horsepower == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *r.Horsepower
		}
	}
	return out
}

func (ds Dataset) ModelYears() []float64 {
	out := make([]float64, len(ds))
	for i, r := range ds {
		out[i] = intOrNaN(r.ModelYear)
	}
	return out
}

func (ds Dataset) Accidents() []float64 {
	out := make([]float64, len(ds))
	for i, r := range ds {
		out[i] = intOrNaN(r.Accident)
	}
	return out
}

func intOrNaN(p *int) float64 {
	if p == nil {
		return math.NaN()
	}
	return float64(*p)
}
