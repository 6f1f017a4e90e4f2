package pipeline

import (
	"math"

	"carprice/internal/data"
	"carprice/internal/metrics"
)

// Summary is the JSON-friendly slice of a Report that the report viewer
// consumes. Undefined floats (NaN) are rendered as null.
type Summary struct {
	Extract      data.ExtractReport  `json:"extract"`
	Missing      data.FilterReport   `json:"missing_filter"`
	Outliers     data.FilterReport   `json:"outlier_filter"`
	FeatureNames []string            `json:"feature_names"`
	Comparison   []metrics.Entry     `json:"comparison"`
	Bootstrap    []CoefficientBounds `json:"bootstrap,omitempty"`
	Importance   []float64           `json:"importance,omitempty"`
	OOBRMSE      *float64            `json:"oob_rmse,omitempty"`
	CVErrors     []float64           `json:"cv_errors,omitempty"`
	PolyDegree   int                 `json:"poly_degree,omitempty"`
	InSample     bool                `json:"in_sample"`
}

// CoefficientBounds is one coefficient's bootstrap interval.
type CoefficientBounds struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Summarize flattens a report for persistence and serving.
func Summarize(rep *Report, cfg Config) Summary {
	s := Summary{
		Extract:      rep.Extract,
		Missing:      rep.Missing,
		Outliers:     rep.Outliers,
		FeatureNames: rep.FeatureNames,
		Comparison:   rep.Table.Entries(),
		Importance:   rep.Importance,
		CVErrors:     rep.CVErrors,
		PolyDegree:   rep.PolyDegree,
		InSample:     cfg.Holdout <= 0,
	}
	if !math.IsNaN(rep.OOBRMSE) {
		oob := rep.OOBRMSE
		s.OOBRMSE = &oob
	}
	if rep.Bootstrap != nil {
		names := append([]string{"Intercept"}, rep.FeatureNames...)
		for j := range rep.Bootstrap.Mean {
			name := ""
			if j < len(names) {
				name = names[j]
			}
			s.Bootstrap = append(s.Bootstrap, CoefficientBounds{
				Name:  name,
				Mean:  rep.Bootstrap.Mean[j],
				Lower: rep.Bootstrap.Lower[j],
				Upper: rep.Bootstrap.Upper[j],
			})
		}
	}
	return s
}
