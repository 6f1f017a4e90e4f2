package models

import (
	"math"
	"math/rand"
)

// RandomForest averages many regression trees, each fitted on a bootstrap
// sample with a random feature subset per split. Importance and OOBRMSE are
// filled in by Fit.
type RandomForest struct {
	NEstimators             int
	MaxDepth                int
	MinSamples              int
	MaxThresholdsPerFeature int
	// MaxFeatures per split; zero means sqrt of the feature count.
	MaxFeatures int
	Seed        int64

	Trees []*RegressionTree
	// Importance is the normalized share of total SSE reduction credited to
	// each feature across the whole ensemble; entries sum to 1.
	Importance []float64
	// OOBRMSE is the root mean squared error of out-of-bag predictions, the
	// forest's aggregate out-of-sample error estimate. NaN if no row was
	// ever out of bag.
	OOBRMSE float64
}

func NewRandomForest() *RandomForest {
	return &RandomForest{
		NEstimators:             500,
		MaxDepth:                8,
		MinSamples:              20,
		MaxThresholdsPerFeature: 32,
		Seed:                    1,
	}
}

func (rf *RandomForest) Name() string { return "RandomForest" }

func (rf *RandomForest) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || len(y) != n {
		return ErrDegenerate
	}
	if rf.NEstimators <= 0 {
		rf.NEstimators = 500
	}
	nFeats := len(X[0])
	maxFeats := rf.MaxFeatures
	if maxFeats <= 0 {
		maxFeats = int(math.Max(1, math.Round(math.Sqrt(float64(nFeats)))))
	}

	rng := rand.New(rand.NewSource(rf.Seed))
	rf.Trees = make([]*RegressionTree, 0, rf.NEstimators)
	gains := make([]float64, nFeats)
	oobSum := make([]float64, n)
	oobCount := make([]int, n)

	inBag := make([]bool, n)
	for k := 0; k < rf.NEstimators; k++ {
		for i := range inBag {
			inBag[i] = false
		}
		Xb := make([][]float64, n)
		yb := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			Xb[i] = X[j]
			yb[i] = y[j]
			inBag[j] = true
		}

		t := NewRegressionTree()
		t.MaxDepth = rf.MaxDepth
		t.MinSamplesSplit = rf.MinSamples
		t.MaxThresholdsPerFeature = rf.MaxThresholdsPerFeature
		t.MaxFeatures = maxFeats
		t.Seed = rng.Int63()
		if err := t.Fit(Xb, yb); err != nil {
			return err
		}
		rf.Trees = append(rf.Trees, t)
		for f, g := range t.Gains {
			gains[f] += g
		}
		for i := 0; i < n; i++ {
			if !inBag[i] {
				oobSum[i] += t.predictOne(X[i])
				oobCount[i]++
			}
		}
	}

	total := 0.0
	for _, g := range gains {
		total += g
	}
	rf.Importance = make([]float64, nFeats)
	if total > 0 {
		for f, g := range gains {
			rf.Importance[f] = g / total
		}
	}

	var sse float64
	covered := 0
	for i := 0; i < n; i++ {
		if oobCount[i] == 0 {
			continue
		}
		d := oobSum[i]/float64(oobCount[i]) - y[i]
		sse += d * d
		covered++
	}
	if covered == 0 {
		rf.OOBRMSE = math.NaN()
	} else {
		rf.OOBRMSE = math.Sqrt(sse / float64(covered))
	}
	return nil
}

func (rf *RandomForest) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(rf.Trees) == 0 {
		return out
	}
	for _, t := range rf.Trees {
		for i := range X {
			out[i] += t.predictOne(X[i])
		}
	}
	m := float64(len(rf.Trees))
	for i := range out {
		out[i] /= m
	}
	return out
}

// Importances returns a copy of the per-feature importance scores.
func (rf *RandomForest) Importances() []float64 {
	out := make([]float64, len(rf.Importance))
	copy(out, rf.Importance)
	return out
}
