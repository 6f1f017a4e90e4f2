package models

import (
	"math"
	"math/rand"
	"sort"
)

// TreeNode is one node of a fitted regression tree. Internal nodes split on
// Feature at Threshold; leaves predict Value, the mean target of the records
// that reached them. The structure is exported for inspection and gob.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	IsLeaf    bool
	Value     float64
}

// RegressionTree fits a single binary regression tree by minimizing the sum
// of squared errors of each split.
type RegressionTree struct {
	MaxDepth                int
	MinSamplesSplit         int
	MaxThresholdsPerFeature int
	// MaxFeatures limits how many features each split considers; zero or
	// negative means all of them.
	MaxFeatures int
	Seed        int64

	Root *TreeNode
	// Gains accumulates the SSE reduction credited to each feature across
	// all splits, the raw material for forest importances.
	Gains []float64

	rng *rand.Rand
}

func NewRegressionTree() *RegressionTree {
	return &RegressionTree{MaxDepth: 8, MinSamplesSplit: 20, MaxThresholdsPerFeature: 32, Seed: 1}
}

func (t *RegressionTree) Name() string { return "DecisionTree" }

func (t *RegressionTree) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(y) != len(X) {
		return ErrDegenerate
	}
	t.rng = rand.New(rand.NewSource(t.Seed))
	t.Gains = make([]float64, len(X[0]))
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.Root = t.build(X, y, idx, 0)
	return nil
}

func (t *RegressionTree) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = t.predictOne(X[i])
	}
	return out
}

func (t *RegressionTree) predictOne(x []float64) float64 {
	n := t.Root
	if n == nil {
		return 0
	}
	for !n.IsLeaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func (t *RegressionTree) build(X [][]float64, y []float64, idx []int, depth int) *TreeNode {
	mean, sse := meanSSE(y, idx)
	node := &TreeNode{}
	if len(idx) < t.MinSamplesSplit || depth >= t.MaxDepth || sse == 0 {
		node.IsLeaf = true
		node.Value = mean
		return node
	}

	bestFeature := -1
	bestThr := 0.0
	bestSSE := math.MaxFloat64
	var bestLeft, bestRight []int

	feats := t.pickFeatures(len(X[0]))
	for _, f := range feats {
		for _, thr := range quantileThresholds(X, idx, f, t.MaxThresholdsPerFeature) {
			lIdx, rIdx := partition(X, idx, f, thr)
			if len(lIdx) == 0 || len(rIdx) == 0 {
				continue
			}
			_, lSSE := meanSSE(y, lIdx)
			_, rSSE := meanSSE(y, rIdx)
			if lSSE+rSSE < bestSSE {
				bestSSE = lSSE + rSSE
				bestFeature = f
				bestThr = thr
				bestLeft = lIdx
				bestRight = rIdx
			}
		}
	}

	if bestFeature == -1 {
		node.IsLeaf = true
		node.Value = mean
		return node
	}
	t.Gains[bestFeature] += sse - bestSSE
	node.Feature = bestFeature
	node.Threshold = bestThr
	node.Left = t.build(X, y, bestLeft, depth+1)
	node.Right = t.build(X, y, bestRight, depth+1)
	return node
}

func (t *RegressionTree) pickFeatures(nFeats int) []int {
	all := make([]int, nFeats)
	for i := range all {
		all[i] = i
	}
	if t.MaxFeatures <= 0 || t.MaxFeatures >= nFeats {
		return all
	}
	t.rng.Shuffle(nFeats, func(i, j int) { all[i], all[j] = all[j], all[i] })
	out := make([]int, t.MaxFeatures)
	copy(out, all[:t.MaxFeatures])
	sort.Ints(out)
	return out
}

func meanSSE(y []float64, idx []int) (mean, sse float64) {
	for _, i := range idx {
		mean += y[i]
	}
	mean /= float64(len(idx))
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return mean, sse
}

func partition(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
	l := make([]int, 0, len(idx))
	r := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][f] <= thr {
			l = append(l, i)
		} else {
			r = append(r, i)
		}
	}
	return l, r
}

// quantileThresholds spreads up to maxC candidate cut points across the
// observed value distribution of one feature, deduplicated.
func quantileThresholds(X [][]float64, idx []int, f int, maxC int) []float64 {
	if maxC <= 0 {
		maxC = 16
	}
	vals := make([]float64, len(idx))
	for j, i := range idx {
		vals[j] = X[i][f]
	}
	sort.Float64s(vals)
	n := len(vals)
	out := make([]float64, 0, maxC)
	for k := 1; k < maxC; k++ {
		i := int(math.Round(float64(k) / float64(maxC) * float64(n-1)))
		if i <= 0 || i >= n {
			continue
		}
		thr := vals[i]
		if len(out) == 0 || thr != out[len(out)-1] {
			out = append(out, thr)
		}
	}
	if len(out) == 0 && vals[0] != vals[n-1] {
		out = append(out, (vals[0]+vals[n-1])/2)
	}
	return out
}
