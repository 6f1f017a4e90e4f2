package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// stepData is piecewise constant in its first feature: 10 below the step, 100
// above it. The second feature is irrelevant.
func stepData(n, step int) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		X[i] = []float64{float64(i), float64(i % 7)}
		if i <= step {
			y[i] = 10
		} else {
			y[i] = 100
		}
	}
	return X, y
}

func TestRegressionTreeLearnsStep(t *testing.T) {
	X, y := stepData(96, 47)

	tree := NewRegressionTree()
	tree.MinSamplesSplit = 4
	tree.MaxDepth = 3
	tree.MaxThresholdsPerFeature = 200 // exhaustive candidates on this size
	require.NoError(t, tree.Fit(X, y))

	root := tree.Root
	require.NotNil(t, root)
	require.False(t, root.IsLeaf)
	require.Equal(t, 0, root.Feature)
	require.GreaterOrEqual(t, root.Threshold, 47.0)
	require.Less(t, root.Threshold, 48.0)
	require.True(t, root.Left.IsLeaf)
	require.True(t, root.Right.IsLeaf)
	require.Equal(t, 10.0, root.Left.Value)
	require.Equal(t, 100.0, root.Right.Value)

	pred := tree.Predict([][]float64{{5, 0}, {90, 0}})
	require.Equal(t, []float64{10, 100}, pred)
}

func TestRegressionTreeSplitGainCredited(t *testing.T) {
	X, y := stepData(96, 47)
	tree := NewRegressionTree()
	tree.MaxThresholdsPerFeature = 200
	require.NoError(t, tree.Fit(X, y))

	require.Len(t, tree.Gains, 2)
	require.Greater(t, tree.Gains[0], 0.0)
	require.Equal(t, 0.0, tree.Gains[1])
}

func TestRegressionTreeConstantTargetIsLeaf(t *testing.T) {
	X := [][]float64{{1, 0}, {2, 0}, {3, 0}, {4, 0}}
	y := []float64{5, 5, 5, 5}
	tree := NewRegressionTree()
	tree.MinSamplesSplit = 2
	require.NoError(t, tree.Fit(X, y))
	require.True(t, tree.Root.IsLeaf)
	require.Equal(t, 5.0, tree.Root.Value)
}

func TestRegressionTreePredictionLength(t *testing.T) {
	X, y := stepData(50, 24)
	tree := NewRegressionTree()
	require.NoError(t, tree.Fit(X, y))
	require.Len(t, tree.Predict(X), len(X))
}
