package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carprice/internal/data"
)

func loadRawRows(t *testing.T, n int, seed int64) [][]string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.csv")
	require.NoError(t, data.GenerateSyntheticListings(n, seed, path))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Trees = 25
	cfg.BootstrapIters = 60
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	rows := loadRawRows(t, 400, 12)
	rep, err := Run(rows, smallConfig(), zap.NewNop())
	require.NoError(t, err)

	// stage accounting holds together
	require.Equal(t, rep.Extract.Rows, rep.Missing.Original)
	require.Equal(t, rep.Missing.Retained, len(rep.CompleteCases))
	require.Equal(t, rep.Missing.Original, rep.Missing.Retained+rep.Missing.Removed)
	require.Equal(t, rep.Outliers.Original, len(rep.CompleteCases))
	require.Equal(t, rep.Outliers.Retained+rep.Outliers.Removed, rep.Outliers.Original)
	require.Equal(t, len(rep.Final), rep.Outliers.Retained)
	for _, r := range rep.CompleteCases {
		require.True(t, r.Complete())
	}

	entries := rep.Table.Entries()
	require.Len(t, entries, 5)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
		require.True(t, e.Available, "%s: %s", e.Name, e.Reason)
		require.GreaterOrEqual(t, e.Row.RMSE, 0.0)
		require.GreaterOrEqual(t, e.Row.MAE, 0.0)
	}
	require.Equal(t, []string{
		"LinearRegression", "LogLinearRegression", "PolynomialRegression",
		"RandomForest", "DecisionTree",
	}, names)

	require.NotNil(t, rep.Bootstrap)
	require.Len(t, rep.Bootstrap.Coefficients, 60)
	require.Len(t, rep.Bootstrap.Mean, len(rep.FeatureNames)+1)
	require.Len(t, rep.Importance, len(rep.FeatureNames))
	require.GreaterOrEqual(t, rep.PolyDegree, 1)
	require.Len(t, rep.Models, 5)
}

func TestRunReproduciblePerSeed(t *testing.T) {
	rows := loadRawRows(t, 300, 8)
	cfg := smallConfig()

	a, err := Run(rows, cfg, zap.NewNop())
	require.NoError(t, err)
	b, err := Run(rows, cfg, zap.NewNop())
	require.NoError(t, err)

	require.Equal(t, a.Table.Entries(), b.Table.Entries())
	require.Equal(t, a.Bootstrap.Mean, b.Bootstrap.Mean)
	require.Equal(t, a.Importance, b.Importance)
	require.Equal(t, a.PolyDegree, b.PolyDegree)
}

func TestRunLogTargetUnavailableOnZeroPrice(t *testing.T) {
	rows := [][]string{{"brand", "model", "model_year", "milage", "engine", "accident", "price"}}
	for i := 0; i < 40; i++ {
		price := fmt.Sprintf("$%d,000", 10+i)
		if i == 0 {
			// log undefined, but still within three sigma of the mean, so
			// only the log-target fit should drop
			price = "$0"
		}
		rows = append(rows, []string{
			"Ford", "F-150",
			fmt.Sprintf("%d", 2005+i%15),
			fmt.Sprintf("%d mi.", 20000+1000*i),
			fmt.Sprintf("%d.0HP V6", 150+5*(i%10)),
			map[bool]string{true: "None reported", false: "At least 1 accident"}[i%3 != 0],
			price,
		})
	}

	rep, err := Run(rows, smallConfig(), zap.NewNop())
	require.NoError(t, err)

	e, ok := rep.Table.Lookup("LogLinearRegression")
	require.True(t, ok)
	require.False(t, e.Available)
	require.NotEmpty(t, e.Reason)
	require.Error(t, rep.FitErrors)

	lin, ok := rep.Table.Lookup("LinearRegression")
	require.True(t, ok)
	require.True(t, lin.Available)
}

func TestRunMissingColumnFatal(t *testing.T) {
	rows := [][]string{{"brand", "model", "milage", "engine", "accident", "price"}}
	_, err := Run(rows, DefaultConfig(), zap.NewNop())
	require.ErrorIs(t, err, data.ErrMissingColumn)
}

func TestRunHoldoutMode(t *testing.T) {
	rows := loadRawRows(t, 400, 3)
	cfg := smallConfig()
	cfg.Holdout = 0.25

	rep, err := Run(rows, cfg, zap.NewNop())
	require.NoError(t, err)
	for _, e := range rep.Table.Entries() {
		require.True(t, e.Available, "%s: %s", e.Name, e.Reason)
	}
}

func TestSummarize(t *testing.T) {
	rows := loadRawRows(t, 300, 19)
	cfg := smallConfig()
	rep, err := Run(rows, cfg, zap.NewNop())
	require.NoError(t, err)

	s := Summarize(rep, cfg)
	require.True(t, s.InSample)
	require.Len(t, s.Comparison, 5)
	require.Len(t, s.Bootstrap, len(rep.FeatureNames)+1)
	require.Equal(t, "Intercept", s.Bootstrap[0].Name)
	require.Equal(t, rep.FeatureNames, s.FeatureNames)
	require.NotNil(t, s.OOBRMSE)
}
