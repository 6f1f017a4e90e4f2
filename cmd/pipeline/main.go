package main

import (
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"go.uber.org/zap"

	"carprice/internal/data"
	"carprice/internal/features"
	"carprice/internal/pipeline"
	"carprice/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	dataPath := flag.String("data", "data/used_cars.csv", "Raw listings CSV")
	outDir := flag.String("out", "out", "Output directory")
	gen := flag.Bool("gen", false, "Generate a synthetic dataset at -data first")
	n := flag.Int("n", 4000, "Synthetic rows when -gen is set")
	seed := flag.Int64("seed", 42, "Seed for cross-validation folds, bootstrap and forest")
	boot := flag.Int("boot", 1000, "Bootstrap resamples")
	trees := flag.Int("trees", 500, "Random forest trees")
	holdout := flag.Float64("holdout", 0, "Optional evaluation fraction; 0 evaluates in-sample as the source analysis does")
	anyCase := flag.Bool("accident_any_case", false, "Match the accident \"None\" marker case-insensitively")
	plots := flag.Bool("plots", true, "Render diagnostic PNGs")
	flag.Parse()

	if *gen {
		logger.Info("generating synthetic listings", zap.Int("n", *n), zap.String("path", *dataPath))
		if err := data.GenerateSyntheticListings(*n, *seed, *dataPath); err != nil {
			logger.Fatal("generate dataset", zap.Error(err))
		}
	}

	f, err := os.Open(*dataPath)
	if err != nil {
		logger.Fatal("open input", zap.Error(err))
	}
	rows, err := csv.NewReader(f).ReadAll()
	f.Close()
	if err != nil {
		logger.Fatal("read input", zap.Error(err))
	}

	cfg := pipeline.DefaultConfig()
	cfg.Seed = *seed
	cfg.BootstrapIters = *boot
	cfg.Trees = *trees
	cfg.Holdout = *holdout
	cfg.MatchAccidentAnyCase = *anyCase

	rep, err := pipeline.Run(rows, cfg, logger)
	if err != nil {
		logger.Fatal("pipeline run", zap.Error(err))
	}

	if err := data.WriteCSV(filepath.Join(*outDir, "cleaned.csv"), rep.Cleaned); err != nil {
		logger.Fatal("write cleaned dataset", zap.Error(err))
	}
	if err := data.WriteCSV(filepath.Join(*outDir, "complete_cases.csv"), rep.CompleteCases); err != nil {
		logger.Fatal("write complete-case dataset", zap.Error(err))
	}
	if err := writeComparisonCSV(filepath.Join(*outDir, "comparison.csv"), rep); err != nil {
		logger.Fatal("write comparison table", zap.Error(err))
	}
	if err := writeSummaryJSON(filepath.Join(*outDir, "report.json"), rep, cfg); err != nil {
		logger.Fatal("write report", zap.Error(err))
	}
	if err := saveModels(filepath.Join(*outDir, "models"), rep); err != nil {
		logger.Fatal("save models", zap.Error(err))
	}

	if *plots {
		if err := plotCVCurve(filepath.Join(*outDir, "cv_curve.png"), rep.CVErrors); err != nil {
			logger.Warn("cv curve plot", zap.Error(err))
		}
		if err := plotPredictedVsActual(filepath.Join(*outDir, "predicted_vs_actual.png"), rep); err != nil {
			logger.Warn("predicted-vs-actual plot", zap.Error(err))
		}
	}

	for _, e := range rep.Table.Entries() {
		if e.Available {
			fmt.Printf("%-22s RMSE=%.2f MAE=%.2f R2=%.4f\n", e.Name, e.Row.RMSE, e.Row.MAE, e.Row.R2)
		} else {
			fmt.Printf("%-22s unavailable: %s\n", e.Name, e.Reason)
		}
	}
}

func writeComparisonCSV(path string, rep *pipeline.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"model", "rmse", "mae", "r2", "available", "reason"}); err != nil {
		return err
	}
	for _, e := range rep.Table.Entries() {
		r2 := ""
		if e.Available && e.Row.R2Defined() {
			r2 = fmt.Sprintf("%.6f", e.Row.R2)
		}
		rec := []string{
			e.Name,
			fmt.Sprintf("%.6f", e.Row.RMSE),
			fmt.Sprintf("%.6f", e.Row.MAE),
			r2,
			fmt.Sprintf("%t", e.Available),
			e.Reason,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeSummaryJSON(path string, rep *pipeline.Report, cfg pipeline.Config) error {
	b, err := json.MarshalIndent(pipeline.Summarize(rep, cfg), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func saveModels(dir string, rep *pipeline.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, m := range rep.Models {
		path := filepath.Join(dir, strings.ToLower(name)+".gob")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = gob.NewEncoder(f).Encode(m)
		f.Close()
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
	}
	return nil
}

func plotCVCurve(path string, cvErrors []float64) error {
	if len(cvErrors) == 0 {
		return nil
	}
	p := plot.New()
	p.Title.Text = "Polynomial Degree Selection"
	p.X.Label.Text = "Degree"
	p.Y.Label.Text = "Cross-validation MSE"

	pts := make(plotter.XYs, len(cvErrors))
	for i, e := range cvErrors {
		pts[i].X = float64(i + 1)
		pts[i].Y = e
	}
	if err := plotutil.AddLinePoints(p, "CV error", pts); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

func plotPredictedVsActual(path string, rep *pipeline.Report) error {
	best := ""
	bestRMSE := 0.0
	for _, e := range rep.Table.Entries() {
		if !e.Available {
			continue
		}
		if best == "" || e.Row.RMSE < bestRMSE {
			best = e.Name
			bestRMSE = e.Row.RMSE
		}
	}
	m, ok := rep.Models[best]
	if !ok {
		return nil
	}

	X, _ := features.Matrix(rep.Final)
	pred := m.Predict(X)
	actual := rep.Final.Prices()

	p := plot.New()
	p.Title.Text = "Predicted vs Actual Price (" + best + ")"
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	pts := make(plotter.XYs, len(actual))
	for i := range actual {
		pts[i].X = actual[i]
		pts[i].Y = pred[i]
	}
	if err := plotutil.AddScatters(p, best, pts); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}
