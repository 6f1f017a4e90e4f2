package pipeline

import (
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"carprice/internal/data"
	"carprice/internal/features"
	"carprice/internal/metrics"
	"carprice/internal/models"
)

// Config carries every knob of a single end-to-end run.
type Config struct {
	Seed           int64
	BootstrapIters int
	Trees          int
	Folds          int
	MaxDegree      int
	Confidence     float64
	// MatchAccidentAnyCase relaxes the accident "None" match; the source
	// matches case-sensitively, so the default keeps that behavior.
	MatchAccidentAnyCase bool
	// Holdout is the fraction of the cleaned data reserved for evaluation.
	// Zero evaluates in-sample against the full training data, which is
	// what the source does; the optional split exists for callers wanting
	// unbiased numbers, at the cost of changing every reported metric.
	Holdout float64
}

func DefaultConfig() Config {
	return Config{
		Seed:           42,
		BootstrapIters: 1000,
		Trees:          500,
		Folds:          10,
		MaxDegree:      5,
		Confidence:     0.95,
	}
}

// Report is everything a run produces: the dataset versions, the comparison
// table, and the per-model diagnostics reporting consumes.
type Report struct {
	Extract  data.ExtractReport
	Missing  data.FilterReport
	Outliers data.FilterReport

	Cleaned       data.Dataset // typed, with nulls
	CompleteCases data.Dataset
	Final         data.Dataset // outlier-filtered
	Removed       data.Dataset // the outliers, for inspection

	FeatureNames []string
	Table        *metrics.Table
	Bootstrap    *models.BootstrapResult
	Importance   []float64
	OOBRMSE      float64
	CVErrors     []float64
	PolyDegree   int

	// Models holds the successfully fitted models by table name.
	Models map[string]models.Model
	// FitErrors aggregates the non-fatal per-model failures.
	FitErrors error
}

// Run executes the whole pipeline over raw CSV rows (header first): extract,
// drop incomplete records, drop 3-sigma outliers, fit every model, and score
// them all against the same targets. Per-model failures downgrade to
// unavailable table rows; only structural input problems abort.
func Run(rows [][]string, cfg Config, logger *zap.Logger) (*Report, error) {
	rep := &Report{Models: make(map[string]models.Model), OOBRMSE: math.NaN()}

	cleaned, extractRep, err := data.Extract(rows, data.ExtractOptions{MatchAccidentAnyCase: cfg.MatchAccidentAnyCase})
	if err != nil {
		return nil, err
	}
	rep.Cleaned = cleaned
	rep.Extract = extractRep
	logger.Info("extracted raw records",
		zap.Int("rows", extractRep.Rows),
		zap.Int("bad_model_year", extractRep.BadModelYear),
		zap.Int("bad_mileage", extractRep.BadMileage),
		zap.Int("bad_horsepower", extractRep.BadHorsepower),
		zap.Int("bad_price", extractRep.BadPrice),
		zap.Int("empty_accident", extractRep.EmptyAccident),
	)

	complete, missingRep := data.Complete(cleaned)
	rep.CompleteCases = complete
	rep.Missing = missingRep
	logger.Info("missing-data filter",
		zap.Int("original", missingRep.Original),
		zap.Int("retained", missingRep.Retained),
		zap.Int("removed", missingRep.Removed),
	)

	final, removed, err := data.FilterOutliers(complete)
	if err != nil {
		return nil, fmt.Errorf("outlier filter: %w", err)
	}
	rep.Final = final
	rep.Removed = removed
	rep.Outliers = data.FilterReport{Original: len(complete), Retained: len(final), Removed: len(removed)}
	logger.Info("outlier filter",
		zap.Int("original", len(complete)),
		zap.Int("retained", len(final)),
		zap.Int("removed", len(removed)),
	)
	if len(final) == 0 {
		return nil, fmt.Errorf("after filtering: %w", data.ErrEmptyDataset)
	}

	X, names := features.Matrix(final)
	y := final.Prices()
	rep.FeatureNames = names

	Xtr, ytr, Xev, yev := split(X, y, cfg)
	rep.Table = metrics.NewTable()

	fit := func(m models.Model) {
		if err := m.Fit(Xtr, ytr); err != nil {
			logger.Warn("model unavailable", zap.String("model", m.Name()), zap.Error(err))
			rep.FitErrors = multierr.Append(rep.FitErrors, fmt.Errorf("%s: %w", m.Name(), err))
			rep.FitErrors = multierr.Append(rep.FitErrors, rep.Table.AddUnavailable(m.Name(), err))
			return
		}
		row, err := metrics.Evaluate(yev, m.Predict(Xev))
		if err != nil {
			logger.Warn("model evaluation failed", zap.String("model", m.Name()), zap.Error(err))
			rep.FitErrors = multierr.Append(rep.FitErrors, fmt.Errorf("%s: %w", m.Name(), err))
			rep.FitErrors = multierr.Append(rep.FitErrors, rep.Table.AddUnavailable(m.Name(), err))
			return
		}
		rep.Models[m.Name()] = m
		rep.FitErrors = multierr.Append(rep.FitErrors, rep.Table.Add(m.Name(), row))
		logger.Info("model fitted",
			zap.String("model", m.Name()),
			zap.Float64("rmse", row.RMSE),
			zap.Float64("mae", row.MAE),
			zap.Float64("r2", row.R2),
		)
	}

	fit(models.NewLinearModel(names))
	fit(models.NewLogLinearModel(names))

	poly := models.NewPolynomialModel(names)
	poly.Folds = cfg.Folds
	poly.MaxDegree = cfg.MaxDegree
	poly.Seed = cfg.Seed
	fit(poly)
	if poly.SelectedDegree > 0 {
		rep.PolyDegree = poly.SelectedDegree
		rep.CVErrors = poly.CVErrors
		logger.Info("polynomial degree selected",
			zap.Int("degree", poly.SelectedDegree),
			zap.Float64s("cv_mse", poly.CVErrors),
		)
	}

	forest := models.NewRandomForest()
	forest.NEstimators = cfg.Trees
	forest.Seed = cfg.Seed
	fit(forest)
	if len(forest.Trees) > 0 {
		rep.Importance = forest.Importances()
		rep.OOBRMSE = forest.OOBRMSE
		logger.Info("random forest diagnostics",
			zap.Float64("oob_rmse", forest.OOBRMSE),
			zap.Float64s("importance", rep.Importance),
		)
	}

	tree := models.NewRegressionTree()
	tree.Seed = cfg.Seed
	fit(tree)

	boot, err := models.Bootstrap(Xtr, ytr, cfg.BootstrapIters, cfg.Confidence, cfg.Seed)
	if err != nil {
		logger.Warn("bootstrap unavailable", zap.Error(err))
		rep.FitErrors = multierr.Append(rep.FitErrors, fmt.Errorf("bootstrap: %w", err))
	} else {
		rep.Bootstrap = boot
		logger.Info("bootstrap finished",
			zap.Int("resamples", len(boot.Coefficients)),
			zap.Int("failed", boot.Failed),
			zap.Float64("confidence", boot.Confidence),
		)
	}

	return rep, nil
}

// split carves out the optional holdout evaluation set. With Holdout == 0 the
// models train and evaluate on the same data, matching the source's in-sample
// comparison.
func split(X [][]float64, y []float64, cfg Config) (Xtr [][]float64, ytr []float64, Xev [][]float64, yev []float64) {
	n := len(X)
	nEval := int(cfg.Holdout * float64(n))
	if cfg.Holdout <= 0 || nEval == 0 || nEval == n {
		return X, y, X, y
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	perm := rng.Perm(n)
	for i, idx := range perm {
		if i < nEval {
			Xev = append(Xev, X[idx])
			yev = append(yev, y[idx])
		} else {
			Xtr = append(Xtr, X[idx])
			ytr = append(ytr, y[idx])
		}
	}
	return Xtr, ytr, Xev, yev
}
