package main

import (
	"encoding/gob"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carprice/internal/data"
	"carprice/internal/models"
	"carprice/internal/pipeline"
	"carprice/pkg/utils"
)

// report serves a finished pipeline run: the comparison table, bootstrap
// intervals and feature importances from report.json, plus on-demand price
// predictions from the gob-saved models.

var rawHeader = []string{"brand", "model", "model_year", "milage", "engine", "accident", "price"}

type predictRequest struct {
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	ModelYear string `json:"model_year" binding:"required"`
	Milage    string `json:"milage" binding:"required"`
	Engine    string `json:"engine" binding:"required"`
	Accident  string `json:"accident"`
}

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	reportPath := flag.String("report", "out/report.json", "Summary JSON written by the pipeline")
	modelDir := flag.String("models", "out/models", "Directory of gob-saved models")
	addr := flag.String("addr", ":8080", "Listen address")
	anyCase := flag.Bool("accident_any_case", false, "Match the accident \"None\" marker case-insensitively")
	flag.Parse()

	summary, err := loadSummary(*reportPath)
	if err != nil {
		logger.Fatal("load report", zap.Error(err))
	}
	loaded := loadModels(*modelDir, logger)
	opts := data.ExtractOptions{MatchAccidentAnyCase: *anyCase}

	r := gin.Default()

	r.GET("/api/summary", func(c *gin.Context) {
		c.JSON(http.StatusOK, summary)
	})
	r.GET("/api/comparison", func(c *gin.Context) {
		c.JSON(http.StatusOK, summary.Comparison)
	})
	r.GET("/api/bootstrap", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"coefficients": summary.Bootstrap})
	})
	r.GET("/api/importance", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"features":   summary.FeatureNames,
			"importance": summary.Importance,
			"oob_rmse":   summary.OOBRMSE,
		})
	})

	r.POST("/api/predict", func(c *gin.Context) {
		var req predictRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		row := []string{req.Brand, req.Model, req.ModelYear, req.Milage, req.Engine, req.Accident, ""}
		rec, err := data.ExtractOne(rawHeader, row, opts)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var missing []string
		if rec.Mileage == nil {
			missing = append(missing, "milage")
		}
		if rec.Horsepower == nil {
			missing = append(missing, "engine")
		}
		if rec.ModelYear == nil {
			missing = append(missing, "model_year")
		}
		if rec.Accident == nil {
			missing = append(missing, "accident")
		}
		if len(missing) > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unparseable fields", "fields": missing})
			return
		}

		x := [][]float64{{
			float64(*rec.Mileage),
			*rec.Horsepower,
			float64(*rec.Accident),
			float64(*rec.ModelYear),
		}}
		prices := make(map[string]float64, len(loaded))
		for name, m := range loaded {
			prices[name] = m.Predict(x)[0]
		}
		c.JSON(http.StatusOK, gin.H{"prices": prices})
	})

	logger.Info("report server listening", zap.String("addr", *addr), zap.Int("models", len(loaded)))
	if err := r.Run(*addr); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

func loadSummary(path string) (*pipeline.Summary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s pipeline.Summary
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// loadModels decodes whichever saved models exist; a missing file just means
// that model was unavailable in the run.
func loadModels(dir string, logger *zap.Logger) map[string]models.Model {
	decoders := map[string]func() models.Model{
		"linearregression.gob":     func() models.Model { return &models.LinearModel{} },
		"loglinearregression.gob":  func() models.Model { return &models.LogLinearModel{} },
		"polynomialregression.gob": func() models.Model { return &models.PolynomialModel{} },
		"randomforest.gob":         func() models.Model { return &models.RandomForest{} },
		"decisiontree.gob":         func() models.Model { return &models.RegressionTree{} },
	}
	out := make(map[string]models.Model)
	for file, mk := range decoders {
		f, err := os.Open(filepath.Join(dir, file))
		if err != nil {
			continue
		}
		m := mk()
		err = gob.NewDecoder(f).Decode(m)
		f.Close()
		if err != nil {
			logger.Warn("decode model", zap.String("file", file), zap.Error(err))
			continue
		}
		out[m.Name()] = m
	}
	return out
}
