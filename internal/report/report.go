package report

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/stats"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

// Chart file names under the report charts directory.
const (
	chartsDirName      = "charts"
	priceDistFile      = "price_distribution.png"
	priceByRatingFile  = "price_by_rating.png"
	topExpensiveFile   = "top_expensive.png"
	reportFileName     = "report.html"
	chartTitleMaxRunes = 16
)

// Renderer produces chart images and the HTML report for a run.
type Renderer struct {
	cfg    *config.ReportConfig
	logger *slog.Logger
}

// New creates a report renderer.
func New(cfg *config.ReportConfig, logger *slog.Logger) *Renderer {
	return &Renderer{
		cfg:    cfg,
		logger: logger.With("component", "report"),
	}
}

// Generate renders all charts and the HTML report into the configured
// output directory. It returns the path of the written HTML file.
func (r *Renderer) Generate(records []types.ProductRecord, summary *stats.Summary) (string, error) {
	if len(records) == 0 || summary == nil {
		return "", types.ErrNoData
	}

	chartsDir := filepath.Join(r.cfg.OutputDir, chartsDirName)
	if err := os.MkdirAll(chartsDir, 0o755); err != nil {
		return "", &types.WriteError{Path: chartsDir, Err: err}
	}

	if err := r.renderPriceHistogram(records, filepath.Join(chartsDir, priceDistFile)); err != nil {
		return "", err
	}
	if err := r.renderPriceByRating(summary, filepath.Join(chartsDir, priceByRatingFile)); err != nil {
		return "", err
	}
	if err := r.renderTopExpensive(records, filepath.Join(chartsDir, topExpensiveFile)); err != nil {
		return "", err
	}

	htmlPath := filepath.Join(r.cfg.OutputDir, reportFileName)
	if err := r.renderHTML(records, summary, htmlPath); err != nil {
		return "", err
	}

	r.logger.Info("report generated",
		"path", htmlPath,
		"charts_dir", chartsDir,
		"records", len(records),
	)
	return htmlPath, nil
}
