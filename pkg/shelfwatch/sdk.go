// Package shelfwatch provides a public SDK for embedding shelfwatch as a
// library.
//
// Example usage:
//
//	s := shelfwatch.New("https://books.toscrape.com",
//	    shelfwatch.WithPages(3),
//	    shelfwatch.WithFormat("csv", "./output"),
//	    shelfwatch.WithReportDir("./output"),
//	)
//
//	result, err := s.Run(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("scraped %d products, mean price %.2f\n",
//	    len(result.Records), result.Summary.MeanPrice)
package shelfwatch

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/scraper"
)

// Scraper is the high-level API for using shelfwatch as a library.
type Scraper struct {
	cfg    *config.Config
	logger *slog.Logger
}

// Option configures a Scraper.
type Option func(*config.Config)

// WithPages sets the number of listing pages to fetch.
func WithPages(n int) Option {
	return func(c *config.Config) { c.Target.Pages = n }
}

// WithPagePath sets the page URL template, e.g. "catalogue/page-%d.html".
// An empty template scrapes the base URL as a single page.
func WithPagePath(template string) Option {
	return func(c *config.Config) { c.Target.PagePath = template }
}

// WithUserAgent sets a custom User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *config.Config) { c.Target.UserAgent = ua }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config.Config) { c.Fetcher.RequestTimeout = d }
}

// WithDelay sets the politeness delay between page requests.
func WithDelay(d time.Duration) Option {
	return func(c *config.Config) { c.Fetcher.PolitenessDelay = d }
}

// WithBrowser switches fetching to the headless browser engine.
func WithBrowser(stealth bool) Option {
	return func(c *config.Config) {
		c.Fetcher.Type = "browser"
		c.Fetcher.Browser.Stealth = stealth
	}
}

// WithParserEngine selects the selector engine: "css" or "xpath".
func WithParserEngine(engine string) Option {
	return func(c *config.Config) { c.Parser.Engine = engine }
}

// WithSelectors replaces the selector set of the active engine.
func WithSelectors(s config.SelectorSet) Option {
	return func(c *config.Config) {
		if c.Parser.Engine == "xpath" {
			c.Parser.XPath = s
			return
		}
		c.Parser.CSS = s
	}
}

// WithFormat sets the export format and output directory.
func WithFormat(format, dir string) Option {
	return func(c *config.Config) {
		c.Export.Format = format
		c.Export.OutputDir = dir
	}
}

// WithOutputFile fixes the export file name instead of a timestamped one.
func WithOutputFile(name string) Option {
	return func(c *config.Config) { c.Export.FileName = name }
}

// WithReportDir enables report generation into the given directory.
func WithReportDir(dir string) Option {
	return func(c *config.Config) {
		c.Report.Enabled = true
		c.Report.OutputDir = dir
	}
}

// WithoutReport disables chart and HTML report generation.
func WithoutReport() Option {
	return func(c *config.Config) { c.Report.Enabled = false }
}

// WithTopN sets how many products appear in the top-by-price chart.
func WithTopN(n int) Option {
	return func(c *config.Config) { c.Report.TopN = n }
}

// New creates a Scraper targeting the given base URL.
func New(baseURL string, opts ...Option) *Scraper {
	cfg := config.DefaultConfig()
	cfg.Target.BaseURL = baseURL

	s := &Scraper{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return s
}

// SetLogger replaces the SDK's default warn-level logger.
func (s *Scraper) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Config exposes the effective configuration for inspection or further
// tweaking before Run.
func (s *Scraper) Config() *config.Config {
	return s.cfg
}

// Run validates the configuration and executes one scrape run.
func (s *Scraper) Run(ctx context.Context) (*scraper.Result, error) {
	if err := config.Validate(s.cfg); err != nil {
		return nil, err
	}
	return scraper.New(s.cfg, s.logger).Run(ctx)
}
