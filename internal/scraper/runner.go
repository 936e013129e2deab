package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/export"
	"github.com/shelfwatch/shelfwatch/internal/fetcher"
	"github.com/shelfwatch/shelfwatch/internal/parser"
	"github.com/shelfwatch/shelfwatch/internal/report"
	"github.com/shelfwatch/shelfwatch/internal/stats"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

// Runner executes one scrape run: fetch each listing page in order,
// parse records, aggregate statistics, export, and render the report.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	fetcher  fetcher.Fetcher
	parser   parser.Parser
	exporter export.Exporter
	renderer *report.Renderer
	counters Counters
}

// Result is everything a run produced.
type Result struct {
	// RunID uniquely identifies this run.
	RunID string

	// Records are all products extracted across every page, in page order.
	Records []types.ProductRecord

	// Summary is nil when the run produced no records.
	Summary *stats.Summary

	// ExportPath is where records were written ("" when no records).
	ExportPath string

	// ReportPath is the HTML report path ("" when reporting is off or no records).
	ReportPath string

	// Counters is the final counter snapshot.
	Counters map[string]int64

	// Elapsed is the total wall time of the run.
	Elapsed time.Duration
}

// NoData reports whether the run finished without a single record.
func (r *Result) NoData() bool {
	return len(r.Records) == 0
}

// New creates a Runner. Components are wired with the Set methods;
// any left unset is built from the config on Run.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logger.With("component", "runner"),
	}
}

// SetFetcher overrides the page fetcher.
func (r *Runner) SetFetcher(f fetcher.Fetcher) { r.fetcher = f }

// SetParser overrides the record parser.
func (r *Runner) SetParser(p parser.Parser) { r.parser = p }

// SetExporter overrides the record exporter.
func (r *Runner) SetExporter(e export.Exporter) { r.exporter = e }

// SetRenderer overrides the report renderer.
func (r *Runner) SetRenderer(rr *report.Renderer) { r.renderer = rr }

// Counters returns the run counters.
func (r *Runner) Counters() *Counters { return &r.counters }

// Run executes the pipeline once. A page that fails to fetch is skipped
// and the run continues; a run with zero records finishes cleanly with
// Result.NoData() true. Export and report write failures are fatal.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	logger := r.logger.With("run_id", runID)

	if err := r.wire(); err != nil {
		return nil, err
	}
	defer r.fetcher.Close()

	pageURLs, err := PageURLs(&r.cfg.Target)
	if err != nil {
		return nil, err
	}

	logger.Info("run starting",
		"base_url", r.cfg.Target.BaseURL,
		"pages", len(pageURLs),
		"fetcher", r.fetcher.Type(),
		"parser", r.parser.Engine(),
	)

	records := r.scrapePages(ctx, logger, pageURLs)

	result := &Result{
		RunID:   runID,
		Records: records,
	}

	summary, err := stats.Compute(records)
	if errors.Is(err, types.ErrNoData) {
		logger.Warn("run produced no records", "pages_failed", r.counters.PagesFailed)
		if r.exporter != nil {
			r.exporter.Close()
		}
		result.Counters = r.counters.Snapshot()
		result.Elapsed = time.Since(start)
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("aggregate statistics: %w", err)
	}
	result.Summary = summary

	// The exporter is created only once there is something to write, so
	// a no-data run leaves no output files behind.
	if r.exporter == nil {
		e, err := export.New(r.cfg, r.logger)
		if err != nil {
			return nil, fmt.Errorf("create exporter: %w", err)
		}
		r.exporter = e
	}
	if err := r.exporter.Export(records); err != nil {
		r.exporter.Close()
		return nil, err
	}
	if err := r.exporter.Close(); err != nil {
		return nil, err
	}
	r.counters.RecordsExported = int64(len(records))
	result.ExportPath = r.exporter.Path()
	logger.Info("records exported",
		"backend", r.exporter.Name(),
		"path", result.ExportPath,
		"records", len(records),
	)

	if r.cfg.Report.Enabled {
		htmlPath, err := r.renderer.Generate(records, summary)
		if err != nil {
			return nil, err
		}
		result.ReportPath = htmlPath
	}

	result.Counters = r.counters.Snapshot()
	result.Elapsed = time.Since(start)

	logger.Info("run complete",
		"elapsed", result.Elapsed,
		"pages_fetched", r.counters.PagesFetched,
		"pages_failed", r.counters.PagesFailed,
		"records", len(records),
		"dropped", r.counters.RecordsDropped,
	)
	return result, nil
}

// scrapePages fetches and parses each page strictly in order.
func (r *Runner) scrapePages(ctx context.Context, logger *slog.Logger, pageURLs []string) []types.ProductRecord {
	var records []types.ProductRecord

	for i, pageURL := range pageURLs {
		if i > 0 && r.cfg.Fetcher.PolitenessDelay > 0 {
			time.Sleep(r.cfg.Fetcher.PolitenessDelay)
		}
		r.counters.PagesRequested++

		page, err := r.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			r.counters.PagesFailed++
			logger.Warn("page skipped", "url", pageURL, "error", err)
			continue
		}
		page.Number = i + 1
		r.counters.PagesFetched++
		r.counters.BytesDownloaded += int64(len(page.Body))

		pageRecords, dropped, err := r.parser.Parse(page)
		if err != nil {
			r.counters.PagesFailed++
			logger.Warn("page unparseable, skipped", "url", pageURL, "error", err)
			continue
		}
		r.counters.RecordsParsed += int64(len(pageRecords))
		r.counters.RecordsDropped += int64(dropped)
		records = append(records, pageRecords...)

		logger.Debug("page done",
			"url", pageURL,
			"page", i+1,
			"records", len(pageRecords),
			"dropped", dropped,
		)
	}
	return records
}

// wire builds any component not injected with a Set method.
func (r *Runner) wire() error {
	if r.fetcher == nil {
		f, err := fetcher.New(r.cfg, r.logger)
		if err != nil {
			return fmt.Errorf("create fetcher: %w", err)
		}
		r.fetcher = f
	}
	if r.parser == nil {
		r.parser = parser.New(r.cfg, r.logger)
	}
	if r.renderer == nil {
		r.renderer = report.New(&r.cfg.Report, r.logger)
	}
	return nil
}

// PageURLs expands the target config into the ordered page URL list.
// Page 1 is the base URL itself when the page-path template is empty.
func PageURLs(target *config.TargetConfig) ([]string, error) {
	base, err := url.Parse(target.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidURL, target.BaseURL)
	}

	pages := target.Pages
	if pages < 1 {
		pages = 1
	}

	if target.PagePath == "" {
		return []string{base.String()}, nil
	}

	urls := make([]string, 0, pages)
	for n := 1; n <= pages; n++ {
		ref, err := url.Parse(fmt.Sprintf(strings.TrimPrefix(target.PagePath, "/"), n))
		if err != nil {
			return nil, fmt.Errorf("%w: page path %q", types.ErrInvalidURL, target.PagePath)
		}
		urls = append(urls, base.ResolveReference(ref).String())
	}
	return urls, nil
}
