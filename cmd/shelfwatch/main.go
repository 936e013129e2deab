package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/export"
	"github.com/shelfwatch/shelfwatch/internal/report"
	"github.com/shelfwatch/shelfwatch/internal/scraper"
	"github.com/shelfwatch/shelfwatch/internal/stats"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

var (
	cfgFile      string
	verbose      bool
	pages        int
	outputDir    string
	outputFormat string
	reportDir    string
	noReport     bool
	timeout      string
	delay        string
	userAgent    string
	topN         int
	bins         int
	inputCSV     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shelfwatch",
		Short: "shelfwatch — product listing scraper & report generator",
		Long: `shelfwatch fetches product listing pages from an e-commerce site,
extracts structured fields (title, price, rating), computes summary
statistics, exports the records, and renders charts plus an HTML report.

The pipeline is strictly sequential: fetch → parse → aggregate → render,
one page at a time, once per run.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [base-url]",
		Short: "Scrape listing pages and generate the report",
		Long:  "Fetch each listing page in order, extract product records, export them, and render charts plus an HTML report.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScrape,
	}

	cmd.Flags().IntVarP(&pages, "pages", "p", 0, "number of listing pages to fetch (0 = config default)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for exported records")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "export format: csv, json, jsonl, xlsx, mongodb (comma-separated for several)")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "directory for charts and report.html")
	cmd.Flags().BoolVar(&noReport, "no-report", false, "skip chart and HTML report generation")
	cmd.Flags().StringVar(&timeout, "timeout", "", "per-request timeout (e.g. 10s)")
	cmd.Flags().StringVar(&delay, "delay", "", "politeness delay between page requests")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "custom User-Agent string")
	cmd.Flags().IntVar(&topN, "top", 0, "number of products in the top-by-price chart")
	cmd.Flags().IntVar(&bins, "bins", 0, "number of price histogram bins")

	return cmd
}

// runScrape executes the scrape command.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if len(args) == 1 {
		cfg.Target.BaseURL = args[0]
	}
	applyCLIOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg)
	logger.Info("starting scrape",
		"base_url", cfg.Target.BaseURL,
		"pages", cfg.Target.Pages,
		"fetcher", cfg.Fetcher.Type,
		"parser", cfg.Parser.Engine,
		"format", cfg.Export.Format,
	)

	runner := scraper.New(cfg, logger)
	result, err := runner.Run(context.Background())
	if err != nil {
		var writeErr *types.WriteError
		if errors.As(err, &writeErr) {
			logger.Error("output write failed", "path", writeErr.Path, "error", writeErr.Err)
		}
		return err
	}

	printSummary(cfg, result)
	return nil
}

// reportCmd creates the "report" subcommand: re-render charts and the
// HTML report from a previously exported CSV, without touching the network.
func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-render charts and report.html from an exported CSV",
		RunE:  runReport,
	}

	cmd.Flags().StringVarP(&inputCSV, "input", "i", "", "CSV file written by a previous scrape (required)")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "directory for charts and report.html")
	cmd.Flags().IntVar(&topN, "top", 0, "number of products in the top-by-price chart")
	cmd.Flags().IntVar(&bins, "bins", 0, "number of price histogram bins")
	cmd.MarkFlagRequired("input")

	return cmd
}

// runReport executes the report command.
func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg)

	records, err := export.ReadCSV(inputCSV)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputCSV, err)
	}

	summary, err := stats.Compute(records)
	if errors.Is(err, types.ErrNoData) {
		fmt.Println("📭 No records in input, nothing to report.")
		return nil
	}
	if err != nil {
		return err
	}

	htmlPath, err := report.New(&cfg.Report, logger).Generate(records, summary)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Report rendered from %d records\n", len(records))
	fmt.Printf("   Report:  %s\n", htmlPath)
	return nil
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			applyCLIOverrides(cfg)

			fmt.Printf("Target:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Target.BaseURL)
			fmt.Printf("  Pages:             %d\n", cfg.Target.Pages)
			fmt.Printf("  Page Path:         %s\n", cfg.Target.PagePath)
			fmt.Printf("  User-Agent:        %s\n", cfg.Target.UserAgent)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Type:              %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Politeness Delay:  %s\n", cfg.Fetcher.PolitenessDelay)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("\nParser:\n")
			fmt.Printf("  Engine:            %s\n", cfg.Parser.Engine)
			fmt.Printf("  Product Selector:  %s\n", cfg.Parser.CSS.Product)
			fmt.Printf("\nExport:\n")
			fmt.Printf("  Format:            %s\n", cfg.Export.Format)
			fmt.Printf("  Output Dir:        %s\n", cfg.Export.OutputDir)
			fmt.Printf("\nReport:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Report.Enabled)
			fmt.Printf("  Output Dir:        %s\n", cfg.Report.OutputDir)
			fmt.Printf("  Histogram Bins:    %d\n", cfg.Report.Bins)
			fmt.Printf("  Top N:             %d\n", cfg.Report.TopN)
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shelfwatch %s\n", config.Version)
		},
	}
}

// setupLogger creates a structured logger per the logging config.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	out := os.Stderr
	if cfg.Logging.Output == "stdout" {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if pages > 0 {
		cfg.Target.Pages = pages
	}
	if userAgent != "" {
		cfg.Target.UserAgent = userAgent
	}
	if timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Fetcher.RequestTimeout = d
		}
	}
	if delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			cfg.Fetcher.PolitenessDelay = d
		}
	}
	if outputDir != "" {
		cfg.Export.OutputDir = outputDir
	}
	if outputFormat != "" {
		cfg.Export.Format = strings.ToLower(outputFormat)
	}
	if reportDir != "" {
		cfg.Report.OutputDir = reportDir
	}
	if noReport {
		cfg.Report.Enabled = false
	}
	if topN > 0 {
		cfg.Report.TopN = topN
	}
	if bins > 0 {
		cfg.Report.Bins = bins
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

// printSummary prints the colored end-of-run summary.
func printSummary(cfg *config.Config, result *scraper.Result) {
	if result.NoData() {
		fmt.Printf("\n📭 No data scraped (%d of %d pages failed).\n",
			result.Counters["pages_failed"], result.Counters["pages_requested"])
		fmt.Println("   Check the base URL, page path template, and selectors.")
		return
	}

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	s := result.Summary
	green.Printf("\n✅ Scrape complete in %s\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("   Run ID:    %s\n", result.RunID)
	fmt.Printf("   Pages:     %d fetched, %d failed\n",
		result.Counters["pages_fetched"], result.Counters["pages_failed"])
	fmt.Printf("   Records:   %d extracted, %d dropped\n",
		result.Counters["records_parsed"], result.Counters["records_dropped"])
	fmt.Printf("   Data:      %d bytes downloaded\n", result.Counters["bytes_downloaded"])

	bold.Println("\n📊 Price statistics")
	cyan.Printf("   Mean:      %.2f\n", s.MeanPrice)
	cyan.Printf("   Median:    %.2f\n", s.MedianPrice)
	cyan.Printf("   Min:       %.2f\n", s.MinPrice)
	cyan.Printf("   Max:       %.2f\n", s.MaxPrice)
	cyan.Printf("   Rating:    %.2f average stars\n", s.MeanRating)

	fmt.Printf("\n   Output:    %s\n", result.ExportPath)
	if result.ReportPath != "" {
		fmt.Printf("   Report:    %s\n", result.ReportPath)
	}
}
