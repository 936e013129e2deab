package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if err := ValidateURL(cfg.Target.BaseURL); err != nil {
		return fmt.Errorf("target.base_url: %w", err)
	}
	if cfg.Target.Pages < 1 {
		return fmt.Errorf("target.pages must be >= 1, got %d", cfg.Target.Pages)
	}
	if cfg.Target.Pages > 1000 {
		return fmt.Errorf("target.pages must be <= 1000, got %d", cfg.Target.Pages)
	}
	if cfg.Target.PagePath != "" && !strings.Contains(cfg.Target.PagePath, "%d") {
		return fmt.Errorf("target.page_path must contain a %%d page placeholder, got %q", cfg.Target.PagePath)
	}

	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.PolitenessDelay < 0 {
		return fmt.Errorf("fetcher.politeness_delay must be >= 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Parser.Engine != "css" && cfg.Parser.Engine != "xpath" {
		return fmt.Errorf("parser.engine must be 'css' or 'xpath', got %q", cfg.Parser.Engine)
	}
	selectors := cfg.Parser.CSS
	if cfg.Parser.Engine == "xpath" {
		selectors = cfg.Parser.XPath
	}
	if selectors.Product == "" {
		return fmt.Errorf("parser.%s.product selector must not be empty", cfg.Parser.Engine)
	}
	if selectors.Title == "" || selectors.Price == "" || selectors.Rating == "" {
		return fmt.Errorf("parser.%s title/price/rating selectors must not be empty", cfg.Parser.Engine)
	}

	validFormats := map[string]bool{
		"csv": true, "json": true, "jsonl": true, "xlsx": true, "mongodb": true,
	}
	// A comma-separated format list fans out to every named backend.
	for _, part := range strings.Split(cfg.Export.Format, ",") {
		format := strings.TrimSpace(part)
		if !validFormats[format] {
			return fmt.Errorf("export.format %q is not supported (valid: csv, json, jsonl, xlsx, mongodb)", format)
		}
		if format == "mongodb" {
			if cfg.Export.Mongo.URI == "" {
				return fmt.Errorf("export.mongo.uri must be set for mongodb export")
			}
			if cfg.Export.Mongo.Database == "" || cfg.Export.Mongo.Collection == "" {
				return fmt.Errorf("export.mongo.database and export.mongo.collection must be set for mongodb export")
			}
		}
	}

	if cfg.Report.Bins < 1 {
		return fmt.Errorf("report.bins must be >= 1, got %d", cfg.Report.Bins)
	}
	if cfg.Report.TopN < 1 {
		return fmt.Errorf("report.top_n must be >= 1, got %d", cfg.Report.TopN)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a scrape target.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
