package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and CLI flags.
// Priority (highest to lowest): CLI flags > env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults from struct
	setDefaults(v, cfg)

	// Environment variable support
	v.SetEnvPrefix("SHELFWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Search default locations
		v.SetConfigName("shelfwatch")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".shelfwatch"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("target.base_url", cfg.Target.BaseURL)
	v.SetDefault("target.pages", cfg.Target.Pages)
	v.SetDefault("target.page_path", cfg.Target.PagePath)
	v.SetDefault("target.user_agent", cfg.Target.UserAgent)

	v.SetDefault("fetcher.type", cfg.Fetcher.Type)
	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.politeness_delay", cfg.Fetcher.PolitenessDelay)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)
	v.SetDefault("fetcher.browser.headless", cfg.Fetcher.Browser.Headless)
	v.SetDefault("fetcher.browser.stealth", cfg.Fetcher.Browser.Stealth)
	v.SetDefault("fetcher.browser.wait_load", cfg.Fetcher.Browser.WaitLoad)

	v.SetDefault("parser.engine", cfg.Parser.Engine)
	v.SetDefault("parser.css.product", cfg.Parser.CSS.Product)
	v.SetDefault("parser.css.title", cfg.Parser.CSS.Title)
	v.SetDefault("parser.css.price", cfg.Parser.CSS.Price)
	v.SetDefault("parser.css.rating", cfg.Parser.CSS.Rating)
	v.SetDefault("parser.css.availability", cfg.Parser.CSS.Availability)
	v.SetDefault("parser.xpath.product", cfg.Parser.XPath.Product)
	v.SetDefault("parser.xpath.title", cfg.Parser.XPath.Title)
	v.SetDefault("parser.xpath.price", cfg.Parser.XPath.Price)
	v.SetDefault("parser.xpath.rating", cfg.Parser.XPath.Rating)
	v.SetDefault("parser.xpath.availability", cfg.Parser.XPath.Availability)

	v.SetDefault("export.format", cfg.Export.Format)
	v.SetDefault("export.output_dir", cfg.Export.OutputDir)
	v.SetDefault("export.mongo.uri", cfg.Export.Mongo.URI)
	v.SetDefault("export.mongo.database", cfg.Export.Mongo.Database)
	v.SetDefault("export.mongo.collection", cfg.Export.Mongo.Collection)
	v.SetDefault("export.mongo.timeout", cfg.Export.Mongo.Timeout)

	v.SetDefault("report.enabled", cfg.Report.Enabled)
	v.SetDefault("report.output_dir", cfg.Report.OutputDir)
	v.SetDefault("report.bins", cfg.Report.Bins)
	v.SetDefault("report.top_n", cfg.Report.TopN)
	v.SetDefault("report.title", cfg.Report.Title)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
}
