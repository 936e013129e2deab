package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for shelfwatch.
type Config struct {
	Target  TargetConfig  `mapstructure:"target"  yaml:"target"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Parser  ParserConfig  `mapstructure:"parser"  yaml:"parser"`
	Export  ExportConfig  `mapstructure:"export"  yaml:"export"`
	Report  ReportConfig  `mapstructure:"report"  yaml:"report"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// TargetConfig describes the site and pages to scrape.
type TargetConfig struct {
	BaseURL   string            `mapstructure:"base_url"   yaml:"base_url"`
	Pages     int               `mapstructure:"pages"      yaml:"pages"`
	PagePath  string            `mapstructure:"page_path"  yaml:"page_path"`
	UserAgent string            `mapstructure:"user_agent" yaml:"user_agent"`
	Headers   map[string]string `mapstructure:"headers"    yaml:"headers"`
}

// FetcherConfig controls the page fetcher.
type FetcherConfig struct {
	Type            string        `mapstructure:"type"              yaml:"type"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	PolitenessDelay time.Duration `mapstructure:"politeness_delay"  yaml:"politeness_delay"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	Browser         BrowserConfig `mapstructure:"browser"           yaml:"browser"`
}

// BrowserConfig controls the headless browser fetcher.
type BrowserConfig struct {
	Headless bool          `mapstructure:"headless"  yaml:"headless"`
	Stealth  bool          `mapstructure:"stealth"   yaml:"stealth"`
	WaitLoad time.Duration `mapstructure:"wait_load" yaml:"wait_load"`
}

// ParserConfig controls record extraction.
type ParserConfig struct {
	Engine string      `mapstructure:"engine" yaml:"engine"` // css or xpath
	CSS    SelectorSet `mapstructure:"css"    yaml:"css"`
	XPath  SelectorSet `mapstructure:"xpath"  yaml:"xpath"`
}

// SelectorSet names the selectors used to locate product fields on a page.
type SelectorSet struct {
	Product      string `mapstructure:"product"      yaml:"product"`
	Title        string `mapstructure:"title"        yaml:"title"`
	Price        string `mapstructure:"price"        yaml:"price"`
	Rating       string `mapstructure:"rating"       yaml:"rating"`
	Availability string `mapstructure:"availability" yaml:"availability"`
}

// ExportConfig controls record output.
type ExportConfig struct {
	Format    string      `mapstructure:"format"     yaml:"format"`
	OutputDir string      `mapstructure:"output_dir" yaml:"output_dir"`
	FileName  string      `mapstructure:"file_name"  yaml:"file_name"` // empty means a timestamped name
	Mongo     MongoConfig `mapstructure:"mongo"      yaml:"mongo"`
}

// MongoConfig controls the MongoDB export sink.
type MongoConfig struct {
	URI        string        `mapstructure:"uri"        yaml:"uri"`
	Database   string        `mapstructure:"database"   yaml:"database"`
	Collection string        `mapstructure:"collection" yaml:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"    yaml:"timeout"`
}

// ReportConfig controls chart and HTML report generation.
type ReportConfig struct {
	Enabled   bool   `mapstructure:"enabled"    yaml:"enabled"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Bins      int    `mapstructure:"bins"       yaml:"bins"`
	TopN      int    `mapstructure:"top_n"      yaml:"top_n"`
	Title     string `mapstructure:"title"      yaml:"title"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			BaseURL:   "https://books.toscrape.com",
			Pages:     3,
			PagePath:  "catalogue/page-%d.html",
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
		},
		Fetcher: FetcherConfig{
			Type:            "http",
			RequestTimeout:  10 * time.Second,
			PolitenessDelay: 0,
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			Browser: BrowserConfig{
				Headless: true,
				Stealth:  false,
				WaitLoad: 2 * time.Second,
			},
		},
		Parser: ParserConfig{
			Engine: "css",
			CSS: SelectorSet{
				Product:      "article.product_pod",
				Title:        "h3 a",
				Price:        "p.price_color",
				Rating:       "p.star-rating",
				Availability: "p.instock.availability",
			},
			XPath: SelectorSet{
				Product:      "//article[contains(@class,'product_pod')]",
				Title:        ".//h3/a",
				Price:        ".//p[contains(@class,'price_color')]",
				Rating:       ".//p[contains(@class,'star-rating')]",
				Availability: ".//p[contains(@class,'instock')]",
			},
		},
		Export: ExportConfig{
			Format:    "csv",
			OutputDir: ".",
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "shelfwatch",
				Collection: "products",
				Timeout:    10 * time.Second,
			},
		},
		Report: ReportConfig{
			Enabled:   true,
			OutputDir: ".",
			Bins:      20,
			TopN:      10,
			Title:     "Price Scraper Report",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
