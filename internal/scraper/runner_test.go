package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/export"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

const pageTemplate = `<!DOCTYPE html>
<html><body>
<article class="product_pod">
  <h3><a href="b1.html" title="Book %d-A">Book %d-A</a></h3>
  <p class="star-rating Three"></p>
  <p class="price_color">£%d.00</p>
  <p class="instock availability">In stock</p>
</article>
<article class="product_pod">
  <h3><a href="b2.html" title="Book %d-B">Book %d-B</a></h3>
  <p class="star-rating Five"></p>
  <p class="price_color">£%d.50</p>
  <p class="instock availability">In stock</p>
</article>
</body></html>`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// listingServer serves pages 1..pages at /catalogue/page-N.html and 404
// for anything beyond.
func listingServer(t *testing.T, pages int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var n int
		if _, err := fmt.Sscanf(r.URL.Path, "/catalogue/page-%d.html", &n); err != nil || n < 1 || n > pages {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, pageTemplate, n, n, n*10, n, n, n*10)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string, pages int) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Target.BaseURL = baseURL
	cfg.Target.Pages = pages
	cfg.Export.OutputDir = dir
	cfg.Export.FileName = "products.csv"
	cfg.Report.OutputDir = dir
	return cfg
}

func TestRunHappyPath(t *testing.T) {
	srv := listingServer(t, 2)
	cfg := testConfig(t, srv.URL, 2)

	result, err := New(cfg, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.RunID == "" {
		t.Error("empty run ID")
	}
	if len(result.Records) != 4 {
		t.Fatalf("records = %d, want 4", len(result.Records))
	}
	if result.NoData() {
		t.Error("NoData() = true for a run with records")
	}
	if result.Summary == nil {
		t.Fatal("nil summary")
	}
	// Prices are 10.00, 10.50, 20.00, 20.50.
	if result.Summary.MinPrice != 10.00 || result.Summary.MaxPrice != 20.50 {
		t.Errorf("min/max = %v/%v, want 10/20.5", result.Summary.MinPrice, result.Summary.MaxPrice)
	}
	if result.Summary.MedianPrice != 15.25 {
		t.Errorf("median = %v, want 15.25", result.Summary.MedianPrice)
	}

	if got := result.Counters["pages_fetched"]; got != 2 {
		t.Errorf("pages_fetched = %d, want 2", got)
	}
	if got := result.Counters["records_exported"]; got != 4 {
		t.Errorf("records_exported = %d, want 4", got)
	}

	// Records survive an export round trip.
	rows, err := export.ReadCSV(result.ExportPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("csv rows = %d, want 4", len(rows))
	}
	for i := range rows {
		if rows[i].Price != result.Records[i].Price {
			t.Errorf("row %d price = %v, want %v", i, rows[i].Price, result.Records[i].Price)
		}
		if rows[i].Rating != result.Records[i].Rating {
			t.Errorf("row %d rating = %d, want %d", i, rows[i].Rating, result.Records[i].Rating)
		}
	}

	// Report artifacts written.
	if result.ReportPath == "" {
		t.Fatal("empty report path")
	}
	for _, p := range []string{
		result.ReportPath,
		filepath.Join(cfg.Report.OutputDir, "charts", "price_distribution.png"),
		filepath.Join(cfg.Report.OutputDir, "charts", "price_by_rating.png"),
		filepath.Join(cfg.Report.OutputDir, "charts", "top_expensive.png"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing artifact %s: %v", p, err)
		}
	}
}

func TestRunMultiFormatExport(t *testing.T) {
	srv := listingServer(t, 1)
	cfg := testConfig(t, srv.URL, 1)
	cfg.Export.Format = "csv,jsonl"

	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	result, err := New(cfg, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	csvPath := filepath.Join(cfg.Export.OutputDir, "products.csv")
	jsonlPath := filepath.Join(cfg.Export.OutputDir, "products.jsonl")
	for _, p := range []string{csvPath, jsonlPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing export %s: %v", p, err)
		}
	}
	for _, p := range []string{csvPath, jsonlPath} {
		if !strings.Contains(result.ExportPath, p) {
			t.Errorf("ExportPath %q does not mention %s", result.ExportPath, p)
		}
	}

	rows, err := export.ReadCSV(csvPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != len(result.Records) {
		t.Errorf("csv rows = %d, want %d", len(rows), len(result.Records))
	}
}

func TestRunSkipsFailedPages(t *testing.T) {
	// Only page 2 exists; pages 1 and 3 return 404.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalogue/page-2.html" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, pageTemplate, 2, 2, 20, 2, 2, 20)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL, 3)
	result, err := New(cfg, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := result.Counters["pages_failed"]; got != 2 {
		t.Errorf("pages_failed = %d, want 2", got)
	}
	if got := result.Counters["pages_fetched"]; got != 1 {
		t.Errorf("pages_fetched = %d, want 1", got)
	}
	if len(result.Records) != 2 {
		t.Errorf("records = %d, want 2", len(result.Records))
	}
	for _, rec := range result.Records {
		if rec.Page != 2 {
			t.Errorf("record page = %d, want 2", rec.Page)
		}
	}
}

// failingExporter rejects every batch and records whether it was closed.
type failingExporter struct {
	closed bool
}

func (e *failingExporter) Export([]types.ProductRecord) error { return errors.New("disk full") }
func (e *failingExporter) Close() error                       { e.closed = true; return nil }
func (e *failingExporter) Name() string                       { return "failing" }
func (e *failingExporter) Path() string                       { return "" }

func TestRunClosesExporterOnExportFailure(t *testing.T) {
	srv := listingServer(t, 1)
	cfg := testConfig(t, srv.URL, 1)

	exp := &failingExporter{}
	runner := New(cfg, testLogger())
	runner.SetExporter(exp)

	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("expected export failure to be fatal")
	}
	if !exp.closed {
		t.Error("exporter left open after export failure")
	}
}

func TestRunAllPagesFailingIsCleanNoData(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := testConfig(t, srv.URL, 3)
	result, err := New(cfg, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.NoData() {
		t.Error("NoData() = false for an empty run")
	}
	if result.Summary != nil {
		t.Error("non-nil summary for an empty run")
	}
	if result.ExportPath != "" || result.ReportPath != "" {
		t.Errorf("outputs written on empty run: %q %q", result.ExportPath, result.ReportPath)
	}

	// No output files at all.
	entries, err := os.ReadDir(cfg.Export.OutputDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("empty run left %d files in output dir", len(entries))
	}
}

func TestPageURLs(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		pagePath string
		pages    int
		want     []string
	}{
		{
			name:     "template expansion",
			baseURL:  "https://books.example.com",
			pagePath: "catalogue/page-%d.html",
			pages:    3,
			want: []string{
				"https://books.example.com/catalogue/page-1.html",
				"https://books.example.com/catalogue/page-2.html",
				"https://books.example.com/catalogue/page-3.html",
			},
		},
		{
			name:     "leading slash normalized",
			baseURL:  "https://shop.example.com/store",
			pagePath: "/page-%d.html",
			pages:    1,
			want:     []string{"https://shop.example.com/page-1.html"},
		},
		{
			name:    "empty template means base only",
			baseURL: "https://shop.example.com/listing.html",
			pages:   5,
			want:    []string{"https://shop.example.com/listing.html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PageURLs(&config.TargetConfig{
				BaseURL:  tt.baseURL,
				PagePath: tt.pagePath,
				Pages:    tt.pages,
			})
			if err != nil {
				t.Fatalf("PageURLs: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d URLs, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("url[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
