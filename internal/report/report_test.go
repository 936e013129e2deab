package report

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/stats"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testRecords() []types.ProductRecord {
	return []types.ProductRecord{
		{Title: "A Light in the Attic", Price: 51.77, Rating: 3, Availability: "In stock"},
		{Title: "Tipping the Velvet", Price: 53.74, Rating: 1, Availability: "In stock"},
		{Title: "Soumission", Price: 50.10, Rating: 5, Availability: "In stock"},
		{Title: "Sharp Objects", Price: 47.82, Rating: 4, Availability: "In stock"},
		{Title: "Sapiens: A Brief History of Humankind and Then Some", Price: 54.23, Rating: 5, Availability: "In stock"},
	}
}

func newTestRenderer(t *testing.T) (*Renderer, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.ReportConfig{
		Enabled:   true,
		OutputDir: dir,
		Bins:      10,
		TopN:      3,
		Title:     "Price Scraper Report",
	}
	return New(cfg, testLogger), dir
}

func TestGenerateWritesAllArtifacts(t *testing.T) {
	r, dir := newTestRenderer(t)

	records := testRecords()
	summary, err := stats.Compute(records)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	htmlPath, err := r.Generate(records, summary)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if htmlPath != filepath.Join(dir, "report.html") {
		t.Errorf("html path = %q", htmlPath)
	}

	for _, name := range []string{"price_distribution.png", "price_by_rating.png", "top_expensive.png"} {
		data, err := os.ReadFile(filepath.Join(dir, "charts", name))
		if err != nil {
			t.Fatalf("chart %s: %v", name, err)
		}
		if !bytes.HasPrefix(data, pngMagic) {
			t.Errorf("chart %s is not a PNG", name)
		}
	}

	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	page := string(html)

	for _, want := range []string{
		"Price Scraper Report",
		"Total Products Analyzed: 5",
		"charts/price_distribution.png",
		"charts/price_by_rating.png",
		"charts/top_expensive.png",
		"Average Price",
		"Median Price",
		"$51.53", // mean of the five fixture prices
		"Sapiens", // top-priced record in the table
	} {
		if !strings.Contains(page, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestGenerateNoData(t *testing.T) {
	r, _ := newTestRenderer(t)
	if _, err := r.Generate(nil, nil); !errors.Is(err, types.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestGenerateSingleRecord(t *testing.T) {
	r, dir := newTestRenderer(t)

	records := []types.ProductRecord{{Title: "Solo", Price: 9.99, Rating: 2}}
	summary, err := stats.Compute(records)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if _, err := r.Generate(records, summary); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "charts", "price_distribution.png")); err != nil {
		t.Errorf("histogram missing for identical prices: %v", err)
	}
}

func TestTopByPrice(t *testing.T) {
	records := testRecords()
	top := topByPrice(records, 3)

	if len(top) != 3 {
		t.Fatalf("len = %d, want 3", len(top))
	}
	if top[0].Title != "Sapiens: A Brief History of Humankind and Then Some" {
		t.Errorf("top[0] = %q", top[0].Title)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Price > top[i-1].Price {
			t.Errorf("not descending at %d: %v > %v", i, top[i].Price, top[i-1].Price)
		}
	}

	// Input order untouched
	if records[0].Title != "A Light in the Attic" {
		t.Error("topByPrice mutated its input")
	}

	// n larger than the record count returns everything
	if got := topByPrice(records, 100); len(got) != len(records) {
		t.Errorf("len = %d, want %d", len(got), len(records))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 16); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	got := truncate("Sapiens: A Brief History of Humankind", 16)
	if got != "Sapiens: A Brief..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("ünïcödé tïtlé wïth äccénts", 7); got != "ünïcödé..." {
		t.Errorf("truncate unicode = %q", got)
	}
}

func TestBinPrices(t *testing.T) {
	prices := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	bars := binPrices(prices, 5)

	if len(bars) != 5 {
		t.Fatalf("bins = %d, want 5", len(bars))
	}
	total := 0.0
	for _, b := range bars {
		if b.Value != 2 {
			t.Errorf("bin %q = %v, want 2", b.Label, b.Value)
		}
		total += b.Value
	}
	if total != 10 {
		t.Errorf("total = %v, want 10", total)
	}
}

func TestBinPricesZeroBinsClamped(t *testing.T) {
	bars := binPrices([]float64{10.00, 20.00}, 0)
	if len(bars) != 1 {
		t.Fatalf("bins = %d, want 1", len(bars))
	}
	if bars[0].Value != 2 {
		t.Errorf("count = %v, want 2", bars[0].Value)
	}
}

func TestGenerateZeroBins(t *testing.T) {
	r, dir := newTestRenderer(t)
	r.cfg.Bins = 0

	records := testRecords()
	summary, err := stats.Compute(records)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if _, err := r.Generate(records, summary); err != nil {
		t.Fatalf("Generate with zero bins: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "charts", "price_distribution.png")); err != nil {
		t.Errorf("missing histogram: %v", err)
	}
}

func TestBinPricesAllEqual(t *testing.T) {
	bars := binPrices([]float64{5.00, 5.00, 5.00}, 20)
	if len(bars) != 1 {
		t.Fatalf("bins = %d, want 1", len(bars))
	}
	if bars[0].Value != 3 {
		t.Errorf("count = %v, want 3", bars[0].Value)
	}
}

func TestBarWidthFor(t *testing.T) {
	if w := barWidthFor(1); w != 80 {
		t.Errorf("width(1) = %d, want 80", w)
	}
	if w := barWidthFor(100); w != 18 {
		t.Errorf("width(100) = %d, want clamp 18", w)
	}
	if w := barWidthFor(20); w < 18 || w > 80 {
		t.Errorf("width(20) = %d out of range", w)
	}
}
