package report

import (
	"fmt"
	"os"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/shelfwatch/shelfwatch/internal/stats"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

// Chart palette matching the report theme.
var (
	histFill   = drawing.ColorFromHex("6366f1")
	ratingFill = drawing.ColorFromHex("8b5cf6")
	topFill    = drawing.ColorFromHex("f59e0b")
	barStroke  = drawing.ColorFromHex("343a40")
)

func barStyle(fill drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   fill,
		StrokeColor: barStroke,
		StrokeWidth: 1,
	}
}

// renderPriceHistogram draws the binned price distribution.
func (r *Renderer) renderPriceHistogram(records []types.ProductRecord, path string) error {
	prices := make([]float64, len(records))
	for i := range records {
		prices[i] = records[i].Price
	}

	bars := binPrices(prices, r.cfg.Bins)
	return r.renderBarChart(path, "Price Distribution", "Frequency", bars)
}

// renderPriceByRating draws the average price for each star bucket.
func (r *Renderer) renderPriceByRating(summary *stats.Summary, path string) error {
	ratings := make([]int, 0, len(summary.PriceByRating))
	for rating := range summary.PriceByRating {
		ratings = append(ratings, rating)
	}
	sort.Ints(ratings)

	bars := make([]chart.Value, len(ratings))
	for i, rating := range ratings {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%d", rating),
			Value: summary.PriceByRating[rating],
			Style: barStyle(ratingFill),
		}
	}
	return r.renderBarChart(path, "Average Price by Rating ($)", "Average Price", bars)
}

// renderTopExpensive draws the highest-priced records, labels truncated.
func (r *Renderer) renderTopExpensive(records []types.ProductRecord, path string) error {
	top := topByPrice(records, r.cfg.TopN)

	bars := make([]chart.Value, len(top))
	for i := range top {
		bars[i] = chart.Value{
			Label: truncate(top[i].Title, chartTitleMaxRunes),
			Value: top[i].Price,
			Style: barStyle(topFill),
		}
	}
	title := fmt.Sprintf("Top %d Most Expensive Products ($)", len(top))
	return r.renderBarChart(path, title, "Price", bars)
}

// renderBarChart writes one bar chart PNG to path.
func (r *Renderer) renderBarChart(path, title, yAxisName string, bars []chart.Value) error {
	graph := chart.BarChart{
		Title:  title,
		Width:  1024,
		Height: 512,
		Background: chart.Style{
			Padding: chart.Box{Top: 48, Left: 16, Right: 16},
		},
		BarWidth:   barWidthFor(len(bars)),
		BarSpacing: 12,
		YAxis: chart.YAxis{
			Name: yAxisName,
		},
		Bars: bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return &types.WriteError{Path: path, Err: err}
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return &types.WriteError{Path: path, Err: err}
	}

	r.logger.Debug("chart written", "path", path, "bars", len(bars))
	return nil
}

// barWidthFor picks a bar width that keeps n bars inside the canvas.
func barWidthFor(n int) int {
	if n < 1 {
		n = 1
	}
	w := (1024 - 128) / n
	if w > 80 {
		return 80
	}
	if w < 18 {
		return 18
	}
	return w
}

// binPrices counts prices into equal-width bins across [min, max].
func binPrices(prices []float64, bins int) []chart.Value {
	if bins < 1 {
		bins = 1
	}
	min, max := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}

	width := (max - min) / float64(bins)
	if width == 0 {
		// All prices identical: one bin holds everything
		return []chart.Value{{
			Label: fmt.Sprintf("%.2f", min),
			Value: float64(len(prices)),
			Style: barStyle(histFill),
		}}
	}

	counts := make([]int, bins)
	for _, p := range prices {
		idx := int((p - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	values := make([]chart.Value, bins)
	for i, c := range counts {
		lo := min + float64(i)*width
		values[i] = chart.Value{
			Label: fmt.Sprintf("%.0f", lo),
			Value: float64(c),
			Style: barStyle(histFill),
		}
	}
	return values
}

// topByPrice returns up to n records sorted by descending price.
func topByPrice(records []types.ProductRecord, n int) []types.ProductRecord {
	sorted := make([]types.ProductRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price > sorted[j].Price
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// truncate shortens s to max runes, marking the cut with dots.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
