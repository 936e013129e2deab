package report

import (
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/stats"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

type chartSection struct {
	Heading string
	Src     string
	Alt     string
}

type topRow struct {
	Rank         int
	Title        string
	Price        float64
	Rating       int
	Availability string
}

type reportData struct {
	Title       string
	GeneratedAt string
	Summary     *stats.Summary
	Charts      []chartSection
	Top         []topRow
}

var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

// renderHTML writes the report page referencing the chart images.
func (r *Renderer) renderHTML(records []types.ProductRecord, summary *stats.Summary, path string) error {
	top := topByPrice(records, r.cfg.TopN)
	rows := make([]topRow, len(top))
	for i := range top {
		rows[i] = topRow{
			Rank:         i + 1,
			Title:        top[i].Title,
			Price:        top[i].Price,
			Rating:       top[i].Rating,
			Availability: top[i].Availability,
		}
	}

	data := reportData{
		Title:       r.cfg.Title,
		GeneratedAt: time.Now().Format("2006-01-02 at 15:04:05"),
		Summary:     summary,
		Charts: []chartSection{
			{Heading: "Price Distribution", Src: chartsDirName + "/" + priceDistFile, Alt: "Price Distribution"},
			{Heading: "Average Price by Rating", Src: chartsDirName + "/" + priceByRatingFile, Alt: "Price by Rating"},
			{Heading: fmt.Sprintf("Top %d Most Expensive Products", len(top)), Src: chartsDirName + "/" + topExpensiveFile, Alt: "Top Expensive"},
		},
		Top: rows,
	}

	f, err := os.Create(path)
	if err != nil {
		return &types.WriteError{Path: path, Err: err}
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, data); err != nil {
		return &types.WriteError{Path: path, Err: err}
	}
	return nil
}

const reportHTML = `<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: 'Segoe UI', Arial, sans-serif; max-width: 1200px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 10px; margin-bottom: 30px; }
        h1 { margin: 0; }
        .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin-bottom: 30px; }
        .stat-card { background: white; padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .stat-value { font-size: 2em; font-weight: bold; color: #667eea; }
        .chart { background: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .chart img { width: 100%; height: auto; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 12px 16px; text-align: left; border-bottom: 1px solid #eee; }
        th { background: #667eea; color: white; }
        td.num { text-align: right; }
        .footer { text-align: center; margin-top: 40px; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <h1>&#128202; {{.Title}}</h1>
        <p>Generated on {{.GeneratedAt}}</p>
        <p>Total Products Analyzed: {{.Summary.Count}}</p>
    </div>

    <div class="stats">
        <div class="stat-card">
            <div>Average Price</div>
            <div class="stat-value">{{printf "$%.2f" .Summary.MeanPrice}}</div>
        </div>
        <div class="stat-card">
            <div>Median Price</div>
            <div class="stat-value">{{printf "$%.2f" .Summary.MedianPrice}}</div>
        </div>
        <div class="stat-card">
            <div>Lowest Price</div>
            <div class="stat-value">{{printf "$%.2f" .Summary.MinPrice}}</div>
        </div>
        <div class="stat-card">
            <div>Highest Price</div>
            <div class="stat-value">{{printf "$%.2f" .Summary.MaxPrice}}</div>
        </div>
        <div class="stat-card">
            <div>Price Range</div>
            <div class="stat-value">{{printf "$%.2f" .Summary.PriceRange}}</div>
        </div>
        <div class="stat-card">
            <div>Average Rating</div>
            <div class="stat-value">{{printf "%.1f" .Summary.MeanRating}} &#9733;</div>
        </div>
    </div>

    {{range .Charts}}
    <div class="chart">
        <h2>{{.Heading}}</h2>
        <img src="{{.Src}}" alt="{{.Alt}}">
    </div>
    {{end}}

    <div class="chart">
        <h2>Top {{len .Top}} by Price</h2>
        <table>
            <tr><th>#</th><th>Title</th><th>Price</th><th>Rating</th><th>Availability</th></tr>
            {{range .Top}}
            <tr><td>{{.Rank}}</td><td>{{.Title}}</td><td class="num">{{printf "$%.2f" .Price}}</td><td>{{.Rating}}</td><td>{{.Availability}}</td></tr>
            {{end}}
        </table>
    </div>

    <div class="footer">
        <p>Report generated by shelfwatch</p>
    </div>
</body>
</html>
`
