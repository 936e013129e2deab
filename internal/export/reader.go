package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/types"
)

// ReadCSV loads records previously written by the CSV exporter.
// Columns are matched by header name, so column order does not matter.
func ReadCSV(path string) ([]types.ProductRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read CSV header: %w", types.ErrNoData)
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"title", "price"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("CSV missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []types.ProductRecord
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", line, err)
		}
		line++

		price, err := strconv.ParseFloat(field(row, "price"), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: %q", line, types.ErrBadPrice, field(row, "price"))
		}

		// Optional columns may be absent (empty field), but a present
		// value that does not parse is a corrupt file, not a zero.
		var rating, page int
		var scrapedAt time.Time
		if s := field(row, "rating"); s != "" {
			if rating, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("row %d: invalid rating %q", line, s)
			}
		}
		if s := field(row, "page"); s != "" {
			if page, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("row %d: invalid page %q", line, s)
			}
		}
		if s := field(row, "scraped_at"); s != "" {
			if scrapedAt, err = time.Parse(time.RFC3339, s); err != nil {
				return nil, fmt.Errorf("row %d: invalid scraped_at %q", line, s)
			}
		}

		records = append(records, types.ProductRecord{
			Title:        field(row, "title"),
			Price:        price,
			Rating:       rating,
			Availability: field(row, "availability"),
			Page:         page,
			SourceURL:    field(row, "source_url"),
			ScrapedAt:    scrapedAt,
		})
	}

	return records, nil
}
