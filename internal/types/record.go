package types

import (
	"encoding/json"
	"strconv"
	"time"
)

// ProductRecord is a single product extracted from a listing page.
type ProductRecord struct {
	// Title is the product name.
	Title string `json:"title" bson:"title"`

	// Price is the listed price with currency symbols stripped.
	Price float64 `json:"price" bson:"price"`

	// Rating is the star rating from 1 to 5, or 0 when unknown.
	Rating int `json:"rating" bson:"rating"`

	// Availability is the stock text as shown on the page, if any.
	Availability string `json:"availability,omitempty" bson:"availability,omitempty"`

	// Page is the 1-based listing page number this record came from.
	Page int `json:"page" bson:"page"`

	// SourceURL is the page URL this record was extracted from.
	SourceURL string `json:"source_url" bson:"source_url"`

	// ScrapedAt is when this record was extracted.
	ScrapedAt time.Time `json:"scraped_at" bson:"scraped_at"`
}

// CSVHeader returns the column names for CSV export, in order.
func CSVHeader() []string {
	return []string{"title", "price", "rating", "availability", "page", "source_url", "scraped_at"}
}

// CSVRow returns the record as CSV fields matching CSVHeader order.
func (r *ProductRecord) CSVRow() []string {
	return []string{
		r.Title,
		strconv.FormatFloat(r.Price, 'f', -1, 64),
		strconv.Itoa(r.Rating),
		r.Availability,
		strconv.Itoa(r.Page),
		r.SourceURL,
		r.ScrapedAt.Format(time.RFC3339),
	}
}

// ToJSON serializes the record to JSON bytes.
func (r *ProductRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
