package stats

import (
	"fmt"

	mstats "github.com/montanaflynn/stats"

	"github.com/shelfwatch/shelfwatch/internal/types"
)

// Summary holds descriptive statistics over one scrape run.
type Summary struct {
	// Count is the number of records the statistics cover.
	Count int `json:"count"`

	// Price statistics across all records.
	MeanPrice   float64 `json:"mean_price"`
	MedianPrice float64 `json:"median_price"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	PriceRange  float64 `json:"price_range"`

	// MeanRating is the average star rating, unknown ratings counting as 0.
	MeanRating float64 `json:"mean_rating"`

	// RatingCounts maps each star bucket that occurs to its record count.
	RatingCounts map[int]int `json:"rating_counts"`

	// PriceByRating maps each star bucket that occurs to its mean price.
	PriceByRating map[int]float64 `json:"price_by_rating"`
}

// Compute derives a Summary from the full record list.
// It returns types.ErrNoData when the list is empty.
func Compute(records []types.ProductRecord) (*Summary, error) {
	if len(records) == 0 {
		return nil, types.ErrNoData
	}

	prices := make([]float64, len(records))
	ratingSum := 0
	ratingCounts := make(map[int]int)
	pricesByRating := make(map[int][]float64)

	for i, rec := range records {
		prices[i] = rec.Price
		ratingSum += rec.Rating
		ratingCounts[rec.Rating]++
		pricesByRating[rec.Rating] = append(pricesByRating[rec.Rating], rec.Price)
	}

	mean, err := mstats.Mean(prices)
	if err != nil {
		return nil, fmt.Errorf("compute mean: %w", err)
	}
	median, err := mstats.Median(prices)
	if err != nil {
		return nil, fmt.Errorf("compute median: %w", err)
	}
	min, err := mstats.Min(prices)
	if err != nil {
		return nil, fmt.Errorf("compute min: %w", err)
	}
	max, err := mstats.Max(prices)
	if err != nil {
		return nil, fmt.Errorf("compute max: %w", err)
	}

	priceByRating := make(map[int]float64, len(pricesByRating))
	for rating, group := range pricesByRating {
		avg, err := mstats.Mean(group)
		if err != nil {
			return nil, fmt.Errorf("compute rating bucket mean: %w", err)
		}
		priceByRating[rating] = avg
	}

	return &Summary{
		Count:         len(records),
		MeanPrice:     mean,
		MedianPrice:   median,
		MinPrice:      min,
		MaxPrice:      max,
		PriceRange:    max - min,
		MeanRating:    float64(ratingSum) / float64(len(records)),
		RatingCounts:  ratingCounts,
		PriceByRating: priceByRating,
	}, nil
}
