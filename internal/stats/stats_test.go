package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/shelfwatch/shelfwatch/internal/types"
)

func recordsWithPrices(prices ...float64) []types.ProductRecord {
	records := make([]types.ProductRecord, len(prices))
	for i, p := range prices {
		records[i] = types.ProductRecord{Title: "book", Price: p, Rating: 3}
	}
	return records
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeKnownFixture(t *testing.T) {
	s, err := Compute(recordsWithPrices(10.00, 20.00, 30.00))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if s.Count != 3 {
		t.Errorf("count = %d, want 3", s.Count)
	}
	if !almostEqual(s.MeanPrice, 20.00) {
		t.Errorf("mean = %v, want 20.00", s.MeanPrice)
	}
	if !almostEqual(s.MedianPrice, 20.00) {
		t.Errorf("median = %v, want 20.00", s.MedianPrice)
	}
	if !almostEqual(s.MinPrice, 10.00) {
		t.Errorf("min = %v, want 10.00", s.MinPrice)
	}
	if !almostEqual(s.MaxPrice, 30.00) {
		t.Errorf("max = %v, want 30.00", s.MaxPrice)
	}
	if !almostEqual(s.PriceRange, 20.00) {
		t.Errorf("range = %v, want 20.00", s.PriceRange)
	}
}

func TestMedianOddCount(t *testing.T) {
	s, err := Compute(recordsWithPrices(9.0, 1.0, 5.0))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !almostEqual(s.MedianPrice, 5.0) {
		t.Errorf("median = %v, want middle element 5.0", s.MedianPrice)
	}
}

func TestMedianEvenCount(t *testing.T) {
	s, err := Compute(recordsWithPrices(40.0, 10.0, 30.0, 20.0))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !almostEqual(s.MedianPrice, 25.0) {
		t.Errorf("median = %v, want 25.0 (average of two middle)", s.MedianPrice)
	}
}

func TestOrderingInvariants(t *testing.T) {
	s, err := Compute(recordsWithPrices(12.10, 99.99, 3.50, 47.25, 60.00, 8.20))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if s.MinPrice > s.MedianPrice || s.MedianPrice > s.MaxPrice {
		t.Errorf("ordering violated: min %v, median %v, max %v", s.MinPrice, s.MedianPrice, s.MaxPrice)
	}
	if s.MeanPrice < s.MinPrice || s.MeanPrice > s.MaxPrice {
		t.Errorf("mean %v outside [%v, %v]", s.MeanPrice, s.MinPrice, s.MaxPrice)
	}
}

func TestSingleRecord(t *testing.T) {
	s, err := Compute(recordsWithPrices(42.00))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !almostEqual(s.MeanPrice, 42) || !almostEqual(s.MedianPrice, 42) ||
		!almostEqual(s.MinPrice, 42) || !almostEqual(s.MaxPrice, 42) {
		t.Errorf("single record stats = %+v", s)
	}
	if !almostEqual(s.PriceRange, 0) {
		t.Errorf("range = %v, want 0", s.PriceRange)
	}
}

func TestEmptyInputIsErrNoData(t *testing.T) {
	_, err := Compute(nil)
	if !errors.Is(err, types.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}

	_, err = Compute([]types.ProductRecord{})
	if !errors.Is(err, types.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestRatingHistogram(t *testing.T) {
	records := []types.ProductRecord{
		{Title: "a", Price: 10, Rating: 3},
		{Title: "b", Price: 20, Rating: 3},
		{Title: "c", Price: 30, Rating: 5},
		{Title: "d", Price: 40, Rating: 0},
	}

	s, err := Compute(records)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if s.RatingCounts[3] != 2 || s.RatingCounts[5] != 1 || s.RatingCounts[0] != 1 {
		t.Errorf("rating counts = %v", s.RatingCounts)
	}
	if _, ok := s.RatingCounts[4]; ok {
		t.Error("bucket 4 should not occur")
	}

	// (3+3+5+0)/4
	if !almostEqual(s.MeanRating, 2.75) {
		t.Errorf("mean rating = %v, want 2.75", s.MeanRating)
	}
}

func TestPriceByRating(t *testing.T) {
	records := []types.ProductRecord{
		{Title: "a", Price: 10, Rating: 3},
		{Title: "b", Price: 20, Rating: 3},
		{Title: "c", Price: 30, Rating: 5},
	}

	s, err := Compute(records)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if !almostEqual(s.PriceByRating[3], 15.0) {
		t.Errorf("price by rating 3 = %v, want 15.0", s.PriceByRating[3])
	}
	if !almostEqual(s.PriceByRating[5], 30.0) {
		t.Errorf("price by rating 5 = %v, want 30.0", s.PriceByRating[5])
	}
}

func BenchmarkCompute(b *testing.B) {
	records := make([]types.ProductRecord, 1000)
	for i := range records {
		records[i] = types.ProductRecord{Price: float64(i%50) + 0.99, Rating: i % 6}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Compute(records)
	}
}
