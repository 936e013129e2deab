package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shelfwatch/shelfwatch/internal/types"
)

// currencyStripper removes currency symbols and thousands separators.
var currencyStripper = strings.NewReplacer("£", "", "€", "", "$", "", ",", "")

// parsePrice converts price text like "£51.77" into a float.
func parsePrice(text string) (float64, error) {
	cleaned := strings.TrimSpace(currencyStripper.Replace(text))
	if cleaned == "" {
		return 0, types.ErrMissingPrice
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", types.ErrBadPrice, strings.TrimSpace(text))
	}
	return v, nil
}

// ratingWords maps the star-rating class word to its numeric value.
var ratingWords = map[string]int{
	"One":   1,
	"Two":   2,
	"Three": 3,
	"Four":  4,
	"Five":  5,
}

// ratingFromClass extracts the star rating from a class attribute like
// "star-rating Three". An unrecognized word yields 0 (unknown).
func ratingFromClass(classAttr string) int {
	for _, cls := range strings.Fields(classAttr) {
		if v, ok := ratingWords[cls]; ok {
			return v
		}
	}
	return 0
}

// collapseSpace trims and normalizes inner whitespace runs to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
