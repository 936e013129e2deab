package parser

import (
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

// CSSParser extracts product records using CSS selectors via goquery.
type CSSParser struct {
	selectors config.SelectorSet
	logger    *slog.Logger
}

// NewCSSParser creates a new CSS selector parser.
func NewCSSParser(selectors config.SelectorSet, logger *slog.Logger) *CSSParser {
	return &CSSParser{
		selectors: selectors,
		logger:    logger.With("component", "css_parser"),
	}
}

// Engine returns the selector engine identifier.
func (p *CSSParser) Engine() string {
	return "css"
}

// Parse implements Parser.
func (p *CSSParser) Parse(page *types.Page) ([]types.ProductRecord, int, error) {
	doc, err := page.Document()
	if err != nil {
		return nil, 0, &types.ParseError{URL: page.URL, Err: err}
	}

	var records []types.ProductRecord
	dropped := 0

	doc.Find(p.selectors.Product).Each(func(i int, sel *goquery.Selection) {
		rec, err := p.extractRecord(sel, page)
		if err != nil {
			dropped++
			p.logger.Warn("record dropped", "url", page.URL, "index", i, "error", err)
			return
		}
		records = append(records, rec)
	})

	p.logger.Debug("page parsed", "url", page.URL, "records", len(records), "dropped", dropped)
	return records, dropped, nil
}

// extractRecord pulls one product out of a listing element.
func (p *CSSParser) extractRecord(sel *goquery.Selection, page *types.Page) (types.ProductRecord, error) {
	var rec types.ProductRecord

	titleSel := sel.Find(p.selectors.Title).First()
	if titleSel.Length() == 0 {
		return rec, &types.ParseError{URL: page.URL, Selector: p.selectors.Title, Err: types.ErrMissingTitle}
	}
	title, ok := titleSel.Attr("title")
	if !ok || title == "" {
		title = collapseSpace(titleSel.Text())
	}
	if title == "" {
		return rec, &types.ParseError{URL: page.URL, Selector: p.selectors.Title, Err: types.ErrMissingTitle}
	}

	priceSel := sel.Find(p.selectors.Price).First()
	if priceSel.Length() == 0 {
		return rec, &types.ParseError{URL: page.URL, Selector: p.selectors.Price, Err: types.ErrMissingPrice}
	}
	price, err := parsePrice(priceSel.Text())
	if err != nil {
		return rec, &types.ParseError{URL: page.URL, Selector: p.selectors.Price, Err: err}
	}

	ratingSel := sel.Find(p.selectors.Rating).First()
	if ratingSel.Length() == 0 {
		return rec, &types.ParseError{URL: page.URL, Selector: p.selectors.Rating, Err: types.ErrMissingRating}
	}
	classAttr, _ := ratingSel.Attr("class")
	rating := ratingFromClass(classAttr)

	availability := ""
	if availSel := sel.Find(p.selectors.Availability).First(); availSel.Length() > 0 {
		availability = collapseSpace(availSel.Text())
	}

	rec = types.ProductRecord{
		Title:        title,
		Price:        price,
		Rating:       rating,
		Availability: availability,
		Page:         page.Number,
		SourceURL:    page.URL,
		ScrapedAt:    time.Now(),
	}
	return rec, nil
}
