package parser

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

// XPathParser extracts product records using XPath expressions.
type XPathParser struct {
	selectors config.SelectorSet
	logger    *slog.Logger
}

// NewXPathParser creates a new XPath parser.
func NewXPathParser(selectors config.SelectorSet, logger *slog.Logger) *XPathParser {
	return &XPathParser{
		selectors: selectors,
		logger:    logger.With("component", "xpath_parser"),
	}
}

// Engine returns the selector engine identifier.
func (p *XPathParser) Engine() string {
	return "xpath"
}

// Parse implements Parser.
func (p *XPathParser) Parse(page *types.Page) ([]types.ProductRecord, int, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return nil, 0, &types.ParseError{URL: page.URL, Err: err}
	}

	nodes, err := htmlquery.QueryAll(doc, p.selectors.Product)
	if err != nil {
		return nil, 0, &types.ParseError{URL: page.URL, Selector: p.selectors.Product, Err: err}
	}

	var records []types.ProductRecord
	dropped := 0

	for i, node := range nodes {
		rec, err := p.extractRecord(node, page)
		if err != nil {
			dropped++
			p.logger.Warn("record dropped", "url", page.URL, "index", i, "error", err)
			continue
		}
		records = append(records, rec)
	}

	p.logger.Debug("page parsed", "url", page.URL, "records", len(records), "dropped", dropped)
	return records, dropped, nil
}

// extractRecord pulls one product out of a listing node.
func (p *XPathParser) extractRecord(node *html.Node, page *types.Page) (types.ProductRecord, error) {
	var rec types.ProductRecord

	titleNode, err := htmlquery.Query(node, p.selectors.Title)
	if err != nil || titleNode == nil {
		return rec, &types.ParseError{URL: page.URL, Selector: p.selectors.Title, Err: types.ErrMissingTitle}
	}
	title := htmlquery.SelectAttr(titleNode, "title")
	if title == "" {
		title = collapseSpace(htmlquery.InnerText(titleNode))
	}
	if title == "" {
		return rec, &types.ParseError{URL: page.URL, Selector: p.selectors.Title, Err: types.ErrMissingTitle}
	}

	priceNode, err := htmlquery.Query(node, p.selectors.Price)
	if err != nil || priceNode == nil {
		return rec, &types.ParseError{URL: page.URL, Selector: p.selectors.Price, Err: types.ErrMissingPrice}
	}
	price, err := parsePrice(htmlquery.InnerText(priceNode))
	if err != nil {
		return rec, &types.ParseError{URL: page.URL, Selector: p.selectors.Price, Err: err}
	}

	ratingNode, err := htmlquery.Query(node, p.selectors.Rating)
	if err != nil || ratingNode == nil {
		return rec, &types.ParseError{URL: page.URL, Selector: p.selectors.Rating, Err: types.ErrMissingRating}
	}
	rating := ratingFromClass(htmlquery.SelectAttr(ratingNode, "class"))

	availability := ""
	if availNode, err := htmlquery.Query(node, p.selectors.Availability); err == nil && availNode != nil {
		availability = collapseSpace(htmlquery.InnerText(availNode))
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
