package types

import (
	"bytes"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page represents the result of fetching one listing page.
type Page struct {
	// URL is the final page URL after any redirects.
	URL string

	// Number is the 1-based position of this page in the run.
	Number int

	// StatusCode is the HTTP status code.
	StatusCode int

	// Headers are the response HTTP headers.
	Headers http.Header

	// Body is the decoded response body bytes.
	Body []byte

	// ContentType is the MIME type of the response.
	ContentType string

	// FetchDuration is how long the fetch took.
	FetchDuration time.Duration

	// FetchedAt is when this page was received.
	FetchedAt time.Time

	// doc is the parsed goquery document, built on first use.
	doc *goquery.Document
}

// NewPage creates a Page from an http.Response and its decoded body.
func NewPage(httpResp *http.Response, body []byte, duration time.Duration) *Page {
	return &Page{
		URL:           httpResp.Request.URL.String(),
		StatusCode:    httpResp.StatusCode,
		Headers:       httpResp.Header,
		Body:          body,
		ContentType:   httpResp.Header.Get("Content-Type"),
		FetchDuration: duration,
		FetchedAt:     time.Now(),
	}
}

// NewBrowserPage creates a Page from headless browser output.
func NewBrowserPage(finalURL string, body []byte, duration time.Duration) *Page {
	return &Page{
		URL:           finalURL,
		StatusCode:    http.StatusOK,
		Headers:       make(http.Header),
		Body:          body,
		ContentType:   "text/html",
		FetchDuration: duration,
		FetchedAt:     time.Now(),
	}
}

// Document returns the parsed goquery document, lazily initializing it.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}

// IsSuccess returns true if the response status is 2xx.
func (p *Page) IsSuccess() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}
