package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNoData        = errors.New("no records to aggregate")
	ErrEmptyBody     = errors.New("empty response body")
	ErrInvalidURL    = errors.New("invalid URL")
	ErrMissingTitle  = errors.New("missing product title")
	ErrMissingPrice  = errors.New("missing price element")
	ErrMissingRating = errors.New("missing rating element")
	ErrBadPrice      = errors.New("unparseable price text")
)

// FetchError wraps errors that occur while fetching a page.
// The caller skips the page and continues with the rest of the run.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur while extracting a single record.
// The caller drops that record and continues with the page.
type ParseError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError wraps errors that occur while writing run outputs.
// Any write failure is fatal for the run.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write error for %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
