package parser

import (
	"log/slog"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

// Parser extracts product records from a fetched page.
type Parser interface {
	// Parse extracts records from a page. It returns the extracted
	// records and the number of malformed records that were dropped.
	Parse(page *types.Page) ([]types.ProductRecord, int, error)

	// Engine returns the selector engine identifier.
	Engine() string
}

// New creates the parser selected by cfg.Parser.Engine.
func New(cfg *config.Config, logger *slog.Logger) Parser {
	switch cfg.Parser.Engine {
	case "xpath":
		return NewXPathParser(cfg.Parser.XPath, logger)
	default:
		return NewCSSParser(cfg.Parser.CSS, logger)
	}
}
