package export

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

// Exporter is the interface for all record output backends.
type Exporter interface {
	// Export writes a batch of records.
	Export(records []types.ProductRecord) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the exporter backend identifier.
	Name() string

	// Path returns where the records were written.
	Path() string
}

// New creates the exporter selected by cfg.Export.Format.
// A comma-separated format list fans out to every named backend.
func New(cfg *config.Config, logger *slog.Logger) (Exporter, error) {
	formats := strings.Split(cfg.Export.Format, ",")
	if len(formats) > 1 {
		backends := make([]Exporter, 0, len(formats))
		for _, format := range formats {
			backend, err := newSingle(strings.TrimSpace(format), cfg, logger)
			if err != nil {
				for _, b := range backends {
					b.Close()
				}
				return nil, err
			}
			backends = append(backends, backend)
		}
		return NewMultiExporter(backends, logger), nil
	}
	return newSingle(strings.TrimSpace(cfg.Export.Format), cfg, logger)
}

// newSingle creates one backend by format name.
func newSingle(format string, cfg *config.Config, logger *slog.Logger) (Exporter, error) {
	switch format {
	case "csv":
		return NewCSVExporter(outputPath(cfg, "csv"), logger)
	case "json":
		return NewJSONExporter(outputPath(cfg, "json"), logger)
	case "jsonl":
		return NewJSONLExporter(outputPath(cfg, "jsonl"), logger)
	case "xlsx":
		return NewXLSXExporter(outputPath(cfg, "xlsx"), logger)
	case "mongodb":
		return NewMongoExporter(&cfg.Export.Mongo, logger)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// outputPath resolves the output file path for a format, generating a
// timestamped name when none is configured.
func outputPath(cfg *config.Config, ext string) string {
	name := cfg.Export.FileName
	if name == "" {
		name = DefaultFileName(ext)
	} else if !strings.HasSuffix(name, "."+ext) {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + "." + ext
	}
	return filepath.Join(cfg.Export.OutputDir, name)
}

// DefaultFileName returns the timestamped output name for an extension.
func DefaultFileName(ext string) string {
	return fmt.Sprintf("scraped_products_%s.%s", time.Now().Format("20060102_150405"), ext)
}
