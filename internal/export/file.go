package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/shelfwatch/shelfwatch/internal/types"
)

// --- CSV Exporter ---

// CSVExporter writes records as CSV rows, header first.
type CSVExporter struct {
	path        string
	file        *os.File
	writer      *csv.Writer
	wroteHeader bool
	count       int
	logger      *slog.Logger
}

// NewCSVExporter creates a new CSV file exporter.
func NewCSVExporter(outputPath string, logger *slog.Logger) (*CSVExporter, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, &types.WriteError{Path: outputPath, Err: err}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, &types.WriteError{Path: outputPath, Err: err}
	}

	return &CSVExporter{
		path:   outputPath,
		file:   f,
		writer: csv.NewWriter(f),
		logger: logger.With("component", "csv_exporter"),
	}, nil
}

func (e *CSVExporter) Name() string { return "csv" }
func (e *CSVExporter) Path() string { return e.path }

func (e *CSVExporter) Export(records []types.ProductRecord) error {
	if !e.wroteHeader {
		if err := e.writer.Write(types.CSVHeader()); err != nil {
			return &types.WriteError{Path: e.path, Err: fmt.Errorf("write CSV header: %w", err)}
		}
		e.wroteHeader = true
	}

	for i := range records {
		if err := e.writer.Write(records[i].CSVRow()); err != nil {
			return &types.WriteError{Path: e.path, Err: fmt.Errorf("write CSV row: %w", err)}
		}
		e.count++
	}

	e.writer.Flush()
	if err := e.writer.Error(); err != nil {
		return &types.WriteError{Path: e.path, Err: err}
	}
	return nil
}

func (e *CSVExporter) Close() error {
	e.writer.Flush()
	if err := e.writer.Error(); err != nil {
		e.file.Close()
		return &types.WriteError{Path: e.path, Err: err}
	}
	e.logger.Info("CSV written", "path", e.path, "records", e.count)
	if err := e.file.Close(); err != nil {
		return &types.WriteError{Path: e.path, Err: err}
	}
	return nil
}

// --- JSON Exporter ---

// JSONExporter buffers records and writes them as an indented JSON array.
type JSONExporter struct {
	path    string
	records []types.ProductRecord
	logger  *slog.Logger
}

// NewJSONExporter creates a new JSON file exporter.
func NewJSONExporter(outputPath string, logger *slog.Logger) (*JSONExporter, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, &types.WriteError{Path: outputPath, Err: err}
	}

	return &JSONExporter{
		path:    outputPath,
		records: make([]types.ProductRecord, 0),
		logger:  logger.With("component", "json_exporter"),
	}, nil
}

func (e *JSONExporter) Name() string { return "json" }
func (e *JSONExporter) Path() string { return e.path }

func (e *JSONExporter) Export(records []types.ProductRecord) error {
	e.records = append(e.records, records...)
	return nil
}

func (e *JSONExporter) Close() error {
	f, err := os.Create(e.path)
	if err != nil {
		return &types.WriteError{Path: e.path, Err: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e.records); err != nil {
		return &types.WriteError{Path: e.path, Err: fmt.Errorf("encode JSON: %w", err)}
	}

	e.logger.Info("JSON written", "path", e.path, "records", len(e.records))
	return nil
}

// --- JSONL Exporter ---

// JSONLExporter writes records as newline-delimited JSON, one per line.
type JSONLExporter struct {
	path   string
	file   *os.File
	enc    *json.Encoder
	count  int
	logger *slog.Logger
}

// NewJSONLExporter creates a new JSONL file exporter (streaming writes).
func NewJSONLExporter(outputPath string, logger *slog.Logger) (*JSONLExporter, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, &types.WriteError{Path: outputPath, Err: err}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, &types.WriteError{Path: outputPath, Err: err}
	}

	return &JSONLExporter{
		path:   outputPath,
		file:   f,
		enc:    json.NewEncoder(f),
		logger: logger.With("component", "jsonl_exporter"),
	}, nil
}

func (e *JSONLExporter) Name() string { return "jsonl" }
func (e *JSONLExporter) Path() string { return e.path }

func (e *JSONLExporter) Export(records []types.ProductRecord) error {
	for i := range records {
		if err := e.enc.Encode(&records[i]); err != nil {
			return &types.WriteError{Path: e.path, Err: fmt.Errorf("encode JSONL: %w", err)}
		}
		e.count++
	}
	return nil
}

func (e *JSONLExporter) Close() error {
	e.logger.Info("JSONL written", "path", e.path, "records", e.count)
	if err := e.file.Close(); err != nil {
		return &types.WriteError{Path: e.path, Err: err}
	}
	return nil
}

// --- XLSX Exporter ---

// sheetName is the worksheet records are written to.
const sheetName = "Products"

// XLSXExporter buffers records and writes them as an Excel workbook.
type XLSXExporter struct {
	path    string
	records []types.ProductRecord
	logger  *slog.Logger
}

// NewXLSXExporter creates a new XLSX file exporter.
func NewXLSXExporter(outputPath string, logger *slog.Logger) (*XLSXExporter, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, &types.WriteError{Path: outputPath, Err: err}
	}

	return &XLSXExporter{
		path:    outputPath,
		records: make([]types.ProductRecord, 0),
		logger:  logger.With("component", "xlsx_exporter"),
	}, nil
}

func (e *XLSXExporter) Name() string { return "xlsx" }
func (e *XLSXExporter) Path() string { return e.path }

func (e *XLSXExporter) Export(records []types.ProductRecord) error {
	e.records = append(e.records, records...)
	return nil
}

func (e *XLSXExporter) Close() error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return &types.WriteError{Path: e.path, Err: err}
	}

	header := types.CSVHeader()
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return &types.WriteError{Path: e.path, Err: err}
	}

	for i := range e.records {
		rec := &e.records[i]
		row := []any{
			rec.Title,
			rec.Price,
			rec.Rating,
			rec.Availability,
			rec.Page,
			rec.SourceURL,
			rec.ScrapedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return &types.WriteError{Path: e.path, Err: err}
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return &types.WriteError{Path: e.path, Err: err}
		}
	}

	// Widen the title and URL columns for readability
	if err := f.SetColWidth(sheetName, "A", "A", 42); err != nil {
		return &types.WriteError{Path: e.path, Err: err}
	}
	if err := f.SetColWidth(sheetName, "F", "G", 28); err != nil {
		return &types.WriteError{Path: e.path, Err: err}
	}

	if err := f.SaveAs(e.path); err != nil {
		return &types.WriteError{Path: e.path, Err: err}
	}

	e.logger.Info("XLSX written", "path", e.path, "records", len(e.records))
	return nil
}
