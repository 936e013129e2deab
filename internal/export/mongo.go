package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

// MongoExporter writes records to a MongoDB collection.
type MongoExporter struct {
	client     *mongo.Client
	collection *mongo.Collection
	target     string
	timeout    time.Duration
	count      int
	logger     *slog.Logger
}

// NewMongoExporter connects to MongoDB and prepares the target collection.
func NewMongoExporter(cfg *config.MongoConfig, logger *slog.Logger) (*MongoExporter, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoExporter{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		target:     fmt.Sprintf("%s.%s", cfg.Database, cfg.Collection),
		timeout:    timeout,
		logger:     logger.With("component", "mongo_exporter"),
	}, nil
}

func (e *MongoExporter) Name() string { return "mongodb" }
func (e *MongoExporter) Path() string { return e.target }

func (e *MongoExporter) Export(records []types.ProductRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]any, len(records))
	for i := range records {
		docs[i] = &records[i]
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if _, err := e.collection.InsertMany(ctx, docs); err != nil {
		return &types.WriteError{Path: e.target, Err: fmt.Errorf("mongodb insert: %w", err)}
	}

	e.count += len(records)
	e.logger.Debug("records stored in mongodb", "count", len(records), "total", e.count)
	return nil
}

func (e *MongoExporter) Close() error {
	e.logger.Info("mongodb exporter closing", "total_records", e.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.client.Disconnect(ctx)
}

// --- Multi-Exporter Fan-Out ---

// MultiExporter writes records to multiple backends in turn.
type MultiExporter struct {
	backends []Exporter
	logger   *slog.Logger
}

// NewMultiExporter creates an exporter that fans out to multiple backends.
func NewMultiExporter(backends []Exporter, logger *slog.Logger) *MultiExporter {
	return &MultiExporter{
		backends: backends,
		logger:   logger.With("component", "multi_exporter"),
	}
}

func (e *MultiExporter) Name() string { return "multi" }

func (e *MultiExporter) Path() string {
	if len(e.backends) == 0 {
		return ""
	}
	paths := e.backends[0].Path()
	for _, backend := range e.backends[1:] {
		paths += ", " + backend.Path()
	}
	return paths
}

func (e *MultiExporter) Export(records []types.ProductRecord) error {
	var firstErr error
	for _, backend := range e.backends {
		if err := backend.Export(records); err != nil {
			e.logger.Error("backend export failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (e *MultiExporter) Close() error {
	var firstErr error
	for _, backend := range e.backends {
		if err := backend.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
