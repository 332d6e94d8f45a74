package storage

import (
	"context"

	"imovelweb-scraper/models"
)

// RowAppender receives each page's rows as soon as they are scraped.
type RowAppender interface {
	Append(rows []models.Apartment) error
}

// DatasetWriter replaces its stored contents with a finalized dataset.
type DatasetWriter interface {
	Rewrite(ds *models.Dataset) error
}

// Mirror copies a finalized dataset into a secondary store.
type Mirror interface {
	WriteDataset(ctx context.Context, runID string, ds *models.Dataset) (int64, error)
	Close() error
}

var (
	_ RowAppender   = (*CSVSink)(nil)
	_ DatasetWriter = (*CSVSink)(nil)
	_ Mirror        = (*PostgresWriter)(nil)
)
