package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"imovelweb-scraper/models"
)

// CSVSink is the run's output file. Rows are appended page by page and the
// whole file is rewritten once the dataset is finalized.
type CSVSink struct {
	mu   sync.Mutex
	path string
}

// FileName returns the output file name for a run started at t.
func FileName(t time.Time) string {
	return "apartment_ads_" + t.Format("20060102_150405") + ".csv"
}

// NewCSVSink names the output file inside dir from the start time. The file
// itself is created on the first Append.
func NewCSVSink(dir string, start time.Time) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVSink{path: filepath.Join(dir, FileName(start))}, nil
}

func (c *CSVSink) Path() string {
	return c.path
}

// Append adds rows to the end of the file. The header is written only when
// the file is new or empty.
func (c *CSVSink) Append(rows []models.Apartment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("csv: open %q: %w", c.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: stat %q: %w", c.path, err)
	}

	if err := writeRows(f, rows, info.Size() == 0); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Rewrite replaces the file with ds, header first.
func (c *CSVSink) Rewrite(ds *models.Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create %q: %w", c.path, err)
	}
	if err := writeRows(f, ds.Rows(), true); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load reads the file back. A file that was never written loads as an empty
// dataset.
func (c *CSVSink) Load() (*models.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Open(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewDataset(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", c.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(models.Columns)

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return models.NewDataset(), nil
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	ds := models.NewDataset()
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		ds.Append(models.ApartmentFromRecord(rec))
	}
	return ds, nil
}

func writeRows(w io.Writer, rows []models.Apartment, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(models.Columns); err != nil {
			return fmt.Errorf("csv: write header: %w", err)
		}
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}
