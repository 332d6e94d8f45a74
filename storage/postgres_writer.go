package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"imovelweb-scraper/models"
	"imovelweb-scraper/utils"
)

const (
	pingAttempts    = 10
	pingDelay       = 2 * time.Second
	insertBatchSize = 50
	apartmentFields = 11
)

// PostgresWriter mirrors finalized datasets into the apartments table.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < pingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		if sleepErr := utils.Sleep(ctx, pingDelay); sleepErr != nil {
			err = sleepErr
			break
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS apartments (
			id           SERIAL PRIMARY KEY,
			run_id       UUID        NOT NULL,
			title        TEXT,
			neighborhood TEXT,
			total_area   INTEGER,
			useful_area  INTEGER,
			bedrooms     INTEGER,
			bathrooms    INTEGER,
			garage       INTEGER     NOT NULL DEFAULT 0,
			rent         TEXT,
			condo_fee    TEXT,
			link         TEXT        UNIQUE,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_apartments_run_id       ON apartments(run_id);
		CREATE INDEX IF NOT EXISTS idx_apartments_neighborhood ON apartments(neighborhood);
	`)
	return err
}

// WriteDataset inserts every row of ds under runID. Links already stored by an
// earlier run are left untouched. It returns the number of inserted rows.
func (pw *PostgresWriter) WriteDataset(ctx context.Context, runID string, ds *models.Dataset) (int64, error) {
	rows := ds.Rows()
	var inserted int64
	for i := 0; i < len(rows); i += insertBatchSize {
		end := min(i+insertBatchSize, len(rows))
		query, args := insertStatement(runID, rows[i:end])
		res, err := pw.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("postgres: insert batch at row %d: %w", i, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}
	return inserted, nil
}

// insertStatement builds one multi-row INSERT for batch.
func insertStatement(runID string, batch []models.Apartment) (string, []any) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*apartmentFields)

	for idx, a := range batch {
		base := idx * apartmentFields
		placeholders := make([]string, apartmentFields)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			runID, a.Title, a.Neighborhood, a.TotalArea, a.UsefulArea,
			a.Bedrooms, a.Bathrooms, a.Garage, a.Rent, a.CondoFee, a.Link)
	}

	query := fmt.Sprintf(`
		INSERT INTO apartments (run_id, title, neighborhood, total_area, useful_area, bedrooms, bathrooms, garage, rent, condo_fee, link)
		VALUES %s
		ON CONFLICT (link) DO NOTHING
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

// CountRun returns how many rows are stored under runID.
func (pw *PostgresWriter) CountRun(ctx context.Context, runID string) (int, error) {
	var n int
	if err := pw.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM apartments WHERE run_id = $1`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count run: %w", err)
	}
	return n, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
