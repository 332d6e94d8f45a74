package services

import (
	"imovelweb-scraper/models"
	"imovelweb-scraper/utils"
)

// Stats are the diagnostics computed while finalizing a dataset.
type Stats struct {
	Records            int
	DuplicateRows      int
	UniqueLinks        int
	DuplicateLinks     int
	DuplicateRowsAfter int
}

// Finalizer removes repeated advertisements from a completed run.
type Finalizer struct {
	logger *utils.Logger
}

// NewFinalizer creates a Finalizer with the given logger.
func NewFinalizer(logger *utils.Logger) *Finalizer {
	return &Finalizer{logger: logger}
}

// Finalize keeps the first row for every link and reports duplicate counts
// measured before and after. Rows without a link share one key. The input is
// not modified.
func (f *Finalizer) Finalize(ds *models.Dataset) (*models.Dataset, Stats) {
	stats := Stats{
		Records:       ds.Len(),
		DuplicateRows: countDuplicateRows(ds.Rows()),
	}

	links := utils.NewLinkSet()
	out := models.NewDataset()
	for _, row := range ds.Rows() {
		if !links.Add(row.Link) {
			stats.DuplicateLinks++
			f.logger.Debug("[finalizer] Duplicate link skipped: %s", linkText(row.Link))
			continue
		}
		out.Append(row)
	}
	stats.UniqueLinks = links.Unique()
	stats.DuplicateRowsAfter = countDuplicateRows(out.Rows())

	f.logger.Info("[finalizer] Finalized %d → %d rows (dropped %d duplicate links)",
		stats.Records, out.Len(), stats.DuplicateLinks)
	return out, stats
}

// countDuplicateRows counts rows equal in every column to an earlier row.
func countDuplicateRows(rows []models.Apartment) int {
	seen := make(map[string]struct{}, len(rows))
	dups := 0
	for _, row := range rows {
		key := row.RowKey()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

func linkText(link *string) string {
	if link == nil {
		return "<missing>"
	}
	return *link
}
