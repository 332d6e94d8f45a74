package models

// Dataset is the ordered, growable collection of scraped rows. Duplicate links
// are allowed here; they are only removed at finalization.
type Dataset struct {
	rows []Apartment
}

// NewDataset creates a dataset holding a copy of rows.
func NewDataset(rows ...Apartment) *Dataset {
	ds := &Dataset{rows: make([]Apartment, 0, len(rows))}
	ds.rows = append(ds.rows, rows...)
	return ds
}

// Append adds one page's batch to the end of the dataset.
func (d *Dataset) Append(batch ...Apartment) {
	d.rows = append(d.rows, batch...)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Rows returns the rows in insertion order. The slice must not be modified.
func (d *Dataset) Rows() []Apartment {
	return d.rows
}

// At returns row i.
func (d *Dataset) At(i int) Apartment {
	return d.rows[i]
}
