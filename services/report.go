package services

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"imovelweb-scraper/models"
)

// NeighborhoodCount is the number of finalized listings in one neighborhood.
type NeighborhoodCount struct {
	Name  string
	Count int
}

// ListingsByNeighborhood counts rows per neighborhood, most listings first,
// ties by name. Rows without a neighborhood are left out.
func ListingsByNeighborhood(ds *models.Dataset) []NeighborhoodCount {
	counts := make(map[string]int)
	for _, row := range ds.Rows() {
		if row.Neighborhood != nil && *row.Neighborhood != "" {
			counts[*row.Neighborhood]++
		}
	}

	out := make([]NeighborhoodCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, NeighborhoodCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ReportPrinter renders the finalization diagnostics for the console.
type ReportPrinter struct {
	out      io.Writer
	topHoods int
}

// NewReportPrinter writes to out and lists at most topHoods neighborhoods;
// zero lists all of them.
func NewReportPrinter(out io.Writer, topHoods int) *ReportPrinter {
	return &ReportPrinter{out: out, topHoods: topHoods}
}

func (p *ReportPrinter) Print(stats Stats, ds *models.Dataset) {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetTitle("Dataset diagnostics")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Records", stats.Records},
		{"Duplicate rows", stats.DuplicateRows},
		{"Unique links", stats.UniqueLinks},
		{"Duplicate links", stats.DuplicateLinks},
		{"Duplicate rows after dedup", stats.DuplicateRowsAfter},
		{"Rows kept", ds.Len()},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	hoods := ListingsByNeighborhood(ds)
	if len(hoods) == 0 {
		fmt.Fprintln(p.out, "No neighborhood data")
		return
	}
	if p.topHoods > 0 && len(hoods) > p.topHoods {
		hoods = hoods[:p.topHoods]
	}

	nt := table.NewWriter()
	nt.SetOutputMirror(p.out)
	nt.SetTitle("Listings by neighborhood")
	nt.AppendHeader(table.Row{"#", "Neighborhood", "Listings"})
	for i, h := range hoods {
		nt.AppendRow(table.Row{i + 1, h.Name, h.Count})
	}
	nt.SetStyle(table.StyleRounded)
	nt.Render()
}
