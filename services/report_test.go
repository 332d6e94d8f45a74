package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"imovelweb-scraper/models"
)

func hood(name string) models.Apartment {
	return models.Apartment{Neighborhood: models.Str(name)}
}

func TestListingsByNeighborhood(t *testing.T) {
	ds := models.NewDataset(hood("Moema"), hood("Pinheiros"), hood("Moema"), models.Apartment{}, hood("Bela Vista"))

	got := ListingsByNeighborhood(ds)
	want := []NeighborhoodCount{
		{Name: "Moema", Count: 2},
		{Name: "Bela Vista", Count: 1},
		{Name: "Pinheiros", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestReportPrint(t *testing.T) {
	var buf bytes.Buffer
	ds := models.NewDataset(hood("Moema"), hood("Moema"), hood("Pinheiros"))
	stats := Stats{Records: 4, DuplicateRows: 1, UniqueLinks: 3, DuplicateLinks: 1}

	NewReportPrinter(&buf, 1).Print(stats, ds)

	out := buf.String()
	lower := strings.ToLower(out)
	for _, want := range []string{"dataset diagnostics", "duplicate links", "listings by neighborhood", "moema"} {
		if !strings.Contains(lower, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Pinheiros") {
		t.Errorf("report should list only the top neighborhood:\n%s", out)
	}
}

func TestReportPrintNoNeighborhoods(t *testing.T) {
	var buf bytes.Buffer
	NewReportPrinter(&buf, 0).Print(Stats{}, models.NewDataset())
	if !strings.Contains(buf.String(), "No neighborhood data") {
		t.Errorf("expected the empty notice, got:\n%s", buf.String())
	}
}
