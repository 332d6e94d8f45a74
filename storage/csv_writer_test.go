package storage

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"imovelweb-scraper/models"
)

func TestFileName(t *testing.T) {
	start := time.Date(2024, 3, 7, 9, 5, 1, 0, time.UTC)
	if got, want := FileName(start), "apartment_ads_20240307_090501.csv"; got != want {
		t.Errorf("FileName: got %q, want %q", got, want)
	}
}

func TestCSVSinkAppendRoundTrip(t *testing.T) {
	sink, err := NewCSVSink(t.TempDir(), time.Now())
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}

	page1 := []models.Apartment{
		{
			Title:        models.Str("Apto, 2 quartos"),
			Neighborhood: models.Str("Pinheiros"),
			TotalArea:    models.Int(70),
			Bedrooms:     models.Int(2),
			Bathrooms:    models.Int(1),
			Garage:       1,
			Rent:         models.Str("R$ 2.000"),
			CondoFee:     models.Str("R$ 500"),
			Link:         models.Str("/a1"),
		},
		{Title: models.Str("Studio"), Link: models.Str("/a2")},
	}
	page2 := []models.Apartment{
		{Title: models.Str("Apto \"novo\""), Bedrooms: models.Int(3), Link: models.Str("/a1")},
	}

	if err := sink.Append(page1); err != nil {
		t.Fatalf("Append page 1: %v", err)
	}
	if err := sink.Append(page2); err != nil {
		t.Fatalf("Append page 2: %v", err)
	}

	got, err := sink.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := append(append([]models.Apartment{}, page1...), page2...)
	if diff := cmp.Diff(want, got.Rows()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVSinkHeaderOnce(t *testing.T) {
	sink, err := NewCSVSink(t.TempDir(), time.Now())
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := sink.Append([]models.Apartment{{Title: models.Str("x")}}); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	data, err := os.ReadFile(sink.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	header := strings.Join(models.Columns, ",")
	if got := strings.Count(string(data), header); got != 1 {
		t.Errorf("header count: got %d, want 1", got)
	}
	if !strings.HasPrefix(string(data), header+"\n") {
		t.Errorf("file should start with the header, got %q", string(data))
	}
	if got := strings.Count(string(data), "\n"); got != 4 {
		t.Errorf("lines: got %d, want 4", got)
	}
}

func TestCSVSinkRewrite(t *testing.T) {
	sink, err := NewCSVSink(t.TempDir(), time.Now())
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	if err := sink.Append([]models.Apartment{{Link: models.Str("/a")}, {Link: models.Str("/a")}}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	final := models.NewDataset(models.Apartment{Link: models.Str("/a")})
	if err := sink.Rewrite(final); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	got, err := sink.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(final.Rows(), got.Rows()); diff != "" {
		t.Errorf("rewrite mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVSinkLoadMissingFile(t *testing.T) {
	sink, err := NewCSVSink(t.TempDir(), time.Now())
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	ds, err := sink.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("rows: got %d, want 0", ds.Len())
	}
}
