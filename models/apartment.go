package models

import (
	"math"
	"strconv"
	"strings"
)

// DetailQuad is the area/bedrooms/bathrooms/garage bundle read from one card's
// feature spans. Garage has no missing state: an absent parking span and an
// explicit "0 vagas" both read as 0.
type DetailQuad struct {
	TotalArea *int
	Bedrooms  *int
	Bathrooms *int
	Garage    int
}

// ValuePair holds the raw currency texts of one card, e.g. "R$ 2.000".
type ValuePair struct {
	Rent     *string
	CondoFee *string
}

// Apartment is one row of the dataset. A nil pointer is a field the card did
// not carry. UsefulArea is reserved and never populated by the scraper.
type Apartment struct {
	Title        *string
	Neighborhood *string
	TotalArea    *int
	UsefulArea   *int
	Bedrooms     *int
	Bathrooms    *int
	Garage       int
	Rent         *string
	CondoFee     *string
	Link         *string
}

// Columns is the fixed CSV column order.
var Columns = []string{
	"Title", "Neighborhood", "Total Area", "Useful Area", "Bedrooms",
	"Bathrooms", "Garage", "Rent", "Condo Fee", "Link",
}

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Record renders the row in Columns order. Missing values become empty cells.
func (a Apartment) Record() []string {
	return []string{
		formatStr(a.Title),
		formatStr(a.Neighborhood),
		formatInt(a.TotalArea),
		formatInt(a.UsefulArea),
		formatInt(a.Bedrooms),
		formatInt(a.Bathrooms),
		strconv.Itoa(a.Garage),
		formatStr(a.Rent),
		formatStr(a.CondoFee),
		formatStr(a.Link),
	}
}

// ApartmentFromRecord is the inverse of Record. Integer columns go through
// ParseNullableInt so files written by float-typed tools ("45.0", "NaN") load
// as nullable integers.
func ApartmentFromRecord(rec []string) Apartment {
	cell := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}
	garage := 0
	if g := ParseNullableInt(cell(6)); g != nil {
		garage = *g
	}
	return Apartment{
		Title:        parseStr(cell(0)),
		Neighborhood: parseStr(cell(1)),
		TotalArea:    ParseNullableInt(cell(2)),
		UsefulArea:   ParseNullableInt(cell(3)),
		Bedrooms:     ParseNullableInt(cell(4)),
		Bathrooms:    ParseNullableInt(cell(5)),
		Garage:       garage,
		Rent:         parseStr(cell(7)),
		CondoFee:     parseStr(cell(8)),
		Link:         parseStr(cell(9)),
	}
}

// ParseNullableInt coerces a cell to a nullable integer. Empty, "NaN" and
// "<NA>" are missing; integral floats such as "45.0" are accepted.
func ParseNullableInt(s string) *int {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "<na>", "none", "null":
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	n := int(f)
	return &n
}

// Equal reports full-row equality, treating two missing values as equal.
func (a Apartment) Equal(b Apartment) bool {
	return eqStr(a.Title, b.Title) &&
		eqStr(a.Neighborhood, b.Neighborhood) &&
		eqInt(a.TotalArea, b.TotalArea) &&
		eqInt(a.UsefulArea, b.UsefulArea) &&
		eqInt(a.Bedrooms, b.Bedrooms) &&
		eqInt(a.Bathrooms, b.Bathrooms) &&
		a.Garage == b.Garage &&
		eqStr(a.Rent, b.Rent) &&
		eqStr(a.CondoFee, b.CondoFee) &&
		eqStr(a.Link, b.Link)
}

// RowKey is a string form of the whole row, usable as a map key.
func (a Apartment) RowKey() string {
	rec := a.Record()
	var b strings.Builder
	for i, c := range rec {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if c == "" && rowCellMissing(a, i) {
			b.WriteByte(0x00)
			continue
		}
		b.WriteString(c)
	}
	return b.String()
}

// rowCellMissing distinguishes a nil pointer from an empty string at column i.
func rowCellMissing(a Apartment, i int) bool {
	switch i {
	case 0:
		return a.Title == nil
	case 1:
		return a.Neighborhood == nil
	case 7:
		return a.Rent == nil
	case 8:
		return a.CondoFee == nil
	case 9:
		return a.Link == nil
	}
	return true
}

func formatStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func parseStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
