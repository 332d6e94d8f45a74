package imovelweb

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"imovelweb-scraper/models"
	"imovelweb-scraper/observability"
	"imovelweb-scraper/utils"
)

var digitsRegexp = regexp.MustCompile(`\d+`)

// Feature span keywords. Singular forms also match the plural ones.
const (
	areaToken     = "m² tot."
	bedroomToken  = "quarto"
	bathroomToken = "banheiro"
	garageToken   = "vaga"
)

// Extractor maps a page's cards to per-field value sequences, one value per
// card, in card order. A failing probe is logged and only blanks the value it
// was reading; sibling fields of the same card are kept.
type Extractor struct {
	logger  *utils.Logger
	metrics *observability.Metrics
}

// NewExtractor creates an Extractor. metrics may be nil.
func NewExtractor(logger *utils.Logger, metrics *observability.Metrics) *Extractor {
	return &Extractor{logger: logger, metrics: metrics}
}

// guard runs probe and converts a panic into a logged extraction failure.
func (e *Extractor) guard(field string, idx int, probe func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("[extract] %s of card %d failed: %v", field, idx, r)
			if e.metrics != nil {
				e.metrics.ExtractionErrors.WithLabelValues(field).Inc()
			}
		}
	}()
	probe()
}

// Titles returns each card's heading text.
func (e *Extractor) Titles(cards []Card) []*string {
	out := make([]*string, len(cards))
	for i, c := range cards {
		e.guard("title", i, func() {
			out[i] = c.text(TitleSelector)
		})
	}
	return out
}

// Neighborhoods returns the part of each card's location before the first
// comma; the site formats locations as "Neighborhood, City".
func (e *Extractor) Neighborhoods(cards []Card) []*string {
	out := make([]*string, len(cards))
	for i, c := range cards {
		e.guard("neighborhood", i, func() {
			loc := c.text(LocationSelector)
			if loc == nil {
				return
			}
			before, _, _ := strings.Cut(*loc, ",")
			out[i] = models.Str(strings.TrimSpace(before))
		})
	}
	return out
}

// Details classifies each card's feature spans into the detail quad.
func (e *Extractor) Details(cards []Card) []models.DetailQuad {
	out := make([]models.DetailQuad, len(cards))
	for i, c := range cards {
		var spans *goquery.Selection
		e.guard("details", i, func() {
			spans = c.sel.Find(FeatureSelector)
		})
		if spans == nil {
			continue
		}
		quad := &out[i]
		spans.Each(func(_ int, s *goquery.Selection) {
			e.guard("details", i, func() {
				classifyFeature(quad, strings.TrimSpace(s.Text()))
			})
		})
	}
	return out
}

// classifyFeature assigns one span's number to the field its keyword names.
// Each span carries exactly one attribute, so the first keyword match wins.
func classifyFeature(q *models.DetailQuad, text string) {
	switch {
	case strings.Contains(text, areaToken):
		q.TotalArea = leadingInt(text)
	case strings.Contains(text, bedroomToken):
		q.Bedrooms = leadingInt(text)
		// Studios are listed with 0 rooms and counted as one bedroom.
		if q.Bedrooms != nil && *q.Bedrooms == 0 {
			q.Bedrooms = models.Int(1)
		}
	case strings.Contains(text, bathroomToken):
		q.Bathrooms = leadingInt(text)
	case strings.Contains(text, garageToken):
		q.Garage = 0
		if n := leadingInt(text); n != nil {
			q.Garage = *n
		}
	}
}

// leadingInt parses the first run of digits in text.
func leadingInt(text string) *int {
	m := digitsRegexp.FindString(text)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// Values returns each card's rent and condo fee texts, probed independently.
func (e *Extractor) Values(cards []Card) []models.ValuePair {
	out := make([]models.ValuePair, len(cards))
	for i, c := range cards {
		e.guard("rent", i, func() {
			out[i].Rent = c.text(PriceSelector)
		})
		e.guard("condo fee", i, func() {
			out[i].CondoFee = c.text(CondoFeeSelector)
		})
	}
	return out
}

// Links returns the href of each card's description anchor.
func (e *Extractor) Links(cards []Card) []*string {
	out := make([]*string, len(cards))
	for i, c := range cards {
		e.guard("link", i, func() {
			a := c.find(DescriptionSelector)
			if a == nil {
				return
			}
			if href, ok := a.Attr("href"); ok {
				out[i] = models.Str(href)
			}
		})
	}
	return out
}

// Zip aligns the per-field sequences into rows. All sequences must have the
// same length.
func Zip(titles, neighborhoods []*string, details []models.DetailQuad, values []models.ValuePair, links []*string) ([]models.Apartment, error) {
	n := len(titles)
	if len(neighborhoods) != n || len(details) != n || len(values) != n || len(links) != n {
		return nil, fmt.Errorf("imovelweb: field sequences differ in length: titles=%d neighborhoods=%d details=%d values=%d links=%d",
			n, len(neighborhoods), len(details), len(values), len(links))
	}

	rows := make([]models.Apartment, n)
	for i := range rows {
		rows[i] = models.Apartment{
			Title:        titles[i],
			Neighborhood: neighborhoods[i],
			TotalArea:    details[i].TotalArea,
			Bedrooms:     details[i].Bedrooms,
			Bathrooms:    details[i].Bathrooms,
			Garage:       details[i].Garage,
			Rent:         values[i].Rent,
			CondoFee:     values[i].CondoFee,
			Link:         links[i],
		}
	}
	return rows, nil
}

// ExtractPage runs the card locator and every field extractor over one page.
func (e *Extractor) ExtractPage(html string) ([]models.Apartment, error) {
	cards, err := LocateCards(html)
	if err != nil {
		return nil, err
	}
	return Zip(
		e.Titles(cards),
		e.Neighborhoods(cards),
		e.Details(cards),
		e.Values(cards),
		e.Links(cards),
	)
}
