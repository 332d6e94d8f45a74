package imovelweb

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Markup signatures of the search results page.
const (
	CardSelector         = "div.CardContainer-sc-1tt2vbg-5.fvuHxG"
	TitleSelector        = "h2.sc-i1odl-11.kvKUxE"
	LocationSelector     = `h2[data-qa="POSTING_CARD_LOCATION"]`
	FeatureSelector      = "span.postingMainFeatures-module__posting-main-features-span__ror2o.postingMainFeatures-module__posting-main-features-listing__BFHHQ"
	PriceSelector        = `div[data-qa="POSTING_CARD_PRICE"]`
	CondoFeeSelector     = `div[data-qa="expensas"]`
	DescriptionSelector  = `a[data-qa="POSTING_CARD_DESCRIPTION"]`
	CookieButtonXPath    = `//button[@data-qa='cookies-policy-banner' and contains(text(), 'Aceito')]`
	CaptchaIndicatorPath = `//div[contains(@class, 'captcha')]`
)

// Card is the markup fragment of one advertisement.
type Card struct {
	sel *goquery.Selection
}

// LocateCards parses a results page and returns its listing cards in DOM
// order, which the site sorts by ascending price. A page past the last result
// page simply yields no cards.
func LocateCards(html string) ([]Card, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("imovelweb: parse page: %w", err)
	}

	var cards []Card
	doc.Find(CardSelector).Each(func(_ int, s *goquery.Selection) {
		cards = append(cards, Card{sel: s})
	})
	return cards, nil
}

// find returns the first match of selector inside the card, or nil.
func (c Card) find(selector string) *goquery.Selection {
	s := c.sel.Find(selector)
	if s.Length() == 0 {
		return nil
	}
	return s.First()
}

// text returns the trimmed text of the first match, or nil when absent.
func (c Card) text(selector string) *string {
	s := c.find(selector)
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(s.Text())
	return &t
}
