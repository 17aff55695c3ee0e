package scrape

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Candidate is one listing card pulled out of a scraped search-results page.
// Metadata mirrors the source's data-* attribute blob and stays loosely typed
// until the normalizer maps it per category.
type Candidate struct {
	Href     string
	Title    string
	Address  string
	IsBuy    bool
	Metadata map[string]any
}

// ExtractCards parses one search-results page and returns a candidate per
// listing card. Cards with no detail link or title are ad/placeholder blocks
// and are dropped silently.
func ExtractCards(htmlData string) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlData))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []Candidate
	doc.Find(".card").Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Find(".js-listing-link").Attr("href")
		title, _ := card.Find(".ListingCell-KeyInfo-title").Attr("title")
		address := strings.TrimSpace(card.Find(".ListingCell-KeyInfo-address-text").Text())

		if href == "" || title == "" {
			return
		}

		out = append(out, Candidate{
			Href:     href,
			Title:    title,
			Address:  address,
			Metadata: dataAttributes(card.Find(".ListingCell-AllInfo")),
		})
	})

	return out, nil
}

// dataAttributes collects the element's data-* attributes into a map, with
// kebab-case names converted to camelCase and JSON-looking values decoded,
// matching how the source site attaches its listing metadata.
func dataAttributes(sel *goquery.Selection) map[string]any {
	meta := make(map[string]any)
	if len(sel.Nodes) == 0 {
		return meta
	}

	for _, attr := range sel.Nodes[0].Attr {
		if !strings.HasPrefix(attr.Key, "data-") {
			continue
		}
		key := camelKey(strings.TrimPrefix(attr.Key, "data-"))
		meta[key] = dataValue(attr.Val)
	}
	return meta
}

// camelKey turns "geo-point" into "geoPoint".
func camelKey(k string) string {
	parts := strings.Split(k, "-")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// dataValue decodes numbers, booleans and arrays; anything that is not valid
// JSON stays a plain string.
func dataValue(v string) any {
	var parsed any
	if err := json.Unmarshal([]byte(v), &parsed); err == nil {
		return parsed
	}
	return v
}
