package scrape

import (
	"testing"
)

const sampleSearchPage = `
<html><body>
<div class="card">
  <a class="js-listing-link" href="https://www.lamudi.com.ph/unit-1.html"></a>
  <span class="ListingCell-KeyInfo-title" title="2BR Condo in BGC"></span>
  <span class="ListingCell-KeyInfo-address-text">  32nd St, BGC, Taguig  </span>
  <div class="ListingCell-AllInfo"
       data-price="5500000"
       data-bedrooms="2"
       data-bathrooms="1.5"
       data-building-size="48.5"
       data-geo-point="[121.05, 14.55]"
       data-condominiumname="One Uptown"></div>
</div>
<div class="card">
  <!-- ad block: no listing link, no title -->
  <div class="ListingCell-AllInfo" data-price="1"></div>
</div>
<div class="card">
  <a class="js-listing-link" href="https://www.lamudi.com.ph/unit-2.html"></a>
  <span class="ListingCell-KeyInfo-title" title="Lot for sale"></span>
  <span class="ListingCell-KeyInfo-address-text">Cavite</span>
  <div class="ListingCell-AllInfo" data-land-size="120"></div>
</div>
</body></html>`

func TestExtractCards(t *testing.T) {
	cards, err := ExtractCards(sampleSearchPage)
	if err != nil {
		t.Fatalf("ExtractCards: %v", err)
	}

	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2 (ad card must be dropped)", len(cards))
	}

	first := cards[0]
	if first.Href != "https://www.lamudi.com.ph/unit-1.html" {
		t.Errorf("href = %q", first.Href)
	}
	if first.Title != "2BR Condo in BGC" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Address != "32nd St, BGC, Taguig" {
		t.Errorf("address = %q (must be trimmed)", first.Address)
	}

	if got, _ := first.Metadata["price"].(float64); got != 5500000 {
		t.Errorf("price = %v, want 5500000", first.Metadata["price"])
	}
	if got, _ := first.Metadata["bathrooms"].(float64); got != 1.5 {
		t.Errorf("bathrooms = %v, want 1.5", first.Metadata["bathrooms"])
	}
	if _, ok := first.Metadata["buildingSize"]; !ok {
		t.Errorf("building_size must surface as buildingSize, got keys %v", first.Metadata)
	}
	if got, _ := first.Metadata["condominiumname"].(string); got != "One Uptown" {
		t.Errorf("condominiumname = %v", first.Metadata["condominiumname"])
	}

	geo, ok := first.Metadata["geoPoint"].([]any)
	if !ok || len(geo) != 2 {
		t.Fatalf("geoPoint = %v, want decoded two-element array", first.Metadata["geoPoint"])
	}
	if geo[0].(float64) != 121.05 || geo[1].(float64) != 14.55 {
		t.Errorf("geoPoint = %v", geo)
	}

	second := cards[1]
	if got, _ := second.Metadata["landSize"].(float64); got != 120 {
		t.Errorf("landSize = %v, want 120", second.Metadata["landSize"])
	}
}

func TestExtractCardsEmptyPage(t *testing.T) {
	cards, err := ExtractCards("<html><body><p>no listings here</p></body></html>")
	if err != nil {
		t.Fatalf("ExtractCards: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("got %d cards, want 0", len(cards))
	}
}

func TestCamelKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"price", "price"},
		{"geo-point", "geoPoint"},
		{"building-size", "buildingSize"},
		{"year-built", "yearBuilt"},
		{"car-spaces-total", "carSpacesTotal"},
	}
	for _, tt := range tests {
		if got := camelKey(tt.in); got != tt.want {
			t.Errorf("camelKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
