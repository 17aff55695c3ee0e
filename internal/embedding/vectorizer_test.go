package embedding

import (
	"strings"
	"testing"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func sptr(v string) *string   { return &v }

func TestBuildText(t *testing.T) {
	r := record{
		PropertyID:     "p-1",
		ListingURL:     "https://example.com/unit-1",
		PropertyType:   "Condominium",
		ListingType:    "For sale",
		TurnoverStatus: "Unknown",
		PropertyStatus: "Available",
		Sqm:            fptr(48.5),
		FloorArea:      fptr(48.5),
		Bedroom:        iptr(2),
		Bathroom:       iptr(1),
		CurrentPrice:   sptr("5500000"),
		Address:        sptr("32nd St,   BGC"),
		City:           "Taguig",
		IsCBD:          true,
	}

	got := BuildText(r)

	if got != strings.ToLower(got) {
		t.Error("text must be lowercased")
	}
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace must be collapsed: %q", got)
	}
	if strings.Contains(got, "null") {
		t.Errorf("absent fields must read n/a, not null: %q", got)
	}

	for _, want := range []string{
		"property_type: condominium",
		"listing_type: for sale",
		"sqm: 48.5",
		"bedroom: 2",
		"current_price: 5500000",
		"lot_area: n/a",
		"parking_lot: n/a",
		"building_name: n/a",
		"year_built: n/a",
		"city: taguig",
		"located_at_central_business_district",
		"description: n/a",
		"listing_url: https://example.com/unit-1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestBuildTextStudioFlag(t *testing.T) {
	withFlag := BuildText(record{StudioType: true})
	if !strings.Contains(withFlag, "studio type") {
		t.Errorf("studio marker missing: %q", withFlag)
	}

	without := BuildText(record{})
	if strings.Contains(without, "studio type") {
		t.Errorf("studio marker must be absent: %q", without)
	}
	if strings.Contains(without, "located_at_central_business_district") {
		t.Errorf("cbd marker must be absent: %q", without)
	}
}
