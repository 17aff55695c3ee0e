// Package refdata loads the static lookup tables once at startup so the rest
// of the process can resolve well-known ids by name instead of hard-coding
// UUIDs per call site.
package refdata

import (
	"context"
	"database/sql"
	"fmt"
)

// Well-known lookup names the pipeline depends on. Load fails fast when any
// of them is missing from the seeded tables.
const (
	PropertyTypeCondominium = "Condominium"
	PropertyTypeHouse       = "House"
	PropertyTypeTownhouse   = "Townhouse"
	PropertyTypeVacantLot   = "Vacant lot"
	PropertyTypeApartment   = "Apartment"
	PropertyTypeWarehouse   = "Warehouse"

	ListingTypeForSale = "For sale"
	ListingTypeForRent = "For rent"

	PropertyStatusAvailable = "Available"

	TurnoverStatusUnknown = "Unknown"

	CityTaguig  = "Taguig"
	CityUnknown = "Unknown"
)

// Set holds name -> id maps for every lookup table.
type Set struct {
	PropertyTypes    map[string]string
	ListingTypes     map[string]string
	PropertyStatuses map[string]string
	TurnoverStatuses map[string]string
	Cities           map[string]string
}

// Load reads all lookup tables and verifies the well-known names resolve.
func Load(ctx context.Context, db *sql.DB) (*Set, error) {
	s := &Set{}

	var err error
	if s.PropertyTypes, err = loadTable(ctx, db, "property_types", "property_type_id"); err != nil {
		return nil, err
	}
	if s.ListingTypes, err = loadTable(ctx, db, "listing_types", "listing_type_id"); err != nil {
		return nil, err
	}
	if s.PropertyStatuses, err = loadTable(ctx, db, "property_status", "property_status_id"); err != nil {
		return nil, err
	}
	if s.TurnoverStatuses, err = loadTable(ctx, db, "turnover_status", "turnover_status_id"); err != nil {
		return nil, err
	}
	if s.Cities, err = loadTable(ctx, db, "cities", "city_id"); err != nil {
		return nil, err
	}

	checks := []struct {
		table string
		m     map[string]string
		names []string
	}{
		{"property_types", s.PropertyTypes, []string{
			PropertyTypeCondominium, PropertyTypeHouse, PropertyTypeTownhouse,
			PropertyTypeVacantLot, PropertyTypeApartment, PropertyTypeWarehouse,
		}},
		{"listing_types", s.ListingTypes, []string{ListingTypeForSale, ListingTypeForRent}},
		{"property_status", s.PropertyStatuses, []string{PropertyStatusAvailable}},
		{"turnover_status", s.TurnoverStatuses, []string{TurnoverStatusUnknown}},
		{"cities", s.Cities, []string{CityTaguig, CityUnknown}},
	}
	for _, c := range checks {
		for _, name := range c.names {
			if c.m[name] == "" {
				return nil, fmt.Errorf("refdata: %s is missing %q", c.table, name)
			}
		}
	}

	return s, nil
}

func loadTable(ctx context.Context, db *sql.DB, table, idColumn string) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT %s, name FROM %s", idColumn, table))
	if err != nil {
		return nil, fmt.Errorf("refdata: query %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("refdata: scan %s: %w", table, err)
		}
		out[name] = id
	}
	return out, rows.Err()
}
