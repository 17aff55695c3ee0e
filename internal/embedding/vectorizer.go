package embedding

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// record is one property joined with its lookup names, ready to be rendered
// into embedding text.
type record struct {
	PropertyID     string
	ListingTitle   string
	ListingURL     string
	PropertyType   string
	ListingType    string
	TurnoverStatus string
	PropertyStatus string
	Sqm            *float64
	FloorArea      *float64
	LotArea        *float64
	Bedroom        *int
	Bathroom       *int
	ParkingLot     *int
	StudioType     bool
	BuildingName   *string
	YearBuilt      *int
	CurrentPrice   *string
	Amenities      *string
	Address        *string
	City           string
	IsCBD          bool
	Description    *string
}

var (
	nullWord   = regexp.MustCompile(`\bnull\b`)
	whitespace = regexp.MustCompile(`\s+`)
)

// BuildText renders the canonical embedding text for one property: absent
// fields become "n/a", whitespace collapses, everything lowercased.
func BuildText(r record) string {
	text := fmt.Sprintf(
		"Property_type: %s, Listing_type: %s, Turnover_status: %s, Property_status: %s, "+
			"Sqm: %s, Floor_area: %s, Lot_area: %s, Bedroom: %s, Bathroom: %s, Parking_lot: %s, "+
			"%sBuilding_name: %s, Year_built: %s, Current_price: %s, Amenities: %s, Address: %s, "+
			"City: %s, %sDescription: %s, Listing_url: %s",
		r.PropertyType, r.ListingType, r.TurnoverStatus, r.PropertyStatus,
		floatOrNull(r.Sqm), floatOrNull(r.FloorArea), floatOrNull(r.LotArea),
		intOrNull(r.Bedroom), intOrNull(r.Bathroom), intOrNull(r.ParkingLot),
		flag(r.StudioType, "Studio type, "),
		stringOrNull(r.BuildingName), intOrNull(r.YearBuilt), stringOrNull(r.CurrentPrice),
		stringOrNull(r.Amenities), stringOrNull(r.Address), r.City,
		flag(r.IsCBD, "Located_at_central_business_district, "),
		stringOrNull(r.Description), r.ListingURL,
	)

	text = nullWord.ReplaceAllString(text, "n/a")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

func floatOrNull(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%g", *v)
}

func intOrNull(v *int) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *v)
}

func stringOrNull(v *string) string {
	if v == nil {
		return "null"
	}
	return *v
}

func flag(on bool, label string) string {
	if on {
		return label
	}
	return ""
}

// Vectorizer backfills embeddings for properties that have none.
type Vectorizer struct {
	DB     *sql.DB
	Client *Client
	Limit  int
}

func NewVectorizer(db *sql.DB, client *Client) *Vectorizer {
	return &Vectorizer{DB: db, Client: client, Limit: 25}
}

// Run embeds up to Limit properties. Per-property failures are logged and
// skipped; the row stays unembedded for the next run.
func (v *Vectorizer) Run(ctx context.Context) error {
	records, err := v.pending(ctx)
	if err != nil {
		return err
	}

	for _, r := range records {
		text := BuildText(r)

		vector, err := v.Client.CreateEmbedding(ctx, text)
		if err != nil {
			log.Printf("[embedding] property %s: %v", r.PropertyID, err)
			continue
		}

		vectorJSON, err := json.Marshal(vector)
		if err != nil {
			log.Printf("[embedding] property %s: marshal vector: %v", r.PropertyID, err)
			continue
		}

		if _, err := v.DB.ExecContext(ctx, `
			UPDATE properties
			SET embedding = $1, embedding_text = $2
			WHERE property_id = $3
		`, string(vectorJSON), text, r.PropertyID); err != nil {
			log.Printf("[embedding] property %s: update: %v", r.PropertyID, err)
			continue
		}

		log.Printf("[embedding] updated embedding for property %s", r.PropertyID)
	}
	return nil
}

func (v *Vectorizer) pending(ctx context.Context) ([]record, error) {
	rows, err := v.DB.QueryContext(ctx, `
		SELECT p.property_id, p.listing_title, p.listing_url,
		       pt.name, lt.name, ts.name, ps.name,
		       p.sqm, p.floor_area, p.lot_area,
		       p.bedroom, p.bathroom, p.parking_lot,
		       p.studio_type, p.building_name, p.year_built,
		       p.current_price, p.amenities, p.address,
		       c.name, p.is_cbd, p.description
		FROM properties p
		JOIN property_types pt ON pt.property_type_id = p.property_type_id
		JOIN listing_types lt ON lt.listing_type_id = p.listing_type_id
		JOIN property_status ps ON ps.property_status_id = p.property_status_id
		JOIN turnover_status ts ON ts.turnover_status_id = p.turnover_status_id
		JOIN cities c ON c.city_id = p.city_id
		WHERE p.embedding IS NULL
		LIMIT $1
	`, v.Limit)
	if err != nil {
		return nil, fmt.Errorf("embedding: select pending: %w", err)
	}
	defer rows.Close()

	var out []record
	for rows.Next() {
		var (
			r          record
			sqm        sql.NullFloat64
			floorArea  sql.NullFloat64
			lotArea    sql.NullFloat64
			bedroom    sql.NullInt64
			bathroom   sql.NullInt64
			parkingLot sql.NullInt64
			building   sql.NullString
			yearBuilt  sql.NullInt64
			price      sql.NullString
			amenities  sql.NullString
			address    sql.NullString
			desc       sql.NullString
		)
		if err := rows.Scan(
			&r.PropertyID, &r.ListingTitle, &r.ListingURL,
			&r.PropertyType, &r.ListingType, &r.TurnoverStatus, &r.PropertyStatus,
			&sqm, &floorArea, &lotArea,
			&bedroom, &bathroom, &parkingLot,
			&r.StudioType, &building, &yearBuilt,
			&price, &amenities, &address,
			&r.City, &r.IsCBD, &desc,
		); err != nil {
			return nil, fmt.Errorf("embedding: scan pending: %w", err)
		}

		if sqm.Valid {
			r.Sqm = &sqm.Float64
		}
		if floorArea.Valid {
			r.FloorArea = &floorArea.Float64
		}
		if lotArea.Valid {
			r.LotArea = &lotArea.Float64
		}
		if bedroom.Valid {
			n := int(bedroom.Int64)
			r.Bedroom = &n
		}
		if bathroom.Valid {
			n := int(bathroom.Int64)
			r.Bathroom = &n
		}
		if parkingLot.Valid {
			n := int(parkingLot.Int64)
			r.ParkingLot = &n
		}
		if building.Valid {
			r.BuildingName = &building.String
		}
		if yearBuilt.Valid {
			n := int(yearBuilt.Int64)
			r.YearBuilt = &n
		}
		if price.Valid {
			r.CurrentPrice = &price.String
		}
		if amenities.Valid {
			r.Amenities = &amenities.String
		}
		if address.Valid {
			r.Address = &address.String
		}
		if desc.Valid {
			r.Description = &desc.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
