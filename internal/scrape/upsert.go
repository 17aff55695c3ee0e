package scrape

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"propertyhub/pkg/models"
)

// PropertyStore is the persistence boundary for the upsert coordinator.
type PropertyStore interface {
	// InsertProperty inserts the row, returning (property_id, true) when a new
	// row was created and ("", false) when listing_url already existed.
	InsertProperty(ctx context.Context, p models.Property) (string, bool, error)
	InsertMetadata(ctx context.Context, propertyID string, metadata []byte) error
}

// Coordinator performs the first-write-wins upsert: insert-if-absent on
// listing_url, and store the raw metadata blob exactly once, only for rows
// that were actually created.
type Coordinator struct {
	Store PropertyStore
}

func NewCoordinator(store PropertyStore) *Coordinator {
	return &Coordinator{Store: store}
}

// Upsert returns the new property id, or "" when the listing already existed.
func (c *Coordinator) Upsert(ctx context.Context, row models.Property, rawMetadata map[string]any) (string, error) {
	id, created, err := c.Store.InsertProperty(ctx, row)
	if err != nil {
		return "", fmt.Errorf("insert property %s: %w", row.ListingURL, err)
	}
	if !created {
		return "", nil
	}

	blob, err := json.Marshal(rawMetadata)
	if err != nil {
		return "", fmt.Errorf("marshal metadata for %s: %w", id, err)
	}
	if err := c.Store.InsertMetadata(ctx, id, blob); err != nil {
		return "", fmt.Errorf("insert metadata for %s: %w", id, err)
	}

	return id, nil
}

// SQLPropertyStore backs the coordinator with the properties and
// unstructured_metadata tables. The listing_url unique constraint is the
// only dedup mechanism; overlapping batches race safely on it.
type SQLPropertyStore struct {
	DB *sql.DB
}

func NewSQLPropertyStore(db *sql.DB) *SQLPropertyStore {
	return &SQLPropertyStore{DB: db}
}

func (s *SQLPropertyStore) InsertProperty(ctx context.Context, p models.Property) (string, bool, error) {
	var images any
	if len(p.Images) > 0 {
		b, err := json.Marshal(p.Images)
		if err != nil {
			return "", false, fmt.Errorf("marshal images: %w", err)
		}
		images = b
	}

	var id string
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO properties (
			property_id, listing_title, listing_url,
			property_type_id, listing_type_id, property_status_id, turnover_status_id, city_id,
			current_price, sqm, floor_area, lot_area,
			bedroom, bathroom, parking_lot,
			studio_type, is_cbd, address, longitude, latitude, year_built, images, description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (listing_url) DO NOTHING
		RETURNING property_id
	`,
		p.PropertyID, p.ListingTitle, p.ListingURL,
		p.PropertyTypeID, p.ListingTypeID, p.PropertyStatusID, p.TurnoverStatusID, p.CityID,
		p.CurrentPrice, p.Sqm, p.FloorArea, p.LotArea,
		p.Bedroom, p.Bathroom, p.ParkingLot,
		p.StudioType, p.IsCBD, p.Address, p.Longitude, p.Latitude, p.YearBuilt, images, p.Description,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (s *SQLPropertyStore) InsertMetadata(ctx context.Context, propertyID string, metadata []byte) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO unstructured_metadata (property_id, metadata)
		VALUES ($1, $2)
	`, propertyID, metadata)
	return err
}
