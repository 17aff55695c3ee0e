package listing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"propertyhub/pkg/models"
	"propertyhub/pkg/refdata"
)

// numericPrice guards ::numeric casts against rows whose price text is not a
// plain number (e.g. "Contact agent").
const numericPrice = `current_price ~ '^[0-9]+(\.[0-9]+)?$'`

type Repo struct {
	DB  *sql.DB
	Ref *refdata.Set
}

func NewRepo(db *sql.DB, ref *refdata.Set) *Repo {
	return &Repo{DB: db, Ref: ref}
}

// SearchQuery is the filter set for property search. Pointer fields are
// omitted from the WHERE clause when nil.
type SearchQuery struct {
	PropertyType   *string
	ListingType    *string
	TurnoverStatus *string
	City           *string
	Bedroom        *int
	Bathroom       *int
	StudioType     *bool
	IsCBD          *bool
	HasImages      *bool
	Keyword        *string
	Sqm            *float64
	SqmMin         *float64
	SqmMax         *float64
	MinPrice       *float64
	MaxPrice       *float64
	PageLimit      int
}

// Validate enforces the cross-field rules the binding tags cannot express.
func (q *SearchQuery) Validate() error {
	if q.Sqm != nil && (q.SqmMin != nil || q.SqmMax != nil) {
		return errors.New("sqm cannot be combined with sqm_min/sqm_max")
	}
	if (q.SqmMin == nil) != (q.SqmMax == nil) {
		return errors.New("sqm_min and sqm_max must be provided together")
	}
	if q.SqmMin != nil && *q.SqmMin > *q.SqmMax {
		return errors.New("sqm_min cannot exceed sqm_max")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return errors.New("min_price cannot exceed max_price")
	}
	if q.PageLimit == 0 {
		q.PageLimit = 100
	}
	if q.PageLimit < 1 || q.PageLimit > 100 {
		return errors.New("page_limit must be between 1 and 100")
	}
	return nil
}

const propertyColumns = `
	property_id, listing_title, listing_url, property_type_id, listing_type_id,
	property_status_id, turnover_status_id, city_id, current_price,
	sqm, floor_area, lot_area, bedroom, bathroom, parking_lot,
	studio_type, is_cbd, address, longitude, latitude, year_built,
	building_name, amenities, images, description, created_at
`

func (r *Repo) Search(ctx context.Context, q SearchQuery) ([]models.Property, error) {
	sqlStr, args := buildSearchSQL(q, r.Ref.Cities[refdata.CityUnknown])

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Property, 0, q.PageLimit)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search rows: %w", err)
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Property, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+propertyColumns+`
		FROM properties
		WHERE property_id = $1
	`, id)

	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// buildSearchSQL assembles the filtered SELECT. Rows with the unknown-city
// sentinel or a non-numeric price never appear in results.
func buildSearchSQL(q SearchQuery, unknownCityID string) (string, []any) {
	var where []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	where = append(where, "city_id <> "+arg(unknownCityID))
	where = append(where, numericPrice)

	if q.PropertyType != nil {
		where = append(where, "property_type_id = "+arg(*q.PropertyType))
	}
	if q.ListingType != nil {
		where = append(where, "listing_type_id = "+arg(*q.ListingType))
	}
	if q.TurnoverStatus != nil {
		where = append(where, "turnover_status_id = "+arg(*q.TurnoverStatus))
	}
	if q.City != nil {
		where = append(where, "city_id = "+arg(*q.City))
	}
	if q.Bedroom != nil {
		where = append(where, "bedroom = "+arg(*q.Bedroom))
	}
	if q.Bathroom != nil {
		where = append(where, "bathroom = "+arg(*q.Bathroom))
	}
	if q.StudioType != nil {
		where = append(where, "studio_type = "+arg(*q.StudioType))
	}
	if q.IsCBD != nil {
		where = append(where, "is_cbd = "+arg(*q.IsCBD))
	}
	if q.HasImages != nil && *q.HasImages {
		where = append(where, "images IS NOT NULL AND jsonb_array_length(images) > 0")
	}
	if q.Keyword != nil && strings.TrimSpace(*q.Keyword) != "" {
		where = append(where, "listing_title ILIKE '%' || "+arg(strings.TrimSpace(*q.Keyword))+" || '%'")
	}
	if q.Sqm != nil {
		where = append(where, "sqm = "+arg(*q.Sqm))
	}
	if q.SqmMin != nil && q.SqmMax != nil {
		where = append(where, "sqm BETWEEN "+arg(*q.SqmMin)+" AND "+arg(*q.SqmMax))
	}
	if q.MinPrice != nil {
		where = append(where, "current_price::numeric >= "+arg(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		where = append(where, "current_price::numeric <= "+arg(*q.MaxPrice))
	}

	limit := q.PageLimit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	sqlStr := `SELECT ` + propertyColumns + `
		FROM properties
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
		LIMIT ` + arg(limit)

	return sqlStr, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*models.Property, error) {
	var (
		p          models.Property
		price      sql.NullString
		sqm        sql.NullFloat64
		floorArea  sql.NullFloat64
		lotArea    sql.NullFloat64
		bedroom    sql.NullInt64
		bathroom   sql.NullInt64
		parkingLot sql.NullInt64
		address    sql.NullString
		longitude  sql.NullFloat64
		latitude   sql.NullFloat64
		yearBuilt  sql.NullInt64
		building   sql.NullString
		amenities  sql.NullString
		imagesJSON sql.NullString
		desc       sql.NullString
	)

	err := row.Scan(
		&p.PropertyID, &p.ListingTitle, &p.ListingURL, &p.PropertyTypeID, &p.ListingTypeID,
		&p.PropertyStatusID, &p.TurnoverStatusID, &p.CityID, &price,
		&sqm, &floorArea, &lotArea, &bedroom, &bathroom, &parkingLot,
		&p.StudioType, &p.IsCBD, &address, &longitude, &latitude, &yearBuilt,
		&building, &amenities, &imagesJSON, &desc, &p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan property: %w", err)
	}

	if price.Valid {
		p.CurrentPrice = &price.String
	}
	if sqm.Valid {
		p.Sqm = &sqm.Float64
	}
	if floorArea.Valid {
		p.FloorArea = &floorArea.Float64
	}
	if lotArea.Valid {
		p.LotArea = &lotArea.Float64
	}
	if bedroom.Valid {
		v := int(bedroom.Int64)
		p.Bedroom = &v
	}
	if bathroom.Valid {
		v := int(bathroom.Int64)
		p.Bathroom = &v
	}
	if parkingLot.Valid {
		v := int(parkingLot.Int64)
		p.ParkingLot = &v
	}
	if address.Valid {
		p.Address = &address.String
	}
	if longitude.Valid {
		p.Longitude = &longitude.Float64
	}
	if latitude.Valid {
		p.Latitude = &latitude.Float64
	}
	if yearBuilt.Valid {
		v := int(yearBuilt.Int64)
		p.YearBuilt = &v
	}
	if building.Valid {
		p.BuildingName = &building.String
	}
	if amenities.Valid {
		p.Amenities = &amenities.String
	}
	if desc.Valid {
		p.Description = &desc.String
	}
	if imagesJSON.Valid && imagesJSON.String != "" {
		_ = json.Unmarshal([]byte(imagesJSON.String), &p.Images)
	}

	return &p, nil
}

func (r *Repo) PropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT property_type_id, name FROM property_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("property types: %w", err)
	}
	defer rows.Close()

	var out []models.PropertyType
	for rows.Next() {
		var t models.PropertyType
		if err := rows.Scan(&t.PropertyTypeID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan property type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) ListingTypes(ctx context.Context) ([]models.ListingType, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT listing_type_id, name FROM listing_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing types: %w", err)
	}
	defer rows.Close()

	var out []models.ListingType
	for rows.Next() {
		var t models.ListingType
		if err := rows.Scan(&t.ListingTypeID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan listing type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) TurnoverStatuses(ctx context.Context) ([]models.TurnoverStatus, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT turnover_status_id, name FROM turnover_status ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("turnover statuses: %w", err)
	}
	defer rows.Close()

	var out []models.TurnoverStatus
	for rows.Next() {
		var t models.TurnoverStatus
		if err := rows.Scan(&t.TurnoverStatusID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan turnover status: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Cities returns cities whose name contains the keyword; empty keyword lists
// all of them.
func (r *Repo) Cities(ctx context.Context, keyword string) ([]models.City, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT city_id, name FROM cities
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
	`, strings.TrimSpace(keyword))
	if err != nil {
		return nil, fmt.Errorf("cities: %w", err)
	}
	defer rows.Close()

	var out []models.City
	for rows.Next() {
		var city models.City
		if err := rows.Scan(&city.CityID, &city.Name); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out = append(out, city)
	}
	return out, rows.Err()
}
