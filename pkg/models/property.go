package models

import "time"

// Property is the canonical, persisted listing row. Nullable columns are
// pointers so absent source fields stay NULL instead of zero.
type Property struct {
	PropertyID       string     `json:"property_id"`
	ListingTitle     string     `json:"listing_title"`
	ListingURL       string     `json:"listing_url"`
	PropertyTypeID   string     `json:"property_type_id"`
	ListingTypeID    string     `json:"listing_type_id"`
	PropertyStatusID string     `json:"property_status_id"`
	TurnoverStatusID string     `json:"turnover_status_id"`
	CityID           string     `json:"city_id"`
	CurrentPrice     *string    `json:"current_price"`
	Sqm              *float64   `json:"sqm"`
	FloorArea        *float64   `json:"floor_area"`
	LotArea          *float64   `json:"lot_area"`
	Bedroom          *int       `json:"bedroom"`
	Bathroom         *int       `json:"bathroom"`
	ParkingLot       *int       `json:"parking_lot"`
	StudioType       bool       `json:"studio_type"`
	IsCBD            bool       `json:"is_cbd"`
	Address          *string    `json:"address"`
	Longitude        *float64   `json:"longitude"`
	Latitude         *float64   `json:"latitude"`
	YearBuilt        *int       `json:"year_built"`
	BuildingName     *string    `json:"building_name"`
	Amenities        *string    `json:"amenities"`
	Images           []string   `json:"images"`
	Description      *string    `json:"description"`
	CreatedAt        time.Time  `json:"created_at"`
}
