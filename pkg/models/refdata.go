package models

// Static reference rows, read-only to the pipeline.

type PropertyType struct {
	PropertyTypeID string `json:"property_type_id"`
	Name           string `json:"name"`
}

type ListingType struct {
	ListingTypeID string `json:"listing_type_id"`
	Name          string `json:"name"`
}

type TurnoverStatus struct {
	TurnoverStatusID string `json:"turnover_status_id"`
	Name             string `json:"name"`
}

type City struct {
	CityID string `json:"city_id"`
	Name   string `json:"name"`
}
