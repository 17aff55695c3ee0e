package valuation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"propertyhub/pkg/phpeso"
)

// numericPrice guards ::numeric casts against non-numeric price text.
const numericPrice = `current_price ~ '^[0-9]+(\.[0-9]+)?$'`

// Service computes condominium appraisals from closed transactions and
// comparable scraped listings.
type Service struct {
	DB                *sql.DB
	LifeSpanYears     int
	SoldStatusID      string
	ClosedStatusID    string
	AvailableStatusID string
}

func NewService(db *sql.DB, lifeSpanYears int, soldID, closedID, availableID string) *Service {
	return &Service{
		DB:                db,
		LifeSpanYears:     lifeSpanYears,
		SoldStatusID:      soldID,
		ClosedStatusID:    closedID,
		AvailableStatusID: availableID,
	}
}

// Input identifies the unit being appraised.
type Input struct {
	PropertyTypeID string
	ListingTypeID  string
	CityID         string
	Sqm            float64
	YearBuilt      int
}

// Result carries peso-formatted output values.
type Result struct {
	AppraisalValue string  `json:"appraisal_value"`
	PricePerSqm    string  `json:"price_per_sqm"`
	Sqm            float64 `json:"sqm"`
}

// Appraise applies straight-line depreciation over the building life span to
// the combined closed and scraped price-per-sqm averages.
func Appraise(closedAvg, scrapedAvg float64, lifeSpan, yearBuilt, currentYear int, sqm float64) (appraisal, perSqm float64) {
	perSqm = closedAvg + scrapedAvg
	remaining := float64(lifeSpan-(currentYear-yearBuilt)) / float64(lifeSpan)
	appraisal = perSqm * remaining * sqm
	return appraisal, perSqm
}

func (s *Service) Evaluate(ctx context.Context, in Input) (*Result, error) {
	closedAvg, err := s.closedAvgPricePerSqm(ctx, in)
	if err != nil {
		return nil, err
	}

	scrapedAvg, err := s.scrapedAvgPricePerSqm(ctx, in)
	if err != nil {
		return nil, err
	}

	appraisal, perSqm := Appraise(closedAvg, scrapedAvg, s.LifeSpanYears, in.YearBuilt, time.Now().Year(), in.Sqm)

	return &Result{
		AppraisalValue: phpeso.Format(appraisal),
		PricePerSqm:    phpeso.Format(perSqm),
		Sqm:            in.Sqm,
	}, nil
}

// closedAvgPricePerSqm averages price/sqm over sold and closed transactions of
// the same type, listing mode and city.
func (s *Service) closedAvgPricePerSqm(ctx context.Context, in Input) (float64, error) {
	var avg sql.NullFloat64
	err := s.DB.QueryRowContext(ctx, `
		SELECT AVG(current_price::numeric / NULLIF(sqm, 0))
		FROM properties
		WHERE property_type_id = $1
		  AND listing_type_id = $2
		  AND city_id = $3
		  AND property_status_id IN ($4, $5)
		  AND `+numericPrice+`
		  AND sqm IS NOT NULL
	`, in.PropertyTypeID, in.ListingTypeID, in.CityID, s.SoldStatusID, s.ClosedStatusID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("closed avg: %w", err)
	}
	return avg.Float64, nil
}

// scrapedAvgPricePerSqm averages price/sqm over available listings whose floor
// area lies within 20 percent of the subject unit.
func (s *Service) scrapedAvgPricePerSqm(ctx context.Context, in Input) (float64, error) {
	var avg sql.NullFloat64
	err := s.DB.QueryRowContext(ctx, `
		SELECT AVG(current_price::numeric / NULLIF(floor_area, 0))
		FROM properties
		WHERE property_type_id = $1
		  AND listing_type_id = $2
		  AND city_id = $3
		  AND property_status_id = $4
		  AND `+numericPrice+`
		  AND floor_area BETWEEN $5 AND $6
	`, in.PropertyTypeID, in.ListingTypeID, in.CityID, s.AvailableStatusID,
		in.Sqm*0.8, in.Sqm*1.2).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("scraped avg: %w", err)
	}
	return avg.Float64, nil
}
