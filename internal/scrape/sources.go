package scrape

import (
	"time"

	"propertyhub/pkg/refdata"
)

// Category selects the area-field mapping rules the normalizer applies.
type Category int

const (
	CategoryCondominium Category = iota
	CategoryHouse
	CategoryLand
	CategoryWarehouse
)

// SourceJob configures one (source site, property category) ingest job: which
// queued pages it claims, how many per run, and how candidates normalize.
type SourceJob struct {
	Name         string
	Pattern      string // substring matched case-insensitively against scrape_url
	Limit        int
	PropertyType string // refdata lookup name
	Category     Category
	// PurgeOnEmpty drops every remaining queue row for the pattern once no
	// unclaimed rows are left, so exhausted crawls do not pile up forever.
	PurgeOnEmpty bool
	Every        time.Duration
}

// DefaultJobs is the full ingest job table for both source sites. Limits are
// per-source backpressure tuning, not a computed policy.
func DefaultJobs() []SourceJob {
	return []SourceJob{
		{
			Name:         "lamudi-condominium",
			Pattern:      "https://www.lamudi.com.ph/condominium",
			Limit:        1,
			PropertyType: refdata.PropertyTypeCondominium,
			Category:     CategoryCondominium,
			Every:        7 * 24 * time.Hour,
		},
		{
			Name:         "lamudi-house",
			Pattern:      "https://www.lamudi.com.ph/house",
			Limit:        1,
			PropertyType: refdata.PropertyTypeHouse,
			Category:     CategoryHouse,
			Every:        7 * 24 * time.Hour,
		},
		{
			Name:         "lamudi-apartment",
			Pattern:      "https://lamudi.com.ph/apartment",
			Limit:        5,
			PropertyType: refdata.PropertyTypeTownhouse,
			Category:     CategoryHouse,
			Every:        7 * 24 * time.Hour,
		},
		{
			Name:         "lamudi-land",
			Pattern:      "https://www.lamudi.com.ph/land",
			Limit:        5,
			PropertyType: refdata.PropertyTypeVacantLot,
			Category:     CategoryLand,
			Every:        7 * 24 * time.Hour,
		},
		{
			Name:         "lamudi-warehouse",
			Pattern:      "https://www.lamudi.com.ph/commercial/warehouse",
			Limit:        5,
			PropertyType: refdata.PropertyTypeWarehouse,
			Category:     CategoryWarehouse,
			Every:        5 * time.Second,
		},
		{
			Name:         "myproperty-condominium",
			Pattern:      "https://www.myproperty.ph/condominium",
			Limit:        1,
			PropertyType: refdata.PropertyTypeCondominium,
			Category:     CategoryCondominium,
			PurgeOnEmpty: true,
			Every:        5 * time.Second,
		},
		{
			Name:         "myproperty-house",
			Pattern:      "https://www.myproperty.ph/house",
			Limit:        5,
			PropertyType: refdata.PropertyTypeHouse,
			Category:     CategoryHouse,
			Every:        5 * time.Second,
		},
		{
			Name:         "myproperty-apartment",
			Pattern:      "myproperty.ph/apartment",
			Limit:        5,
			PropertyType: refdata.PropertyTypeTownhouse,
			Category:     CategoryHouse,
			Every:        5 * time.Second,
		},
		{
			Name:         "myproperty-land",
			Pattern:      "https://www.myproperty.ph/land",
			Limit:        1,
			PropertyType: refdata.PropertyTypeVacantLot,
			Category:     CategoryLand,
			Every:        5 * time.Second,
		},
		{
			Name:         "myproperty-warehouse",
			Pattern:      "https://www.myproperty.ph/metro-manila/commercial/warehouse",
			Limit:        5,
			PropertyType: refdata.PropertyTypeWarehouse,
			Category:     CategoryWarehouse,
			Every:        5 * time.Second,
		},
	}
}
