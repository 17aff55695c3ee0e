package scrape

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"propertyhub/pkg/models"
	"propertyhub/pkg/refdata"
)

// Normalize maps one extracted candidate into the canonical property row,
// applying the per-category derivation rules. Missing numeric fields stay
// NULL except bedroom/bathroom, which default to 0 for dwelling categories.
func Normalize(item Candidate, job SourceJob, ref *refdata.Set) models.Property {
	address := item.Address
	if a, ok := metaString(item.Metadata, "address"); ok && a != "" {
		address = a
	}

	// Crude CBD heuristic, kept on purpose: a geocoder is out of scope.
	isCBD := strings.Contains(strings.ToLower(address), "bgc")
	cityID := ref.Cities[refdata.CityUnknown]
	if isCBD {
		cityID = ref.Cities[refdata.CityTaguig]
	}

	listingTypeID := ref.ListingTypes[refdata.ListingTypeForRent]
	if item.IsBuy {
		listingTypeID = ref.ListingTypes[refdata.ListingTypeForSale]
	}

	p := models.Property{
		PropertyID:       uuid.NewString(),
		ListingTitle:     item.Title,
		ListingURL:       item.Href,
		PropertyTypeID:   ref.PropertyTypes[job.PropertyType],
		ListingTypeID:    listingTypeID,
		PropertyStatusID: ref.PropertyStatuses[refdata.PropertyStatusAvailable],
		TurnoverStatusID: ref.TurnoverStatuses[refdata.TurnoverStatusUnknown],
		CityID:           cityID,
		IsCBD:            isCBD,
	}

	if address != "" {
		p.Address = &address
	}
	if price, ok := metaFloat(item.Metadata, "price"); ok {
		s := strconv.FormatFloat(price, 'f', -1, 64)
		p.CurrentPrice = &s
	}
	p.Longitude, p.Latitude = metaGeoPoint(item.Metadata)

	buildingSize, hasBuilding := metaFloat(item.Metadata, "buildingSize")
	landSize, hasLand := metaFloat(item.Metadata, "landSize")

	switch job.Category {
	case CategoryCondominium:
		bedroom := metaFloorInt(item.Metadata, "bedrooms")
		bathroom := metaFloorInt(item.Metadata, "bathrooms")
		p.Bedroom = &bedroom
		p.Bathroom = &bathroom
		p.StudioType = bedroom == 0
		if hasBuilding {
			p.Sqm = &buildingSize
			p.FloorArea = &buildingSize
		}

	case CategoryHouse:
		bedroom := metaFloorInt(item.Metadata, "bedrooms")
		bathroom := metaFloorInt(item.Metadata, "bathrooms")
		parking := metaFloorInt(item.Metadata, "carSpaces")
		p.Bedroom = &bedroom
		p.Bathroom = &bathroom
		p.ParkingLot = &parking
		// The source vocabulary cross-maps these on purpose: buildingSize
		// feeds lot_area and sqm, landSize feeds floor_area.
		if hasBuilding {
			p.LotArea = &buildingSize
			p.Sqm = &buildingSize
		}
		if hasLand {
			p.FloorArea = &landSize
		}
		if year, ok := metaFloat(item.Metadata, "yearBuilt"); ok {
			y := int(year)
			p.YearBuilt = &y
		}

	case CategoryLand:
		if hasLand {
			p.Sqm = &landSize
			p.FloorArea = &landSize
		}

	case CategoryWarehouse:
		// Prefer land size, fall back to building size, for every area field.
		if hasLand {
			p.Sqm = &landSize
			p.LotArea = &landSize
			p.FloorArea = &landSize
		} else if hasBuilding {
			p.Sqm = &buildingSize
			p.FloorArea = &buildingSize
		}
	}

	return p
}

// metaFloat reads a numeric metadata field. Values arrive as float64 from the
// data-attribute decoding.
func metaFloat(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// metaFloorInt truncates a numeric field toward zero, defaulting to 0 when
// absent.
func metaFloorInt(m map[string]any, key string) int {
	f, ok := metaFloat(m, key)
	if !ok {
		return 0
	}
	return int(math.Trunc(f))
}

func metaString(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// metaGeoPoint returns the longitude/latitude pair from the geoPoint array;
// each element is optional.
func metaGeoPoint(m map[string]any) (*float64, *float64) {
	v, ok := m["geoPoint"]
	if !ok {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, nil
	}

	var lng, lat *float64
	if len(arr) > 0 {
		if f, ok := arr[0].(float64); ok {
			lng = &f
		}
	}
	if len(arr) > 1 {
		if f, ok := arr[1].(float64); ok {
			lat = &f
		}
	}
	return lng, lat
}
