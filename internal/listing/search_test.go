package listing

import (
	"strings"
	"testing"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }
func s(v string) *string   { return &v }
func b(v bool) *bool       { return &v }

func TestSearchQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       SearchQuery
		wantErr bool
	}{
		{"empty query is valid", SearchQuery{}, false},
		{"sqm alone", SearchQuery{Sqm: f(50)}, false},
		{"sqm range", SearchQuery{SqmMin: f(40), SqmMax: f(60)}, false},
		{"sqm with range rejected", SearchQuery{Sqm: f(50), SqmMin: f(40), SqmMax: f(60)}, true},
		{"sqm with only min rejected", SearchQuery{Sqm: f(50), SqmMin: f(40)}, true},
		{"sqm_min without sqm_max rejected", SearchQuery{SqmMin: f(40)}, true},
		{"sqm_max without sqm_min rejected", SearchQuery{SqmMax: f(60)}, true},
		{"sqm_min greater than sqm_max rejected", SearchQuery{SqmMin: f(70), SqmMax: f(60)}, true},
		{"equal sqm bounds ok", SearchQuery{SqmMin: f(60), SqmMax: f(60)}, false},
		{"price range ok", SearchQuery{MinPrice: f(1000), MaxPrice: f(2000)}, false},
		{"min_price above max_price rejected", SearchQuery{MinPrice: f(3000), MaxPrice: f(2000)}, true},
		{"min_price alone ok", SearchQuery{MinPrice: f(1000)}, false},
		{"page_limit in range", SearchQuery{PageLimit: 10}, false},
		{"page_limit above cap rejected", SearchQuery{PageLimit: 101}, true},
		{"page_limit negative rejected", SearchQuery{PageLimit: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchQueryValidateDefaultsPageLimit(t *testing.T) {
	q := SearchQuery{}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if q.PageLimit != 100 {
		t.Fatalf("PageLimit = %d, want default 100", q.PageLimit)
	}
}

const unknownCity = "city-unknown"

func TestBuildSearchSQLBaseFilters(t *testing.T) {
	sqlStr, args := buildSearchSQL(SearchQuery{PageLimit: 100}, unknownCity)

	if !strings.Contains(sqlStr, "city_id <> $1") {
		t.Errorf("unknown-city exclusion missing:\n%s", sqlStr)
	}
	if !strings.Contains(sqlStr, numericPrice) {
		t.Errorf("numeric price guard missing:\n%s", sqlStr)
	}
	if !strings.Contains(sqlStr, "ORDER BY created_at DESC") {
		t.Errorf("ordering missing:\n%s", sqlStr)
	}

	// unknown city id + limit
	if len(args) != 2 {
		t.Fatalf("args = %v, want [unknownCity, limit]", args)
	}
	if args[0] != unknownCity || args[1] != 100 {
		t.Errorf("args = %v", args)
	}
}

func TestBuildSearchSQLComposition(t *testing.T) {
	q := SearchQuery{
		PropertyType: s("pt-1"),
		Bedroom:      i(2),
		StudioType:   b(false),
		HasImages:    b(true),
		Keyword:      s("bgc"),
		SqmMin:       f(40),
		SqmMax:       f(60),
		MinPrice:     f(1000000),
		MaxPrice:     f(9000000),
		PageLimit:    25,
	}

	sqlStr, args := buildSearchSQL(q, unknownCity)

	for _, clause := range []string{
		"property_type_id = $",
		"bedroom = $",
		"studio_type = $",
		"jsonb_array_length(images) > 0",
		"listing_title ILIKE",
		"sqm BETWEEN $",
		"current_price::numeric >= $",
		"current_price::numeric <= $",
	} {
		if !strings.Contains(sqlStr, clause) {
			t.Errorf("clause %q missing:\n%s", clause, sqlStr)
		}
	}

	// unknownCity, pt-1, 2, false, "bgc", 40, 60, 1000000, 9000000, 25
	if len(args) != 10 {
		t.Fatalf("args = %v, want 10 values", args)
	}
	if args[len(args)-1] != 25 {
		t.Errorf("last arg = %v, want limit 25", args[len(args)-1])
	}
}

func TestBuildSearchSQLHasImagesFalseAddsNoClause(t *testing.T) {
	withFalse, argsFalse := buildSearchSQL(SearchQuery{HasImages: b(false), PageLimit: 100}, unknownCity)
	without, argsNone := buildSearchSQL(SearchQuery{PageLimit: 100}, unknownCity)

	if withFalse != without {
		t.Errorf("has_images=false must not filter:\n%s\nvs\n%s", withFalse, without)
	}
	if len(argsFalse) != len(argsNone) {
		t.Errorf("arg counts differ: %v vs %v", argsFalse, argsNone)
	}
}

func TestBuildSearchSQLExactSqm(t *testing.T) {
	sqlStr, _ := buildSearchSQL(SearchQuery{Sqm: f(50), PageLimit: 100}, unknownCity)
	if !strings.Contains(sqlStr, "sqm = $") {
		t.Errorf("exact sqm filter missing:\n%s", sqlStr)
	}
	if strings.Contains(sqlStr, "BETWEEN") {
		t.Errorf("exact sqm must not produce a range:\n%s", sqlStr)
	}
}
