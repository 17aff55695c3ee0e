package valuation

import (
	"testing"
	"time"

	"propertyhub/pkg/phpeso"
)

func TestAppraiseWorkedExample(t *testing.T) {
	// 50 sqm condominium built 2015, 50-year life span, and both price/sqm
	// averages at 100000.
	currentYear := time.Now().Year()
	appraisal, perSqm := Appraise(100000, 100000, 50, 2015, currentYear, 50)

	if perSqm != 200000 {
		t.Fatalf("perSqm = %v, want 200000", perSqm)
	}

	age := currentYear - 2015
	want := 200000 * (float64(50-age) / 50) * 50
	if appraisal != want {
		t.Fatalf("appraisal = %v, want %v", appraisal, want)
	}
}

func TestAppraiseNewBuildingHasNoDepreciation(t *testing.T) {
	appraisal, _ := Appraise(100000, 100000, 50, 2026, 2026, 50)
	if appraisal != 200000*50 {
		t.Fatalf("appraisal = %v, want full value for a brand new unit", appraisal)
	}
}

func TestAppraiseFullyDepreciated(t *testing.T) {
	appraisal, _ := Appraise(100000, 0, 50, 1976, 2026, 50)
	if appraisal != 0 {
		t.Fatalf("appraisal = %v, want 0 at end of life span", appraisal)
	}
}

func TestResultFormatting(t *testing.T) {
	got := phpeso.Format(12087500)
	if got != "₱12,087,500.00" {
		t.Fatalf("Format = %q", got)
	}
}
