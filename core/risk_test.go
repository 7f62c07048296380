package core

import (
	"strings"
	"testing"

	"github.com/signalsfoundry/collision-sentinel/model"
)

func resultAt(d float64) model.ClosestApproachResult {
	return model.ClosestApproachResult{NameA: "A", NameB: "B", MinDistanceKm: d}
}

func TestClassifyCategoryTable(t *testing.T) {
	cases := []struct {
		distanceKm float64
		want       model.RiskCategory
	}{
		{0, model.RiskCritical},
		{9.999, model.RiskCritical},
		{10.0, model.RiskDanger},
		{49.999, model.RiskDanger},
		{50.0, model.RiskWarning},
		{99.999, model.RiskWarning},
		{100.0, model.RiskCaution},
		{499.999, model.RiskCaution},
		{500.0, model.RiskSafe},
		{20000, model.RiskSafe},
	}
	for _, tc := range cases {
		if got := Classify(resultAt(tc.distanceKm)).Category; got != tc.want {
			t.Errorf("Classify(%.3f).Category = %s, want %s", tc.distanceKm, got, tc.want)
		}
	}
}

func TestClassifyPercentageTable(t *testing.T) {
	cases := []struct {
		distanceKm float64
		want       int
	}{
		{0.5, 95},
		{1.0, 85},
		{4.999, 85},
		{5.0, 70},
		{9.999, 70},
		{10.0, 45},
		{24.999, 45},
		{25.0, 25},
		{50.0, 10},
		{100.0, 3},
		{499.999, 3},
		{500.0, 1},
	}
	for _, tc := range cases {
		if got := Classify(resultAt(tc.distanceKm)).Percentage; got != tc.want {
			t.Errorf("Classify(%.3f).Percentage = %d, want %d", tc.distanceKm, got, tc.want)
		}
	}
}

func TestClassifyAdvice(t *testing.T) {
	cases := []struct {
		distanceKm float64
		want       string
	}{
		{1000, "No immediate action is required."},
		{200, "Monitoring is advised as the satellites will pass relatively close."},
		{75, "Mission control should monitor trajectories closely."},
		{20, "Mission control should monitor trajectories closely."},
		{2, "Immediate evasive maneuvers may be required to mitigate collision risk."},
	}
	for _, tc := range cases {
		if got := Classify(resultAt(tc.distanceKm)).ActionAdvice; got != tc.want {
			t.Errorf("Classify(%.0f).ActionAdvice = %q, want %q", tc.distanceKm, got, tc.want)
		}
	}
}

func TestClassifyDefaultMessageNamesBothObjects(t *testing.T) {
	v := Classify(resultAt(42))
	if !strings.Contains(v.Message, "A") || !strings.Contains(v.Message, "B") {
		t.Errorf("message %q does not name both objects", v.Message)
	}
	if !strings.Contains(v.Message, "42.00") {
		t.Errorf("message %q does not include the distance", v.Message)
	}
}

func TestClassifyAuthoritativeOverride(t *testing.T) {
	v := Classify(resultAt(42), WithAuthoritativeVerdict(model.RiskSafe, "upstream says all clear"))

	if v.Category != model.RiskSafe {
		t.Errorf("Category = %s, want overridden SAFE", v.Category)
	}
	if v.Message != "upstream says all clear" {
		t.Errorf("Message = %q, want override", v.Message)
	}
	// Percentage stays derived from the distance regardless of override.
	if v.Percentage != 25 {
		t.Errorf("Percentage = %d, want locally computed 25", v.Percentage)
	}
	// Advice follows the effective (overridden) category.
	if v.ActionAdvice != "No immediate action is required." {
		t.Errorf("ActionAdvice = %q, want SAFE advice", v.ActionAdvice)
	}
}

func TestClassifyIgnoresInvalidOverrideFields(t *testing.T) {
	v := Classify(resultAt(42), WithAuthoritativeVerdict(model.RiskCategory("BOGUS"), ""))

	if v.Category != model.RiskDanger {
		t.Errorf("Category = %s, want locally computed DANGER", v.Category)
	}
	if v.Message == "" {
		t.Error("empty override message must fall back to the default message")
	}
}
