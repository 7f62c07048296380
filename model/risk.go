package model

import "time"

// RiskCategory is the bounded classification of a closest approach.
type RiskCategory string

const (
	RiskSafe     RiskCategory = "SAFE"
	RiskCaution  RiskCategory = "CAUTION"
	RiskWarning  RiskCategory = "WARNING"
	RiskDanger   RiskCategory = "DANGER"
	RiskCritical RiskCategory = "CRITICAL"
)

// Valid reports whether c is one of the five defined categories.
func (c RiskCategory) Valid() bool {
	switch c {
	case RiskSafe, RiskCaution, RiskWarning, RiskDanger, RiskCritical:
		return true
	}
	return false
}

// ClosestApproachResult is the outcome of one trajectory-pair search.
// Produced fresh per analysis request; never cached across requests.
type ClosestApproachResult struct {
	NameA string
	NameB string

	MinDistanceKm float64

	// TimeOfApproach is the zero value when no sample produced it.
	TimeOfApproach time.Time
}

// RiskVerdict is the presentation-ready classification of a closest
// approach. Derived purely from a ClosestApproachResult; stateless.
type RiskVerdict struct {
	Category     RiskCategory
	Percentage   int // 0..100
	Message      string
	ActionAdvice string
}
