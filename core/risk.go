package core

import (
	"fmt"

	"github.com/signalsfoundry/collision-sentinel/model"
)

// Advisory text per category. The WARNING and DANGER bands intentionally
// share the same advice.
const (
	adviceSafe     = "No immediate action is required."
	adviceCaution  = "Monitoring is advised as the satellites will pass relatively close."
	adviceWarning  = "Mission control should monitor trajectories closely."
	adviceCritical = "Immediate evasive maneuvers may be required to mitigate collision risk."
)

type classifyOptions struct {
	category model.RiskCategory
	message  string
}

// ClassifyOption adjusts a single classification.
type ClassifyOption func(*classifyOptions)

// WithAuthoritativeVerdict overrides the locally computed category and
// message with values from a richer upstream analysis. The percentage is
// still recomputed locally from the distance so the numeric display stays
// consistent regardless of message source. Invalid categories and empty
// messages are ignored field-by-field.
func WithAuthoritativeVerdict(category model.RiskCategory, message string) ClassifyOption {
	return func(o *classifyOptions) {
		o.category = category
		o.message = message
	}
}

// Classify maps a closest-approach result onto a risk verdict using fixed
// threshold tables. The category and percentage tables use independently
// tuned breakpoints (the percentage table is finer-grained); they are kept
// separate on purpose, since unifying them would change displayed numbers.
func Classify(result model.ClosestApproachResult, opts ...ClassifyOption) model.RiskVerdict {
	var o classifyOptions
	for _, opt := range opts {
		opt(&o)
	}

	d := result.MinDistanceKm
	category := categoryFor(d)
	if o.category.Valid() {
		category = o.category
	}

	message := o.message
	if message == "" {
		message = fmt.Sprintf("%s: %s and %s reach a minimum separation of %.2f km.",
			category, result.NameA, result.NameB, d)
	}

	return model.RiskVerdict{
		Category:     category,
		Percentage:   percentageFor(d),
		Message:      message,
		ActionAdvice: adviceFor(category),
	}
}

// categoryFor evaluates the category thresholds in order; first match wins.
func categoryFor(distanceKm float64) model.RiskCategory {
	switch {
	case distanceKm < 10:
		return model.RiskCritical
	case distanceKm < 50:
		return model.RiskDanger
	case distanceKm < 100:
		return model.RiskWarning
	case distanceKm < 500:
		return model.RiskCaution
	default:
		return model.RiskSafe
	}
}

// percentageFor grades the probability-like percentage on its own, finer
// breakpoint table.
func percentageFor(distanceKm float64) int {
	switch {
	case distanceKm < 1:
		return 95
	case distanceKm < 5:
		return 85
	case distanceKm < 10:
		return 70
	case distanceKm < 25:
		return 45
	case distanceKm < 50:
		return 25
	case distanceKm < 100:
		return 10
	case distanceKm < 500:
		return 3
	default:
		return 1
	}
}

func adviceFor(category model.RiskCategory) string {
	switch category {
	case model.RiskCritical:
		return adviceCritical
	case model.RiskDanger, model.RiskWarning:
		return adviceWarning
	case model.RiskCaution:
		return adviceCaution
	default:
		return adviceSafe
	}
}
