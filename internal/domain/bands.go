package domain

// Display bands shared by the location cards, the selected-site panel and the
// JSON API. Thresholds are inclusive lower bounds on the clamped score.
const (
	bandExcellent = 80
	bandVeryGood  = 60
	bandGood      = 40
)

// ClampScore limits a score to [0, 100]. Only display logic clamps; stored
// records keep whatever the source reported.
func ClampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// SuitabilityText describes a score in the selected-site panel.
func SuitabilityText(score float64) string {
	switch s := ClampScore(score); {
	case s >= bandExcellent:
		return "excellent"
	case s >= bandVeryGood:
		return "very good"
	case s >= bandGood:
		return "good"
	default:
		return "suitable"
	}
}

// SuitabilityLevel is the colour key used by templates and API clients.
func SuitabilityLevel(score float64) string {
	switch s := ClampScore(score); {
	case s >= bandExcellent:
		return "green"
	case s >= bandVeryGood:
		return "yellow"
	case s >= bandGood:
		return "orange"
	default:
		return "red"
	}
}

// LandType summarises the terrain implied by a score.
func LandType(score float64) string {
	switch s := ClampScore(score); {
	case s >= bandExcellent:
		return "Excellent - Flat, barren land with high solar potential"
	case s >= bandVeryGood:
		return "Good - Suitable terrain with moderate vegetation"
	case s >= bandGood:
		return "Moderate - Some terrain challenges but usable"
	default:
		return "Challenging - Requires significant preparation"
	}
}

// EnergyPotential estimates daily irradiance for a score.
func EnergyPotential(score float64) string {
	switch s := ClampScore(score); {
	case s >= bandExcellent:
		return "5-6 kWh/m²/day"
	case s >= bandVeryGood:
		return "4-5 kWh/m²/day"
	case s >= bandGood:
		return "3-4 kWh/m²/day"
	default:
		return "2-3 kWh/m²/day"
	}
}
