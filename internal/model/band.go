package model

// Band groups scores for display.
type Band string

const (
	BandCritical Band = "critical"
	BandHigh     Band = "high"
	BandMedium   Band = "medium"
	BandLow      Band = "low"
	BandMinimal  Band = "minimal"
)

// BandFor returns the display band of a 0-100 score.
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandCritical
	case score >= 60:
		return BandHigh
	case score >= 40:
		return BandMedium
	case score >= 20:
		return BandLow
	default:
		return BandMinimal
	}
}
