package domain

import "math"

// BandScale selects how many tiers scores are banded into.
// One document always uses a single scale.
type BandScale string

// Available band scales.
const (
	// BandScaleFive bands at 80/70/60/40.
	BandScaleFive BandScale = "five"

	// BandScaleFour bands at 80/60/40.
	BandScaleFour BandScale = "four"
)

// IsValid returns true if the scale is recognised.
func (s BandScale) IsValid() bool {
	return s == BandScaleFive || s == BandScaleFour
}

// String returns the string representation.
func (s BandScale) String() string {
	return string(s)
}

// Band is the colour/severity classification of a 0-100 score.
type Band struct {
	// Label is the human-readable tier name (e.g. "Excellence").
	Label string

	// Color is the colour name (green, blue, amber, orange, red).
	Color string

	// Hex is the colour used when rendering.
	Hex string
}

// Class returns the CSS class for the band.
func (b Band) Class() string {
	return "band-" + b.Color
}

// Band tiers.
var (
	BandExcellence  = Band{Label: "Excellence", Color: "green", Hex: "#16a34a"}
	BandProficiency = Band{Label: "Proficiency", Color: "blue", Hex: "#2563eb"}
	BandAttention   = Band{Label: "Attention", Color: "amber", Hex: "#d97706"}
	BandConcern     = Band{Label: "Concern", Color: "orange", Hex: "#ea580c"}
	BandCritical    = Band{Label: "Critical", Color: "red", Hex: "#dc2626"}
)

// ClampScore limits a score to [0,100]. NaN becomes 0.
func ClampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// BandFor classifies a score. It is total: every float maps to exactly one tier.
// An unrecognised scale bands with the five-tier scale.
func BandFor(score float64, scale BandScale) Band {
	score = ClampScore(score)

	switch {
	case score >= 80:
		return BandExcellence
	case scale != BandScaleFour && score >= 70:
		return BandProficiency
	case score >= 60:
		return BandAttention
	case score >= 40:
		return BandConcern
	default:
		return BandCritical
	}
}

// RiskLevel is the banded severity of a risk.
type RiskLevel string

// Risk levels.
const (
	RiskLevelHigh    RiskLevel = "high"
	RiskLevelMedium  RiskLevel = "medium"
	RiskLevelLow     RiskLevel = "low"
	RiskLevelUnknown RiskLevel = "unknown"
)

// RiskLevelFor bands a 0-10 severity: >=8 high, >=5 medium, else low.
func RiskLevelFor(severity float64) RiskLevel {
	switch {
	case math.IsNaN(severity):
		return RiskLevelUnknown
	case severity >= 8:
		return RiskLevelHigh
	case severity >= 5:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// Label returns the display label. Unknown severities display as "N/A".
func (l RiskLevel) Label() string {
	switch l {
	case RiskLevelHigh:
		return "High"
	case RiskLevelMedium:
		return "Medium"
	case RiskLevelLow:
		return "Low"
	default:
		return "N/A"
	}
}

// String returns the string representation.
func (l RiskLevel) String() string {
	return string(l)
}
