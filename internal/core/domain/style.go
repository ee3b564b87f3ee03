package domain

import (
	"regexp"
	"time"
)

// Default brand styling.
const (
	DefaultBrandName    = "healthdoc"
	DefaultPrimaryColor = "#1e3a5f"
	DefaultAccentColor  = "#f59e0b"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor returns true for #rgb or #rrggbb colours.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Style is the immutable brand/presentation value threaded explicitly into
// every renderer and into the document assembler.
type Style struct {
	// BrandName appears in the document header and footer.
	BrandName string

	// PrimaryColor is the main brand colour.
	PrimaryColor string

	// AccentColor highlights callouts and accents.
	AccentColor string

	// BandScale selects the band tiers for the whole document.
	BandScale BandScale

	// CustomCSS is appended verbatim to the document stylesheet.
	CustomCSS string
}

// DefaultStyle returns the default brand styling.
func DefaultStyle() Style {
	return Style{
		BrandName:    DefaultBrandName,
		PrimaryColor: DefaultPrimaryColor,
		AccentColor:  DefaultAccentColor,
		BandScale:    BandScaleFive,
	}
}

// WithDefaults fills empty or invalid fields from DefaultStyle.
func (s Style) WithDefaults() Style {
	d := DefaultStyle()
	if s.BrandName == "" {
		s.BrandName = d.BrandName
	}
	if !IsHexColor(s.PrimaryColor) {
		s.PrimaryColor = d.PrimaryColor
	}
	if !IsHexColor(s.AccentColor) {
		s.AccentColor = d.AccentColor
	}
	if !s.BandScale.IsValid() {
		s.BandScale = d.BandScale
	}
	return s
}

// Band classifies a score using the style's band scale.
func (s Style) Band(score float64) Band {
	return BandFor(score, s.BandScale)
}

// RenderOptions is supplied by the caller per render invocation and is
// never shared across invocations.
type RenderOptions struct {
	// Style is the brand styling for the document.
	Style Style

	// OutputDir is where the artifact store should place the artifacts.
	// Empty means the store's default location.
	OutputDir string

	// GeneratedAt stamps the document. Zero means now.
	GeneratedAt time.Time
}
