package domain

// Well-known narrative keys.
const (
	NarrativeExecutiveSummary = "executive_summary"

	// NarrativeChapterPrefix prefixes per-chapter narrative keys
	// (e.g. "chapter_GROWTH").
	NarrativeChapterPrefix = "chapter_"
)

// Highlight is one scored item handed to the narrative service.
type Highlight struct {
	Code  string
	Label string
	Score float64
	Band  string
}

// NarrativePrompt is the structured context for one narrative request.
type NarrativePrompt struct {
	// Key identifies the narrative being generated.
	Key string

	CompanyName  string
	OverallScore float64
	HealthBand   string
	Trajectory   Trajectory

	// Highlights are the category scores the narrative should cover.
	Highlights []Highlight

	// MaxTokens caps the generated length. Zero means the provider default.
	MaxTokens int
}

// NarrativeResult is the output of one narrative request.
type NarrativeResult struct {
	Text       string
	TokensUsed int
}
