package domain

import "time"

// BoundItems is the filtered, sorted and limited result of one data source binding.
type BoundItems struct {
	// ID is the binding id from the recipe.
	ID string

	// Items is the array fed to the renderer. Items are plain strings, numbers,
	// or records (map[string]any).
	Items []any
}

// SectionData holds every binding of a section, in declaration order.
type SectionData []BoundItems

// Get returns the items bound under id, or nil.
func (d SectionData) Get(id string) []any {
	for _, b := range d {
		if b.ID == id {
			return b.Items
		}
	}
	return nil
}

// All returns the union of every bound array, in declaration order.
func (d SectionData) All() []any {
	var all []any
	for _, b := range d {
		all = append(all, b.Items...)
	}
	return all
}

// IsEmpty returns true if no binding produced any item.
func (d SectionData) IsEmpty() bool {
	for _, b := range d {
		if len(b.Items) > 0 {
			return false
		}
	}
	return true
}

// ComposedSection is one rendered section shell.
type ComposedSection struct {
	ID         string
	Title      string
	VisualType VisualType

	// HTML is the full section shell including heading and body.
	HTML string

	// Body is the renderer output alone.
	Body string

	// Empty is true when the renderer produced the no-data placeholder.
	Empty bool
}

// SectionRef indexes a section in the metadata record.
type SectionRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// BrandColors records the colours a document was rendered with.
type BrandColors struct {
	PrimaryColor string `json:"primaryColor"`
	AccentColor  string `json:"accentColor"`
}

// ReportMetadata is the companion record persisted next to each document.
type ReportMetadata struct {
	ReportType  string       `json:"reportType"`
	ReportName  string       `json:"reportName"`
	GeneratedAt time.Time    `json:"generatedAt"`
	CompanyName string       `json:"companyName"`
	RunID       string       `json:"runId"`
	HealthScore float64      `json:"healthScore"`
	HealthBand  string       `json:"healthBand"`
	Sections    []SectionRef `json:"sections"`
	Brand       BrandColors  `json:"brand"`
}

// Document is the in-memory output of the assembler, before persistence.
type Document struct {
	// HTML is the complete document markup.
	HTML string

	// Metadata is the companion record.
	Metadata ReportMetadata

	// DocumentName is the target identifier for the markup (e.g. "board_pack.html").
	DocumentName string

	// MetadataName is the target identifier for the metadata record.
	MetadataName string

	// Sections are the composed sections, in recipe order.
	Sections []ComposedSection
}

// GeneratedReport is created once per successful render and is immutable thereafter.
type GeneratedReport struct {
	ReportType   string
	ReportName   string
	RunID        string
	DocumentPath string
	MetadataPath string
	GeneratedAt  time.Time

	// HealthScore and HealthBand mirror the metadata record for history listings.
	HealthScore float64
	HealthBand  string
}
