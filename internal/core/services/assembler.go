package services

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/renderers"
)

// Target identifier suffixes.
const (
	documentSuffix = ".html"
	metadataSuffix = ".meta.json"
)

// DocumentName returns the target identifier for a report's markup.
func DocumentName(reportType string) string {
	return reportType + documentSuffix
}

// MetadataName returns the target identifier for a report's metadata record.
func MetadataName(reportType string) string {
	return reportType + metadataSuffix
}

// Assembler concatenates composed sections into a complete document and
// builds the companion metadata record. It never touches storage.
type Assembler struct{}

// NewAssembler creates an assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds the document for a recipe. The style is taken from opts;
// opts.GeneratedAt stamps the document and defaults to now.
func (a *Assembler) Assemble(
	recipe *domain.Recipe,
	rc *domain.ReportContext,
	sections []domain.ComposedSection,
	opts domain.RenderOptions,
) (*domain.Document, error) {
	if recipe == nil {
		return nil, fmt.Errorf("%w: recipe is nil", domain.ErrInvalidRecipe)
	}
	if rc == nil {
		return nil, fmt.Errorf("%w: context is nil", domain.ErrInvalidReportContext)
	}

	style := opts.Style.WithDefaults()
	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	generatedAt = generatedAt.UTC()

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title(recipe, rc)))
	b.WriteString("<style>\n")
	b.WriteString(renderers.StyleSheet(style))
	if mods := StyleModifierCSS(recipe.StyleModifiers()); mods != "" {
		b.WriteString(mods)
		b.WriteString("\n")
	}
	if style.CustomCSS != "" {
		b.WriteString(sanitiseCSS(style.CustomCSS))
		b.WriteString("\n")
	}
	b.WriteString("</style>\n</head>\n<body>\n")
	fmt.Fprintf(&b, "<main class=\"hd-document\" data-report=\"%s\">\n", html.EscapeString(recipe.ID))

	// Header
	b.WriteString("<header class=\"hd-header\">\n")
	fmt.Fprintf(&b, "<div class=\"hd-brand\">%s</div>\n", html.EscapeString(style.BrandName))
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(recipe.Name))
	if rc.CompanyName != "" {
		fmt.Fprintf(&b, "<div class=\"hd-company\">%s</div>\n", html.EscapeString(rc.CompanyName))
	}
	fmt.Fprintf(&b, "<div class=\"hd-generated\">Generated %s</div>\n", generatedAt.Format("2 January 2006"))
	b.WriteString("</header>\n")

	refs := make([]domain.SectionRef, 0, len(sections))
	for _, s := range sections {
		b.WriteString(s.HTML)
		refs = append(refs, domain.SectionRef{ID: s.ID, Title: s.Title})
	}

	// Footer
	fmt.Fprintf(&b, "<footer class=\"hd-footer\">&copy; %d %s</footer>\n",
		generatedAt.Year(), html.EscapeString(style.BrandName))
	b.WriteString("</main>\n</body>\n</html>\n")

	return &domain.Document{
		HTML: b.String(),
		Metadata: domain.ReportMetadata{
			ReportType:  recipe.ID,
			ReportName:  recipe.Name,
			GeneratedAt: generatedAt,
			CompanyName: rc.CompanyName,
			RunID:       rc.RunID,
			HealthScore: rc.OverallHealth.Score,
			HealthBand:  healthBand(rc, style),
			Sections:    refs,
			Brand: domain.BrandColors{
				PrimaryColor: style.PrimaryColor,
				AccentColor:  style.AccentColor,
			},
		},
		DocumentName: DocumentName(recipe.ID),
		MetadataName: MetadataName(recipe.ID),
		Sections:     sections,
	}, nil
}

// title is the document title.
func title(recipe *domain.Recipe, rc *domain.ReportContext) string {
	if rc.CompanyName == "" {
		return recipe.Name
	}
	return recipe.Name + " - " + rc.CompanyName
}

// healthBand prefers the upstream band and otherwise classifies the score
// with the document's scale.
func healthBand(rc *domain.ReportContext, style domain.Style) string {
	if rc.OverallHealth.Band != "" {
		return rc.OverallHealth.Band
	}
	return style.Band(rc.OverallHealth.Score).Label
}

var (
	cssIdent    = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	cssUnsafe   = regexp.MustCompile(`[;{}<>]`)
	styleCloser = regexp.MustCompile(`(?i)</style`)
)

// StyleModifierCSS renders recipe style modifiers as CSS custom properties
// named --hd-<key>. Keys are sorted so output is stable.
func StyleModifierCSS(mods map[string]any) string {
	if len(mods) == 0 {
		return ""
	}
	keys := make([]string, 0, len(mods))
	for k := range mods {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, k := range keys {
		name := strings.Trim(cssIdent.ReplaceAllString(strings.ReplaceAll(k, "_", "-"), "-"), "-")
		value := strings.TrimSpace(cssUnsafe.ReplaceAllString(cast.ToString(mods[k]), ""))
		if name == "" || value == "" {
			continue
		}
		fmt.Fprintf(&b, " --hd-%s: %s;", strings.ToLower(name), value)
	}
	b.WriteString(" }")
	return b.String()
}

// sanitiseCSS stops custom CSS from closing the style element.
func sanitiseCSS(css string) string {
	return styleCloser.ReplaceAllString(css, "")
}
