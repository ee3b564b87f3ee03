package services

import (
	"fmt"
	"html"
	"strings"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
	"github.com/custodia-labs/healthdoc/internal/logger"
	"github.com/custodia-labs/healthdoc/internal/query"
	"github.com/custodia-labs/healthdoc/internal/renderers"
	"github.com/custodia-labs/healthdoc/internal/resolver"
)

// Composer turns recipe sections into rendered section shells.
// It has no side effects beyond producing markup and logging.
type Composer struct {
	registry driven.RendererRegistry
}

// NewComposer creates a composer dispatching through registry.
func NewComposer(registry driven.RendererRegistry) *Composer {
	return &Composer{
		registry: registry,
	}
}

// Compose renders every section of a recipe in order.
func (c *Composer) Compose(recipe *domain.Recipe, rc *domain.ReportContext, style domain.Style) []domain.ComposedSection {
	res := resolver.New(rc)
	sections := make([]domain.ComposedSection, 0, len(recipe.Sections))
	for _, section := range recipe.Sections {
		sections = append(sections, c.ComposeSection(section, res, rc, style))
	}
	return sections
}

// Bind resolves and queries every data source of a section, keyed by
// binding id in declaration order.
func Bind(section domain.Section, res *resolver.Resolver) domain.SectionData {
	data := make(domain.SectionData, 0, len(section.DataSources))
	for _, ds := range section.DataSources {
		value := res.Resolve(ds.From)
		if value == nil {
			logger.Debug("Section %q: %q resolved to nothing", section.ID, ds.From)
		}
		data = append(data, domain.BoundItems{
			ID:    ds.ID,
			Items: query.Apply(value, ds),
		})
	}
	return data
}

// ComposeSection binds a section's data, dispatches to its renderer and
// wraps the fragment in the section shell.
func (c *Composer) ComposeSection(
	section domain.Section,
	res *resolver.Resolver,
	rc *domain.ReportContext,
	style domain.Style,
) domain.ComposedSection {
	data := Bind(section, res)

	renderer, ok := c.registry.Lookup(section.VisualType)
	if !ok {
		logger.Warn("Section %q: unknown visual type %q, rendering as narrative", section.ID, section.VisualType)
	}

	body := render(renderer, driven.RenderInput{
		Section: section,
		Data:    data,
		Report:  rc,
		Style:   style,
	})

	empty := data.IsEmpty()
	if empty {
		logger.Debug("Section %q: no data, rendered placeholder", section.ID)
	}

	return domain.ComposedSection{
		ID:         section.ID,
		Title:      section.Title,
		VisualType: section.VisualType,
		HTML:       shell(section, body),
		Body:       body,
		Empty:      empty,
	}
}

// render invokes a renderer, degrading to the placeholder if it panics.
func render(renderer driven.Renderer, in driven.RenderInput) (out string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Renderer %s panicked on section %q: %v", renderer.Name(), in.Section.ID, r)
			out = renderers.Placeholder("This section could not be rendered")
		}
	}()
	return renderer.Render(in)
}

// shell wraps a fragment with the section heading and description.
func shell(section domain.Section, body string) string {
	var b strings.Builder
	visual := html.EscapeString(section.VisualType.String())
	fmt.Fprintf(&b, `<section class="hd-section hd-%s" id="section-%s" data-visual="%s">`,
		visual, html.EscapeString(section.ID), visual)
	b.WriteString("\n")
	if section.Title != "" {
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(section.Title))
	}
	if section.Description != "" {
		fmt.Fprintf(&b, "<p class=\"hd-section-description\">%s</p>\n", html.EscapeString(section.Description))
	}
	b.WriteString(body)
	b.WriteString("\n</section>\n")
	return b.String()
}
