package renderers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// Compile-time interface checks.
var (
	_ driven.Renderer = (*Narrative)(nil)
	_ driven.Renderer = (*CalloutBox)(nil)
)

// Both are safe for concurrent use once built.
var (
	markdown = goldmark.New()
	policy   = bluemonday.UGCPolicy()
)

// Prose converts markdown text to sanitised HTML. Text that fails to
// convert is escaped and wrapped in a paragraph.
func Prose(text string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "<p>" + esc(text) + "</p>"
	}
	return strings.TrimSpace(policy.Sanitize(buf.String()))
}

// Narrative renders each item as markdown prose. It is also the fallback
// for unknown visual types.
type Narrative struct{}

// NewNarrative creates a narrative renderer.
func NewNarrative() *Narrative {
	return &Narrative{}
}

// Name returns the visual type.
func (r *Narrative) Name() string {
	return string(domain.VisualNarrative)
}

// Render renders the prose.
func (r *Narrative) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoData)
	}
	body := proseOf(items)
	if body == "" {
		return Placeholder(msgNoData)
	}
	return `<div class="hd-narrative">` + body + `</div>`
}

// proseOf renders the non-blank text of each item. It returns "" when no
// item has any text.
func proseOf(items []any) string {
	var b strings.Builder
	for _, item := range items {
		text := BestLabel(item, textFields...)
		if strings.TrimSpace(text) == "" {
			continue
		}
		b.WriteString(Prose(text))
	}
	return b.String()
}

// Callout tones.
const (
	ToneInfo    = "info"
	ToneSuccess = "success"
	ToneWarning = "warning"
	ToneDanger  = "danger"
)

// CalloutBox renders a highlighted aside. The tone comes from the
// section's "tone" option and defaults to info.
type CalloutBox struct{}

// NewCalloutBox creates a callout renderer.
func NewCalloutBox() *CalloutBox {
	return &CalloutBox{}
}

// Name returns the visual type.
func (r *CalloutBox) Name() string {
	return string(domain.VisualCalloutBox)
}

// Render renders the callout.
func (r *CalloutBox) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoData)
	}

	body := proseOf(items)
	if body == "" {
		return Placeholder(msgNoData)
	}

	tone := in.Section.Option("tone", ToneInfo)
	switch tone {
	case ToneInfo, ToneSuccess, ToneWarning, ToneDanger:
	default:
		tone = ToneInfo
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<aside class="hd-callout hd-callout-%s" role="note" style="border-left-color:%s">`,
		tone, esc(in.Style.AccentColor))
	if heading := in.Section.Option("heading", ""); heading != "" {
		fmt.Fprintf(&b, `<strong class="hd-callout-heading">%s</strong>`, esc(heading))
	}
	b.WriteString(body)
	b.WriteString(`</aside>`)
	return b.String()
}
