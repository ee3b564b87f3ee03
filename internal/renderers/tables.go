package renderers

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
	"github.com/custodia-labs/healthdoc/internal/query"
)

// Compile-time interface checks.
var (
	_ driven.Renderer = (*Table)(nil)
	_ driven.Renderer = (*ComparisonTable)(nil)
	_ driven.Renderer = (*RiskMatrix)(nil)
)

// TableSchema is the column layout the table renderer infers.
type TableSchema string

// Table schemas.
const (
	// SchemaScored renders Name / Score / Status columns.
	SchemaScored TableSchema = "scored"

	// SchemaPlain renders Item / Details columns.
	SchemaPlain TableSchema = "plain"
)

// InferSchema picks the table layout from the first item: a record that
// carries a score or score_overall field is scored; anything else is plain.
func InferSchema(items []any) TableSchema {
	if len(items) > 0 && query.HasScore(items[0]) {
		return SchemaScored
	}
	return SchemaPlain
}

// ParseTableSchema returns the schema named by s, or false when s names
// none.
func ParseTableSchema(s string) (TableSchema, bool) {
	switch schema := TableSchema(strings.ToLower(strings.TrimSpace(s))); schema {
	case SchemaScored, SchemaPlain:
		return schema, true
	default:
		return "", false
	}
}

// Table renders a two or three column table. The section's "columns"
// option pins the schema; otherwise it is inferred from the first item.
type Table struct{}

// NewTable creates a table renderer.
func NewTable() *Table {
	return &Table{}
}

// Name returns the visual type.
func (r *Table) Name() string {
	return string(domain.VisualTable)
}

// Render renders the table.
func (r *Table) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoData)
	}

	schema, ok := ParseTableSchema(in.Section.Option("columns", ""))
	if !ok {
		schema = InferSchema(items)
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<table class="hd-table" data-schema="%s">`, schema)
	if schema == SchemaScored {
		b.WriteString(`<thead><tr><th>Name</th><th>Score</th><th>Status</th></tr></thead><tbody>`)
		for _, item := range items {
			score, ok := scoreOf(item)
			status := `<span class="hd-band band-none">N/A</span>`
			class := "band-none"
			if ok {
				band := in.Style.Band(score)
				status = bandBadge(band)
				class = band.Class()
			}
			fmt.Fprintf(&b, `<tr class="%s"><td>%s</td><td class="hd-num">%s</td><td>%s</td></tr>`,
				class, esc(BestLabel(item, labelFields...)), formatScore(score, ok), status)
		}
	} else {
		b.WriteString(`<thead><tr><th>Item</th><th>Details</th></tr></thead><tbody>`)
		for _, item := range items {
			label := BestLabel(item, labelFields...)
			detail := optionalText(item, detailFields...)
			if detail == label {
				detail = ""
			}
			fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td></tr>`, esc(label), esc(detail))
		}
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

// ComparisonTable lays bindings side by side: one column per binding id,
// one row per distinct item label.
type ComparisonTable struct{}

// NewComparisonTable creates a comparison table renderer.
func NewComparisonTable() *ComparisonTable {
	return &ComparisonTable{}
}

// Name returns the visual type.
func (r *ComparisonTable) Name() string {
	return string(domain.VisualComparisonTable)
}

// Render renders the table.
func (r *ComparisonTable) Render(in driven.RenderInput) string {
	if in.Data.IsEmpty() {
		return Placeholder(msgNoData)
	}

	var rows []string
	cells := make(map[string]map[string]any)
	for _, bound := range in.Data {
		for _, item := range bound.Items {
			label := BestLabel(item, labelFields...)
			if _, seen := cells[label]; !seen {
				rows = append(rows, label)
				cells[label] = make(map[string]any)
			}
			if _, taken := cells[label][bound.ID]; !taken {
				cells[label][bound.ID] = item
			}
		}
	}

	var b strings.Builder
	b.WriteString(`<table class="hd-table hd-comparison"><thead><tr><th></th>`)
	for _, bound := range in.Data {
		fmt.Fprintf(&b, `<th>%s</th>`, esc(bound.ID))
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, label := range rows {
		fmt.Fprintf(&b, `<tr><th scope="row">%s</th>`, esc(label))
		for _, bound := range in.Data {
			item, ok := cells[label][bound.ID]
			if !ok {
				b.WriteString(`<td class="hd-missing">-</td>`)
				continue
			}
			if score, ok := scoreOf(item); ok {
				band := in.Style.Band(score)
				fmt.Fprintf(&b, `<td class="hd-num %s">%s</td>`, band.Class(), formatScore(score, true))
				continue
			}
			text := optionalText(item, detailFields...)
			if text == "" || text == label {
				text = "Yes"
			}
			fmt.Fprintf(&b, `<td>%s</td>`, esc(text))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

// RiskMatrix renders risks banded by severity. Severities that are missing
// or not numeric show "N/A".
type RiskMatrix struct{}

// NewRiskMatrix creates a risk matrix renderer.
func NewRiskMatrix() *RiskMatrix {
	return &RiskMatrix{}
}

// Name returns the visual type.
func (r *RiskMatrix) Name() string {
	return string(domain.VisualRiskMatrix)
}

// riskOrder is the summary order.
var riskOrder = []domain.RiskLevel{
	domain.RiskLevelHigh, domain.RiskLevelMedium, domain.RiskLevelLow, domain.RiskLevelUnknown,
}

// Render renders the summary strip and the risk table.
func (r *RiskMatrix) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoItems)
	}

	counts := make(map[domain.RiskLevel]int)
	var rows strings.Builder
	for _, item := range items {
		severity, level := severityOf(item)
		counts[level]++

		display := "N/A"
		if level != domain.RiskLevelUnknown {
			display = formatNumber(severity) + "/10"
		}
		likelihood := optionalText(item, "likelihood")
		fmt.Fprintf(&rows, `<tr class="risk-%s"><td>%s</td><td class="hd-num">%s</td><td><span class="hd-risk risk-%s">%s</span></td><td>%s</td><td>%s</td></tr>`,
			level, esc(BestLabel(item, "category", "name", "shortLabel", "narrative")),
			display, level, level.Label(), esc(likelihood), esc(optionalText(item, "mitigationSummary", "narrative")))
	}

	var b strings.Builder
	b.WriteString(`<div class="hd-risk-matrix"><div class="hd-risk-summary">`)
	for _, level := range riskOrder {
		if counts[level] == 0 && level == domain.RiskLevelUnknown {
			continue
		}
		fmt.Fprintf(&b, `<span class="hd-risk risk-%s" data-level="%s">%s: %d</span>`, level, level, level.Label(), counts[level])
	}
	b.WriteString(`</div>`)
	b.WriteString(`<table class="hd-table"><thead><tr><th>Risk</th><th>Severity</th><th>Level</th><th>Likelihood</th><th>Mitigation</th></tr></thead><tbody>`)
	b.WriteString(rows.String())
	b.WriteString(`</tbody></table></div>`)
	return b.String()
}
