package renderers

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

// baseCSS styles every renderer's markup. Brand colours come in through
// the custom properties written by StyleSheet.
const baseCSS = `
body { font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; color: #1f2937; margin: 0; }
.hd-document { max-width: 960px; margin: 0 auto; padding: 32px; }
.hd-header { border-bottom: 4px solid var(--hd-primary); padding-bottom: 16px; margin-bottom: 24px; }
.hd-header .hd-brand { color: var(--hd-primary); font-weight: 700; text-transform: uppercase; letter-spacing: .08em; }
.hd-header h1 { margin: 8px 0 4px; color: var(--hd-primary); }
.hd-footer { border-top: 1px solid #e5e7eb; margin-top: 32px; padding-top: 12px; font-size: 12px; color: #6b7280; }
.hd-section { margin: 28px 0; page-break-inside: avoid; }
.hd-section h2 { color: var(--hd-primary); border-left: 4px solid var(--hd-accent); padding-left: 10px; }
.hd-section-description { color: #4b5563; font-style: italic; }
.hd-empty { border: 1px dashed #9ca3af; border-radius: 6px; padding: 16px; color: #6b7280; background: #f9fafb; text-align: center; }
.hd-band { display: inline-block; padding: 2px 8px; border-radius: 10px; font-size: 12px; color: #fff; background: #9ca3af; }
.band-green .hd-band, .hd-band.band-green { background: #16a34a; }
.band-blue .hd-band, .hd-band.band-blue { background: #2563eb; }
.band-amber .hd-band, .hd-band.band-amber { background: #d97706; }
.band-orange .hd-band, .hd-band.band-orange { background: #ea580c; }
.band-red .hd-band, .hd-band.band-red { background: #dc2626; }
.hd-score-tiles, .hd-metric-cards, .hd-kpi-grid { display: flex; flex-wrap: wrap; gap: 12px; }
.hd-score-tile, .hd-metric-card, .hd-kpi, .hd-kpi-headline { border: 2px solid #e5e7eb; border-radius: 8px; padding: 12px 16px; min-width: 120px; }
.hd-score-value, .hd-metric-value, .hd-kpi-value { font-size: 28px; font-weight: 700; }
.hd-kpi-dashboard { display: grid; grid-template-columns: 200px 1fr; gap: 16px; }
.hd-kpi { display: flex; justify-content: space-between; gap: 8px; }
.hd-table { width: 100%; border-collapse: collapse; }
.hd-table th { background: var(--hd-primary); color: #fff; text-align: left; padding: 6px 8px; }
.hd-table td { border-bottom: 1px solid #e5e7eb; padding: 6px 8px; }
.hd-num { text-align: right; font-variant-numeric: tabular-nums; }
.hd-bar-row, .hd-progress-row { display: grid; grid-template-columns: 180px 1fr 48px; gap: 8px; align-items: center; margin: 4px 0; }
.hd-bar { height: 14px; border-radius: 3px; }
.hd-progress-track { background: #e5e7eb; border-radius: 7px; height: 14px; overflow: hidden; }
.hd-progress-fill { height: 100%; background: var(--hd-accent); }
.band-green .hd-progress-fill { background: #16a34a; }
.band-blue .hd-progress-fill { background: #2563eb; }
.band-amber .hd-progress-fill { background: #d97706; }
.band-orange .hd-progress-fill { background: #ea580c; }
.band-red .hd-progress-fill { background: #dc2626; }
.hd-radar .hd-chart-placeholder { border: 1px solid #e5e7eb; height: 240px; display: flex; align-items: center; justify-content: center; color: #9ca3af; }
.hd-checklist { list-style: none; padding-left: 0; }
.hd-checked { color: #16a34a; }
.hd-timeline { border-left: 3px solid var(--hd-accent); list-style: none; padding-left: 16px; }
.hd-timeline-when { display: block; font-weight: 600; color: var(--hd-primary); }
.hd-roadmap { display: grid; grid-template-columns: repeat(var(--hd-phase-count), 1fr); gap: 12px; }
.hd-phase { border-top: 4px solid var(--hd-accent); padding: 8px; background: #f9fafb; }
.hd-phase-index { font-weight: 700; color: var(--hd-accent); }
.hd-callout { border-left: 6px solid; padding: 12px 16px; border-radius: 4px; background: #eff6ff; }
.hd-callout-success { background: #f0fdf4; }
.hd-callout-warning { background: #fffbeb; }
.hd-callout-danger { background: #fef2f2; }
.hd-risk { display: inline-block; padding: 2px 8px; border-radius: 10px; font-size: 12px; }
.risk-high { background: #fee2e2; color: #991b1b; }
.risk-medium { background: #fef3c7; color: #92400e; }
.risk-low { background: #dcfce7; color: #166534; }
.risk-unknown { background: #f3f4f6; color: #4b5563; }
.hd-risk-summary { display: flex; gap: 8px; margin-bottom: 8px; }
@media print { .hd-document { padding: 0; } }
`

// StyleSheet returns the CSS every renderer relies on, themed with the
// style's brand colours.
func StyleSheet(style domain.Style) string {
	style = style.WithDefaults()
	var b strings.Builder
	fmt.Fprintf(&b, ":root { --hd-primary: %s; --hd-accent: %s; }", style.PrimaryColor, style.AccentColor)
	b.WriteString(baseCSS)
	return b.String()
}
