package renderers

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// Compile-time interface checks.
var (
	_ driven.Renderer = (*ScoreTile)(nil)
	_ driven.Renderer = (*ScoreTiles)(nil)
	_ driven.Renderer = (*MetricCards)(nil)
	_ driven.Renderer = (*KPIDashboard)(nil)
	_ driven.Renderer = (*ProgressBars)(nil)
	_ driven.Renderer = (*BarChart)(nil)
	_ driven.Renderer = (*RadarChart)(nil)
)

// tile renders one banded score tile.
func tile(item any, style domain.Style, fallbackLabel string) string {
	score, ok := scoreOf(item)
	label := fallbackLabel
	if _, isRecord := item.(map[string]any); isRecord {
		label = BestLabel(item, labelFields...)
	}

	var b strings.Builder
	if ok {
		band := style.Band(score)
		fmt.Fprintf(&b, `<div class="hd-score-tile %s" style="border-color:%s">`, band.Class(), band.Hex)
		fmt.Fprintf(&b, `<div class="hd-score-value">%s</div>`, formatScore(score, true))
		if label != "" {
			fmt.Fprintf(&b, `<div class="hd-score-label">%s</div>`, esc(label))
		}
		b.WriteString(bandBadge(band))
	} else {
		b.WriteString(`<div class="hd-score-tile band-none">`)
		b.WriteString(`<div class="hd-score-value">N/A</div>`)
		if label == "" {
			label = BestLabel(item, labelFields...)
		}
		fmt.Fprintf(&b, `<div class="hd-score-label">%s</div>`, esc(label))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// ScoreTile renders the first bound item as one headline score.
type ScoreTile struct{}

// NewScoreTile creates a score tile renderer.
func NewScoreTile() *ScoreTile {
	return &ScoreTile{}
}

// Name returns the visual type.
func (r *ScoreTile) Name() string {
	return string(domain.VisualScoreTile)
}

// Render renders the headline tile.
func (r *ScoreTile) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoData)
	}
	return tile(items[0], in.Style, in.Section.Title)
}

// ScoreTiles renders every bound item as a row of tiles.
type ScoreTiles struct{}

// NewScoreTiles creates a score tile row renderer.
func NewScoreTiles() *ScoreTiles {
	return &ScoreTiles{}
}

// Name returns the visual type.
func (r *ScoreTiles) Name() string {
	return string(domain.VisualScoreTiles)
}

// Render renders the tile row.
func (r *ScoreTiles) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoData)
	}
	var b strings.Builder
	b.WriteString(`<div class="hd-score-tiles">`)
	for _, item := range items {
		b.WriteString(tile(item, in.Style, ""))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// MetricCards renders labelled values as cards. Scored items are banded;
// others show their value field.
type MetricCards struct{}

// NewMetricCards creates a metric card renderer.
func NewMetricCards() *MetricCards {
	return &MetricCards{}
}

// Name returns the visual type.
func (r *MetricCards) Name() string {
	return string(domain.VisualMetricCards)
}

// Render renders the cards.
func (r *MetricCards) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoData)
	}
	var b strings.Builder
	b.WriteString(`<div class="hd-metric-cards">`)
	for _, item := range items {
		label := BestLabel(item, labelFields...)
		if score, ok := scoreOf(item); ok {
			band := in.Style.Band(score)
			fmt.Fprintf(&b, `<div class="hd-metric-card %s">`, band.Class())
			fmt.Fprintf(&b, `<div class="hd-metric-value">%s</div>`, formatScore(score, true))
		} else {
			value := optionalText(item, "value", "metric", "effort", "impact")
			if value == "" {
				value = "N/A"
			}
			b.WriteString(`<div class="hd-metric-card band-none">`)
			fmt.Fprintf(&b, `<div class="hd-metric-value">%s</div>`, esc(value))
		}
		fmt.Fprintf(&b, `<div class="hd-metric-label">%s</div></div>`, esc(label))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// KPIDashboard renders the overall health headline next to a KPI grid.
type KPIDashboard struct{}

// NewKPIDashboard creates a KPI dashboard renderer.
func NewKPIDashboard() *KPIDashboard {
	return &KPIDashboard{}
}

// Name returns the visual type.
func (r *KPIDashboard) Name() string {
	return string(domain.VisualKPIDashboard)
}

// Render renders the dashboard.
func (r *KPIDashboard) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoData)
	}
	var b strings.Builder
	b.WriteString(`<div class="hd-kpi-dashboard">`)
	if in.Report != nil {
		band := in.Style.Band(in.Report.OverallHealth.Score)
		fmt.Fprintf(&b, `<div class="hd-kpi-headline %s">`, band.Class())
		fmt.Fprintf(&b, `<div class="hd-kpi-value">%s</div>`, formatScore(in.Report.OverallHealth.Score, true))
		b.WriteString(`<div class="hd-kpi-label">Overall health</div>`)
		b.WriteString(bandBadge(band))
		if t := in.Report.OverallHealth.Trajectory; t != "" {
			fmt.Fprintf(&b, `<div class="hd-trajectory hd-trajectory-%s">%s</div>`, esc(t.String()), esc(t.String()))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`<div class="hd-kpi-grid">`)
	for _, item := range items {
		score, ok := scoreOf(item)
		class := "band-none"
		if ok {
			class = in.Style.Band(score).Class()
		}
		fmt.Fprintf(&b, `<div class="hd-kpi %s"><span class="hd-kpi-name">%s</span><span class="hd-kpi-score">%s</span></div>`,
			class, esc(BestLabel(item, labelFields...)), formatScore(score, ok))
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

// ProgressBars renders each score as a filled track with its band.
type ProgressBars struct{}

// NewProgressBars creates a progress bar renderer.
func NewProgressBars() *ProgressBars {
	return &ProgressBars{}
}

// Name returns the visual type.
func (r *ProgressBars) Name() string {
	return string(domain.VisualProgressBars)
}

// Render renders the bars.
func (r *ProgressBars) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoData)
	}
	var b strings.Builder
	b.WriteString(`<div class="hd-progress">`)
	for _, item := range items {
		score, ok := scoreOf(item)
		width := 0.0
		class := "band-none"
		if ok {
			width = domain.ClampScore(score)
			class = in.Style.Band(score).Class()
		}
		fmt.Fprintf(&b, `<div class="hd-progress-row %s">`, class)
		fmt.Fprintf(&b, `<span class="hd-progress-label">%s</span>`, esc(BestLabel(item, labelFields...)))
		fmt.Fprintf(&b, `<div class="hd-progress-track"><div class="hd-progress-fill" style="width:%s%%"></div></div>`, formatNumber(width))
		fmt.Fprintf(&b, `<span class="hd-progress-value">%s</span>`, formatScore(score, ok))
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// BarChart renders a horizontal bar chart in CSS.
type BarChart struct{}

// NewBarChart creates a bar chart renderer.
func NewBarChart() *BarChart {
	return &BarChart{}
}

// Name returns the visual type.
func (r *BarChart) Name() string {
	return string(domain.VisualBarChart)
}

// Render renders the chart.
func (r *BarChart) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoData)
	}
	var b strings.Builder
	b.WriteString(`<div class="hd-bar-chart" data-chart="bar">`)
	for _, item := range items {
		score, ok := scoreOf(item)
		width := 0.0
		color := in.Style.PrimaryColor
		if ok {
			width = domain.ClampScore(score)
			color = in.Style.Band(score).Hex
		}
		b.WriteString(`<div class="hd-bar-row">`)
		fmt.Fprintf(&b, `<span class="hd-bar-label">%s</span>`, esc(BestLabel(item, labelFields...)))
		fmt.Fprintf(&b, `<div class="hd-bar" style="width:%s%%;background-color:%s"></div>`, formatNumber(width), esc(color))
		fmt.Fprintf(&b, `<span class="hd-bar-value">%s</span>`, formatScore(score, ok))
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// RadarChart emits a chart placeholder with an axis legend.
// Chart images are produced outside the engine.
type RadarChart struct{}

// NewRadarChart creates a radar chart renderer.
func NewRadarChart() *RadarChart {
	return &RadarChart{}
}

// Name returns the visual type.
func (r *RadarChart) Name() string {
	return string(domain.VisualRadarChart)
}

// Render renders the figure.
func (r *RadarChart) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoData)
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<figure class="hd-radar" data-chart="radar" data-axes="%d">`, len(items))
	b.WriteString(`<div class="hd-chart-placeholder">Radar chart</div>`)
	b.WriteString(`<figcaption><ul class="hd-legend">`)
	for _, item := range items {
		score, ok := scoreOf(item)
		label := BestLabel(item, labelFields...)
		class := "band-none"
		if ok {
			class = in.Style.Band(score).Class()
		}
		fmt.Fprintf(&b, `<li class="%s" data-axis="%s" data-value="%s">%s: %s</li>`,
			class, esc(label), formatScore(score, ok), esc(label), formatScore(score, ok))
	}
	b.WriteString(`</ul></figcaption></figure>`)
	return b.String()
}
