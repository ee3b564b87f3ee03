package renderers

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// Compile-time interface checks.
var (
	_ driven.Renderer = (*BulletList)(nil)
	_ driven.Renderer = (*NumberedList)(nil)
	_ driven.Renderer = (*Checklist)(nil)
	_ driven.Renderer = (*Timeline)(nil)
	_ driven.Renderer = (*RoadmapTimeline)(nil)
)

// listItem renders the label of an item plus its detail when that adds
// something.
func listItem(item any) string {
	label := BestLabel(item, labelFields...)
	detail := optionalText(item, detailFields...)
	if detail == "" || detail == label {
		return esc(label)
	}
	return fmt.Sprintf(`<strong>%s</strong> <span class="hd-detail">%s</span>`, esc(label), esc(detail))
}

// list renders items inside tag with the given class.
func list(tag, class string, items []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<%s class="%s">`, tag, class)
	for _, item := range items {
		fmt.Fprintf(&b, `<li>%s</li>`, listItem(item))
	}
	fmt.Fprintf(&b, `</%s>`, tag)
	return b.String()
}

// BulletList renders an unordered list.
type BulletList struct{}

// NewBulletList creates a bullet list renderer.
func NewBulletList() *BulletList {
	return &BulletList{}
}

// Name returns the visual type.
func (r *BulletList) Name() string {
	return string(domain.VisualBulletList)
}

// Render renders the list.
func (r *BulletList) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoItems)
	}
	return list("ul", "hd-bullets", items)
}

// NumberedList renders an ordered list.
type NumberedList struct{}

// NewNumberedList creates a numbered list renderer.
func NewNumberedList() *NumberedList {
	return &NumberedList{}
}

// Name returns the visual type.
func (r *NumberedList) Name() string {
	return string(domain.VisualNumberedList)
}

// Render renders the list.
func (r *NumberedList) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoItems)
	}
	return list("ol", "hd-numbered", items)
}

// Checklist renders items with a tick box. An item is checked when its
// done or completed field is truthy.
type Checklist struct{}

// NewChecklist creates a checklist renderer.
func NewChecklist() *Checklist {
	return &Checklist{}
}

// Name returns the visual type.
func (r *Checklist) Name() string {
	return string(domain.VisualChecklist)
}

// Render renders the checklist.
func (r *Checklist) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoItems)
	}
	var b strings.Builder
	b.WriteString(`<ul class="hd-checklist">`)
	for _, item := range items {
		if truthy(item, "done", "completed") {
			fmt.Fprintf(&b, `<li class="hd-checked" data-done="true"><span class="hd-box">&#9745;</span> %s</li>`, listItem(item))
			continue
		}
		fmt.Fprintf(&b, `<li data-done="false"><span class="hd-box">&#9744;</span> %s</li>`, listItem(item))
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// Timeline renders items along a vertical time axis.
type Timeline struct{}

// NewTimeline creates a timeline renderer.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Name returns the visual type.
func (r *Timeline) Name() string {
	return string(domain.VisualTimeline)
}

// Render renders the timeline.
func (r *Timeline) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoItems)
	}
	var b strings.Builder
	b.WriteString(`<ol class="hd-timeline">`)
	for i, item := range items {
		when := optionalText(item, whenFields...)
		if when == "" {
			when = fmt.Sprintf("Step %d", i+1)
		}
		fmt.Fprintf(&b, `<li><span class="hd-timeline-when">%s</span><span class="hd-timeline-what">%s</span></li>`,
			esc(when), listItem(item))
	}
	b.WriteString(`</ol>`)
	return b.String()
}

// RoadmapTimeline renders roadmap phases with their milestones.
type RoadmapTimeline struct{}

// NewRoadmapTimeline creates a roadmap renderer.
func NewRoadmapTimeline() *RoadmapTimeline {
	return &RoadmapTimeline{}
}

// Name returns the visual type.
func (r *RoadmapTimeline) Name() string {
	return string(domain.VisualRoadmapTimeline)
}

// Render renders the phases.
func (r *RoadmapTimeline) Render(in driven.RenderInput) string {
	items := in.Data.All()
	if len(items) == 0 {
		return Placeholder(msgNoItems)
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="hd-roadmap" style="--hd-phase-count:%d">`, len(items))
	for i, item := range items {
		b.WriteString(`<div class="hd-phase">`)
		fmt.Fprintf(&b, `<div class="hd-phase-index">%d</div>`, i+1)
		fmt.Fprintf(&b, `<h4>%s</h4>`, esc(BestLabel(item, "name", "title", "theme")))
		if when := optionalText(item, whenFields...); when != "" {
			fmt.Fprintf(&b, `<span class="hd-phase-horizon">%s</span>`, esc(when))
		}
		if text := optionalText(item, "narrative", "description"); text != "" {
			fmt.Fprintf(&b, `<p>%s</p>`, esc(text))
		}
		if milestones := stringList(item, "keyMilestones"); len(milestones) > 0 {
			b.WriteString(`<ul class="hd-milestones">`)
			for _, m := range milestones {
				fmt.Fprintf(&b, `<li>%s</li>`, esc(m))
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
