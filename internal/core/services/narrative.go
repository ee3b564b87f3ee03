package services

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
	"github.com/custodia-labs/healthdoc/internal/logger"
	"github.com/custodia-labs/healthdoc/internal/resolver"
)

// narrativeAlias is the alias recipes use to bind narrative text.
const narrativeAlias = "narratives"

// NarrativeEnricher fills a report context with the narratives a recipe
// asks for before rendering. The engine itself only ever sees the
// resolved text.
type NarrativeEnricher struct {
	service driven.NarrativeService
}

// NewNarrativeEnricher creates an enricher. A nil service means every
// narrative uses the deterministic fallback.
func NewNarrativeEnricher(service driven.NarrativeService) *NarrativeEnricher {
	return &NarrativeEnricher{
		service: service,
	}
}

// Keys returns the narrative keys a recipe binds through
// narratives[key=...] expressions, in first-use order.
func Keys(recipe *domain.Recipe) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, section := range recipe.Sections {
		for _, ds := range section.DataSources {
			e, err := resolver.Parse(ds.From)
			if err != nil || e.Alias != narrativeAlias || e.Index == nil || e.Index.Key != "key" {
				continue
			}
			if !seen[e.Index.Value] {
				seen[e.Index.Value] = true
				keys = append(keys, e.Index.Value)
			}
		}
	}
	return keys
}

// Enrich returns a copy of rc holding every narrative the recipe needs.
// Narratives already present are kept. Failed requests are replaced by a
// fallback sentence; rc is never mutated.
func (e *NarrativeEnricher) Enrich(
	ctx context.Context,
	recipe *domain.Recipe,
	rc *domain.ReportContext,
	style domain.Style,
) *domain.ReportContext {
	out := rc
	for _, key := range Keys(recipe) {
		if _, ok := rc.NarrativeText(key); ok {
			continue
		}
		prompt := BuildPrompt(key, rc, style)
		out = out.WithNarrative(e.generate(ctx, prompt))
	}
	return out
}

// generate asks the service for one narrative, falling back on any failure.
func (e *NarrativeEnricher) generate(ctx context.Context, prompt domain.NarrativePrompt) domain.Narrative {
	if e.service == nil {
		return domain.Narrative{Key: prompt.Key, Text: FallbackNarrative(prompt), Fallback: true}
	}
	result, err := e.service.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(result.Text) == "" {
		if err == nil {
			err = fmt.Errorf("empty response")
		}
		logger.Warn("Narrative %q failed, using fallback: %v", prompt.Key, err)
		return domain.Narrative{Key: prompt.Key, Text: FallbackNarrative(prompt), Fallback: true}
	}
	logger.Debug("Narrative %q: %d tokens from %s", prompt.Key, result.TokensUsed, e.service.ModelName())
	return domain.Narrative{
		Key:        prompt.Key,
		Text:       strings.TrimSpace(result.Text),
		TokensUsed: result.TokensUsed,
	}
}

// BuildPrompt assembles the structured context for a narrative key.
// Chapter keys (chapter_<CODE>) highlight that chapter's dimensions;
// every other key highlights the chapters.
func BuildPrompt(key string, rc *domain.ReportContext, style domain.Style) domain.NarrativePrompt {
	prompt := domain.NarrativePrompt{
		Key:          key,
		CompanyName:  rc.CompanyName,
		OverallScore: rc.OverallHealth.Score,
		HealthBand:   healthBand(rc, style),
		Trajectory:   rc.OverallHealth.Trajectory,
	}

	if code, ok := strings.CutPrefix(key, domain.NarrativeChapterPrefix); ok {
		for _, ch := range rc.Chapters {
			if ch.Code != code {
				continue
			}
			if ch.Score != nil {
				prompt.Highlights = append(prompt.Highlights, highlight(ch.Code, ch.Name, *ch.Score, style))
			}
			for _, d := range rc.Dimensions {
				if d.Score != nil && (d.ChapterCode == code || slices.Contains(ch.Dimensions, d.Code)) {
					prompt.Highlights = append(prompt.Highlights, highlight(d.Code, d.Name, *d.Score, style))
				}
			}
		}
		return prompt
	}

	for _, ch := range rc.Chapters {
		if ch.Score != nil {
			prompt.Highlights = append(prompt.Highlights, highlight(ch.Code, ch.Name, *ch.Score, style))
		}
	}
	return prompt
}

func highlight(code, label string, score float64, style domain.Style) domain.Highlight {
	return domain.Highlight{Code: code, Label: label, Score: score, Band: style.Band(score).Label}
}

// FallbackNarrative is the deterministic sentence used when no narrative
// could be generated.
func FallbackNarrative(p domain.NarrativePrompt) string {
	subject := p.CompanyName
	if subject == "" {
		subject = "The business"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s has an overall health score of %.0f", subject, domain.ClampScore(p.OverallScore))
	if p.HealthBand != "" {
		fmt.Fprintf(&b, " (%s)", p.HealthBand)
	}
	b.WriteString(".")

	if len(p.Highlights) > 0 {
		ranked := append([]domain.Highlight(nil), p.Highlights...)
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
		best, worst := ranked[0], ranked[len(ranked)-1]
		fmt.Fprintf(&b, " The strongest area is %s at %.0f", best.Label, best.Score)
		if len(ranked) > 1 {
			fmt.Fprintf(&b, " and the area needing most attention is %s at %.0f", worst.Label, worst.Score)
		}
		b.WriteString(".")
	}
	return b.String()
}
