// Package llm holds the pieces every narrative provider adapter shares:
// prompt assembly from a NarrativePrompt and outbound request pacing.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// DefaultMaxTokens is used when a prompt does not cap its length.
const DefaultMaxTokens = 400

// Fallback templates used when no prompt store is set or a load fails.
const (
	fallbackSystemPrompt = "You are a business advisor. Write plain prose from the scores you are given. Never invent figures."

	fallbackExecutivePrompt = "Write a three to four sentence executive summary of this business health assessment.\n\n%s"

	fallbackChapterPrompt = "Write two to three sentences summarising this area of the business.\n\n%s"
)

// Prompts loads templates from an optional prompt store.
type Prompts struct {
	store driven.PromptStore
}

// SetStore replaces the backing store. A nil store selects the fallbacks.
func (p *Prompts) SetStore(store driven.PromptStore) {
	p.store = store
}

// Build returns the system and user prompt for a narrative request.
func (p *Prompts) Build(np domain.NarrativePrompt) (system, user string) {
	system = p.load(driven.PromptNarrativeSystem, fallbackSystemPrompt)

	name, fallback := driven.PromptExecutiveSummary, fallbackExecutivePrompt
	if strings.HasPrefix(np.Key, domain.NarrativeChapterPrefix) {
		name, fallback = driven.PromptChapterSummary, fallbackChapterPrompt
	}
	tmpl := p.load(name, fallback)
	if !strings.Contains(tmpl, "%s") {
		tmpl += "\n\n%s"
	}
	return system, fmt.Sprintf(tmpl, ContextBlock(np))
}

func (p *Prompts) load(name, fallback string) string {
	if p.store == nil {
		return fallback
	}
	tmpl, err := p.store.Load(name)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		return fallback
	}
	return tmpl
}

// ContextBlock renders the structured prompt as the text block the
// templates interpolate.
func ContextBlock(np domain.NarrativePrompt) string {
	var b strings.Builder
	if np.CompanyName != "" {
		fmt.Fprintf(&b, "Company: %s\n", np.CompanyName)
	}
	fmt.Fprintf(&b, "Overall score: %.0f/100", np.OverallScore)
	if np.HealthBand != "" {
		fmt.Fprintf(&b, " (%s)", np.HealthBand)
	}
	b.WriteString("\n")
	if np.Trajectory != "" {
		fmt.Fprintf(&b, "Trajectory: %s\n", np.Trajectory)
	}
	if len(np.Highlights) > 0 {
		b.WriteString("Scores:\n")
		for _, h := range np.Highlights {
			label := h.Label
			if label == "" {
				label = h.Code
			}
			fmt.Fprintf(&b, "- %s: %.0f", label, h.Score)
			if h.Band != "" {
				fmt.Fprintf(&b, " (%s)", h.Band)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// MaxTokens returns the prompt cap or the default.
func MaxTokens(np domain.NarrativePrompt) int {
	if np.MaxTokens > 0 {
		return np.MaxTokens
	}
	return DefaultMaxTokens
}

// NewLimiter paces requests to perMinute with a burst of one.
// Zero or negative selects domain.DefaultNarrativeRate.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		perMinute = domain.DefaultNarrativeRate
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// Wait blocks until the limiter admits a request or ctx ends.
func Wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}
