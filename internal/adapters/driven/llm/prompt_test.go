package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

type stubStore struct {
	prompts map[string]string
}

func (s *stubStore) Load(name string) (string, error) {
	p, ok := s.prompts[name]
	if !ok {
		return "", errors.New("missing")
	}
	return p, nil
}

func (s *stubStore) Reload() {}

func samplePrompt(key string) domain.NarrativePrompt {
	return domain.NarrativePrompt{
		Key:          key,
		CompanyName:  "Acme Ltd",
		OverallScore: 68,
		HealthBand:   "Stable",
		Trajectory:   domain.TrajectoryImproving,
		Highlights: []domain.Highlight{
			{Code: "FIN", Label: "Finance", Score: 81, Band: "Strong"},
			{Code: "HR", Score: 44},
		},
	}
}

func TestContextBlock(t *testing.T) {
	got := ContextBlock(samplePrompt(domain.NarrativeExecutiveSummary))
	want := "Company: Acme Ltd\n" +
		"Overall score: 68/100 (Stable)\n" +
		"Trajectory: improving\n" +
		"Scores:\n" +
		"- Finance: 81 (Strong)\n" +
		"- HR: 44"
	assert.Equal(t, want, got)
}

func TestPrompts_Build(t *testing.T) {
	t.Run("fallbacks without store", func(t *testing.T) {
		var p Prompts
		system, user := p.Build(samplePrompt(domain.NarrativeExecutiveSummary))
		assert.Equal(t, fallbackSystemPrompt, system)
		assert.Contains(t, user, "executive summary")
		assert.Contains(t, user, "Company: Acme Ltd")
	})

	t.Run("chapter key selects chapter template", func(t *testing.T) {
		var p Prompts
		p.SetStore(&stubStore{prompts: map[string]string{
			driven.PromptNarrativeSystem:  "SYS",
			driven.PromptExecutiveSummary: "EXEC %s",
			driven.PromptChapterSummary:   "CHAPTER %s",
		}})
		system, user := p.Build(samplePrompt(domain.NarrativeChapterPrefix + "GROWTH"))
		assert.Equal(t, "SYS", system)
		assert.True(t, len(user) > len("CHAPTER "))
		assert.Equal(t, "CHAPTER ", user[:len("CHAPTER ")])
	})

	t.Run("template without placeholder gets block appended", func(t *testing.T) {
		var p Prompts
		p.SetStore(&stubStore{prompts: map[string]string{
			driven.PromptExecutiveSummary: "Summarise.",
		}})
		system, user := p.Build(samplePrompt(domain.NarrativeExecutiveSummary))
		assert.Equal(t, fallbackSystemPrompt, system)
		assert.Contains(t, user, "Summarise.\n\nCompany: Acme Ltd")
		assert.NotContains(t, user, "%!")
	})
}

func TestMaxTokens(t *testing.T) {
	assert.Equal(t, DefaultMaxTokens, MaxTokens(domain.NarrativePrompt{}))
	assert.Equal(t, 50, MaxTokens(domain.NarrativePrompt{MaxTokens: 50}))
}

func TestWait(t *testing.T) {
	require.NoError(t, Wait(context.Background(), nil))

	limiter := NewLimiter(1)
	require.NoError(t, Wait(context.Background(), limiter))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := Wait(ctx, limiter)
	require.Error(t, err)
}

func TestNewLimiter_Default(t *testing.T) {
	limiter := NewLimiter(0)
	assert.InDelta(t, float64(domain.DefaultNarrativeRate)/60, float64(limiter.Limit()), 0.0001)
	assert.Equal(t, 1, limiter.Burst())
}
