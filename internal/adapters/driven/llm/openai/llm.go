// Package openai provides a narrative service adapter using the OpenAI API.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/healthdoc/internal/adapters/driven/llm"
	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Ensure NarrativeService implements the interfaces.
var (
	_ driven.NarrativeService = (*NarrativeService)(nil)
	_ driven.PromptStoreAware = (*NarrativeService)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the OpenAI narrative service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RatePerMinute caps outbound requests (default: domain.DefaultNarrativeRate).
	RatePerMinute int
}

// NarrativeService generates narratives using the chat completions API.
type NarrativeService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
	prompts llm.Prompts
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewNarrativeService creates a new OpenAI narrative service.
func NewNarrativeService(cfg Config) (*NarrativeService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &NarrativeService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: llm.NewLimiter(cfg.RatePerMinute),
	}, nil
}

// Generate produces narrative text for the prompt.
func (s *NarrativeService) Generate(ctx context.Context, prompt domain.NarrativePrompt) (domain.NarrativeResult, error) {
	if err := llm.Wait(ctx, s.limiter); err != nil {
		return domain.NarrativeResult{}, err
	}

	system, user := s.prompts.Build(prompt)
	reqBody := chatCompletionRequest{
		Model: s.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   llm.MaxTokens(prompt),
		Temperature: 0.4,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return domain.NarrativeResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return domain.NarrativeResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.NarrativeResult{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NarrativeResult{}, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return domain.NarrativeResult{}, fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != nil {
		return domain.NarrativeResult{}, fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.NarrativeResult{}, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return domain.NarrativeResult{}, fmt.Errorf("openai: no response choices returned")
	}

	tokens := chatResp.Usage.TotalTokens
	if tokens == 0 {
		tokens = chatResp.Usage.PromptTokens + chatResp.Usage.CompletionTokens
	}
	return domain.NarrativeResult{
		Text:       strings.TrimSpace(chatResp.Choices[0].Message.Content),
		TokensUsed: tokens,
	}, nil
}

// ModelName returns the name of the model being used.
func (s *NarrativeService) ModelName() string {
	return s.model
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses built-in prompts.
func (s *NarrativeService) SetPromptStore(store driven.PromptStore) {
	s.prompts.SetStore(store)
}

// Ping validates the service is reachable by listing models.
func (s *NarrativeService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("openai: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *NarrativeService) Close() error {
	return nil
}
