// Package ollama provides a narrative service adapter using a local Ollama server.
package ollama

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
	DefaultBaseURL = domain.DefaultOllamaURL
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Ollama narrative service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RatePerMinute caps outbound requests (default: domain.DefaultNarrativeRate).
	RatePerMinute int
}

// NarrativeService generates narratives using Ollama's chat endpoint.
type NarrativeService struct {
	client  *http.Client
	baseURL string
	model   string
	limiter *rate.Limiter
	prompts llm.Prompts
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Ollama /api/chat response format.
type chatResponse struct {
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
	Error           string      `json:"error,omitempty"`
}

// NewNarrativeService creates a new Ollama narrative service.
func NewNarrativeService(cfg Config) *NarrativeService {
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
		model:   cfg.Model,
		limiter: llm.NewLimiter(cfg.RatePerMinute),
	}
}

// Generate produces narrative text for the prompt.
func (s *NarrativeService) Generate(ctx context.Context, prompt domain.NarrativePrompt) (domain.NarrativeResult, error) {
	if err := llm.Wait(ctx, s.limiter); err != nil {
		return domain.NarrativeResult{}, err
	}

	system, user := s.prompts.Build(prompt)
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
		Options: &options{
			NumPredict:  llm.MaxTokens(prompt),
			Temperature: 0.4,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return domain.NarrativeResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return domain.NarrativeResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.NarrativeResult{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NarrativeResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.NarrativeResult{}, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return domain.NarrativeResult{}, fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != "" {
		return domain.NarrativeResult{}, fmt.Errorf("ollama error: %s", chatResp.Error)
	}

	text := strings.TrimSpace(chatResp.Message.Content)
	if text == "" {
		return domain.NarrativeResult{}, fmt.Errorf("ollama: empty response")
	}
	return domain.NarrativeResult{
		Text:       text,
		TokensUsed: chatResp.PromptEvalCount + chatResp.EvalCount,
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

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This checks connectivity without running inference.
func (s *NarrativeService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ollama: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *NarrativeService) Close() error {
	return nil
}
