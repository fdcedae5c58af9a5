package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/example/vivalingo/internal/config"
	"github.com/example/vivalingo/internal/logger"
)

// ErrMissingAPIKey is returned by New when no API key is configured
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// ChatGPT represents a client for the OpenAI chat completions API
type ChatGPT struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	log         *log.Logger
}

// New creates a new ChatGPT client
func New(cfg config.AIConfig) (*ChatGPT, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &ChatGPT{
		apiKey:      cfg.APIKey,
		apiURL:      cfg.APIURL,
		model:       cfg.Model,
		maxTokens:   100,
		temperature: 0.7,
		httpClient:  &http.Client{Timeout: 20 * time.Second},
		log:         logger.New("ai"),
	}, nil
}

// Message represents a message in the ChatGPT conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the ChatGPT API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the ChatGPT API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const tutorPrompt = "Eres un tutor de español para estudiantes avanzados. Respondes solo con lo que se pide, sin explicaciones."

// GenerateExample generates a Spanish example sentence that uses phrase
// in the given topic domain
func (c *ChatGPT) GenerateExample(ctx context.Context, phrase, domain string) (string, error) {
	prompt := fmt.Sprintf(
		"Escribe una sola oración natural en español, de registro neutral, que use la expresión '%s' en un contexto de %s.",
		phrase, domain,
	)
	return c.complete(ctx, []Message{
		{Role: "system", Content: tutorPrompt},
		{Role: "user", Content: prompt},
	}, c.maxTokens, c.temperature)
}

// GenerateExampleWithFallback returns fallback when the API call fails
func (c *ChatGPT) GenerateExampleWithFallback(ctx context.Context, phrase, domain, fallback string) string {
	example, err := c.GenerateExample(ctx, phrase, domain)
	if err != nil || example == "" {
		c.log.Warn("failed to generate example", "phrase", phrase, "err", err)
		return fallback
	}
	return example
}

// DefinePhrase returns a short English gloss of a Spanish phrase
func (c *ChatGPT) DefinePhrase(ctx context.Context, phrase string) (string, error) {
	prompt := fmt.Sprintf(
		"Give a short English meaning (at most six words) of the Spanish expression '%s'. Return only the meaning.",
		phrase,
	)
	meaning, err := c.complete(ctx, []Message{
		{Role: "system", Content: tutorPrompt},
		{Role: "user", Content: prompt},
	}, 30, 0.3) // Lower temperature for more accurate information
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(meaning, "."), nil
}

func (c *ChatGPT) complete(ctx context.Context, messages []Message, maxTokens int, temperature float64) (string, error) {
	request := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}

	// Clean up the response
	return strings.Trim(strings.TrimSpace(response.Choices[0].Message.Content), "\"«»"), nil
}
