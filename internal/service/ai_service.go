package service

import (
	"bytes"
	"carevo_backend/internal/config"
	"carevo_backend/internal/util"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChatModel is the single LLM call quiz and roadmap generation need.
type ChatModel interface {
	Chat(ctx context.Context, system, prompt string) (string, error)
}

// AIService talks to an OpenAI-compatible chat completions endpoint.
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat sends one system + user exchange and returns the reply text. Every
// failure wraps util.ErrAIUnavailable.
func (s *AIService) Chat(ctx context.Context, system, prompt string) (string, error) {
	if s.config.BaseURL == "" {
		return "", fmt.Errorf("%w: base url not configured", util.ErrAIUnavailable)
	}

	reqBody := ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.4,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(s.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrAIUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", util.ErrAIUnavailable, resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", util.ErrAIUnavailable, err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("%w: %s", util.ErrAIUnavailable, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", util.ErrAIUnavailable)
	}

	return result.Choices[0].Message.Content, nil
}

// decodeModelJSON pulls the first JSON array or object out of a model reply,
// tolerating markdown fences and chatter around it.
func decodeModelJSON(reply string, v interface{}) error {
	raw := extractJSON(reply)
	if raw == "" {
		return fmt.Errorf("%w: reply has no json", util.ErrAIUnavailable)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: malformed json: %v", util.ErrAIUnavailable, err)
	}
	return nil
}

func extractJSON(s string) string {
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return ""
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return ""
	}
	return s[start : end+1]
}
