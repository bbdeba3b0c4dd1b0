package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	NoResponse  = "Tidak ada respon."
	DailyLimit  = 20
	QuotaWindow = 24 * time.Hour
	appTitle    = "AI Finance Tracker"
)

var (
	ErrModelNotAllowed = errors.New("model not allowed")

	AllowedModels = []string{
		"deepseek/deepseek-r1-0528",
		"deepseek/deepseek-v3",
		"meta-llama/llama-4-maverick",
		"mistralai/mistral-small-3.2-24b-instruct",
	}
)

// ResolveModel returns the requested model, or the default when empty.
func ResolveModel(model string) (string, error) {
	if model == "" {
		return AllowedModels[0], nil
	}
	for _, m := range AllowedModels {
		if m == model {
			return m, nil
		}
	}
	return "", ErrModelNotAllowed
}

// Completer is the slice of the OpenAI client used for chat.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// headerTransport adds the attribution headers OpenRouter expects.
type headerTransport struct {
	base    http.RoundTripper
	referer string
}

func (t *headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", t.referer)
	r.Header.Set("X-Title", appTitle)
	return t.base.RoundTrip(r)
}

// NewClient builds an OpenAI-compatible client pointed at baseURL.
func NewClient(apiKey, baseURL, appURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{
		Timeout:   60 * time.Second,
		Transport: &headerTransport{base: http.DefaultTransport, referer: appURL},
	}
	return openai.NewClientWithConfig(cfg)
}

// Ask sends the system prompt and the user's message and returns the reply text.
func Ask(ctx context.Context, c Completer, model, systemPrompt, message string) (string, error) {
	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		Temperature: 0.4,
		MaxTokens:   400,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return NoResponse, nil
	}
	return ExtractContent(resp.Choices[0].Message), nil
}

// ExtractContent handles plain string replies and multi-part replies.
func ExtractContent(msg openai.ChatCompletionMessage) string {
	if text := strings.TrimSpace(msg.Content); text != "" {
		return text
	}
	var sb strings.Builder
	for _, part := range msg.MultiContent {
		sb.WriteString(part.Text)
	}
	if text := strings.TrimSpace(sb.String()); text != "" {
		return text
	}
	return NoResponse
}
