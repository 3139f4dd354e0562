package reminder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-3-flash-preview"
)

var (
	// ErrEmptyResponse is returned when the model answers without any text.
	ErrEmptyResponse = errors.New("reminder: empty model response") //nolint:gochecknoglobals // sentinel error

	// ErrBlocked is returned when the prompt is refused by safety filters.
	ErrBlocked = errors.New("reminder: prompt blocked") //nolint:gochecknoglobals // sentinel error
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient generates text through the Gemini API. The key travels in the
// x-goog-api-key header, never in the URL.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a client. Empty model and baseURL use the defaults;
// a nil httpClient lets the SDK pick one.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string, httpClient *http.Client) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("reminder.NewGeminiClient: api key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: strings.TrimRight(baseURL, "/"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("reminder.NewGeminiClient: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends prompt as a single user turn and returns the concatenated
// text parts of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		// Transport errors can be opaque about cancellation.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("reminder.GeminiClient.Generate: %w", ctxErr)
		}
		return "", fmt.Errorf("reminder.GeminiClient.Generate: %w", err)
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("reminder.GeminiClient.Generate: %w: %s", ErrBlocked, fb.BlockReason)
	}

	var b strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("reminder.GeminiClient.Generate: %w", ErrEmptyResponse)
	}
	return text, nil
}
