package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultModel is the Gemini model used for recommendations, chat, and insights.
const DefaultModel = "gemini-2.5-flash"

// GeminiLLMClient implements LLMClient using the Gemini API.
type GeminiLLMClient struct {
	client *genai.Client
	model  string
}

// NewGeminiLLMClient creates a new GeminiLLMClient.
func NewGeminiLLMClient(client *genai.Client, model string) *GeminiLLMClient {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiLLMClient{client: client, model: model}
}

// GenerateContent issues a single text-completion call and returns the first
// text part of the response.
func (c *GeminiLLMClient) GenerateContent(ctx context.Context, prompt string, temperature float32, maxOutputTokens int32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: maxOutputTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}, config)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}

	return "", nil
}

// isRateLimitError checks if the error is a Gemini API rate limit error.
func isRateLimitError(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	errStr := err.Error()
	return strings.Contains(errStr, "ResourceExhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota")
}
