// Package assistant turns a visitor's question into a reply from the hosted
// model, using the loaded Q&A sheet as context.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrEmptyCompletion is returned when the model answers with no text.
var ErrEmptyCompletion = errors.New("empty completion from model")

// Generator turns a single prompt into a single text completion.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator implements Generator with the Gemini API.
type GeminiGenerator struct {
	client          *genai.Client
	model           string
	maxOutputTokens int32
}

// NewGeminiGenerator creates a generator for the given model
func NewGeminiGenerator(client *genai.Client, model string, maxOutputTokens int32) *GeminiGenerator {
	return &GeminiGenerator{
		client:          client,
		model:           model,
		maxOutputTokens: maxOutputTokens,
	}
}

// Model returns the model ID requests are sent to.
func (g *GeminiGenerator) Model() string { return g.model }

// Generate sends prompt as one user turn and joins the text parts of the
// first candidate. No tools are declared and nothing is streamed.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: g.maxOutputTokens,
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyCompletion
	}
	return sb.String(), nil
}
