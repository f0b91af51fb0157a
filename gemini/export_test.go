package gemini

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// NewWithFuncs creates a Client whose API calls go to the given functions.
func NewWithFuncs(
	stream func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error],
	generate func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error),
	opts ...Option,
) *Client {
	return newClient(stream, generate, opts...)
}
