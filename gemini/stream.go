package gemini

import (
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"
)

// collectText drains a streaming response and returns the concatenated
// answer text. Thought parts are skipped.
func collectText(seq iter.Seq2[*genai.GenerateContentResponse, error]) (string, error) {
	var b strings.Builder
	for resp, err := range seq {
		if err != nil {
			return "", fmt.Errorf("gemini: %w", err)
		}
		b.WriteString(responseText(resp))
	}
	return b.String(), nil
}

// responseText returns the non-thought text of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
