// Package ai holds provider-facing helpers shared by the chat clients.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/resurrectethos/citation-verifier/internal/domain/analysis"
)

// ExtractJSON pulls the single JSON object out of free-text LLM output and
// unmarshals it into v. The provider is a text-generation service, not a
// typed API: output may be wrapped in code fences or surrounded by stray
// prose, so we strip fence markers and take everything between the first
// '{' and the last '}'.
func ExtractJSON(raw string, v any) error {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("%w: no JSON object found in provider output", analysis.ErrMalformedResponse)
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", analysis.ErrMalformedResponse, err)
	}
	return nil
}
