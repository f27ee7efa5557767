package middleware

import (
	"fmt"
	"strings"

	"github.com/resurrectethos/citation-verifier/internal/domain/analysis"
)

// Input validation and sanitization utilities

// ValidateAnalysisText checks the document text bounds before any provider
// call is made.
func ValidateAnalysisText(text string, minChars, maxChars int) error {
	if text == "" {
		return fmt.Errorf("%w: text for analysis is required", analysis.ErrMalformedInput)
	}
	if len(text) < minChars {
		return fmt.Errorf("%w: text must be at least %d characters long", analysis.ErrMalformedInput, minChars)
	}
	if len(text) > maxChars {
		return fmt.Errorf("%w: text must not exceed %d characters", analysis.ErrMalformedInput, maxChars)
	}
	return nil
}

// ValidateEmail is a cheap sanity check; the admin UI is trusted, this only
// catches obvious mistakes.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if strings.ContainsAny(email, " \t\n\r") {
		return fmt.Errorf("email must not contain whitespace")
	}
	return nil
}

// SanitizeString removes null bytes and control characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
