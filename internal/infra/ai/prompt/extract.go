package prompt

import "fmt"

// ExtractPrompt builds the stage-1 prompt: pull key claims and citations out
// of the raw document text, JSON only.
func ExtractPrompt(text string) string {
	return fmt.Sprintf(`Analyze this academic text and extract key claims and citations.

Text: "%s"

YOU MUST RESPOND WITH ONLY A VALID JSON OBJECT. NO OTHER TEXT BEFORE OR AFTER THE JSON.

Format:
{
  "keyClaims": [
    {"claim": "text of claim", "requiresCitation": true, "hasCitation": false, "citationText": "author year or empty"}
  ],
  "explicitCitations": [
    {"text": "citation as appears", "authors": "if identifiable", "year": "if identifiable"}
  ],
  "missingCitations": ["claim without proper citation"],
  "documentType": "full article or abstract or other"
}

RESPOND ONLY WITH THE JSON OBJECT ABOVE. DO NOT ADD ANY EXPLANATORY TEXT.`, text)
}
