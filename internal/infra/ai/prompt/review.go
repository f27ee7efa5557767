package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/resurrectethos/citation-verifier/internal/domain/analysis"
)

// ReviewPrompt builds the stage-3 peer-review prompt from the full extraction
// plus all claim assessments, serialized as JSON.
func ReviewPrompt(extraction analysis.ExtractionResult, assessments []analysis.ClaimAssessment) string {
	keyClaims, _ := json.Marshal(extraction.KeyClaims)
	explicit, _ := json.Marshal(extraction.ExplicitCitations)
	missing, _ := json.Marshal(extraction.MissingCitations)
	credibility, _ := json.Marshal(assessments)

	return fmt.Sprintf(`You are a critical peer reviewer. Review this academic text based on the analysis below.

Document Type: %s
Key Claims: %s
Explicit Citations: %s
Missing Citations: %s
Credibility Results: %s

YOU MUST RESPOND WITH ONLY A VALID JSON OBJECT. NO OTHER TEXT.

Format:
{
  "overallAssessment": "high quality or medium quality or low quality",
  "strengths": ["strength 1", "strength 2"],
  "weaknesses": ["weakness 1", "weakness 2"],
  "citationQuality": "one sentence assessment",
  "majorConcerns": ["concern 1", "concern 2"],
  "recommendations": ["recommendation 1", "recommendation 2"],
  "verdict": "accept or minor revisions or major revisions or reject",
  "documentTypeNote": "note about limitations if abstract only"
}

RESPOND ONLY WITH THE JSON OBJECT. NO ADDITIONAL TEXT BEFORE OR AFTER.`,
		extraction.DocumentType, keyClaims, explicit, missing, credibility)
}
