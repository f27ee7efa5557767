package prompt

import (
	"fmt"

	"github.com/resurrectethos/citation-verifier/internal/domain/analysis"
)

// VerifyPrompt builds the stage-2 prompt assessing the credibility of one
// extracted claim.
func VerifyPrompt(claim analysis.KeyClaim) string {
	citationLine := "No citation provided for this claim."
	if claim.CitationText != "" {
		citationLine = fmt.Sprintf("The claim cites: %s", claim.CitationText)
	}
	return fmt.Sprintf(`Assess the credibility and verifiability of this claim from an academic publication: "%s"

%s

YOU MUST RESPOND WITH ONLY A VALID JSON OBJECT. NO OTHER TEXT.

Format:
{
  "claim": "%s",
  "credibilityScore": "high or medium or low",
  "supportingEvidence": ["brief point 1", "brief point 2"],
  "contradictingEvidence": ["brief point if found"],
  "retractionsFound": false,
  "reasoning": "one sentence explanation",
  "citationStatus": "properly cited or missing citation or questionable citation"
}

RESPOND ONLY WITH THE JSON OBJECT. NO ADDITIONAL TEXT.`, claim.Claim, citationLine, claim.Claim)
}
