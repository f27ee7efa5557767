package analysis

import (
	"fmt"
	"strings"
)

// Document type values the extract stage may return.
const (
	DocTypeFullArticle = "full article"
	DocTypeAbstract    = "abstract"
	DocTypeOther       = "other"
)

// KeyClaim satu klaim hasil ekstraksi
type KeyClaim struct {
	Claim            string `json:"claim"`
	RequiresCitation bool   `json:"requiresCitation"`
	HasCitation      bool   `json:"hasCitation"`
	CitationText     string `json:"citationText"`
}

// Citation explicit citation as it appears in the text
type Citation struct {
	Text    string `json:"text"`
	Authors string `json:"authors,omitempty"`
	Year    string `json:"year,omitempty"`
}

// ExtractionResult output stage 1
type ExtractionResult struct {
	KeyClaims         []KeyClaim `json:"keyClaims"`
	ExplicitCitations []Citation `json:"explicitCitations"`
	MissingCitations  []string   `json:"missingCitations"`
	DocumentType      string     `json:"documentType"`
}

// Validate checks the declared shape before the result flows downstream.
// A mismatch is a malformed provider response, never silently defaulted.
func (e *ExtractionResult) Validate() error {
	if len(e.KeyClaims) == 0 {
		return fmt.Errorf("%w: extraction has no keyClaims", ErrMalformedResponse)
	}
	for i, c := range e.KeyClaims {
		if strings.TrimSpace(c.Claim) == "" {
			return fmt.Errorf("%w: keyClaims[%d].claim is empty", ErrMalformedResponse, i)
		}
	}
	switch e.DocumentType {
	case DocTypeFullArticle, DocTypeAbstract, DocTypeOther:
	default:
		return fmt.Errorf("%w: unknown documentType %q", ErrMalformedResponse, e.DocumentType)
	}
	return nil
}

// PaperAuthor author entry dari bibliographic search
type PaperAuthor struct {
	Name string `json:"name"`
}

// PaperRef one bibliographic hit (title, authors, year, venue, citationCount, abstract).
type PaperRef struct {
	Title         string        `json:"title"`
	Authors       []PaperAuthor `json:"authors"`
	Year          int           `json:"year"`
	Venue         string        `json:"venue"`
	CitationCount int           `json:"citationCount"`
	Abstract      string        `json:"abstract"`
}

// Credibility score values.
const (
	CredibilityHigh   = "high"
	CredibilityMedium = "medium"
	CredibilityLow    = "low"
)

// Citation status values.
const (
	CitationProper       = "properly cited"
	CitationMissing      = "missing citation"
	CitationQuestionable = "questionable citation"
)

// ClaimAssessment output stage 2, satu per klaim
type ClaimAssessment struct {
	Claim                 string     `json:"claim"`
	CredibilityScore      string     `json:"credibilityScore"`
	SupportingEvidence    []string   `json:"supportingEvidence"`
	ContradictingEvidence []string   `json:"contradictingEvidence"`
	RetractionsFound      bool       `json:"retractionsFound"`
	Reasoning             string     `json:"reasoning"`
	CitationStatus        string     `json:"citationStatus"`
	ExternalReferences    []PaperRef `json:"semanticScholar"`
}

func (c *ClaimAssessment) Validate() error {
	switch c.CredibilityScore {
	case CredibilityHigh, CredibilityMedium, CredibilityLow:
	default:
		return fmt.Errorf("%w: unknown credibilityScore %q", ErrMalformedResponse, c.CredibilityScore)
	}
	switch c.CitationStatus {
	case CitationProper, CitationMissing, CitationQuestionable:
	default:
		return fmt.Errorf("%w: unknown citationStatus %q", ErrMalformedResponse, c.CitationStatus)
	}
	if strings.TrimSpace(c.Reasoning) == "" {
		return fmt.Errorf("%w: assessment is missing reasoning", ErrMalformedResponse)
	}
	return nil
}

// Overall assessment values (also persisted into the usage log).
const (
	AssessmentHigh   = "high quality"
	AssessmentMedium = "medium quality"
	AssessmentLow    = "low quality"
)

// Verdict values.
const (
	VerdictAccept         = "accept"
	VerdictMinorRevisions = "minor revisions"
	VerdictMajorRevisions = "major revisions"
	VerdictReject         = "reject"
)

// ReviewResult output stage 3
type ReviewResult struct {
	OverallAssessment string   `json:"overallAssessment"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	CitationQuality   string   `json:"citationQuality"`
	MajorConcerns     []string `json:"majorConcerns"`
	Recommendations   []string `json:"recommendations"`
	Verdict           string   `json:"verdict"`
	DocumentTypeNote  string   `json:"documentTypeNote,omitempty"`
}

func (r *ReviewResult) Validate() error {
	switch r.OverallAssessment {
	case AssessmentHigh, AssessmentMedium, AssessmentLow:
	default:
		return fmt.Errorf("%w: unknown overallAssessment %q", ErrMalformedResponse, r.OverallAssessment)
	}
	switch r.Verdict {
	case VerdictAccept, VerdictMinorRevisions, VerdictMajorRevisions, VerdictReject:
	default:
		return fmt.Errorf("%w: unknown verdict %q", ErrMalformedResponse, r.Verdict)
	}
	return nil
}

// AnalysisResult hasil lengkap pipeline; ephemeral, hanya ringkasannya
// yang masuk usage log
type AnalysisResult struct {
	Extraction       ExtractionResult  `json:"extraction"`
	ClaimAssessments []ClaimAssessment `json:"searchResults"`
	Review           ReviewResult      `json:"review"`
}
