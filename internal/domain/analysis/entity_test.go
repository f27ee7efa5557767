package analysis

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestAnalysisResultRoundTrip(t *testing.T) {
	in := AnalysisResult{
		Extraction: ExtractionResult{
			KeyClaims: []KeyClaim{
				{Claim: "coffee improves recall", RequiresCitation: true, HasCitation: true, CitationText: "Smith et al., 2019"},
				{Claim: "sample size was adequate", RequiresCitation: false},
			},
			ExplicitCitations: []Citation{{Text: "Smith et al., 2019", Authors: "Smith, J.", Year: "2019"}},
			MissingCitations:  []string{"sample size was adequate"},
			DocumentType:      DocTypeFullArticle,
		},
		ClaimAssessments: []ClaimAssessment{
			{
				Claim:              "coffee improves recall",
				CredibilityScore:   CredibilityMedium,
				SupportingEvidence: []string{"several small trials"},
				Reasoning:          "mixed replication record",
				CitationStatus:     CitationProper,
				ExternalReferences: []PaperRef{
					{
						Title:         "Caffeine and Memory Consolidation",
						Authors:       []PaperAuthor{{Name: "J. Smith"}},
						Year:          2019,
						Venue:         "Nature Neuroscience",
						CitationCount: 412,
						Abstract:      "We show that...",
					},
				},
			},
		},
		Review: ReviewResult{
			OverallAssessment: AssessmentMedium,
			Strengths:         []string{"clear methodology"},
			Weaknesses:        []string{"uncited claims"},
			CitationQuality:   "adequate",
			MajorConcerns:     []string{},
			Recommendations:   []string{"cite the sample-size claim"},
			Verdict:           VerdictMinorRevisions,
		},
	}

	body, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out AnalysisResult
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip changed the value:\nin:  %+v\nout: %+v", in, out)
	}
}

func TestAnalysisResultWireNames(t *testing.T) {
	body, err := json.Marshal(AnalysisResult{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"extraction", "searchResults", "review"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
}

func TestExtractionResultValidate(t *testing.T) {
	valid := ExtractionResult{
		KeyClaims:    []KeyClaim{{Claim: "x is y"}},
		DocumentType: DocTypeAbstract,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid extraction rejected: %v", err)
	}

	cases := []struct {
		name string
		e    ExtractionResult
	}{
		{"no claims", ExtractionResult{DocumentType: DocTypeOther}},
		{"blank claim", ExtractionResult{KeyClaims: []KeyClaim{{Claim: "  "}}, DocumentType: DocTypeOther}},
		{"bad document type", ExtractionResult{KeyClaims: []KeyClaim{{Claim: "ok"}}, DocumentType: "thesis"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.e.Validate(); !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("want ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestClaimAssessmentValidate(t *testing.T) {
	valid := ClaimAssessment{
		CredibilityScore: CredibilityHigh,
		CitationStatus:   CitationQuestionable,
		Reasoning:        "source is a preprint",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid assessment rejected: %v", err)
	}

	cases := []struct {
		name string
		a    ClaimAssessment
	}{
		{"bad score", ClaimAssessment{CredibilityScore: "huge", CitationStatus: CitationProper, Reasoning: "r"}},
		{"bad status", ClaimAssessment{CredibilityScore: CredibilityLow, CitationStatus: "cited-ish", Reasoning: "r"}},
		{"no reasoning", ClaimAssessment{CredibilityScore: CredibilityLow, CitationStatus: CitationMissing, Reasoning: " "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.a.Validate(); !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("want ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestReviewResultValidate(t *testing.T) {
	valid := ReviewResult{OverallAssessment: AssessmentLow, Verdict: VerdictReject}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid review rejected: %v", err)
	}
	bad := ReviewResult{OverallAssessment: AssessmentLow, Verdict: "burn it"}
	if err := bad.Validate(); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
}
