package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	domain "github.com/resurrectethos/citation-verifier/internal/domain/analysis"
	"github.com/resurrectethos/citation-verifier/internal/infra/breaker"
)

type mockChat struct {
	mu         sync.Mutex
	calls      []string
	completeFn func(call int, messages []domain.Message) (string, error)
}

func (m *mockChat) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	m.mu.Lock()
	call := len(m.calls)
	m.calls = append(m.calls, messages[len(messages)-1].Content)
	m.mu.Unlock()
	return m.completeFn(call, messages)
}

type mockSearcher struct {
	searchFn func(ctx context.Context, query string) ([]domain.PaperRef, error)
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]domain.PaperRef, error) {
	return m.searchFn(ctx, query)
}

func extractionJSON(claims ...string) string {
	parts := make([]string, 0, len(claims))
	for _, c := range claims {
		parts = append(parts, fmt.Sprintf(`{"claim":%q,"requiresCitation":true,"hasCitation":false,"citationText":""}`, c))
	}
	return fmt.Sprintf(`{"keyClaims":[%s],"explicitCitations":[],"missingCitations":[],"documentType":"full article"}`,
		strings.Join(parts, ","))
}

const assessmentJSON = `{"claim":"c","credibilityScore":"medium","supportingEvidence":[],"contradictingEvidence":[],"retractionsFound":false,"reasoning":"plausible but unsourced","citationStatus":"missing citation"}`

const reviewJSON = `{"overallAssessment":"medium quality","strengths":["clear"],"weaknesses":["thin citations"],"citationQuality":"weak","majorConcerns":[],"recommendations":["cite sources"],"verdict":"minor revisions"}`

func newTestPipeline(chat *mockChat, search *mockSearcher) *Pipeline {
	return &Pipeline{
		Chat:    chat,
		Search:  search,
		Breaker: breaker.New(5, time.Minute),
	}
}

func noHits(ctx context.Context, query string) ([]domain.PaperRef, error) {
	return nil, nil
}

func TestPipelineRun(t *testing.T) {
	chat := &mockChat{
		completeFn: func(call int, _ []domain.Message) (string, error) {
			switch call {
			case 0:
				return extractionJSON("claim one", "claim two"), nil
			case 1, 2:
				return "```json\n" + assessmentJSON + "\n```", nil
			default:
				return reviewJSON, nil
			}
		},
	}
	search := &mockSearcher{
		searchFn: func(ctx context.Context, query string) ([]domain.PaperRef, error) {
			return []domain.PaperRef{{Title: "Related Work", Year: 2021}}, nil
		},
	}

	res, err := newTestPipeline(chat, search).Run(context.Background(), "some document text")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(res.Extraction.KeyClaims); got != 2 {
		t.Fatalf("keyClaims = %d, want 2", got)
	}
	if got := len(res.ClaimAssessments); got != 2 {
		t.Fatalf("assessments = %d, want 2", got)
	}
	for i, a := range res.ClaimAssessments {
		if len(a.ExternalReferences) != 1 || a.ExternalReferences[0].Title != "Related Work" {
			t.Fatalf("assessment %d missing bibliographic hits: %+v", i, a.ExternalReferences)
		}
	}
	if res.Review.Verdict != domain.VerdictMinorRevisions {
		t.Fatalf("verdict = %q", res.Review.Verdict)
	}
	// extract + 2 verify + review
	if got := len(chat.calls); got != 4 {
		t.Fatalf("chat calls = %d, want 4", got)
	}
}

func TestPipelineCapsVerifiedClaims(t *testing.T) {
	chat := &mockChat{
		completeFn: func(call int, _ []domain.Message) (string, error) {
			switch call {
			case 0:
				return extractionJSON("a b", "c d", "e f", "g h", "i j"), nil
			case 1, 2, 3:
				return assessmentJSON, nil
			default:
				return reviewJSON, nil
			}
		},
	}
	search := &mockSearcher{searchFn: noHits}

	res, err := newTestPipeline(chat, search).Run(context.Background(), "text")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(res.ClaimAssessments); got != 3 {
		t.Fatalf("assessments = %d, want 3", got)
	}
	// all five extracted claims are still reported
	if got := len(res.Extraction.KeyClaims); got != 5 {
		t.Fatalf("keyClaims = %d, want 5", got)
	}
	if got := len(chat.calls); got != 5 {
		t.Fatalf("chat calls = %d, want 5 (extract + 3 verify + review)", got)
	}
}

func TestPipelineExtractionFailures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "I refuse to produce JSON"},
		{"empty claims", `{"keyClaims":[],"explicitCitations":[],"missingCitations":[],"documentType":"full article"}`},
		{"blank claim text", extractionJSON("   ")},
		{"bad document type", `{"keyClaims":[{"claim":"x"}],"documentType":"novel"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chat := &mockChat{
				completeFn: func(call int, _ []domain.Message) (string, error) {
					return tc.raw, nil
				},
			}
			_, err := newTestPipeline(chat, &mockSearcher{searchFn: noHits}).Run(context.Background(), "text")
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Fatalf("want ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestPipelineVerifyFailureAbortsAnalysis(t *testing.T) {
	chat := &mockChat{
		completeFn: func(call int, _ []domain.Message) (string, error) {
			switch call {
			case 0:
				return extractionJSON("claim one", "claim two"), nil
			case 1:
				return assessmentJSON, nil
			default:
				return "", domain.ErrProviderTimeout
			}
		},
	}
	_, err := newTestPipeline(chat, &mockSearcher{searchFn: noHits}).Run(context.Background(), "text")
	if !errors.Is(err, domain.ErrProviderTimeout) {
		t.Fatalf("want ErrProviderTimeout, got %v", err)
	}
}

func TestPipelineSearchFailureIsAbsorbed(t *testing.T) {
	chat := &mockChat{
		completeFn: func(call int, _ []domain.Message) (string, error) {
			switch call {
			case 0:
				return extractionJSON("claim one"), nil
			case 1:
				return assessmentJSON, nil
			default:
				return reviewJSON, nil
			}
		},
	}
	search := &mockSearcher{
		searchFn: func(ctx context.Context, query string) ([]domain.PaperRef, error) {
			return nil, errors.New("scholar is down")
		},
	}

	res, err := newTestPipeline(chat, search).Run(context.Background(), "text")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if refs := res.ClaimAssessments[0].ExternalReferences; len(refs) != 0 {
		t.Fatalf("external references = %+v, want none", refs)
	}
}

func TestPipelineReviewEnumRejected(t *testing.T) {
	chat := &mockChat{
		completeFn: func(call int, _ []domain.Message) (string, error) {
			switch call {
			case 0:
				return extractionJSON("claim one"), nil
			case 1:
				return assessmentJSON, nil
			default:
				return `{"overallAssessment":"fantastic","verdict":"accept"}`, nil
			}
		},
	}
	_, err := newTestPipeline(chat, &mockSearcher{searchFn: noHits}).Run(context.Background(), "text")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
}

func TestPipelineTripsBreaker(t *testing.T) {
	chat := &mockChat{
		completeFn: func(call int, _ []domain.Message) (string, error) {
			return "", domain.ErrProvider
		},
	}
	p := newTestPipeline(chat, &mockSearcher{searchFn: noHits})

	for i := 0; i < 5; i++ {
		if _, err := p.Run(context.Background(), "text"); !errors.Is(err, domain.ErrProvider) {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if _, err := p.Run(context.Background(), "text"); !errors.Is(err, domain.ErrCircuitOpen) {
		t.Fatalf("want ErrCircuitOpen after repeated failures, got %v", err)
	}
	// the rejected run never reached the provider
	if got := len(chat.calls); got != 5 {
		t.Fatalf("chat calls = %d, want 5", got)
	}
}
