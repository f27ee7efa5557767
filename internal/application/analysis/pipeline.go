package analysis

import (
	"context"
	"log"

	domain "github.com/resurrectethos/citation-verifier/internal/domain/analysis"
	"github.com/resurrectethos/citation-verifier/internal/infra/ai"
	"github.com/resurrectethos/citation-verifier/internal/infra/ai/prompt"
	"github.com/resurrectethos/citation-verifier/internal/infra/breaker"
)

// claimCap bounds cost and latency: only the first N extracted claims are
// verified. Fixed, not configurable.
const claimCap = 3

// Pipeline runs the three-stage extract → verify → review chain. Every chat
// call goes through the circuit breaker; the bibliographic search does not
// (it has its own best-effort failure handling).
type Pipeline struct {
	Chat    domain.ChatClient
	Search  domain.Searcher
	Breaker *breaker.Breaker
}

func (p *Pipeline) chat(ctx context.Context, content string) (string, error) {
	return p.Breaker.Do(ctx, func(ctx context.Context) (string, error) {
		return p.Chat.Complete(ctx, []domain.Message{{Role: "user", Content: content}})
	})
}

// Run executes the full chain. Any stage failure aborts the whole analysis;
// there is no partial result and the caller must not persist a usage
// increment. A failed per-claim assessment is deliberately not replaced with
// a fabricated "unknown" entry, because that would flow into the review
// stage and misrepresent its output.
func (p *Pipeline) Run(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	// stage 1: extract claims and citations
	raw, err := p.chat(ctx, prompt.ExtractPrompt(text))
	if err != nil {
		return nil, err
	}
	var extraction domain.ExtractionResult
	if err := ai.ExtractJSON(raw, &extraction); err != nil {
		return nil, err
	}
	if err := extraction.Validate(); err != nil {
		return nil, err
	}

	// stage 2: verifikasi klaim satu per satu, maksimal claimCap
	claims := extraction.KeyClaims
	if len(claims) > claimCap {
		claims = claims[:claimCap]
	}
	assessments := make([]domain.ClaimAssessment, 0, len(claims))
	for _, claim := range claims {
		raw, err := p.chat(ctx, prompt.VerifyPrompt(claim))
		if err != nil {
			return nil, err
		}
		var assessment domain.ClaimAssessment
		if err := ai.ExtractJSON(raw, &assessment); err != nil {
			return nil, err
		}
		if err := assessment.Validate(); err != nil {
			return nil, err
		}

		refs, err := p.Search.Search(ctx, claim.Claim)
		if err != nil {
			// no external corroboration found; never gates the analysis
			log.Printf("bibliographic search failed: %v", err)
			refs = nil
		}
		assessment.ExternalReferences = refs
		assessments = append(assessments, assessment)
	}

	// stage 3: peer review over everything gathered so far
	raw, err = p.chat(ctx, prompt.ReviewPrompt(extraction, assessments))
	if err != nil {
		return nil, err
	}
	var review domain.ReviewResult
	if err := ai.ExtractJSON(raw, &review); err != nil {
		return nil, err
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	return &domain.AnalysisResult{
		Extraction:       extraction,
		ClaimAssessments: assessments,
		Review:           review,
	}, nil
}
