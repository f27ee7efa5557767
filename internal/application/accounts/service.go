package accounts

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resurrectethos/citation-verifier/internal/application"
	domain "github.com/resurrectethos/citation-verifier/internal/domain/accounts"
)

// Service implements the administrative use-cases over the credential store.
// The admin layer is assumed single-writer-safe: low contention, not on the
// analysis hot path.
type Service struct {
	Repo         domain.Repository
	Clock        application.Clock
	DefaultQuota int
}

// Summary untuk listing akun di admin
type Summary struct {
	Hash       string        `json:"hash"`
	Email      string        `json:"email"`
	Limit      int           `json:"limit"`
	UsageCount int           `json:"usageCount"`
	Status     domain.Status `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	LastUsed   *time.Time    `json:"lastUsed,omitempty"`
}

// ReportRow one usage-report line, one per analysis record.
type ReportRow struct {
	HashedToken   string    `json:"hashedToken"`
	User          string    `json:"user"`
	ArticleTitle  string    `json:"articleTitle"`
	WordCount     int       `json:"wordCount"`
	Assessment    string    `json:"overallAssessment"`
	Date          time.Time `json:"date"`
	AnalysisCount int       `json:"analysisCount"`
}

func (s *Service) quotaOrDefault(quota int) int {
	if quota > 0 {
		return quota
	}
	if s.DefaultQuota > 0 {
		return s.DefaultQuota
	}
	return 5
}

// Create provisions a new account and returns the plaintext token once.
// Only the SHA-256 hash is stored.
func (s *Service) Create(ctx context.Context, email string, quota int) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("email is required")
	}
	token := uuid.New().String()
	acct := &domain.Account{
		Identity:  email,
		Quota:     s.quotaOrDefault(quota),
		UsageLog:  []domain.AnalysisRecord{},
		Status:    domain.StatusActive,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.Put(ctx, domain.HashToken(token), acct); err != nil {
		return "", err
	}
	return token, nil
}

// List returns account summaries for the admin dashboard.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	stored, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(stored))
	for _, sa := range stored {
		out = append(out, Summary{
			Hash:       sa.Hash,
			Email:      sa.Account.Identity,
			Limit:      sa.Account.Quota,
			UsageCount: sa.Account.UsageCount(),
			Status:     sa.Account.Status,
			CreatedAt:  sa.Account.CreatedAt,
			LastUsed:   sa.Account.LastUsedAt,
		})
	}
	return out, nil
}

// UpdateParams partial update: nil fields stay untouched.
type UpdateParams struct {
	Quota  *int
	Status *domain.Status
}

// Update modifies quota and/or status of the account behind a plaintext token.
func (s *Service) Update(ctx context.Context, token string, p UpdateParams) error {
	hash := domain.HashToken(token)
	acct, err := s.Repo.Get(ctx, hash)
	if err != nil {
		return err
	}
	if p.Quota != nil {
		if *p.Quota <= 0 {
			return fmt.Errorf("limit must be positive")
		}
		acct.Quota = *p.Quota
	}
	if p.Status != nil {
		if !domain.ValidStatus(*p.Status) {
			return fmt.Errorf("unknown status %q", *p.Status)
		}
		acct.Status = *p.Status
	}
	return s.Repo.Put(ctx, hash, acct)
}

// Delete removes the account behind a plaintext token.
func (s *Service) Delete(ctx context.Context, token string) error {
	hash := domain.HashToken(token)
	// make sure it exists so the caller gets a proper 404
	if _, err := s.Repo.Get(ctx, hash); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, hash)
}

// ImportCSV bulk-provisions accounts from "email,token" rows. The header row
// is skipped; malformed rows are ignored. Returns the number of accounts
// added or updated.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	count := 0
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("reading csv: %w", err)
		}
		if first {
			first = false
			continue // header
		}
		if len(row) < 2 {
			continue
		}
		email := strings.TrimSpace(row[0])
		token := strings.TrimSpace(row[1])
		if email == "" || token == "" {
			continue
		}
		acct := &domain.Account{
			Identity:  email,
			Quota:     s.quotaOrDefault(0),
			UsageLog:  []domain.AnalysisRecord{},
			Status:    domain.StatusActive,
			CreatedAt: s.Clock.Now(),
		}
		if err := s.Repo.Put(ctx, domain.HashToken(token), acct); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// UsageReport flattens every usage log into report rows, one per analysis.
func (s *Service) UsageReport(ctx context.Context) ([]ReportRow, error) {
	stored, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var rows []ReportRow
	for _, sa := range stored {
		prefix := sa.Hash
		if len(prefix) > 16 {
			prefix = prefix[:16]
		}
		for _, rec := range sa.Account.UsageLog {
			rows = append(rows, ReportRow{
				HashedToken:   prefix,
				User:          sa.Account.Identity,
				ArticleTitle:  rec.Title,
				WordCount:     rec.WordCount,
				Assessment:    rec.Assessment,
				Date:          rec.Timestamp,
				AnalysisCount: sa.Account.UsageCount(),
			})
		}
	}
	return rows, nil
}
