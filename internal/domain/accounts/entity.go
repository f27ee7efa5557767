package accounts

import (
	"time"
)

// Status enum
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusExpired   Status = "expired"
)

// ValidStatus cek apakah status dikenal
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusSuspended, StatusExpired:
		return true
	}
	return false
}

// AnalysisRecord satu entri pemakaian; append-only, tidak pernah diedit
type AnalysisRecord struct {
	Title      string    `json:"articleTitle"`
	WordCount  int       `json:"wordCount"`
	Assessment string    `json:"overallAssessment"`
	Timestamp  time.Time `json:"date"`
}

// Aggregate Root: Account, keyed by the SHA-256 hash of the bearer token
type Account struct {
	Identity   string           `json:"email"`
	Quota      int              `json:"limit"`
	UsageLog   []AnalysisRecord `json:"analyses"`
	Status     Status           `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
	LastUsedAt *time.Time       `json:"lastUsed,omitempty"`
}

// UsageCount jumlah analisis yang sudah terpakai
func (a *Account) UsageCount() int { return len(a.UsageLog) }

// HasHeadroom true kalau masih ada sisa kuota
func (a *Account) HasHeadroom() bool { return len(a.UsageLog) < a.Quota }

// StoredAccount pairs an account with its storage key for listing.
type StoredAccount struct {
	Hash    string
	Account *Account
}
