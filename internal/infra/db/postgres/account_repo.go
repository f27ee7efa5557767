package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	domain "github.com/resurrectethos/citation-verifier/internal/domain/accounts"
)

type AccountRepository struct{ db *sql.DB }

func NewAccountRepository(db *sql.DB) *AccountRepository { return &AccountRepository{db: db} }

// Get loads one whole account record by token hash
func (r *AccountRepository) Get(ctx context.Context, hash string) (*domain.Account, error) {
	const q = `
SELECT identity, quota, status, usage_log, created_at, last_used_at
FROM accounts
WHERE token_hash=$1 LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, hash)

	var (
		a        domain.Account
		status   string
		usageRaw []byte
		lastUsed sql.NullTime
	)
	if err := row.Scan(&a.Identity, &a.Quota, &status, &usageRaw, &a.CreatedAt, &lastUsed); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: query account: %v", domain.ErrStorageUnavailable, err)
	}
	a.Status = domain.Status(status)
	if len(usageRaw) > 0 {
		if err := json.Unmarshal(usageRaw, &a.UsageLog); err != nil {
			return nil, fmt.Errorf("%w: decode usage log: %v", domain.ErrStorageUnavailable, err)
		}
	}
	if lastUsed.Valid {
		t := lastUsed.Time
		a.LastUsedAt = &t
	}
	return &a, nil
}

// Put upserts the whole record
func (r *AccountRepository) Put(ctx context.Context, hash string, a *domain.Account) error {
	const q = `
INSERT INTO accounts
(token_hash, identity, quota, status, usage_log, created_at, last_used_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (token_hash) DO UPDATE SET
 identity = EXCLUDED.identity,
 quota = EXCLUDED.quota,
 status = EXCLUDED.status,
 usage_log = EXCLUDED.usage_log,
 last_used_at = EXCLUDED.last_used_at;`
	usageRaw, err := json.Marshal(a.UsageLog)
	if err != nil {
		return fmt.Errorf("%w: encode usage log: %v", domain.ErrStorageUnavailable, err)
	}
	var lastUsed sql.NullTime
	if a.LastUsedAt != nil {
		lastUsed = sql.NullTime{Time: *a.LastUsedAt, Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, q,
		hash, a.Identity, a.Quota, string(a.Status), usageRaw, a.CreatedAt, lastUsed,
	); err != nil {
		return fmt.Errorf("%w: save account: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, hash string) error {
	const q = `DELETE FROM accounts WHERE token_hash=$1;`
	if _, err := r.db.ExecContext(ctx, q, hash); err != nil {
		return fmt.Errorf("%w: delete account: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.StoredAccount, error) {
	const q = `
SELECT token_hash, identity, quota, status, usage_log, created_at, last_used_at
FROM accounts ORDER BY created_at;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: list accounts: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []domain.StoredAccount
	for rows.Next() {
		var (
			hash     string
			a        domain.Account
			status   string
			usageRaw []byte
			lastUsed sql.NullTime
		)
		if err := rows.Scan(&hash, &a.Identity, &a.Quota, &status, &usageRaw, &a.CreatedAt, &lastUsed); err != nil {
			return nil, fmt.Errorf("%w: scan account: %v", domain.ErrStorageUnavailable, err)
		}
		a.Status = domain.Status(status)
		if len(usageRaw) > 0 {
			if err := json.Unmarshal(usageRaw, &a.UsageLog); err != nil {
				return nil, fmt.Errorf("%w: decode usage log: %v", domain.ErrStorageUnavailable, err)
			}
		}
		if lastUsed.Valid {
			t := lastUsed.Time
			a.LastUsedAt = &t
		}
		acct := a
		out = append(out, domain.StoredAccount{Hash: hash, Account: &acct})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list accounts: %v", domain.ErrStorageUnavailable, err)
	}
	return out, nil
}
