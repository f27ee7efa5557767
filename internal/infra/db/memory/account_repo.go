// Package memory is a map-backed account repository used in tests and local
// development. It copies records on the way in and out, so callers see
// whole-record get/put semantics just like the SQL backends.
package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/resurrectethos/citation-verifier/internal/domain/accounts"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]*domain.Account)}
}

func clone(a *domain.Account) *domain.Account {
	c := *a
	c.UsageLog = make([]domain.AnalysisRecord, len(a.UsageLog))
	copy(c.UsageLog, a.UsageLog)
	if a.LastUsedAt != nil {
		t := *a.LastUsedAt
		c.LastUsedAt = &t
	}
	return &c
}

func (r *AccountRepository) Get(ctx context.Context, hash string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[hash]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return clone(a), nil
}

func (r *AccountRepository) Put(ctx context.Context, hash string, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[hash] = clone(a)
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, hash)
	return nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.StoredAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.StoredAccount, 0, len(r.accounts))
	for hash, a := range r.accounts {
		out = append(out, domain.StoredAccount{Hash: hash, Account: clone(a)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hash < out[j].Hash })
	return out, nil
}
