package accounts

import "context"

// Repository port (interface untuk persistence)
// Reads and writes are whole-record; read-modify-write consistency is the
// caller's job, not the store's.
type Repository interface {
	Get(ctx context.Context, hash string) (*Account, error)
	Put(ctx context.Context, hash string, a *Account) error
	Delete(ctx context.Context, hash string) error
	List(ctx context.Context) ([]StoredAccount, error)
}
