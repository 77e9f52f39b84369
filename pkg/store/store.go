package store

import "context"

// Store is the full persistence surface the vault service works against.
type Store interface {
	// WithContext returns a Store whose subsequent operations are bound
	// to ctx.
	WithContext(ctx context.Context) Store

	// Transaction wraps operations in a database transaction.
	// The provided function receives a transactional Store.
	// If the function returns an error, the transaction is rolled back.
	Transaction(fn func(Store) error) error

	VaultStore
	CredentialsStore
	MnemonicsStore
	HealthStore
}
