package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/indrajit912/vaultsafe/pkg/store"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store implements store.Store using GORM
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithContext returns a Store bound to ctx.
func (s *Store) WithContext(ctx context.Context) store.Store {
	return &Store{db: s.db.WithContext(ctx)}
}

// Transaction wraps operations in a database transaction. The function
// receives a Store scoped to that transaction; returning an error rolls
// everything back.
func (s *Store) Transaction(fn func(store.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// CheckConnectivity verifies database connectivity
func (s *Store) CheckConnectivity() error {
	return s.db.Exec("SELECT 1").Error
}
