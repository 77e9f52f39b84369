// Package store defines the persistence interfaces for the vault, its
// credentials, and the mnemonic registry.
//
// The interfaces decouple the vault service from the concrete database
// implementation, which enables testing with mocks and keeps the service
// logic independent of the SQL dialect in use.
//
// # Available Stores
//
//   - VaultStore: the single vault row (create, fetch, save, purge)
//   - CredentialsStore: credential rows and mnemonic resolution
//   - MnemonicsStore: the global alias registry
//   - HealthStore: connectivity checks
//
// Store composes all of them and adds Transaction, which runs a function
// against a store bound to a single database transaction. Multi-table
// operations — creating a credential together with its aliases, re-sealing
// every data key under a new vault key — go through Transaction so they
// commit or roll back as a unit.
package store
