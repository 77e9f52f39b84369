// Package model defines the database models for VaultSafe.
//
// This package contains GORM models that map to the VaultSafe database
// schema. The schema is dialect-neutral and works against both SQLite and
// PostgreSQL.
//
// # Core Models
//
//   - Vault: Per-database vault record holding the KDF parameters and the
//     key check used to verify a master password
//   - Credential: A stored secret with up to eight independently encrypted
//     fields and a sealed per-credential data key
//   - Mnemonic: A globally unique alias pointing at exactly one credential
//
// # Database Schema
//
// The database uses the following tables:
//
//   - vault: Singleton vault metadata (salt, iterations, key check)
//   - credential: Credential rows; field columns hold packed ciphertexts
//     and NULL means the field was never set
//   - mnemonic: Alias rows with a unique index on name and a cascading
//     foreign key to credential
package model
