// Package audit provides audit logging for vault operations.
//
// This package implements structured audit logging for security-relevant
// operations such as unlock attempts, credential access, and master
// password changes. Events never include field plaintext or key material.
//
// # Event Types
//
// The package defines event types for various operations:
//
//   - Vault initialization and re-initialization
//   - Unlock attempts (success/failure)
//   - Credential create/fetch/update/delete
//   - Master password changes (rekey)
//   - Vault setting changes
//   - Unlock session lifecycle
//   - Bundle export/import
//
// # Usage
//
//	audit.Log(audit.UnlockEvent{Actor: actor, Success: true})
//
// Events are written as RFC5424 syslog lines to the configured audit log
// (~/.vaultsafe/audit.log by default) and, when AUDIT_DATABASE_URL is set,
// persisted to a postgres table for security monitoring.
package audit
