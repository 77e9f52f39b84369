// Package config provides configuration management for VaultSafe.
//
// Settings come from a YAML file in the vault directory and from
// environment variables, with environment taking precedence over file and
// file over built-in defaults. The source of every value is tracked so the
// config command can report where a setting came from.
//
// # Configuration Sources
//
//   - ~/.vaultsafe/vaultsafe.yml (or VAULTSAFE_CONFIG_PATH/vaultsafe.yml)
//   - VAULTSAFE_* environment variables
//   - Built-in defaults
//
// # Key Configuration Options
//
//   - VAULTSAFE_DIR: vault directory (database, session, audit log)
//   - VAULTSAFE_DATABASE_URL / DATABASE_URL: database connection
//   - VAULTSAFE_HOST, VAULTSAFE_PORT: web interface bind address
//   - VAULTSAFE_AUDIT_ENABLED, VAULTSAFE_AUDIT_LOG: audit sink
//   - VAULTSAFE_SERVER_SESSION_TTL: web session lifetime in seconds
package config
