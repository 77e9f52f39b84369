// Package main implements vaultsafe, the command line interface to the
// VaultSafe password vault.
//
// # Architecture
//
// The vault itself lives in the library packages:
//
//   - pkg/vault: credential lifecycle, mnemonic registry, envelope encryption
//   - pkg/strongbox: cryptographic primitives (KDF, AES-GCM, packed blobs)
//   - pkg/store: persistence interfaces, pkg/store/gorm their GORM backing
//   - pkg/session: resumable unlock sessions (OS keyring + signed token)
//   - pkg/server: the local web interface
//   - pkg/audit: security event log
//   - pkg/config: configuration management
//
// The commands here are thin: they prompt, call the service, and print.
// No cryptography and no SQL lives in this package.
//
// # Quick Start
//
//	# Create the vault (prompts for a master password)
//	vaultsafe init
//
//	# Store a credential under one or more mnemonics
//	vaultsafe add --name Gmail -m gmail -m google --username --password
//
//	# Read it back
//	vaultsafe get gmail
//
//	# Run the local web interface
//	vaultsafe server
//
// # Environment Variables
//
//   - VAULTSAFE_DATABASE_URL: postgres:// URL or SQLite file path
//     (default: ~/.vaultsafe/vaultsafe.db)
//   - VAULTSAFE_DIR: vault directory (default: ~/.vaultsafe)
//   - VAULTSAFE_MASTER_PASSWORD: master password for non-interactive use;
//     when unset, commands prompt on the terminal
//   - VAULTSAFE_AUDIT_ENABLED: set to 0 to disable the audit log
//   - VAULTSAFE_LOG_LEVEL: set to debug for SQL statement logging
package main
