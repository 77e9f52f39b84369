// Package server provides the HTTP server for the VaultSafe web interface.
//
// The server is a thin collaborator over the vault service: it renders
// pages, holds unlocked vault keys in an in-memory session registry, and
// never persists plaintext or key material. It uses gorilla/mux for routing
// and gorilla/handlers for request logging.
//
// # Server Setup
//
//	srv := server.NewServer(service, cfg)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Sessions
//
// Logging in posts the master password, which is verified and immediately
// discarded; only the derived vault key is kept, keyed by an opaque random
// cookie token. Sessions expire with the vault's session TTL and are wiped
// on logout and on shutdown.
//
// # Endpoints
//
// Pages and JSON endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers the login, dashboard, credential, add, update, delete and
// search pages plus the JSON API:
//
//   - GET /health - Connectivity check
//   - GET /api/credentials - Credential summaries (no secrets)
//   - GET /api/credentials/{mnemonic} - Decrypted credential
package server
