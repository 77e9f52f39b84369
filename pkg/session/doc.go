// Package session persists unlock sessions so repeated commands don't
// re-prompt for the master password while the vault allows it.
//
// A session splits its material across two places. The OS keyring (service
// "vaultsafe") holds a random secret, and the session file holds an HS256
// token signed with it whose claims carry the vault key sealed under it.
// Neither artifact alone recovers the vault key, the master password is
// never stored, and clearing the session removes both.
package session
