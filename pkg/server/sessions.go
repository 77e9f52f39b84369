package server

import (
	"encoding/base64"
	"sync"
	"time"

	"github.com/indrajit912/vaultsafe/pkg/strongbox"
)

// SessionCookie is the name of the browser cookie carrying the session token.
const SessionCookie = "vaultsafe_session"

const tokenSize = 32

type webSession struct {
	vaultKey  []byte
	expiresAt time.Time
}

// Sessions is the in-memory registry of authenticated browser sessions. The
// vault key never leaves the process: the cookie only carries an opaque
// random token mapped to a key copy held here until the TTL lapses.
type Sessions struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*webSession
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:      ttl,
		sessions: make(map[string]*webSession),
	}
}

// Issue registers a new session holding its own copy of vaultKey and
// returns the cookie token. The caller keeps ownership of vaultKey.
func (s *Sessions) Issue(vaultKey []byte) (string, error) {
	raw, err := strongbox.RandomBytes(tokenSize)
	if err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	key := make([]byte, len(vaultKey))
	copy(key, vaultKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.sessions[token] = &webSession{
		vaultKey:  key,
		expiresAt: time.Now().Add(s.ttl),
	}
	return token, nil
}

// Lookup returns a copy of the vault key for a live session, or false when
// the token is unknown or expired. The caller must strongbox.Wipe the copy.
func (s *Sessions) Lookup(token string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if time.Now().After(sess.expiresAt) {
		s.drop(token)
		return nil, false
	}
	key := make([]byte, len(sess.vaultKey))
	copy(key, sess.vaultKey)
	return key, true
}

// Revoke wipes and forgets one session. Unknown tokens are a no-op.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop(token)
}

// RevokeAll wipes every session.
func (s *Sessions) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token := range s.sessions {
		s.drop(token)
	}
}

// drop wipes and deletes one session. Callers hold the mutex.
func (s *Sessions) drop(token string) {
	sess, ok := s.sessions[token]
	if !ok {
		return
	}
	strongbox.Wipe(sess.vaultKey)
	delete(s.sessions, token)
}

// prune discards expired sessions. Callers hold the mutex.
func (s *Sessions) prune() {
	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			s.drop(token)
		}
	}
}
