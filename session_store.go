package portalauth

import (
	"context"
	"encoding/json"

	"github.com/waseaca/portalauth/store"
	"github.com/waseaca/portalauth/token"
)

// sessionManager persists, loads, and verifies the single active session
// token. Exactly one session may be stored at a time; a new login overwrites
// it, logout or verification failure deletes it.
type sessionManager struct {
	kv          store.KV
	tokens      *token.Manager
	sessionKey  string
	attemptsKey string
}

func newSessionManager(kv store.KV, tokens *token.Manager, storageCfg StorageConfig) *sessionManager {
	return &sessionManager{
		kv:          kv,
		tokens:      tokens,
		sessionKey:  storageCfg.SessionKey,
		attemptsKey: storageCfg.AttemptsKey,
	}
}

// Persist writes the token as the sole value under the session key.
func (s *sessionManager) Persist(ctx context.Context, t token.Token) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.sessionKey, string(data))
}

// Load reads the stored token. Missing, unreadable, or malformed data all
// report absent; no failure escapes.
func (s *sessionManager) Load(ctx context.Context) (token.Token, bool) {
	value, ok, err := s.kv.Get(ctx, s.sessionKey)
	if err != nil || !ok {
		return token.Token{}, false
	}

	var t token.Token
	if err := json.Unmarshal([]byte(value), &t); err != nil {
		return token.Token{}, false
	}
	return t, true
}

// Current loads and verifies the stored session. A missing session returns
// (nil, nil). A tampered, expired, or malformed session is cleared together
// with the attempt record, so corrupt state never lingers, and the
// verification error is returned for observability.
func (s *sessionManager) Current(ctx context.Context) (*token.SessionPayload, error) {
	t, ok := s.Load(ctx)
	if !ok {
		return nil, nil
	}

	payload, err := s.tokens.VerifySession(t)
	if err != nil {
		_ = s.Destroy(ctx)
		return nil, err
	}
	return payload, nil
}

// Destroy deletes the stored session and the attempt record unconditionally.
func (s *sessionManager) Destroy(ctx context.Context) error {
	return s.kv.Del(ctx, s.sessionKey, s.attemptsKey)
}
