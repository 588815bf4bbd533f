package token

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/waseaca/portalauth/internal/encoding"
	"github.com/waseaca/portalauth/internal/sig"
)

// ModeTeacher is the access mode claimed by every handoff token.
const ModeTeacher = "teacher"

var (
	// ErrTampered indicates the signature does not match the payload bytes.
	ErrTampered = errors.New("token signature mismatch")
	// ErrExpired indicates a well-signed token past its expiry timestamp.
	ErrExpired = errors.New("token expired")
	// ErrMalformed indicates a token that cannot be decoded or parsed.
	ErrMalformed = errors.New("token malformed")
)

// SessionPayload is the claims content of a session token. Timestamps are
// milliseconds since the Unix epoch.
type SessionPayload struct {
	Email     string `json:"email"`
	SchoolID  string `json:"schoolId"`
	IssuedAt  int64  `json:"issuedAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

// HandoffPayload is the claims content of a cross-service handoff token.
type HandoffPayload struct {
	Email     string `json:"email"`
	SchoolID  string `json:"schoolId"`
	Mode      string `json:"mode"`
	IssuedAt  int64  `json:"issuedAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Token is the persisted session token wire shape: an encoded payload and
// the signature over its decoded bytes. Treated as an immutable value after
// minting.
type Token struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// handoffEnvelope is the inner structure of the second encoding layer.
type handoffEnvelope struct {
	P string `json:"p"`
	S string `json:"s"`
}

// Config holds the signing secret and per-kind lifetimes.
type Config struct {
	Secret     []byte
	SessionTTL time.Duration
	HandoffTTL time.Duration

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Manager issues and verifies session and handoff tokens. Instances are
// immutable after construction and safe for concurrent use.
type Manager struct {
	config Config
	now    func() time.Time
}

// NewManager validates cfg and returns a token Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("signing secret required")
	}
	if cfg.SessionTTL <= 0 || cfg.HandoffTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{config: cfg, now: now}, nil
}

// IssueSession mints a session token for the given identity with
// issuedAt = now and expiresAt = now + SessionTTL.
func (m *Manager) IssueSession(email, schoolID string) (Token, error) {
	now := m.now()
	payload := SessionPayload{
		Email:     email,
		SchoolID:  schoolID,
		IssuedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(m.config.SessionTTL).UnixMilli(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Token{}, err
	}

	return Token{
		Payload:   encoding.EncodeURLSafe(string(raw)),
		Signature: sig.Sign(raw, m.config.Secret),
	}, nil
}

// VerifySession checks a session token and returns its payload.
// The signature is recomputed over the exact decoded payload bytes; a
// mismatch is reported as ErrTampered before any expiry check, so a mutated
// token is never misreported as merely expired.
func (m *Manager) VerifySession(t Token) (*SessionPayload, error) {
	raw, err := encoding.DecodeURLSafe(t.Payload)
	if err != nil {
		return nil, ErrMalformed
	}

	if !sig.Verify([]byte(raw), t.Signature, m.config.Secret) {
		return nil, ErrTampered
	}

	var payload SessionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, ErrMalformed
	}

	if m.now().UnixMilli() > payload.ExpiresAt {
		return nil, ErrExpired
	}

	return &payload, nil
}

// IssueHandoff mints a short-lived cross-service token asserting teacher
// mode for the given identity and returns it as one opaque URL-safe string.
func (m *Manager) IssueHandoff(email, schoolID string) (string, error) {
	now := m.now()
	payload := HandoffPayload{
		Email:     email,
		SchoolID:  schoolID,
		Mode:      ModeTeacher,
		IssuedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(m.config.HandoffTTL).UnixMilli(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	envelope := handoffEnvelope{
		P: encoding.EncodeURLSafe(string(raw)),
		S: sig.Sign(raw, m.config.Secret),
	}

	wrapped, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}

	return encoding.EncodeURLSafe(string(wrapped)), nil
}

// VerifyHandoff is the inverse of IssueHandoff, with the same tamper-before-
// expiry ordering as VerifySession. It is designed to run in a different
// service that shares only the signing secret.
func (m *Manager) VerifyHandoff(tokenString string) (*HandoffPayload, error) {
	wrapped, err := encoding.DecodeURLSafe(tokenString)
	if err != nil {
		return nil, ErrMalformed
	}

	var envelope handoffEnvelope
	if err := json.Unmarshal([]byte(wrapped), &envelope); err != nil {
		return nil, ErrMalformed
	}

	raw, err := encoding.DecodeURLSafe(envelope.P)
	if err != nil {
		return nil, ErrMalformed
	}

	if !sig.Verify([]byte(raw), envelope.S, m.config.Secret) {
		return nil, ErrTampered
	}

	var payload HandoffPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, ErrMalformed
	}

	if m.now().UnixMilli() > payload.ExpiresAt {
		return nil, ErrExpired
	}

	return &payload, nil
}
