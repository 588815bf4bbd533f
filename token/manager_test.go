package token

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/waseaca/portalauth/internal/encoding"
	"github.com/waseaca/portalauth/internal/sig"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestManager(t *testing.T) (*Manager, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	manager, err := NewManager(Config{
		Secret:     []byte("waseaca-portal-test-secret"),
		SessionTTL: 24 * time.Hour,
		HandoffTTL: time.Hour,
		Now:        clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return manager, clock
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	if _, err := NewManager(Config{SessionTTL: time.Hour, HandoffTTL: time.Hour}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewManager(Config{Secret: []byte("s"), HandoffTTL: time.Hour}); err == nil {
		t.Fatal("expected error for zero session TTL")
	}
	if _, err := NewManager(Config{Secret: []byte("s"), SessionTTL: time.Hour}); err == nil {
		t.Fatal("expected error for zero handoff TTL")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	manager, clock := newTestManager(t)

	tok, err := manager.IssueSession("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	payload, err := manager.VerifySession(tok)
	if err != nil {
		t.Fatalf("VerifySession failed: %v", err)
	}

	if payload.Email != "teacher@waseaca.com" || payload.SchoolID != "school-1" {
		t.Fatalf("unexpected identity: %+v", payload)
	}
	if payload.IssuedAt != clock.now.UnixMilli() {
		t.Fatalf("expected issuedAt %d, got %d", clock.now.UnixMilli(), payload.IssuedAt)
	}
	if payload.ExpiresAt != clock.now.Add(24*time.Hour).UnixMilli() {
		t.Fatalf("unexpected expiresAt %d", payload.ExpiresAt)
	}
}

func TestSessionPayloadWireShape(t *testing.T) {
	manager, _ := newTestManager(t)

	tok, err := manager.IssueSession("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	raw, err := encoding.DecodeURLSafe(tok.Payload)
	if err != nil {
		t.Fatalf("payload is not URL-safe base64: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	for _, key := range []string{"email", "schoolId", "issuedAt", "expiresAt"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("payload missing field %q: %s", key, raw)
		}
	}

	if len(tok.Signature) != sig.TagLength {
		t.Fatalf("expected %d-char signature, got %d", sig.TagLength, len(tok.Signature))
	}
}

func TestVerifySessionTamperedPayload(t *testing.T) {
	manager, _ := newTestManager(t)

	tok, err := manager.IssueSession("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	raw, err := encoding.DecodeURLSafe(tok.Payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	forged := strings.Replace(raw, "teacher@waseaca.com", "attacker@evil.com", 1)
	tok.Payload = encoding.EncodeURLSafe(forged)

	if _, err := manager.VerifySession(tok); !errors.Is(err, ErrTampered) {
		t.Fatalf("expected ErrTampered, got %v", err)
	}
}

func TestVerifySessionTamperedSignature(t *testing.T) {
	manager, _ := newTestManager(t)

	tok, err := manager.IssueSession("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	tok.Signature = strings.Repeat("0", len(tok.Signature))
	if _, err := manager.VerifySession(tok); !errors.Is(err, ErrTampered) {
		t.Fatalf("expected ErrTampered, got %v", err)
	}
}

func TestVerifySessionExpired(t *testing.T) {
	manager, clock := newTestManager(t)

	tok, err := manager.IssueSession("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	clock.Advance(24*time.Hour + time.Millisecond)
	if _, err := manager.VerifySession(tok); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifySessionValidAtExactExpiry(t *testing.T) {
	manager, clock := newTestManager(t)

	tok, err := manager.IssueSession("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	// Expiry is strict: now must exceed expiresAt, equality still passes.
	clock.Advance(24 * time.Hour)
	if _, err := manager.VerifySession(tok); err != nil {
		t.Fatalf("expected token valid at exact expiry instant, got %v", err)
	}
}

func TestTamperCheckPrecedesExpiryCheck(t *testing.T) {
	manager, clock := newTestManager(t)

	tok, err := manager.IssueSession("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	// Both tampered and expired: the tamper verdict must win.
	raw, err := encoding.DecodeURLSafe(tok.Payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	forged := strings.Replace(raw, "school-1", "school-2", 1)
	tok.Payload = encoding.EncodeURLSafe(forged)
	clock.Advance(48 * time.Hour)

	if _, err := manager.VerifySession(tok); !errors.Is(err, ErrTampered) {
		t.Fatalf("expected ErrTampered for tampered+expired token, got %v", err)
	}
}

func TestVerifySessionMalformed(t *testing.T) {
	manager, _ := newTestManager(t)

	cases := []Token{
		{Payload: "!!!not-base64!!!", Signature: strings.Repeat("a", sig.TagLength)},
		{Payload: encoding.EncodeURLSafe("not json"), Signature: sig.Sign([]byte("not json"), []byte("waseaca-portal-test-secret"))},
	}
	for _, tok := range cases {
		if _, err := manager.VerifySession(tok); !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed for %+v, got %v", tok, err)
		}
	}
}

func TestHandoffRoundTrip(t *testing.T) {
	manager, clock := newTestManager(t)

	tok, err := manager.IssueHandoff("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueHandoff failed: %v", err)
	}

	payload, err := manager.VerifyHandoff(tok)
	if err != nil {
		t.Fatalf("VerifyHandoff failed: %v", err)
	}

	if payload.Mode != ModeTeacher {
		t.Fatalf("expected mode %q, got %q", ModeTeacher, payload.Mode)
	}
	if payload.Email != "teacher@waseaca.com" || payload.SchoolID != "school-1" {
		t.Fatalf("unexpected identity: %+v", payload)
	}
	if payload.ExpiresAt != clock.now.Add(time.Hour).UnixMilli() {
		t.Fatalf("unexpected expiresAt %d", payload.ExpiresAt)
	}
}

func TestHandoffIsOpaqueURLSafeString(t *testing.T) {
	manager, _ := newTestManager(t)

	tok, err := manager.IssueHandoff("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueHandoff failed: %v", err)
	}

	if strings.ContainsAny(tok, "+/= {}\"") {
		t.Fatalf("handoff token leaks structure: %q", tok)
	}

	// The outer layer decodes to a {p, s} envelope.
	wrapped, err := encoding.DecodeURLSafe(tok)
	if err != nil {
		t.Fatalf("outer decode failed: %v", err)
	}
	var envelope struct {
		P string `json:"p"`
		S string `json:"s"`
	}
	if err := json.Unmarshal([]byte(wrapped), &envelope); err != nil {
		t.Fatalf("outer layer is not a JSON envelope: %v", err)
	}
	if envelope.P == "" || len(envelope.S) != sig.TagLength {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestVerifyHandoffTampered(t *testing.T) {
	manager, _ := newTestManager(t)

	tok, err := manager.IssueHandoff("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueHandoff failed: %v", err)
	}

	wrapped, err := encoding.DecodeURLSafe(tok)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	var envelope handoffEnvelope
	if err := json.Unmarshal([]byte(wrapped), &envelope); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	inner, err := encoding.DecodeURLSafe(envelope.P)
	if err != nil {
		t.Fatalf("inner decode failed: %v", err)
	}
	envelope.P = encoding.EncodeURLSafe(strings.Replace(inner, "school-1", "school-9", 1))
	forged, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if _, err := manager.VerifyHandoff(encoding.EncodeURLSafe(string(forged))); !errors.Is(err, ErrTampered) {
		t.Fatalf("expected ErrTampered, got %v", err)
	}
}

func TestVerifyHandoffExpired(t *testing.T) {
	manager, clock := newTestManager(t)

	tok, err := manager.IssueHandoff("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueHandoff failed: %v", err)
	}

	clock.Advance(time.Hour + time.Millisecond)
	if _, err := manager.VerifyHandoff(tok); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyHandoffMalformed(t *testing.T) {
	manager, _ := newTestManager(t)

	cases := []string{
		"",
		"!!!",
		encoding.EncodeURLSafe("not an envelope"),
		encoding.EncodeURLSafe(`{"p":"!!!","s":"00"}`),
	}
	for _, tok := range cases {
		if _, err := manager.VerifyHandoff(tok); !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed for %q, got %v", tok, err)
		}
	}
}

func TestHandoffVerifiableWithSecretOnly(t *testing.T) {
	issuer, _ := newTestManager(t)

	tok, err := issuer.IssueHandoff("teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("IssueHandoff failed: %v", err)
	}

	// A second manager sharing only the secret, as the FAQ service would.
	verifier, err := NewManager(Config{
		Secret:     []byte("waseaca-portal-test-secret"),
		SessionTTL: time.Hour,
		HandoffTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := verifier.VerifyHandoff(tok); err != nil {
		t.Fatalf("cross-manager verification failed: %v", err)
	}

	other, err := NewManager(Config{
		Secret:     []byte("different-secret"),
		SessionTTL: time.Hour,
		HandoffTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if _, err := other.VerifyHandoff(tok); !errors.Is(err, ErrTampered) {
		t.Fatalf("expected ErrTampered under wrong secret, got %v", err)
	}
}
