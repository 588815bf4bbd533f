package portalauth

import (
	"io"
	"time"

	internalaudit "github.com/waseaca/portalauth/internal/audit"
	"github.com/waseaca/portalauth/token"
)

// SessionPayload is the claims content of a persisted session token:
// {email, schoolId, issuedAt, expiresAt} with millisecond timestamps.
type SessionPayload = token.SessionPayload

// HandoffPayload is the claims content of a cross-service FAQ token. Mode is
// always [token.ModeTeacher].
type HandoffPayload = token.HandoffPayload

// SessionToken is the persisted {payload, signature} pair. Treated as an
// opaque immutable value by every consumer; never mutated after minting.
type SessionToken = token.Token

// Preferences is the per-user UI preference record. It is overwritten
// wholesale on each save, never merged field by field.
type Preferences struct {
	Theme  string `json:"theme"`
	Season string `json:"season"`
}

// LoginResult is returned by [Engine.Login] on success.
type LoginResult struct {
	Email    string
	SchoolID string

	// Persisted reports whether the session token reached storage. False
	// means the login succeeded but the client will not stay signed in; the
	// caller should surface a generic persistence warning.
	Persisted bool
}

// Clock supplies the current time to every expiry and lockout decision.
// Inject a fake through [Builder.WithClock] to make token and lockout windows
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
