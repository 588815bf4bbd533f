package portalauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/waseaca/portalauth/store"
	"github.com/waseaca/portalauth/token"
)

// Engine is the authentication façade the rest of the portal calls. It
// composes credential validation, the attempt limiter, the token managers,
// and the preference store over one injected key/value store.
//
// Engine instances are built through [Builder.Build] and are immutable and
// safe for concurrent use afterwards.
type Engine struct {
	config      Config
	kv          store.KV
	clock       Clock
	credentials *credentialValidator
	attempts    *attemptLimiter
	tokens      *token.Manager
	sessions    *sessionManager
	preferences *preferenceStore
	audit       *auditDispatcher
	metrics     *Metrics
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports audit events discarded under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Login authenticates the submitted credentials and, on success, mints and
// persists a session token for {email, schoolID}.
//
// Sequencing: the lockout window is checked first and rejects immediately
// without consulting the credential validator; then the email is validated
// (format, then allow-list), then the password. Every validation failure
// feeds the attempt limiter before the error is returned; a password
// failure additionally reports the attempts remaining before lockout.
//
// A storage write failure does not fail the login: the result is returned
// with Persisted set to false.
func (e *Engine) Login(ctx context.Context, email, password, schoolID string) (*LoginResult, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	if e.attempts.IsLocked(ctx) {
		remaining := e.attempts.RemainingSeconds(ctx)
		e.metricInc(MetricLoginLocked)
		e.emitAudit(ctx, auditEventLoginLocked, false, email, schoolID, ErrAccountLocked, func() map[string]string {
			return map[string]string{"remaining_seconds": fmt.Sprintf("%d", remaining)}
		})
		return nil, fmt.Errorf("%w: retry in %d minute(s)", ErrAccountLocked, (remaining+59)/60)
	}

	if err := e.credentials.ValidateEmail(email); err != nil {
		e.recordLoginFailure(ctx, email, schoolID, err)
		return nil, err
	}

	if err := e.credentials.ValidatePassword(password); err != nil {
		record := e.recordLoginFailure(ctx, email, schoolID, err)
		left := e.config.Lockout.MaxAttempts - record.Count
		if left < 0 {
			left = 0
		}
		return nil, fmt.Errorf("%w (%d attempts remaining)", err, left)
	}

	if _, err := e.attempts.Record(ctx, true); err != nil {
		// A reset that fails to reach storage must not block the login;
		// the stale counter self-heals on the next successful reset.
		e.metricInc(MetricStorageWriteFailed)
		e.emitAudit(ctx, auditEventStorageWriteFailed, false, email, schoolID, err, nil)
	}

	sessionToken, err := e.tokens.IssueSession(email, schoolID)
	if err != nil {
		return nil, err
	}

	persisted := true
	if err := e.sessions.Persist(ctx, sessionToken); err != nil {
		persisted = false
		e.metricInc(MetricStorageWriteFailed)
		e.emitAudit(ctx, auditEventStorageWriteFailed, false, email, schoolID, err, nil)
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricSessionIssued)
	e.emitAudit(ctx, auditEventLoginSuccess, true, email, schoolID, nil, nil)

	return &LoginResult{
		Email:     email,
		SchoolID:  schoolID,
		Persisted: persisted,
	}, nil
}

func (e *Engine) recordLoginFailure(ctx context.Context, email, schoolID string, cause error) attemptRecord {
	record, err := e.attempts.Record(ctx, false)
	if err != nil {
		e.metricInc(MetricStorageWriteFailed)
		e.emitAudit(ctx, auditEventStorageWriteFailed, false, email, schoolID, err, nil)
	}

	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, email, schoolID, cause, func() map[string]string {
		return map[string]string{"attempt_count": fmt.Sprintf("%d", record.Count)}
	})

	if record.LockedUntil != 0 && record.Count == e.config.Lockout.MaxAttempts {
		e.metricInc(MetricLockoutTriggered)
		e.emitAudit(ctx, auditEventLockoutTriggered, false, email, schoolID, ErrAccountLocked, nil)
	}

	return record
}

// Logout deletes the stored session and the attempt record unconditionally.
func (e *Engine) Logout(ctx context.Context) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}

	err := e.sessions.Destroy(ctx)
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, err == nil, "", "", err, nil)
	return err
}

// IsAuthenticated reports whether a valid session is currently stored.
func (e *Engine) IsAuthenticated(ctx context.Context) bool {
	_, ok := e.CurrentUser(ctx)
	return ok
}

// CurrentUser loads and verifies the stored session and returns its payload.
// Any tampered, expired, or malformed session is cleared as a side effect
// and reported absent; verification is purely local.
func (e *Engine) CurrentUser(ctx context.Context) (*SessionPayload, bool) {
	if e == nil || e.sessions == nil {
		return nil, false
	}

	start := time.Now()
	payload, err := e.sessions.Current(ctx)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricVerifyLatency, time.Since(start))
	}

	if err != nil {
		switch {
		case errors.Is(err, ErrTokenTampered):
			e.metricInc(MetricSessionTampered)
		case errors.Is(err, ErrTokenExpired):
			e.metricInc(MetricSessionExpired)
		default:
			e.metricInc(MetricSessionMalformed)
		}
		e.emitAudit(ctx, auditEventSessionRejected, false, "", "", err, nil)
		return nil, false
	}
	if payload == nil {
		return nil, false
	}
	return payload, true
}

// IsAccountLocked reports whether the lockout window is currently open.
func (e *Engine) IsAccountLocked(ctx context.Context) bool {
	if e == nil || e.attempts == nil {
		return false
	}
	return e.attempts.IsLocked(ctx)
}

// LockoutRemainingSeconds returns the ceiling of the time left in the
// lockout window, or zero when not locked.
func (e *Engine) LockoutRemainingSeconds(ctx context.Context) int {
	if e == nil || e.attempts == nil {
		return 0
	}
	return e.attempts.RemainingSeconds(ctx)
}

// SavePreferences overwrites the preference record for email wholesale.
func (e *Engine) SavePreferences(ctx context.Context, email string, prefs Preferences) error {
	if e == nil || e.preferences == nil {
		return ErrEngineNotReady
	}

	err := e.preferences.Save(ctx, email, prefs)
	if err != nil {
		e.metricInc(MetricStorageWriteFailed)
		e.emitAudit(ctx, auditEventStorageWriteFailed, false, email, "", err, nil)
		return err
	}

	e.metricInc(MetricPreferencesSaved)
	e.emitAudit(ctx, auditEventPreferencesSaved, true, email, "", nil, nil)
	return nil
}

// LoadPreferences returns the preference record for email, or nil when none
// is stored.
func (e *Engine) LoadPreferences(ctx context.Context, email string) (*Preferences, error) {
	if e == nil || e.preferences == nil {
		return nil, ErrEngineNotReady
	}

	prefs, err := e.preferences.Load(ctx, email)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		e.metricInc(MetricPreferencesLoaded)
	}
	return prefs, nil
}

// SaveCurrentUserPreferences resolves the identity from the stored session
// and saves prefs under it. Returns ErrNotAuthenticated when no valid
// session exists, so preferences can never be written for an anonymous
// client.
func (e *Engine) SaveCurrentUserPreferences(ctx context.Context, prefs Preferences) error {
	user, ok := e.CurrentUser(ctx)
	if !ok {
		return ErrNotAuthenticated
	}
	return e.SavePreferences(ctx, user.Email, prefs)
}

// LoadCurrentUserPreferences resolves the identity from the stored session
// and loads its preference record.
func (e *Engine) LoadCurrentUserPreferences(ctx context.Context) (*Preferences, error) {
	user, ok := e.CurrentUser(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return e.LoadPreferences(ctx, user.Email)
}
