package portalauth

import (
	"context"
	"errors"
	"time"

	internalaudit "github.com/waseaca/portalauth/internal/audit"
)

const (
	auditEventLoginSuccess       = "login_success"
	auditEventLoginFailure       = "login_failure"
	auditEventLoginLocked        = "login_locked"
	auditEventLockoutTriggered   = "lockout_triggered"
	auditEventLogout             = "logout"
	auditEventSessionRejected    = "session_rejected"
	auditEventHandoffIssued      = "handoff_issued"
	auditEventHandoffRejected    = "handoff_rejected"
	auditEventPreferencesSaved   = "preferences_saved"
	auditEventStorageWriteFailed = "storage_write_failed"
)

// AuditErrorCode is the stable error vocabulary carried in audit events.
type AuditErrorCode string

const (
	auditErrEmailFormat        AuditErrorCode = "email_invalid_format"
	auditErrEmailNotAllowed    AuditErrorCode = "email_not_allowed"
	auditErrPasswordEmpty      AuditErrorCode = "password_empty"
	auditErrPasswordMismatch   AuditErrorCode = "password_mismatch"
	auditErrAccountLocked      AuditErrorCode = "account_locked"
	auditErrTokenTampered      AuditErrorCode = "token_tampered"
	auditErrTokenExpired       AuditErrorCode = "token_expired"
	auditErrTokenMalformed     AuditErrorCode = "token_malformed"
	auditErrNotAuthenticated   AuditErrorCode = "not_authenticated"
	auditErrStorageUnavailable AuditErrorCode = "storage_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	email string,
	schoolID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		EventID:   internalaudit.NewEventID(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Email:     normalizeEmail(email),
		SchoolID:  schoolID,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrEmailInvalidFormat):
		return auditErrEmailFormat
	case errors.Is(err, ErrEmailNotAllowed):
		return auditErrEmailNotAllowed
	case errors.Is(err, ErrPasswordEmpty):
		return auditErrPasswordEmpty
	case errors.Is(err, ErrPasswordMismatch):
		return auditErrPasswordMismatch
	case errors.Is(err, ErrAccountLocked):
		return auditErrAccountLocked
	case errors.Is(err, ErrTokenTampered):
		return auditErrTokenTampered
	case errors.Is(err, ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, ErrTokenMalformed):
		return auditErrTokenMalformed
	case errors.Is(err, ErrNotAuthenticated):
		return auditErrNotAuthenticated
	case errors.Is(err, ErrStorageUnavailable):
		return auditErrStorageUnavailable
	default:
		return auditErrInternal
	}
}
