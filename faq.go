package portalauth

import (
	"context"
	"net/url"

	"github.com/waseaca/portalauth/token"
)

// GenerateFAQToken mints a short-lived handoff token asserting teacher mode
// for {email, schoolID}, suitable for a single URL query parameter.
func (e *Engine) GenerateFAQToken(ctx context.Context, email, schoolID string) (string, error) {
	if e == nil || e.tokens == nil {
		return "", ErrEngineNotReady
	}

	handoff, err := e.tokens.IssueHandoff(email, schoolID)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricHandoffIssued)
	e.emitAudit(ctx, auditEventHandoffIssued, true, email, schoolID, nil, nil)
	return handoff, nil
}

// VerifyFAQToken checks a handoff token and returns its payload. This is the
// entry point for the FAQ service side, which shares only the signing
// secret; no session store is consulted.
func (e *Engine) VerifyFAQToken(ctx context.Context, tokenString string) (*HandoffPayload, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	payload, err := e.tokens.VerifyHandoff(tokenString)
	if err != nil {
		e.metricInc(MetricHandoffRejected)
		e.emitAudit(ctx, auditEventHandoffRejected, false, "", "", err, nil)
		return nil, err
	}

	e.metricInc(MetricHandoffVerified)
	return payload, nil
}

// BuildFAQURL renders the FAQ service URL carrying a handoff token:
// <base>?authToken=<token>&mode=teacher.
func BuildFAQURL(base, handoffToken string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("authToken", handoffToken)
	q.Set("mode", token.ModeTeacher)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
