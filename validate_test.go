package portalauth

import (
	"errors"
	"testing"
)

func newTestValidator() *credentialValidator {
	return newCredentialValidator(CredentialsConfig{
		SharedPassword: "correct-shared-password",
		AllowedEmails:  []string{"Teacher@Waseaca.com", "admin@waseaca.com"},
	})
}

func TestValidateEmailFormat(t *testing.T) {
	v := newTestValidator()

	for _, email := range []string{"", "plain", "a@", "@waseaca.com", "a b@waseaca.com"} {
		if err := v.ValidateEmail(email); !errors.Is(err, ErrEmailInvalidFormat) {
			t.Fatalf("expected ErrEmailInvalidFormat for %q, got %v", email, err)
		}
	}
}

func TestValidateEmailAllowList(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateEmail("teacher@waseaca.com"); err != nil {
		t.Fatalf("expected allow-listed email to pass, got %v", err)
	}
	// Allow-list entries and input are both normalized.
	if err := v.ValidateEmail("TEACHER@WASEACA.COM"); err != nil {
		t.Fatalf("expected case-insensitive match, got %v", err)
	}
	if err := v.ValidateEmail("outsider@waseaca.com"); !errors.Is(err, ErrEmailNotAllowed) {
		t.Fatalf("expected ErrEmailNotAllowed, got %v", err)
	}
}

func TestValidateEmailDomainEnforcement(t *testing.T) {
	v := newCredentialValidator(CredentialsConfig{
		SharedPassword:         "x",
		AllowedEmails:          []string{"teacher@waseaca.com"},
		AllowedDomains:         []string{"waseaca.com"},
		EnforceDomainAllowList: true,
	})

	if err := v.ValidateEmail("teacher@waseaca.com"); err != nil {
		t.Fatalf("expected in-domain email to pass, got %v", err)
	}
	if err := v.ValidateEmail("teacher@other.com"); !errors.Is(err, ErrEmailNotAllowed) {
		t.Fatalf("expected out-of-domain email rejected, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidatePassword(""); !errors.Is(err, ErrPasswordEmpty) {
		t.Fatalf("expected ErrPasswordEmpty, got %v", err)
	}
	if err := v.ValidatePassword("wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	// Near-misses must fail exactly like distant ones.
	if err := v.ValidatePassword("correct-shared-password "); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected trailing space to mismatch, got %v", err)
	}
	if err := v.ValidatePassword("correct-shared-password"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Teacher@Waseaca.COM "); got != "teacher@waseaca.com" {
		t.Fatalf("unexpected normalization %q", got)
	}
}
