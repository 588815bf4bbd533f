package portalauth

import (
	"crypto/subtle"
	"strings"

	"github.com/go-playground/validator/v10"
)

// vld is the package-level singleton validator used for email format checks.
// It is initialised once at package load time.
var vld = validator.New()

// credentialValidator checks submitted emails against the employee allow-list
// and passwords against the shared secret.
type credentialValidator struct {
	allowed        map[string]struct{}
	domains        []string
	enforceDomains bool
	password       string
}

func newCredentialValidator(cfg CredentialsConfig) *credentialValidator {
	allowed := make(map[string]struct{}, len(cfg.AllowedEmails))
	for _, email := range cfg.AllowedEmails {
		allowed[normalizeEmail(email)] = struct{}{}
	}

	domains := make([]string, 0, len(cfg.AllowedDomains))
	for _, domain := range cfg.AllowedDomains {
		domains = append(domains, strings.ToLower(strings.TrimSpace(domain)))
	}

	return &credentialValidator{
		allowed:        allowed,
		domains:        domains,
		enforceDomains: cfg.EnforceDomainAllowList,
		password:       cfg.SharedPassword,
	}
}

// normalizeEmail lower-cases and trims an email for allow-list and storage
// key derivation. Every identity comparison in the engine goes through this.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail returns ErrEmailInvalidFormat for input without a basic
// local@domain.tld shape and ErrEmailNotAllowed for well-formed emails
// absent from the allow-list.
func (v *credentialValidator) ValidateEmail(email string) error {
	if err := vld.Var(email, "required,email"); err != nil {
		return ErrEmailInvalidFormat
	}

	if v.enforceDomains && !v.domainAllowed(email) {
		return ErrEmailNotAllowed
	}

	if _, ok := v.allowed[normalizeEmail(email)]; !ok {
		return ErrEmailNotAllowed
	}

	return nil
}

func (v *credentialValidator) domainAllowed(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])

	for _, allowed := range v.domains {
		if domain == allowed || strings.HasSuffix(domain, "."+allowed) {
			return true
		}
	}
	return false
}

// ValidatePassword returns ErrPasswordEmpty for a blank password and
// ErrPasswordMismatch when it differs from the shared secret. The comparison
// is constant time.
func (v *credentialValidator) ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordEmpty
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) != 1 {
		return ErrPasswordMismatch
	}

	return nil
}
