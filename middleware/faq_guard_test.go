package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	portalauth "github.com/waseaca/portalauth"
	"github.com/waseaca/portalauth/store"
)

func newGuardTestEngine(t *testing.T) *portalauth.Engine {
	t.Helper()

	cfg := portalauth.DefaultConfig()
	cfg.Token.Secret = []byte("waseaca-portal-test-secret")
	cfg.Credentials.SharedPassword = "correct-shared-password"

	engine, err := portalauth.New().
		WithConfig(cfg).
		WithStore(store.NewMemory()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func TestFAQGuardAcceptsValidToken(t *testing.T) {
	engine := newGuardTestEngine(t)

	tok, err := engine.GenerateFAQToken(context.Background(), "teacher@waseaca.com", "school-1")
	if err != nil {
		t.Fatalf("GenerateFAQToken failed: %v", err)
	}

	var seen *portalauth.HandoffPayload
	handler := FAQGuard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = HandoffFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	url, err := portalauth.BuildFAQURL("https://faq.waseaca.com/portal", tok)
	if err != nil {
		t.Fatalf("BuildFAQURL failed: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.Email != "teacher@waseaca.com" || seen.Mode != "teacher" {
		t.Fatalf("expected payload in context, got %+v", seen)
	}
}

func TestFAQGuardRejectsMissingToken(t *testing.T) {
	engine := newGuardTestEngine(t)

	handler := FAQGuard(engine)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "https://faq.waseaca.com/portal", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestFAQGuardRejectsInvalidToken(t *testing.T) {
	engine := newGuardTestEngine(t)

	handler := FAQGuard(engine)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run with a bad token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "https://faq.waseaca.com/portal?authToken=garbage", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestFAQGuardRejectsNilEngine(t *testing.T) {
	handler := FAQGuard(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without an engine")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "https://faq.waseaca.com/portal?authToken=x", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandoffFromContextEmpty(t *testing.T) {
	if _, ok := HandoffFromContext(context.Background()); ok {
		t.Fatal("expected no payload in empty context")
	}
}
