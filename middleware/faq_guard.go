package middleware

import (
	"context"
	"net/http"

	portalauth "github.com/waseaca/portalauth"
)

type handoffContextKey struct{}

// HandoffFromContext returns the verified handoff payload injected by
// [FAQGuard], if any.
func HandoffFromContext(ctx context.Context) (*portalauth.HandoffPayload, bool) {
	payload, ok := ctx.Value(handoffContextKey{}).(*portalauth.HandoffPayload)
	return payload, ok
}

// FAQGuard returns middleware protecting FAQ service routes. It requires a
// valid handoff token in the authToken query parameter and rejects with
// 401 otherwise. Rejections carry no detail in the response body; the
// distinction between tampered, expired, and malformed stays in the
// engine's audit stream.
func FAQGuard(engine *portalauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token := r.URL.Query().Get("authToken")
			if token == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			payload, err := engine.VerifyFAQToken(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), handoffContextKey{}, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
