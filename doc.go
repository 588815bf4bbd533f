// Package portalauth implements the credential-token layer of the Waseaca
// staff portal: tamper-evident session tokens, short-lived cross-service
// handoff tokens for the FAQ service, a login attempt lockout policy, and
// per-user preference storage, all over one injected key/value store and a
// symmetric signing secret.
//
// There is no server-side session store and no revocation list. Integrity
// and expiry come entirely from the HMAC signature and the timestamps
// embedded in each token, so any service holding the same secret can verify
// a token locally. This raises the bar against edited storage contents and
// replay of stale tokens; it does not protect against a compromised client
// runtime, which can reach the secret itself.
//
// Build an engine with the Builder:
//
//	cfg := portalauth.DefaultConfig()
//	cfg.Token.Secret = secret
//	cfg.Credentials.SharedPassword = password
//
//	engine, err := portalauth.New().
//		WithConfig(cfg).
//		WithStore(store.NewMemory()).
//		Build()
//
// The façade surface is Login, Logout, IsAuthenticated, CurrentUser,
// GenerateFAQToken, VerifyFAQToken, the lockout queries, and the preference
// operations. Internal failures never escape as panics; corrupt stored state
// reads as absent and is cleared, forcing a clean re-authentication.
package portalauth
