// Package middleware exposes HTTP middleware adapters built on top of
// portalauth.Engine verification.
//
// [FAQGuard] reads the authToken query parameter carried on FAQ handoff
// URLs, verifies it through the engine, and injects the verified payload
// into the request context for downstream handlers.
//
// This package translates HTTP semantics into Engine calls. It does not
// implement token verification itself and does not touch storage; all
// decisions are delegated to the engine.
package middleware
