package internaldefs

import (
	portalauth "github.com/waseaca/portalauth"
)

// CounterDef binds a core metric ID to its exported name and help text.
type CounterDef struct {
	ID   portalauth.MetricID
	Name string
	Help string
}

// HistogramDef binds a core histogram ID to its exported name and help text.
type HistogramDef struct {
	ID   portalauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in export order.
var CounterDefs = []CounterDef{
	{ID: portalauth.MetricLoginSuccess, Name: "portalauth_login_success_total", Help: "Successful login attempts."},
	{ID: portalauth.MetricLoginFailure, Name: "portalauth_login_failure_total", Help: "Failed login attempts."},
	{ID: portalauth.MetricLoginLocked, Name: "portalauth_login_locked_total", Help: "Login attempts rejected during an open lockout window."},
	{ID: portalauth.MetricLockoutTriggered, Name: "portalauth_lockout_triggered_total", Help: "Lockout windows opened by reaching the failure cap."},
	{ID: portalauth.MetricLogout, Name: "portalauth_logout_total", Help: "Logout operations."},
	{ID: portalauth.MetricSessionIssued, Name: "portalauth_session_issued_total", Help: "Issued session tokens."},
	{ID: portalauth.MetricSessionTampered, Name: "portalauth_session_tampered_total", Help: "Stored sessions rejected for signature mismatch."},
	{ID: portalauth.MetricSessionExpired, Name: "portalauth_session_expired_total", Help: "Stored sessions rejected as expired."},
	{ID: portalauth.MetricSessionMalformed, Name: "portalauth_session_malformed_total", Help: "Stored sessions rejected as undecodable."},
	{ID: portalauth.MetricHandoffIssued, Name: "portalauth_handoff_issued_total", Help: "Issued FAQ handoff tokens."},
	{ID: portalauth.MetricHandoffVerified, Name: "portalauth_handoff_verified_total", Help: "Successfully verified FAQ handoff tokens."},
	{ID: portalauth.MetricHandoffRejected, Name: "portalauth_handoff_rejected_total", Help: "Rejected FAQ handoff tokens."},
	{ID: portalauth.MetricPreferencesSaved, Name: "portalauth_preferences_saved_total", Help: "Preference save operations."},
	{ID: portalauth.MetricPreferencesLoaded, Name: "portalauth_preferences_loaded_total", Help: "Preference records loaded."},
	{ID: portalauth.MetricStorageWriteFailed, Name: "portalauth_storage_write_failed_total", Help: "Storage writes that failed and were recovered locally."},
}

// HistogramDefs lists every exported histogram in export order.
var HistogramDefs = []HistogramDef{
	{ID: portalauth.MetricVerifyLatency, Name: "portalauth_verify_latency_seconds", Help: "Session verification latency histogram."},
}

// HistogramBounds are the upper bounds of the core latency buckets, as
// Prometheus le label values.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// OTel instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// both export formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
