// Package otel bridges portalauth metrics into an OpenTelemetry meter via
// observable instruments.
//
// The exporter registers one callback that observes every counter and
// cumulative histogram bucket from a fresh engine snapshot on each
// collection cycle. Close unregisters the callback.
package otel
