// Package audit provides internal primitives for structured audit events
// emitted by the portal auth engine: the canonical event model and the sink
// implementations root APIs re-export.
//
// # Architecture boundaries
//
// This package owns the event shape and sink contracts. Buffering and
// dispatch policy live in the root package's dispatcher.
//
// # What this package must NOT do
//
//   - Decide which operations emit events.
//   - Be imported outside the portalauth module.
package audit
