// Package store defines the persisted key/value contract the auth engine
// writes through, plus the two shipped implementations: an in-process map for
// client-local state and tests, and a Redis-backed store for deployments
// that keep portal state server-adjacent.
//
// # Semantics
//
// Entries are string-keyed, string-valued, overwritten wholesale. There are
// no partial updates and no transactions spanning keys: an interrupted write
// leaves a key absent or holding its previous value, never a torn value.
// Read-side checks in the engine are self-contained and never assume two
// related keys were written together.
package store
