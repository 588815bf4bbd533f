package portalauth

import (
	"context"
	"encoding/json"

	"github.com/waseaca/portalauth/store"
)

// attemptRecord is the persisted login attempt state. LockedUntil is set
// (non-zero, milliseconds since epoch) if and only if Count reached the
// configured maximum since the last reset.
type attemptRecord struct {
	Count       int   `json:"count"`
	LockedUntil int64 `json:"lockedUntil,omitempty"`
}

// attemptLimiter tracks consecutive failed logins under a fixed storage key
// and computes lockout state. The scope is the backing store, not the
// account: clearing the store clears the counter.
type attemptLimiter struct {
	kv     store.KV
	clock  Clock
	config LockoutConfig
	key    string
}

func newAttemptLimiter(kv store.KV, clock Clock, cfg LockoutConfig, key string) *attemptLimiter {
	return &attemptLimiter{
		kv:     kv,
		clock:  clock,
		config: cfg,
		key:    key,
	}
}

// load reads the current record. Absent, malformed, or unreachable state all
// collapse to the zero record: a counter we cannot read is a counter we
// reset, never a counter we guess.
func (l *attemptLimiter) load(ctx context.Context) attemptRecord {
	value, ok, err := l.kv.Get(ctx, l.key)
	if err != nil || !ok {
		return attemptRecord{}
	}

	var record attemptRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return attemptRecord{}
	}
	if record.Count < 0 {
		return attemptRecord{}
	}
	return record
}

// Record registers the outcome of a login attempt. Success deletes the
// record; failure increments the counter and arms the lockout when the
// count reaches the maximum. The updated record is returned so the caller
// can report remaining attempts.
func (l *attemptLimiter) Record(ctx context.Context, success bool) (attemptRecord, error) {
	if success {
		return attemptRecord{}, l.kv.Del(ctx, l.key)
	}

	record := l.load(ctx)
	record.Count++
	if record.Count >= l.config.MaxAttempts {
		record.LockedUntil = l.clock.Now().Add(l.config.Duration).UnixMilli()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return record, err
	}
	if err := l.kv.Set(ctx, l.key, string(data)); err != nil {
		return record, err
	}
	return record, nil
}

// IsLocked reports whether the lockout window is open. A lockout observed
// after expiry self-heals here (lazy cleanup), not via a background timer.
func (l *attemptLimiter) IsLocked(ctx context.Context) bool {
	record := l.load(ctx)
	if record.LockedUntil == 0 {
		return false
	}

	if l.clock.Now().UnixMilli() < record.LockedUntil {
		return true
	}

	_ = l.kv.Del(ctx, l.key)
	return false
}

// RemainingSeconds returns the ceiling of the time left in the lockout
// window, floored at zero.
func (l *attemptLimiter) RemainingSeconds(ctx context.Context) int {
	record := l.load(ctx)
	if record.LockedUntil == 0 {
		return 0
	}

	remaining := record.LockedUntil - l.clock.Now().UnixMilli()
	if remaining <= 0 {
		return 0
	}
	return int((remaining + 999) / 1000)
}

// Count returns the current consecutive-failure count.
func (l *attemptLimiter) Count(ctx context.Context) int {
	return l.load(ctx).Count
}
