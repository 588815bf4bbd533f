package portalauth

import (
	"context"
	"testing"
	"time"

	"github.com/waseaca/portalauth/store"
)

func TestMetricsDisabledByDefault(t *testing.T) {
	m := NewMetrics(MetricsConfig{})

	m.Inc(MetricLoginSuccess)
	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("expected disabled metrics to stay at zero")
	}

	s := m.Snapshot()
	if len(s.Counters) != 0 || len(s.Histograms) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", s)
	}
}

func TestMetricsIncAndValue(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginFailure)

	if got := m.Value(MetricLoginSuccess); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := m.Value(MetricLoginFailure); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := m.Value(MetricLogout); got != 0 {
		t.Fatalf("expected untouched counter at 0, got %d", got)
	}
}

func TestMetricsIgnoresOutOfRangeID(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricID(10_000))
	if got := m.Value(MetricID(10_000)); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMetricsLatencyHistogramBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	samples := []time.Duration{
		time.Millisecond,        // bucket 0
		8 * time.Millisecond,    // bucket 1
		20 * time.Millisecond,   // bucket 2
		40 * time.Millisecond,   // bucket 3
		80 * time.Millisecond,   // bucket 4
		200 * time.Millisecond,  // bucket 5
		400 * time.Millisecond,  // bucket 6
		2000 * time.Millisecond, // bucket 7
	}
	for _, d := range samples {
		m.Observe(MetricVerifyLatency, d)
	}

	buckets := m.Snapshot().Histograms[MetricVerifyLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %d", histBucketCount, len(buckets))
	}
	for i, count := range buckets {
		if count != 1 {
			t.Fatalf("expected exactly one sample in bucket %d, got %d", i, count)
		}
	}
}

func TestMetricsObserveRequiresLatencyEnabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Observe(MetricVerifyLatency, time.Millisecond)
	if buckets := m.Snapshot().Histograms[MetricVerifyLatency]; len(buckets) != 0 {
		t.Fatalf("expected no histogram without latency enabled, got %v", buckets)
	}
}

func TestEngineRecordsLoginMetrics(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()

	engine, err := New().
		WithConfig(testConfig()).
		WithStore(store.NewMemory()).
		WithClock(clock).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	_, _ = engine.Login(ctx, "teacher@waseaca.com", "wrong", "school-1")
	if _, err := engine.Login(ctx, "teacher@waseaca.com", "correct-shared-password", "school-1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	_ = engine.Logout(ctx)

	s := engine.MetricsSnapshot()
	if s.Counters[MetricLoginFailure] != 1 {
		t.Fatalf("expected 1 login failure, got %d", s.Counters[MetricLoginFailure])
	}
	if s.Counters[MetricLoginSuccess] != 1 || s.Counters[MetricSessionIssued] != 1 {
		t.Fatalf("unexpected success counters: %+v", s.Counters)
	}
	if s.Counters[MetricLogout] != 1 {
		t.Fatalf("expected 1 logout, got %d", s.Counters[MetricLogout])
	}
}

func TestEngineRecordsLockoutMetrics(t *testing.T) {
	ctx := context.Background()

	engine, err := New().
		WithConfig(testConfig()).
		WithStore(store.NewMemory()).
		WithClock(newFakeClock()).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	for i := 0; i < 10; i++ {
		_, _ = engine.Login(ctx, "teacher@waseaca.com", "wrong", "school-1")
	}
	_, _ = engine.Login(ctx, "teacher@waseaca.com", "correct-shared-password", "school-1")

	s := engine.MetricsSnapshot()
	if s.Counters[MetricLockoutTriggered] != 1 {
		t.Fatalf("expected 1 lockout trigger, got %d", s.Counters[MetricLockoutTriggered])
	}
	if s.Counters[MetricLoginLocked] != 1 {
		t.Fatalf("expected 1 locked rejection, got %d", s.Counters[MetricLoginLocked])
	}
}

func TestEngineRecordsSessionRejectionMetrics(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()

	engine, err := New().
		WithConfig(testConfig()).
		WithStore(store.NewMemory()).
		WithClock(clock).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	mustLogin(t, engine)
	clock.Advance(25 * time.Hour)
	if engine.IsAuthenticated(ctx) {
		t.Fatal("expected expired session rejected")
	}

	s := engine.MetricsSnapshot()
	if s.Counters[MetricSessionExpired] != 1 {
		t.Fatalf("expected 1 expired rejection, got %d", s.Counters[MetricSessionExpired])
	}
	if buckets := s.Histograms[MetricVerifyLatency]; len(buckets) != histBucketCount {
		t.Fatalf("expected latency histogram in snapshot, got %v", buckets)
	}
}
