package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func failing(_ context.Context) (string, error) { return "", errors.New("fail") }

func passing(_ context.Context) (string, error) { return "ok", nil }

func TestBreaker_ClosedPassesThrough(t *testing.T) {
	b := NewBreaker("firecrawl", 3, time.Minute)
	v, err := Guard(context.Background(), b, passing)
	if err != nil || v != "ok" {
		t.Fatalf("got %q, %v", v, err)
	}
	if b.State() != Closed {
		t.Errorf("expected closed, got %s", b.State())
	}
	if b.Name() != "firecrawl" {
		t.Errorf("unexpected name %q", b.Name())
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewBreaker("firecrawl", 2, time.Minute)
	for range 2 {
		_, _ = Guard(context.Background(), b, failing)
	}
	if b.State() != Open {
		t.Fatalf("expected open, got %s", b.State())
	}

	_, err := Guard(context.Background(), b, func(_ context.Context) (string, error) {
		t.Error("fn must not run while open")
		return "", nil
	})
	if !errors.Is(err, ErrOpen) {
		t.Errorf("expected ErrOpen, got %v", err)
	}
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b := NewBreaker("jina", 2, time.Minute)
	_, _ = Guard(context.Background(), b, failing)
	_, _ = Guard(context.Background(), b, passing)
	_, _ = Guard(context.Background(), b, failing)
	if b.State() != Closed {
		t.Errorf("expected closed, got %s", b.State())
	}
}

func TestBreaker_HalfOpenTrial(t *testing.T) {
	now := time.Now()
	b := NewBreaker("firecrawl", 1, 10*time.Second)
	b.now = func() time.Time { return now }

	_, _ = Guard(context.Background(), b, failing)
	if b.State() != Open {
		t.Fatalf("expected open, got %s", b.State())
	}

	now = now.Add(11 * time.Second)
	if b.State() != HalfOpen {
		t.Fatalf("expected half-open, got %s", b.State())
	}

	// Failed trial reopens.
	_, _ = Guard(context.Background(), b, failing)
	if b.State() != Open {
		t.Fatalf("expected open after failed trial, got %s", b.State())
	}

	now = now.Add(11 * time.Second)
	if _, err := Guard(context.Background(), b, passing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.State() != Closed {
		t.Errorf("expected closed after good trial, got %s", b.State())
	}
}

func TestBreaker_CanceledCallNotCounted(t *testing.T) {
	b := NewBreaker("firecrawl", 1, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = Guard(ctx, b, func(ctx context.Context) (string, error) { return "", ctx.Err() })
	if b.State() != Closed {
		t.Errorf("expected closed, got %s", b.State())
	}
}

func TestBreaker_Reset(t *testing.T) {
	b := NewBreaker("firecrawl", 1, time.Minute)
	_, _ = Guard(context.Background(), b, failing)
	b.Reset()
	if b.State() != Closed {
		t.Errorf("expected closed, got %s", b.State())
	}
}

func TestNewBreaker_Defaults(t *testing.T) {
	b := NewBreaker("x", 0, 0)
	if b.threshold != DefaultThreshold || b.cooldown != DefaultCooldown {
		t.Errorf("unexpected defaults %d %v", b.threshold, b.cooldown)
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{Closed: "closed", Open: "open", HalfOpen: "half-open", State(9): "unknown"}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("%d: got %q want %q", s, s.String(), want)
		}
	}
}
