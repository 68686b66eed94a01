package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy(attempts int) Policy {
	return Policy{Attempts: attempts, Backoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

func TestDo_FirstTry(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastPolicy(3), func(_ context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_RecoversFromTransient(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastPolicy(3), func(_ context.Context) error {
		calls++
		if calls < 3 {
			return Transient(errors.New("503 from firecrawl"), 503)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_GivesUpAfterAttempts(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastPolicy(2), func(_ context.Context) error {
		calls++
		return Transient(errors.New("still down"), 502)
	})
	if err == nil || err.Error() != "still down" {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastPolicy(5), func(_ context.Context) error {
		calls++
		return errors.New("401 unauthorized")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_CustomRetryable(t *testing.T) {
	var calls int
	p := fastPolicy(3)
	p.Retryable = func(error) bool { return true }
	_ = Do(context.Background(), p, func(_ context.Context) error {
		calls++
		return errors.New("anything")
	})
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	p := Policy{Attempts: 10, Backoff: time.Hour, MaxBackoff: time.Hour}
	p.OnRetry = func(int, error) { cancel() }

	start := time.Now()
	err := Do(ctx, p, func(_ context.Context) error {
		calls++
		return Transient(errors.New("timeout"), 0)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancel did not interrupt the backoff")
	}
}

func TestDo_OnRetryAttempts(t *testing.T) {
	var seen []int
	p := fastPolicy(3)
	p.OnRetry = func(attempt int, _ error) { seen = append(seen, attempt) }
	_ = Do(context.Background(), p, func(_ context.Context) error {
		return Transient(errors.New("x"), 429)
	})
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("unexpected retry attempts %v", seen)
	}
}

func TestDoVal_ReturnsValue(t *testing.T) {
	var calls int
	v, err := DoVal(context.Background(), fastPolicy(3), func(_ context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", Transient(errors.New("reset"), 0)
		}
		return "# Page", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "# Page" {
		t.Errorf("got %q", v)
	}
}

func TestWithRetries(t *testing.T) {
	tests := []struct {
		retries int
		want    int
	}{
		{0, 1},
		{2, 3},
		{-1, 1},
	}
	for _, tt := range tests {
		if got := WithRetries(tt.retries).Attempts; got != tt.want {
			t.Errorf("WithRetries(%d).Attempts = %d, want %d", tt.retries, got, tt.want)
		}
	}
}

func TestLogged_SetsOnRetry(t *testing.T) {
	p := WithRetries(1).Logged("firecrawl", "scrape")
	if p.OnRetry == nil {
		t.Fatal("expected OnRetry")
	}
	p.OnRetry(1, errors.New("x"))
}

func TestDelay(t *testing.T) {
	p := Policy{Backoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond}
	for i, w := range want {
		if got := p.delay(i + 1); got != w {
			t.Errorf("delay(%d) = %v, want %v", i+1, got, w)
		}
	}

	p.Jitter = 0.5
	for range 50 {
		d := p.delay(1)
		if d < 50*time.Millisecond || d > 150*time.Millisecond {
			t.Fatalf("jittered delay %v out of range", d)
		}
	}
}
