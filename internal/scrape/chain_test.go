package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScraper implements Scraper for testing.
type stubScraper struct {
	name   string
	result *Result
	err    error
	calls  int
}

func (s *stubScraper) Name() string { return s.name }

func (s *stubScraper) Scrape(_ context.Context, _ string) (*Result, error) {
	s.calls++
	return s.result, s.err
}

func TestChain_FirstSuccess(t *testing.T) {
	primary := &stubScraper{name: "firecrawl", result: &Result{Markdown: "# Home", Source: "firecrawl"}}
	fallback := &stubScraper{name: "jina"}

	res, err := NewChain(primary, fallback).Scrape(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "firecrawl", res.Source)
	assert.Equal(t, 0, fallback.calls)
}

func TestChain_FallsBack(t *testing.T) {
	primary := &stubScraper{name: "firecrawl", err: errors.New("firecrawl: HTTP 402: payment required")}
	fallback := &stubScraper{name: "jina", result: &Result{Markdown: "# Home", Source: "jina"}}

	res, err := NewChain(primary, fallback).Scrape(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "jina", res.Source)
}

func TestChain_AllFailReturnsPrimaryError(t *testing.T) {
	primaryErr := errors.New("firecrawl: HTTP 401: unauthorized")
	primary := &stubScraper{name: "firecrawl", err: primaryErr}
	fallback := &stubScraper{name: "jina", err: errors.New("jina: timeout")}

	_, err := NewChain(primary, fallback).Scrape(context.Background(), "https://acme.com")
	require.Error(t, err)

	var se *ScrapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "https://acme.com", se.URL)
	assert.ErrorIs(t, err, primaryErr)
	assert.Contains(t, err.Error(), "scrape: https://acme.com: firecrawl: HTTP 401")
}

func TestChain_SkipsOpenSource(t *testing.T) {
	primary := &stubScraper{name: "firecrawl", err: errors.New("down")}
	fallback := &stubScraper{name: "jina", result: &Result{Source: "jina"}}
	c := NewChain(primary, fallback)

	for range 5 {
		_, err := c.Scrape(context.Background(), "https://acme.com")
		require.NoError(t, err)
	}
	// Breaker opens after the default threshold; later calls skip the primary.
	assert.Equal(t, 3, primary.calls)
	assert.Equal(t, 5, fallback.calls)
}

func TestChain_Empty(t *testing.T) {
	_, err := NewChain().Scrape(context.Background(), "https://acme.com")
	assert.ErrorIs(t, err, ErrNoScrapers)
}

func TestChain_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	primary := &stubScraper{name: "firecrawl", err: context.Canceled}
	fallback := &stubScraper{name: "jina", result: &Result{}}

	_, err := NewChain(primary, fallback).Scrape(ctx, "https://acme.com")
	require.Error(t, err)
	assert.Equal(t, 0, fallback.calls)
}

func TestChain_Sources(t *testing.T) {
	c := NewChain(&stubScraper{name: "firecrawl"}, &stubScraper{name: "jina"})
	assert.Equal(t, []string{"firecrawl", "jina"}, c.Sources())
	assert.Equal(t, "chain", c.Name())
}
