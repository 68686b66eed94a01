package scrape

import (
	"context"
	"errors"

	"github.com/sells-group/analyst-cli/internal/resilience"
	"github.com/sells-group/analyst-cli/pkg/firecrawl"
)

// FirecrawlAdapter scrapes through the Firecrawl API, retrying transient
// failures.
type FirecrawlAdapter struct {
	client firecrawl.Client
	policy resilience.Policy
}

// NewFirecrawlAdapter wraps client. retries is the number of extra attempts
// on rate limiting, 5xx responses and network errors.
func NewFirecrawlAdapter(client firecrawl.Client, retries int) *FirecrawlAdapter {
	return &FirecrawlAdapter{
		client: client,
		policy: resilience.WithRetries(retries).Logged(SourceFirecrawl, "scrape"),
	}
}

// Name implements Scraper.
func (f *FirecrawlAdapter) Name() string { return SourceFirecrawl }

// Scrape requests the markdown rendering of url.
func (f *FirecrawlAdapter) Scrape(ctx context.Context, url string) (*Result, error) {
	resp, err := resilience.DoVal(ctx, f.policy, func(ctx context.Context) (*firecrawl.ScrapeResponse, error) {
		resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
			URL:     url,
			Formats: []string{"markdown"},
		})
		return resp, classify(err)
	})
	if err != nil {
		return nil, err
	}

	page := resp.Data
	result := &Result{
		Markdown: page.Markdown,
		Title:    page.PageTitle(),
		URL:      page.PageURL(),
		Source:   SourceFirecrawl,
	}
	if result.URL == "" {
		result.URL = url
	}
	return result, nil
}

// classify marks retryable Firecrawl HTTP errors as transient.
func classify(err error) error {
	var apiErr *firecrawl.APIError
	if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
		return resilience.Transient(err, apiErr.StatusCode)
	}
	return err
}
