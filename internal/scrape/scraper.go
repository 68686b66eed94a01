// Package scrape fetches a web page as markdown through a chain of
// scraping services: Firecrawl first, then the optional fallbacks.
package scrape

import (
	"context"
	"fmt"
)

// Source names.
const (
	SourceFirecrawl = "firecrawl"
	SourceJina      = "jina"
	SourceDirect    = "direct"
)

// Result is a scraped page.
type Result struct {
	Markdown string
	Title    string
	URL      string
	Source   string
}

// Scraper fetches a single URL and returns its content.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
	Name() string
}

// ScrapeError reports that no scraper could fetch URL. Err is the primary
// scraper's failure.
type ScrapeError struct {
	URL string
	Err error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape: %s: %v", e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }
