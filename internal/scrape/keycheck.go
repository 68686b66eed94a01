package scrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// KeyCheckURLs are scraped in order to validate a Firecrawl API key.
var KeyCheckURLs = []string{"https://example.com", "https://httpbin.org/html"}

// ErrKeyRejected is returned when no key-check URL could be scraped.
var ErrKeyRejected = eris.New("scrape: firecrawl connection failed, check your api key")

// CheckKey reports whether s can scrape any of KeyCheckURLs. Pass the
// Firecrawl scraper itself, not a chain with fallbacks.
func CheckKey(ctx context.Context, s Scraper) error {
	var last error
	for _, u := range KeyCheckURLs {
		if _, err := s.Scrape(ctx, u); err != nil {
			zap.L().Debug("key check url failed", zap.String("url", u), zap.Error(err))
			last = err
			continue
		}
		return nil
	}
	return eris.Wrap(ErrKeyRejected, last.Error())
}
