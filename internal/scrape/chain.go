package scrape

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/resilience"
)

// ErrNoScrapers is returned by a chain built without scrapers.
var ErrNoScrapers = eris.New("scrape: no scrapers configured")

// Chain tries scrapers in order and returns the first success. Each scraper
// sits behind its own breaker so one that keeps failing is skipped until
// its cooldown elapses.
type Chain struct {
	links []link
}

type link struct {
	scraper Scraper
	breaker *resilience.Breaker
}

// NewChain creates a Chain. The first scraper is the primary one.
func NewChain(scrapers ...Scraper) *Chain {
	c := &Chain{}
	for _, s := range scrapers {
		c.links = append(c.links, link{
			scraper: s,
			breaker: resilience.NewBreaker(s.Name(), resilience.DefaultThreshold, resilience.DefaultCooldown),
		})
	}
	return c
}

// Name implements Scraper.
func (c *Chain) Name() string { return "chain" }

// Sources returns the scraper names in order.
func (c *Chain) Sources() []string {
	out := make([]string, len(c.links))
	for i, l := range c.links {
		out[i] = l.scraper.Name()
	}
	return out
}

// Scrape tries each scraper in order. When all fail it returns a
// *ScrapeError carrying the first failure.
func (c *Chain) Scrape(ctx context.Context, url string) (*Result, error) {
	if len(c.links) == 0 {
		return nil, &ScrapeError{URL: url, Err: ErrNoScrapers}
	}

	var first error
	for _, l := range c.links {
		res, err := resilience.Guard(ctx, l.breaker, func(ctx context.Context) (*Result, error) {
			return l.scraper.Scrape(ctx, url)
		})
		if err == nil {
			return res, nil
		}
		if first == nil {
			first = err
		}
		if ctx.Err() != nil {
			break
		}
		if errors.Is(err, resilience.ErrOpen) {
			zap.L().Debug("scrape: skipping open source", zap.String("source", l.scraper.Name()))
			continue
		}
		zap.L().Info("scrape: source failed, trying next",
			zap.String("source", l.scraper.Name()),
			zap.String("url", url),
			zap.Error(err),
		)
	}
	return nil, &ScrapeError{URL: url, Err: first}
}
