package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/analysis"
	"github.com/sells-group/analyst-cli/internal/catalog"
	"github.com/sells-group/analyst-cli/internal/config"
	"github.com/sells-group/analyst-cli/internal/llm"
	"github.com/sells-group/analyst-cli/internal/report"
	"github.com/sells-group/analyst-cli/internal/scrape"
	"github.com/sells-group/analyst-cli/pkg/firecrawl"
	"github.com/sells-group/analyst-cli/pkg/jina"
)

// appEnv holds the runtime, catalog, scraper chain and service used by the
// menu and the one-shot commands.
type appEnv struct {
	Runtime  llm.Runtime
	Scraper  *scrape.Chain
	Service  *analysis.Service
	Renderer *report.Renderer
}

// Refresh lists and probes the runtime's models and hands the new catalog
// to the service.
func (e *appEnv) Refresh(ctx context.Context) *catalog.Catalog {
	cat := refreshCatalog(ctx, cfg, e.Runtime)
	e.Service.UseCatalog(cat)
	return cat
}

// initApp validates the config, connects to the model runtime, discovers
// working models and builds the analysis service.
func initApp(ctx context.Context) (*appEnv, error) {
	if err := cfg.Validate("analyze"); err != nil {
		return nil, err
	}

	rt, err := connectRuntime(ctx, cfg)
	if err != nil {
		return nil, err
	}

	chain := buildScraper(cfg)
	svc := analysis.NewService(chain, rt, analysis.Limits{
		MaxContent:     cfg.Analysis.MaxContentChars,
		CompareContent: cfg.Analysis.CompareContentChars,
		MinContent:     cfg.Analysis.MinContentChars,
	})

	env := &appEnv{
		Runtime:  rt,
		Scraper:  chain,
		Service:  svc,
		Renderer: report.New(report.WithPDF(cfg.Report.PDFEnabled)),
	}
	env.Refresh(ctx)
	return env, nil
}

func connectRuntime(ctx context.Context, c *config.Config) (llm.Runtime, error) {
	rt, err := llm.Connect(ctx, llm.Options{
		Provider:           c.Runtime.Provider,
		Host:               c.Runtime.Host,
		APIKey:             c.Runtime.APIKey,
		AnthropicKey:       c.Anthropic.Key,
		AnthropicMaxTokens: c.Anthropic.MaxTokens,
		ChatTimeout:        time.Duration(c.Runtime.ChatTimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, eris.Wrap(err, "connect model runtime")
	}
	zap.L().Info("model runtime connected",
		zap.String("provider", rt.Provider()),
		zap.String("endpoint", rt.Endpoint()),
	)
	return rt, nil
}

func refreshCatalog(ctx context.Context, c *config.Config, rt llm.Runtime) *catalog.Catalog {
	return catalog.Refresh(ctx, rt, catalog.Options{
		ProbeTimeout: time.Duration(c.Runtime.ProbeTimeoutSecs) * time.Second,
		Concurrency:  c.Runtime.ProbeConcurrency,
		Preferred:    c.PreferredModels,
	})
}

func newFirecrawlClient(c *config.Config, key string) firecrawl.Client {
	return firecrawl.NewClient(key,
		firecrawl.WithBaseURL(c.Firecrawl.BaseURL),
		firecrawl.WithTimeout(time.Duration(c.Firecrawl.TimeoutSecs)*time.Second),
		firecrawl.WithRateLimit(c.Firecrawl.RateLimit),
	)
}

// buildScraper returns the scrape chain: Firecrawl first, then Jina Reader
// and direct fetching when enabled.
func buildScraper(c *config.Config) *scrape.Chain {
	scrapers := []scrape.Scraper{
		scrape.NewFirecrawlAdapter(newFirecrawlClient(c, c.APIKey), c.Firecrawl.Retries),
	}
	if c.Jina.Enabled || c.Jina.Key != "" {
		scrapers = append(scrapers, scrape.NewJinaAdapter(
			jina.NewClient(c.Jina.Key, jina.WithBaseURL(c.Jina.BaseURL), jina.WithTimeout(time.Duration(c.Jina.TimeoutSecs)*time.Second)),
			c.Jina.Retries,
		))
	}
	if c.Direct.Enabled {
		scrapers = append(scrapers, scrape.NewDirectScraper(time.Duration(c.Direct.TimeoutSecs)*time.Second))
	}

	chain := scrape.NewChain(scrapers...)
	zap.L().Debug("scrape chain built", zap.Strings("sources", chain.Sources()))
	return chain
}

// checkFirecrawlKey scrapes the key check pages with key. Only Firecrawl is
// tried so a fallback cannot hide a rejected key.
func checkFirecrawlKey(ctx context.Context, key string) error {
	adapter := scrape.NewFirecrawlAdapter(newFirecrawlClient(cfg, key), 0)
	return scrape.CheckKey(ctx, adapter)
}
