package scrape

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/analyst-cli/internal/resilience"
	"github.com/sells-group/analyst-cli/pkg/jina"
)

// ErrUnusable is returned when a fallback source answered with an error
// page, a bot challenge or next to no text.
var ErrUnusable = eris.New("scrape: unusable response")

// JinaAdapter scrapes through the Jina Reader API.
type JinaAdapter struct {
	client jina.Client
	policy resilience.Policy
}

// NewJinaAdapter wraps client. retries is the number of extra attempts on
// rate limiting and 5xx answers.
func NewJinaAdapter(client jina.Client, retries int) *JinaAdapter {
	return &JinaAdapter{
		client: client,
		policy: resilience.WithRetries(retries).Logged(SourceJina, "read"),
	}
}

// Name implements Scraper.
func (j *JinaAdapter) Name() string { return SourceJina }

// Scrape reads url through Jina Reader.
func (j *JinaAdapter) Scrape(ctx context.Context, url string) (*Result, error) {
	resp, err := resilience.DoVal(ctx, j.policy, func(ctx context.Context) (*jina.ReadResponse, error) {
		resp, err := j.client.Read(ctx, url)
		var apiErr *jina.APIError
		if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
			return nil, resilience.Transient(err, apiErr.StatusCode)
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	if resp.Code != 0 && resp.Code != 200 {
		return nil, eris.Wrapf(ErrUnusable, "jina: code %d", resp.Code)
	}
	if kind := challenged(resp.Data.Content); kind != BlockNone {
		return nil, eris.Wrapf(ErrUnusable, "jina: %s", kind)
	}

	result := &Result{
		Markdown: resp.Data.Content,
		Title:    resp.Data.Title,
		URL:      resp.Data.URL,
		Source:   SourceJina,
	}
	if result.URL == "" {
		result.URL = url
	}
	return result, nil
}

// minUsableChars is the least text a fallback response must carry.
const minUsableChars = 100

var challengeSignatures = []string{
	"checking your browser",
	"enable javascript",
	"please enable cookies",
	"access denied",
	"403 forbidden",
	"just a moment",
	"attention required",
}

// challenged classifies short responses that are error or challenge pages.
func challenged(content string) BlockType {
	content = strings.TrimSpace(content)
	if len(content) < minUsableChars {
		return BlockEmpty
	}
	if len(content) >= 1000 {
		return BlockNone
	}
	lower := strings.ToLower(content)
	for _, sig := range challengeSignatures {
		if strings.Contains(lower, sig) {
			return BlockChallenge
		}
	}
	return BlockNone
}
