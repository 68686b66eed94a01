package scrape

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const maxDirectBody = 2 << 20

// DirectScraper fetches a page itself and reduces the HTML to text. It is
// the last resort when the scraping services are unavailable.
type DirectScraper struct {
	client    *http.Client
	userAgent string
}

// NewDirectScraper returns a DirectScraper with the given request timeout.
func NewDirectScraper(timeout time.Duration) *DirectScraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DirectScraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: "Mozilla/5.0 (compatible; analyst-cli/1.0)",
	}
}

// Name implements Scraper.
func (d *DirectScraper) Name() string { return SourceDirect }

// Scrape fetches url and converts the body to plain text.
func (d *DirectScraper) Scrape(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "direct: create request")
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "direct: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDirectBody))
	if err != nil {
		return nil, eris.Wrap(err, "direct: read body")
	}

	if kind := DetectBlock(resp, body); kind != BlockNone {
		return nil, eris.Wrapf(ErrUnusable, "direct: blocked (%s)", kind)
	}
	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("direct: status %d", resp.StatusCode)
	}

	title, text, err := extractText(body)
	if err != nil {
		return nil, eris.Wrap(err, "direct: parse html")
	}
	if strings.TrimSpace(text) == "" {
		return nil, eris.Wrap(ErrUnusable, "direct: empty page")
	}

	return &Result{
		Markdown: text,
		Title:    title,
		URL:      resp.Request.URL.String(),
		Source:   SourceDirect,
	}, nil
}

// skipped elements contribute no text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Nav:      true,
	atom.Footer:   true,
	atom.Template: true,
	atom.Svg:      true,
}

// blocks end the current line.
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Blockquote: true, atom.Pre: true,
}

// extractText returns the document title and its visible text with one
// block element per line.
func extractText(body []byte) (string, string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}

	var (
		title string
		lines []string
		cur   strings.Builder
	)
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			lines = append(lines, s)
		}
		cur.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Title {
				if n.FirstChild != nil && title == "" {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
			if skipped[n.DataAtom] {
				return
			}
		}
		if n.Type == html.TextNode {
			cur.WriteString(n.Data)
			cur.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blocks[n.DataAtom] {
			flush()
		}
	}
	walk(doc)
	flush()

	return title, strings.Join(lines, "\n\n"), nil
}
