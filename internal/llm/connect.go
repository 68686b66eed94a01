package llm

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/pkg/anthropic"
	"github.com/sells-group/analyst-cli/pkg/ollama"
)

const (
	defaultOllamaPort = "11434"
	pingTimeout       = 5 * time.Second
)

// Options configures Connect.
type Options struct {
	Provider string
	// Host is the configured runtime address. Bare host:port values get an
	// http:// scheme.
	Host   string
	APIKey string

	AnthropicKey       string
	AnthropicMaxTokens int64

	ChatTimeout time.Duration
	HTTPClient  *http.Client
}

// Connect returns a Runtime for opts.Provider. For local providers the
// configured host is tried first, then localhost, 127.0.0.1 and 0.0.0.0 on
// the same port; the first endpoint that answers wins. ErrRuntimeUnavailable
// is returned when none does.
func Connect(ctx context.Context, opts Options) (Runtime, error) {
	switch opts.Provider {
	case "", ProviderOllama:
		return connectLocal(ctx, opts, func(host string) Runtime {
			copts := []ollama.Option{ollama.WithBaseURL(host), ollama.WithTimeout(opts.ChatTimeout)}
			if opts.HTTPClient != nil {
				copts = append(copts, ollama.WithHTTPClient(opts.HTTPClient))
			}
			return NewOllama(ollama.NewClient(copts...))
		})
	case ProviderOpenAI:
		return connectLocal(ctx, opts, func(host string) Runtime {
			hc := opts.HTTPClient
			if hc == nil {
				hc = &http.Client{Timeout: opts.ChatTimeout}
			}
			return NewOpenAI(withV1(host), opts.APIKey, hc)
		})
	case ProviderAnthropic:
		if opts.AnthropicKey == "" {
			return nil, eris.Wrap(ErrRuntimeUnavailable, "llm: anthropic key is not configured")
		}
		var ropts []option.RequestOption
		if opts.HTTPClient != nil {
			ropts = append(ropts, option.WithHTTPClient(opts.HTTPClient))
		}
		rt := NewAnthropic(anthropic.NewClient(opts.AnthropicKey, ropts...), opts.AnthropicMaxTokens)
		if err := ping(ctx, rt); err != nil {
			return nil, eris.Wrap(ErrRuntimeUnavailable, fmt.Sprintf("llm: anthropic: %v", err))
		}
		return rt, nil
	default:
		return nil, eris.New(fmt.Sprintf("llm: unknown provider %q", opts.Provider))
	}
}

func connectLocal(ctx context.Context, opts Options, build func(host string) Runtime) (Runtime, error) {
	hosts := CandidateHosts(opts.Host)
	var failures []string
	for _, host := range hosts {
		rt := build(host)
		err := ping(ctx, rt)
		if err == nil {
			if host != hosts[0] {
				zap.L().Info("runtime reachable on fallback host",
					zap.String("provider", rt.Provider()),
					zap.String("configured", hosts[0]),
					zap.String("host", host),
				)
			}
			return rt, nil
		}
		zap.L().Debug("runtime host unreachable", zap.String("host", host), zap.Error(err))
		failures = append(failures, host)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, eris.Wrap(ErrRuntimeUnavailable, fmt.Sprintf("llm: tried %s", strings.Join(failures, ", ")))
}

func ping(ctx context.Context, rt Runtime) error {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	_, err := rt.ListModels(pctx)
	return err
}

// NormalizeHost adds a scheme and the default Ollama port to bare addresses
// like "0.0.0.0" or "gpu-box:11434".
func NormalizeHost(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return ollama.DefaultBaseURL
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return host
	}
	if u.Port() == "" && u.Scheme == "http" {
		u.Host = net.JoinHostPort(u.Hostname(), defaultOllamaPort)
	}
	return strings.TrimRight(u.String(), "/")
}

// CandidateHosts returns the configured host followed by the loopback
// fallbacks on the same port and path, without duplicates.
func CandidateHosts(host string) []string {
	primary := NormalizeHost(host)
	out := []string{primary}
	seen := map[string]bool{primary: true}

	u, err := url.Parse(primary)
	if err != nil {
		return out
	}
	port := u.Port()
	for _, h := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		alt := *u
		if port != "" {
			alt.Host = net.JoinHostPort(h, port)
		} else {
			alt.Host = h
		}
		s := strings.TrimRight(alt.String(), "/")
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func withV1(host string) string {
	if strings.HasSuffix(host, "/v1") {
		return host
	}
	return host + "/v1"
}
