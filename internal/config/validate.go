package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/analyst-cli/internal/model"
)

// ErrMissingAPIKey is matched by errors.Is when validation failed because no
// usable Firecrawl API key is configured.
var ErrMissingAPIKey = eris.New("config: firecrawl api key is required")

// ValidationError lists every problem found by Validate.
type ValidationError struct {
	Mode     string
	Problems []string

	missingKey bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: invalid for %s: %s", e.Mode, strings.Join(e.Problems, "; "))
}

// Is lets callers detect a missing API key with errors.Is.
func (e *ValidationError) Is(target error) bool {
	return e.missingKey && target == ErrMissingAPIKey
}

var knownProviders = map[string]bool{
	"ollama":    true,
	"openai":    true,
	"anthropic": true,
}

// Validate checks that the settings required by mode are present and sane.
// Modes: analyze, models, serve.
func (c *Config) Validate(mode string) error {
	verr := &ValidationError{Mode: mode}
	add := func(format string, args ...any) {
		verr.Problems = append(verr.Problems, fmt.Sprintf(format, args...))
	}

	switch mode {
	case "analyze":
		if !c.HasAPIKey() {
			add("api_key is required")
			verr.missingKey = true
		}
		if strings.TrimSpace(c.ReportsDir) == "" {
			add("reports_dir is required")
		}
		if _, err := model.ParseFormat(c.DefaultSaveFormat); err != nil {
			add("default_save_format %q is not one of txt, csv, html, pdf, json, html_charts", c.DefaultSaveFormat)
		}
		if c.Analysis.MinContentChars < 0 {
			add("analysis.min_content_chars must be >= 0")
		}
		if c.Analysis.MaxContentChars <= 0 || c.Analysis.CompareContentChars <= 0 {
			add("analysis content limits must be > 0")
		}
		if c.Firecrawl.Retries < 0 {
			add("firecrawl.retries must be >= 0")
		}
		if c.Jina.Retries < 0 {
			add("jina.retries must be >= 0")
		}
		c.validateRuntime(add)
	case "models":
		c.validateRuntime(add)
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			add("server.port must be > 0 and <= 65535")
		}
		if strings.TrimSpace(c.ReportsDir) == "" {
			add("reports_dir is required")
		}
	default:
		add("unknown mode %q", mode)
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

func (c *Config) validateRuntime(add func(string, ...any)) {
	if !knownProviders[c.Runtime.Provider] {
		add("runtime.provider %q must be ollama, openai or anthropic", c.Runtime.Provider)
	}
	if c.Runtime.ProbeTimeoutSecs <= 0 {
		add("runtime.probe_timeout_secs must be > 0")
	}
	if c.Runtime.ProbeConcurrency < 1 || c.Runtime.ProbeConcurrency > 16 {
		add("runtime.probe_concurrency must be between 1 and 16")
	}
	if c.Runtime.Provider == "anthropic" && c.Anthropic.Key == "" {
		add("anthropic.key is required")
	}
	if c.Runtime.Provider != "anthropic" && strings.TrimSpace(c.Runtime.Host) == "" {
		add("runtime.host is required")
	}
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
