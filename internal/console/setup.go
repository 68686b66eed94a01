package console

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/config"
)

// KeyChecker verifies a Firecrawl API key.
type KeyChecker func(ctx context.Context, key string) error

// SetupKey makes sure cfg holds a working Firecrawl API key. A missing key is
// asked for; a rejected one leads to an offer to enter another. Accepted keys
// that were typed in are saved to the config file.
func SetupKey(ctx context.Context, cfg *config.Config, in Prompter, out *Printer, check KeyChecker) error {
	out.Info("Setting up Firecrawl...")

	key := cfg.APIKey
	entered := false
	if !cfg.HasAPIKey() {
		out.Println("\nFirecrawl API Key Setup:")
		out.Println("You can get a free API key at: https://firecrawl.dev")
		out.Println("This will be saved so you only need to enter it once.")
		answer, err := in.Ask("\nEnter your Firecrawl API key: ")
		if err != nil || answer == "" {
			out.Error("API key required to continue")
			return config.ErrMissingAPIKey
		}
		key, entered = answer, true
	} else {
		out.Success("Using configured API key")
	}

	for {
		err := check(ctx, key)
		if err == nil {
			break
		}
		zap.L().Warn("firecrawl key check failed", zap.Error(err))
		out.Error("Firecrawl connection failed - check your API key")
		if ctx.Err() != nil {
			return ctx.Err()
		}

		out.Println("\nAPI key may be invalid or connection failed.")
		if !confirm(in, "Try with a different API key?") {
			return eris.Wrap(err, "console: firecrawl setup")
		}
		answer, askErr := in.Ask("API key: ")
		if askErr != nil || answer == "" {
			return eris.Wrap(err, "console: firecrawl setup")
		}
		key, entered = answer, true
	}

	out.Success("Firecrawl connected successfully")
	cfg.APIKey = key
	if entered {
		if err := config.Set(cfg.File, "api_key", key); err != nil {
			out.Warn("Could not save config file: " + err.Error())
		} else {
			out.Success("API key saved to " + cfg.File)
		}
	}
	return nil
}
