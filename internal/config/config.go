package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/analyst-cli/internal/model"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "config.yaml"

// PlaceholderAPIKey is the key shipped in example configs. It counts as unset.
const PlaceholderAPIKey = "your-api-key-here"

// Config holds the full application configuration.
type Config struct {
	APIKey            string            `yaml:"api_key" mapstructure:"api_key"`
	ReportsDir        string            `yaml:"reports_dir" mapstructure:"reports_dir"`
	DefaultSaveFormat string            `yaml:"default_save_format" mapstructure:"default_save_format"`
	PreferredModels   map[string]string `yaml:"preferred_models" mapstructure:"preferred_models"`
	Firecrawl         FirecrawlConfig   `yaml:"firecrawl" mapstructure:"firecrawl"`
	Jina              JinaConfig        `yaml:"jina" mapstructure:"jina"`
	Direct            DirectConfig      `yaml:"direct" mapstructure:"direct"`
	Runtime           RuntimeConfig     `yaml:"runtime" mapstructure:"runtime"`
	Anthropic         AnthropicConfig   `yaml:"anthropic" mapstructure:"anthropic"`
	Analysis          AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Report            ReportConfig      `yaml:"report" mapstructure:"report"`
	Server            ServerConfig      `yaml:"server" mapstructure:"server"`
	Log               LogConfig         `yaml:"log" mapstructure:"log"`

	// File is the config file the values were read from, or the file that
	// Save will create when none existed.
	File string `yaml:"-" mapstructure:"-"`
}

// FirecrawlConfig holds Firecrawl API settings. The API key lives at the top
// level as api_key.
type FirecrawlConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	Retries     int     `yaml:"retries" mapstructure:"retries"`
}

// JinaConfig holds Jina AI Reader settings (fallback scraper).
type JinaConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries     int    `yaml:"retries" mapstructure:"retries"`
}

// DirectConfig enables fetching pages directly over HTTP when every
// scraping service failed.
type DirectConfig struct {
	Enabled     bool `yaml:"enabled" mapstructure:"enabled"`
	TimeoutSecs int  `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// RuntimeConfig configures the language-model runtime.
type RuntimeConfig struct {
	Provider         string `yaml:"provider" mapstructure:"provider"`
	Host             string `yaml:"host" mapstructure:"host"`
	APIKey           string `yaml:"api_key" mapstructure:"api_key"`
	ProbeTimeoutSecs int    `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
	ProbeConcurrency int    `yaml:"probe_concurrency" mapstructure:"probe_concurrency"`
	ChatTimeoutSecs  int    `yaml:"chat_timeout_secs" mapstructure:"chat_timeout_secs"`
}

// AnthropicConfig holds Anthropic API settings for the anthropic provider.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// AnalysisConfig bounds the content sent to the model.
type AnalysisConfig struct {
	MaxContentChars     int `yaml:"max_content_chars" mapstructure:"max_content_chars"`
	CompareContentChars int `yaml:"compare_content_chars" mapstructure:"compare_content_chars"`
	MinContentChars     int `yaml:"min_content_chars" mapstructure:"min_content_chars"`
}

// ReportConfig configures report rendering.
type ReportConfig struct {
	PDFEnabled bool `yaml:"pdf_enabled" mapstructure:"pdf_enabled"`
}

// ServerConfig configures the report browser.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from ./config.yaml (optional) and environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from path (or ./config.yaml when empty) and
// environment. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("ANALYST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_key", "ANALYST_API_KEY", "FIRECRAWL_API_KEY")
	_ = v.BindEnv("runtime.host", "ANALYST_RUNTIME_HOST", "OLLAMA_HOST")
	_ = v.BindEnv("anthropic.key", "ANALYST_ANTHROPIC_KEY", "ANTHROPIC_API_KEY")

	setDefaults(v)

	// Read config file (optional)
	file := path
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case path != "" && isNotExist(err):
		default:
			return nil, eris.Wrap(err, "config: read file")
		}
	} else {
		file = v.ConfigFileUsed()
	}
	if file == "" {
		file = DefaultFile
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	cfg.File = file

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("reports_dir", "firecrawl_reports")
	v.SetDefault("default_save_format", string(model.FormatHTML))
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.port", 8085)
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("firecrawl.timeout_secs", 60)
	v.SetDefault("firecrawl.rate_limit", 2.0)
	v.SetDefault("firecrawl.retries", 2)
	v.SetDefault("jina.enabled", false)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.timeout_secs", 30)
	v.SetDefault("jina.retries", 2)
	v.SetDefault("direct.enabled", false)
	v.SetDefault("direct.timeout_secs", 15)
	v.SetDefault("runtime.provider", "ollama")
	v.SetDefault("runtime.host", "http://localhost:11434")
	v.SetDefault("runtime.probe_timeout_secs", 10)
	v.SetDefault("runtime.probe_concurrency", 1)
	v.SetDefault("runtime.chat_timeout_secs", 300)
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("analysis.max_content_chars", 4000)
	v.SetDefault("analysis.compare_content_chars", 3500)
	v.SetDefault("analysis.min_content_chars", 50)
	v.SetDefault("report.pdf_enabled", true)
}

// HasAPIKey reports whether a usable Firecrawl API key is configured.
func (c *Config) HasAPIKey() bool {
	k := strings.TrimSpace(c.APIKey)
	return k != "" && k != PlaceholderAPIKey
}

// MaskedAPIKey returns the API key with its middle hidden.
func (c *Config) MaskedAPIKey() string {
	if !c.HasAPIKey() {
		return "Not configured"
	}
	k := c.APIKey
	if len(k) < 12 {
		return "****"
	}
	return k[:8] + "..." + k[len(k)-4:]
}

// SaveFormat returns the parsed default save format, falling back to html.
func (c *Config) SaveFormat() model.Format {
	f, err := model.ParseFormat(c.DefaultSaveFormat)
	if err != nil {
		return model.FormatHTML
	}
	return f
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)
	zapCfg.OutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("config(file=%s, reports_dir=%s, format=%s, provider=%s)",
		c.File, c.ReportsDir, c.DefaultSaveFormat, c.Runtime.Provider)
}
