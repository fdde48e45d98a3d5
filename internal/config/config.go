package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Generation GenerationConfig `yaml:"generation" mapstructure:"generation"`
	Extract    ExtractConfig    `yaml:"extract" mapstructure:"extract"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// GenerationConfig configures prompt construction and gateway behavior.
type GenerationConfig struct {
	// Provider is the default primary vendor: "anthropic" or "openai".
	Provider string `yaml:"provider" mapstructure:"provider"`

	// CorpusMaxChars bounds how much extracted document text is fed
	// into the prompt. An arbitrary tunable, not token-counted.
	CorpusMaxChars int `yaml:"corpus_max_chars" mapstructure:"corpus_max_chars"`

	MaxTokens      int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature    float64 `yaml:"temperature" mapstructure:"temperature"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerMin int     `yaml:"requests_per_min" mapstructure:"requests_per_min"`
}

// ExtractConfig configures document text extraction.
type ExtractConfig struct {
	// Provider selects the extractor: "local" (pdftotext subprocess)
	// or "remote" (OCR API).
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	OCRKey        string `yaml:"ocr_api_key" mapstructure:"ocr_api_key"`
	OCRModel      string `yaml:"ocr_model" mapstructure:"ocr_model"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SEGMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys without a meaningful default still get an empty
	// one registered, otherwise AutomaticEnv values for them are
	// invisible to Unmarshal.
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "segmentclaude.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("openai.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("extract.ocr_api_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8000)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("anthropic.model", "claude-3-5-sonnet")
	v.SetDefault("generation.provider", "anthropic")
	v.SetDefault("generation.corpus_max_chars", 12000)
	v.SetDefault("generation.max_tokens", 4000)
	v.SetDefault("generation.temperature", 0.7)
	v.SetDefault("generation.timeout_secs", 60)
	v.SetDefault("generation.requests_per_min", 30)
	v.SetDefault("extract.provider", "local")
	v.SetDefault("extract.pdftotext_path", "pdftotext")
	v.SetDefault("extract.ocr_model", "pixtral-large-latest")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration is sufficient for generation.
func (c *Config) Validate() error {
	if c.OpenAI.Key == "" && c.Anthropic.Key == "" {
		return eris.New("config: at least one of openai.key or anthropic.key is required")
	}
	switch c.Generation.Provider {
	case "openai", "anthropic":
	default:
		return eris.Errorf("config: unknown generation provider %q", c.Generation.Provider)
	}
	return nil
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

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
