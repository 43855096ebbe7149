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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	GenAI    GenAIConfig    `yaml:"genai" mapstructure:"genai"`
	Unsplash UnsplashConfig `yaml:"unsplash" mapstructure:"unsplash"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// GenAIConfig selects and configures the generative text provider.
type GenAIConfig struct {
	Provider       string  `yaml:"provider" mapstructure:"provider"`
	GeminiKey      string  `yaml:"gemini_key" mapstructure:"gemini_key"`
	GeminiModel    string  `yaml:"gemini_model" mapstructure:"gemini_model"`
	AnthropicKey   string  `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	AnthropicModel string  `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// UnsplashConfig holds the photo search credentials. An empty access key
// disables image enrichment.
type UnsplashConfig struct {
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
}

// PipelineConfig tunes the cache-population flow.
type PipelineConfig struct {
	EnrichConcurrency int    `yaml:"enrich_concurrency" mapstructure:"enrich_concurrency"`
	DefaultState      string `yaml:"default_state" mapstructure:"default_state"`
}

// ServerConfig configures the HTTP API.
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
	v.SetEnvPrefix("TOURDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("genai.provider", "gemini")
	v.SetDefault("genai.gemini_model", "gemini-2.0-flash")
	v.SetDefault("genai.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("genai.requests_per_sec", 2.0)
	v.SetDefault("pipeline.enrich_concurrency", 4)
	v.SetDefault("pipeline.default_state", "Jharkhand")

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

// Validate checks the settings the pipeline cannot run without. These are
// the only errors that abort instead of degrading.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.database_url is required for the postgres driver")
		}
	case "sqlite":
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.database_url is required for the sqlite driver")
		}
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}

	switch c.GenAI.Provider {
	case "gemini":
		if c.GenAI.GeminiKey == "" {
			return eris.New("config: genai.gemini_key is required for the gemini provider")
		}
	case "anthropic":
		if c.GenAI.AnthropicKey == "" {
			return eris.New("config: genai.anthropic_key is required for the anthropic provider")
		}
	default:
		return eris.Errorf("config: unknown genai provider %q", c.GenAI.Provider)
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
