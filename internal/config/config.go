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
	Snippets  SnippetsConfig  `yaml:"snippets" mapstructure:"snippets"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Retrieval RetrievalConfig `yaml:"retrieval" mapstructure:"retrieval"`
	Podcast   PodcastConfig   `yaml:"podcast" mapstructure:"podcast"`
	Speech    SpeechConfig    `yaml:"speech" mapstructure:"speech"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SnippetsConfig configures the snippet store backend.
type SnippetsConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// CacheConfig configures the on-disk answer cache.
type CacheConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
}

// RetrievalConfig configures snippet retrieval defaults.
type RetrievalConfig struct {
	Namespace   string `yaml:"namespace" mapstructure:"namespace"`
	TopK        int    `yaml:"top_k" mapstructure:"top_k"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries     int    `yaml:"retries" mapstructure:"retries"`
}

// PodcastConfig configures podcast generation and rendering.
type PodcastConfig struct {
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
	AudioFormat string `yaml:"audio_format" mapstructure:"audio_format"`
}

// SpeechConfig holds text-to-speech API settings.
type SpeechConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	Voice             string  `yaml:"voice" mapstructure:"voice"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
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
	v.SetEnvPrefix("STUDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("snippets.driver", "sqlite")
	v.SetDefault("snippets.path", "study.db")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("cache.dir", ".study-cache")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("retrieval.namespace", "pagelm")
	v.SetDefault("retrieval.top_k", 6)
	v.SetDefault("retrieval.timeout_secs", 8)
	v.SetDefault("retrieval.retries", 1)
	v.SetDefault("podcast.output_dir", "podcasts")
	v.SetDefault("podcast.audio_format", "mp3")
	v.SetDefault("speech.voice", "alloy")
	v.SetDefault("speech.requests_per_second", 2.0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the fields a given mode of operation needs. Modes are
// "ask", "podcast", and "serve".
func (c *Config) Validate(mode string) error {
	var missing []string

	requireSnippets := func() {
		switch c.Snippets.Driver {
		case "sqlite":
			if c.Snippets.Path == "" {
				missing = append(missing, "snippets.path is required for the sqlite driver")
			}
		case "postgres":
			if c.Snippets.DatabaseURL == "" {
				missing = append(missing, "snippets.database_url is required for the postgres driver")
			}
		default:
			missing = append(missing, "snippets.driver must be sqlite or postgres")
		}
	}

	switch mode {
	case "ask":
		requireSnippets()
		if c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key is required")
		}
	case "podcast":
		if c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key is required")
		}
	case "serve":
		requireSnippets()
		if c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key is required")
		}
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Retrieval.TopK < 0 {
		missing = append(missing, "retrieval.top_k must be >= 0")
	}
	if c.Speech.RequestsPerSecond < 0 {
		missing = append(missing, "speech.requests_per_second must be >= 0")
	}

	if len(missing) > 0 {
		return eris.Errorf("config: %s", strings.Join(missing, "; "))
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
