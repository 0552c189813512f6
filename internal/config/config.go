// Package config loads application configuration from file and environment.
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
	Snapshots SnapshotConfig `yaml:"snapshots" mapstructure:"snapshots"`
	Cache     CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Ollama    OllamaConfig   `yaml:"ollama" mapstructure:"ollama"`
	Local     LocalConfig    `yaml:"local" mapstructure:"local"`
	Extract   ExtractConfig  `yaml:"extract" mapstructure:"extract"`
	Batch     BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig   `yaml:"server" mapstructure:"server"`
	Log       LogConfig      `yaml:"log" mapstructure:"log"`
}

// SnapshotConfig locates the offline website snapshots.
type SnapshotConfig struct {
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// CacheConfig configures the profile cache backend.
type CacheConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// OllamaConfig holds the primary LLM provider settings.
type OllamaConfig struct {
	BaseURL          string  `yaml:"base_url" mapstructure:"base_url"`
	Model            string  `yaml:"model" mapstructure:"model"`
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ProbeTimeoutSecs int     `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
	MaxTokens        int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSec   float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// LocalConfig holds the fallback local model settings. The model is loaded
// lazily on first real extraction call, never during availability probes.
type LocalConfig struct {
	ModelPath     string `yaml:"model_path" mapstructure:"model_path"`
	TokenizerPath string `yaml:"tokenizer_path" mapstructure:"tokenizer_path"`
	LibraryPath   string `yaml:"library_path" mapstructure:"library_path"`
	ModelName     string `yaml:"model_name" mapstructure:"model_name"`
	MaxTokens     int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ExtractConfig configures the tiered extraction pipeline.
type ExtractConfig struct {
	MaxPromptChars int `yaml:"max_prompt_chars" mapstructure:"max_prompt_chars"`
	LLMRetries     int `yaml:"llm_retries" mapstructure:"llm_retries"`
}

// BatchConfig configures the batch driver.
type BatchConfig struct {
	MaxConcurrentDomains int `yaml:"max_concurrent_domains" mapstructure:"max_concurrent_domains"`
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

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("snapshots.data_dir", "data")
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.sqlite_path", "data/profiles.db")
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.1")
	v.SetDefault("ollama.timeout_secs", 180)
	v.SetDefault("ollama.probe_timeout_secs", 10)
	v.SetDefault("ollama.max_tokens", 1200)
	v.SetDefault("ollama.requests_per_sec", 2.0)
	v.SetDefault("local.model_name", "phi-2")
	v.SetDefault("local.max_tokens", 1200)
	v.SetDefault("extract.max_prompt_chars", 2500)
	v.SetDefault("extract.llm_retries", 1)
	v.SetDefault("batch.max_concurrent_domains", 4)
	v.SetDefault("server.port", 8000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
