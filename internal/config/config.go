package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Sweep   SweepConfig   `mapstructure:"sweep"`
	Seed    SeedConfig    `mapstructure:"seed"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File enables a rotating log sink when set, e.g. "./logs/practice-api.%Y%m%d.log"
	File string `mapstructure:"file"`
}

type LLMConfig struct {
	DefaultProvider string        `mapstructure:"default_provider"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	Gemini          GeminiConfig  `mapstructure:"gemini"`
	OpenAI          OpenAIConfig  `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// CacheConfig controls the optional Redis cache for generated insight text.
// The service runs fully without it; the cache only saves repeat gateway calls.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SweepConfig controls the background pass that marks past-due scheduled
// sessions as missed
type SweepConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// SeedConfig controls how the in-memory store is populated at startup
type SeedConfig struct {
	// Mode is "fixed" (the demo roster) or "generated" (synthetic data)
	Mode     string `mapstructure:"mode"`
	Patients int    `mapstructure:"patients"`
	Sessions int    `mapstructure:"sessions"`
	// RandomSeed makes generated rosters reproducible; 0 means time-based
	RandomSeed uint64 `mapstructure:"random_seed"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.middleware_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// LLM
	v.SetDefault("llm.default_provider", "gemini")
	v.SetDefault("llm.request_timeout", "30s")
	v.SetDefault("llm.gemini.model", "gemini-2.5-flash")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")

	// Cache
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "10m")

	// Sweep
	v.SetDefault("sweep.enabled", true)
	v.SetDefault("sweep.interval", "1m")

	// Seed
	v.SetDefault("seed.mode", "fixed")
	v.SetDefault("seed.patients", 12)
	v.SetDefault("seed.sessions", 40)
}

func bindEnvVars(v *viper.Viper) {
	// LLM API keys
	v.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("llm.openai.api_key", "OPENAI_API_KEY")

	// Cache
	v.BindEnv("cache.password", "REDIS_PASSWORD")
}
