package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the research assistant
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Research  ResearchConfig  `mapstructure:"research"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func (s ServerConfig) Validate() error {
	if strings.TrimSpace(s.Address) == "" {
		return fmt.Errorf("server.address required")
	}
	return nil
}

// LLMConfig contains language-model provider settings
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // openai, anthropic, gemini
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SearchConfig contains web search provider settings
type SearchConfig struct {
	Provider    string        `mapstructure:"provider"` // serper, brave
	APIKey      string        `mapstructure:"api_key"`
	ResultCount int           `mapstructure:"result_count"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	BackoffUnit time.Duration `mapstructure:"backoff_unit"`
}

// ResearchConfig bounds the reasoning loop
type ResearchConfig struct {
	MaxRounds       int `mapstructure:"max_rounds"`
	MaxConsecutive  int `mapstructure:"max_consecutive_failures"`
	SynthesisLimit  int `mapstructure:"synthesis_analysis_limit"`
	HistoryMessages int `mapstructure:"history_messages"`
}

// StorageConfig selects the chat repository backend
type StorageConfig struct {
	Backend string      `mapstructure:"backend"` // inmemory, redis
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// TelemetryConfig contains metrics settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if c.Storage.Backend == "redis" {
		if err := c.Storage.Redis.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig loads config from file, with SCOUT_* environment overrides
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("server.address", ":10002")
	viper.SetDefault("server.request_timeout", 3*time.Minute)
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.4)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.timeout", 60*time.Second)
	viper.SetDefault("search.provider", "serper")
	viper.SetDefault("search.result_count", 5)
	viper.SetDefault("search.timeout", 20*time.Second)
	viper.SetDefault("search.max_attempts", 3)
	viper.SetDefault("search.backoff_unit", 2*time.Second)
	viper.SetDefault("research.max_rounds", 2)
	viper.SetDefault("research.max_consecutive_failures", 2)
	viper.SetDefault("research.synthesis_analysis_limit", 2)
	viper.SetDefault("research.history_messages", 6)
	viper.SetDefault("storage.backend", "inmemory")
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("SCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// config file is optional; env and defaults are enough to boot
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	if config.LLM.APIKey == "" {
		config.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if config.Search.APIKey == "" {
		config.Search.APIKey = os.Getenv("SERPER_API_KEY")
	}
	if err := config.Validate(); err != nil {
		panic(err)
	}
	return &config
}
