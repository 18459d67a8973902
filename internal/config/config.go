// Package config loads application configuration from file, environment and
// defaults, in that order of increasing precedence for env overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LLMConfig configures the completion client.
type LLMConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// ToolsConfig carries research API credentials.
type ToolsConfig struct {
	TavilyAPIKey     string `mapstructure:"tavily_api_key"`
	PerplexityAPIKey string `mapstructure:"perplexity_api_key"`
}

// TasksConfig bounds crew task execution.
type TasksConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// RoutingConfig controls router output handling.
type RoutingConfig struct {
	Strict bool `mapstructure:"strict"`
}

// JobsConfig bounds background job execution.
type JobsConfig struct {
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ListingsConfig locates the listings data source.
type ListingsConfig struct {
	CSV string `mapstructure:"csv"`
}

// Config is the full application configuration.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Tools    ToolsConfig    `mapstructure:"tools"`
	Tasks    TasksConfig    `mapstructure:"tasks"`
	Routing  RoutingConfig  `mapstructure:"routing"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Server   ServerConfig   `mapstructure:"server"`
	Listings ListingsConfig `mapstructure:"listings"`
}

// Addr returns the server listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration. A config file is optional; environment variables
// (CURA_ prefix, dots become underscores) override file values, and the
// conventional provider env vars are honored for credentials.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("llm.api_key", "CURA_LLM_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("tools.tavily_api_key", "CURA_TOOLS_TAVILY_API_KEY", "TAVILY_API_KEY")
	_ = v.BindEnv("tools.perplexity_api_key", "CURA_TOOLS_PERPLEXITY_API_KEY", "PERPLEXITY_API_KEY")
	_ = v.BindEnv("routing.strict", "CURA_STRICT_ROUTING", "CURA_ROUTING_STRICT")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("cura")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("tasks.timeout", "5m")
	v.SetDefault("routing.strict", false)
	v.SetDefault("jobs.max_concurrent", 4)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
}
