package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type TransportConfig struct {
	Type string `mapstructure:"type"` // "stdio" or "sse"
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// BridgeConfig locates the Python interpreter and the bridge script that
// talks to the Resolve scripting API.
type BridgeConfig struct {
	PythonPath string        `mapstructure:"python_path"`
	ScriptPath string        `mapstructure:"script_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// LLMConfig selects the provider used to translate natural language
// requests into execution plans.
type LLMConfig struct {
	Provider  string `mapstructure:"provider"` // anthropic, openai, openrouter, lmstudio, custom
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// ModelName returns the configured model, falling back to a provider default.
func (c LLMConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case "anthropic":
		return "claude-sonnet-4-20250514"
	case "openrouter":
		return "anthropic/claude-sonnet-4-20250514"
	default:
		return "gpt-4o"
	}
}

// ResolveAPIKey returns the configured key, falling back to the
// provider-specific environment variable. Local providers (lmstudio,
// custom) work without a key.
func (c LLMConfig) ResolveAPIKey() (string, error) {
	if c.APIKey != "" {
		return c.APIKey, nil
	}
	envVar := c.apiKeyEnvVar()
	if envVar != "" {
		if key := os.Getenv(envVar); key != "" {
			return key, nil
		}
	}
	if c.Provider == "lmstudio" || c.Provider == "custom" {
		return "", nil
	}
	if envVar == "" {
		return "", fmt.Errorf("no API key configured for provider %q", c.Provider)
	}
	return "", fmt.Errorf("no API key configured: set %s or llm.api_key", envVar)
}

func (c LLMConfig) apiKeyEnvVar() string {
	switch c.Provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	}
	return ""
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	Transport TransportConfig `mapstructure:"transport"`
	LogLevel  string          `mapstructure:"log_level"`
	LogFormat string          `mapstructure:"log_format"`
	Bridge    BridgeConfig    `mapstructure:"bridge"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Transport: TransportConfig{
			Type: "stdio",
			Host: "localhost",
			Port: 8080,
		},
		LogLevel:  "info",
		LogFormat: "json",
		Bridge: BridgeConfig{
			PythonPath: "python3",
			ScriptPath: "python/resolve_bridge.py",
			Timeout:    120 * time.Second,
		},
		LLM: LLMConfig{
			Provider:  "anthropic",
			MaxTokens: 4096,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Second,
		},
	}
}

func LoadConfig() (*ServerConfig, error) {
	config := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/resolve-mcp/")
	viper.AddConfigPath("$HOME/.resolve-mcp/")

	viper.SetEnvPrefix("RESOLVE_MCP")
	viper.AutomaticEnv()

	viper.SetDefault("transport.type", config.Transport.Type)
	viper.SetDefault("transport.host", config.Transport.Host)
	viper.SetDefault("transport.port", config.Transport.Port)
	viper.SetDefault("log_level", config.LogLevel)
	viper.SetDefault("log_format", config.LogFormat)

	viper.SetDefault("bridge.python_path", config.Bridge.PythonPath)
	viper.SetDefault("bridge.script_path", config.Bridge.ScriptPath)
	viper.SetDefault("bridge.timeout", config.Bridge.Timeout)

	viper.SetDefault("llm.provider", config.LLM.Provider)
	viper.SetDefault("llm.model", config.LLM.Model)
	viper.SetDefault("llm.base_url", config.LLM.BaseURL)
	viper.SetDefault("llm.max_tokens", config.LLM.MaxTokens)

	viper.SetDefault("cache.enabled", config.Cache.Enabled)
	viper.SetDefault("cache.ttl", config.Cache.TTL)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func validateConfig(config *ServerConfig) error {
	switch config.Transport.Type {
	case "stdio", "sse":
	default:
		return fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}

	if config.Transport.Type == "sse" {
		if config.Transport.Port <= 0 || config.Transport.Port > 65535 {
			return fmt.Errorf("the transport port must be between 1 and 65535")
		}
	}

	if config.Bridge.PythonPath == "" {
		return fmt.Errorf("the bridge python path cannot be empty")
	}

	if config.Bridge.ScriptPath == "" {
		return fmt.Errorf("the bridge script path cannot be empty")
	}

	if config.Bridge.Timeout <= 0 {
		return fmt.Errorf("the bridge timeout must be positive")
	}

	validProviders := map[string]bool{
		"anthropic": true, "openai": true, "openrouter": true,
		"lmstudio": true, "custom": true,
	}
	if !validProviders[config.LLM.Provider] {
		return fmt.Errorf("invalid llm provider: %s", config.LLM.Provider)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	validLogFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validLogFormats[config.LogFormat] {
		return fmt.Errorf("invalid log format: %s", config.LogFormat)
	}

	return nil
}
