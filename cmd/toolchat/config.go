package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	ai "github.com/spetersoncode/toolchat"
)

// Config holds the console configuration loaded from environment variables.
type Config struct {
	LogLevel string // debug, info, warn, error

	// Provider selection
	Provider ai.Provider
	Model    string
	BaseURL  string

	// API keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string

	// Agent config
	Temperature float64
	MaxTokens   int
	MaxSteps    int
	Timeout     time.Duration
	Verbose     bool
	History     bool

	// SessionDir enables persisted history, one JSON file per session.
	SessionDir string
	Session    string

	// MCPCommand launches an MCP server whose tools are added to the agent.
	MCPCommand string
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		LogLevel:     getEnvOrDefault("TOOLCHAT_LOG_LEVEL", "warn"),
		Provider:     ai.Provider(strings.ToLower(getEnvOrDefault("TOOLCHAT_PROVIDER", string(ai.ProviderAnthropic)))),
		Model:        os.Getenv("TOOLCHAT_MODEL"),
		BaseURL:      os.Getenv("TOOLCHAT_BASE_URL"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		GoogleKey:    os.Getenv("GOOGLE_API_KEY"),
		Temperature:  getEnvFloatOrDefault("TOOLCHAT_TEMPERATURE", 0.1),
		MaxTokens:    getEnvIntOrDefault("TOOLCHAT_MAX_TOKENS", 1000),
		MaxSteps:     getEnvIntOrDefault("TOOLCHAT_MAX_STEPS", 10),
		Timeout:      getEnvDurationOrDefault("TOOLCHAT_TIMEOUT", 2*time.Minute),
		Verbose:      getEnvBoolOrDefault("TOOLCHAT_VERBOSE", true),
		History:      getEnvBoolOrDefault("TOOLCHAT_HISTORY", false),
		SessionDir:   os.Getenv("TOOLCHAT_SESSION_DIR"),
		Session:      getEnvOrDefault("TOOLCHAT_SESSION", "default"),
		MCPCommand:   os.Getenv("TOOLCHAT_MCP_COMMAND"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the provider is known and its API key is present.
func (c *Config) Validate() error {
	p, err := ai.ParseProvider(string(c.Provider))
	if err != nil {
		return err
	}
	c.Provider = p

	if c.APIKey() == "" {
		return fmt.Errorf("%s is required for %s provider", keyVar(p), p)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("TOOLCHAT_MAX_STEPS must be positive, got %d", c.MaxSteps)
	}
	return nil
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ai.ProviderOpenAI:
		return c.OpenAIKey
	case ai.ProviderGoogle:
		return c.GoogleKey
	default:
		return c.AnthropicKey
	}
}

// Level parses LogLevel, falling back to warn.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// MCPArgs splits MCPCommand into a program and its arguments.
func (c *Config) MCPArgs() (string, []string) {
	fields := strings.Fields(c.MCPCommand)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

func keyVar(p ai.Provider) string {
	switch p {
	case ai.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ai.ProviderGoogle:
		return "GOOGLE_API_KEY"
	default:
		return "ANTHROPIC_API_KEY"
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
