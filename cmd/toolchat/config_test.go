package main

import (
	"log/slog"
	"testing"
	"time"

	ai "github.com/spetersoncode/toolchat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"TOOLCHAT_PROVIDER", "TOOLCHAT_MODEL", "TOOLCHAT_BASE_URL", "TOOLCHAT_LOG_LEVEL",
		"TOOLCHAT_TEMPERATURE", "TOOLCHAT_MAX_TOKENS", "TOOLCHAT_MAX_STEPS", "TOOLCHAT_TIMEOUT",
		"TOOLCHAT_VERBOSE", "TOOLCHAT_HISTORY", "TOOLCHAT_MCP_COMMAND",
		"TOOLCHAT_SESSION_DIR", "TOOLCHAT_SESSION",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GOOGLE_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, ai.ProviderAnthropic, cfg.Provider)
		assert.Equal(t, "sk-ant", cfg.APIKey())
		assert.Equal(t, 0.1, cfg.Temperature)
		assert.Equal(t, 1000, cfg.MaxTokens)
		assert.Equal(t, 10, cfg.MaxSteps)
		assert.Equal(t, 2*time.Minute, cfg.Timeout)
		assert.True(t, cfg.Verbose)
		assert.False(t, cfg.History)
		assert.Empty(t, cfg.SessionDir)
		assert.Equal(t, "default", cfg.Session)
		assert.Equal(t, slog.LevelWarn, cfg.Level())
	})

	t.Run("overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TOOLCHAT_PROVIDER", "OpenAI")
		t.Setenv("OPENAI_API_KEY", "sk-oai")
		t.Setenv("TOOLCHAT_TEMPERATURE", "0.7")
		t.Setenv("TOOLCHAT_TIMEOUT", "30s")
		t.Setenv("TOOLCHAT_VERBOSE", "false")
		t.Setenv("TOOLCHAT_LOG_LEVEL", "debug")
		t.Setenv("TOOLCHAT_MAX_TOKENS", "not-a-number")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, ai.ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "sk-oai", cfg.APIKey())
		assert.Equal(t, 0.7, cfg.Temperature)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.False(t, cfg.Verbose)
		assert.Equal(t, slog.LevelDebug, cfg.Level())
		assert.Equal(t, 1000, cfg.MaxTokens)
	})

	t.Run("missing key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TOOLCHAT_PROVIDER", "google")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Equal(t, "GOOGLE_API_KEY is required for google provider", err.Error())
	})

	t.Run("unknown provider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TOOLCHAT_PROVIDER", "mistral")
		t.Setenv("ANTHROPIC_API_KEY", "x")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "unknown provider")
	})
}

func TestConfig_MCPArgs(t *testing.T) {
	cfg := &Config{MCPCommand: "  toolchat-mcp --verbose "}
	command, args := cfg.MCPArgs()
	assert.Equal(t, "toolchat-mcp", command)
	assert.Equal(t, []string{"--verbose"}, args)

	command, args = (&Config{}).MCPArgs()
	assert.Empty(t, command)
	assert.Nil(t, args)
}
