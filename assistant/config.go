package assistant

import (
	"io"
	"time"

	ai "github.com/spetersoncode/toolchat"
)

// DefaultSystemPrompt steers the model towards the registered tools.
const DefaultSystemPrompt = `You are a helpful assistant with access to tools.
Use the calculator tool for any arithmetic and the city_info tool for facts about cities.
Answer in the same language as the question.`

// Config holds the settings of an Assistant.
type Config struct {
	// Provider is used to look up model pricing for Cost.
	Provider ai.Provider
	// Model overrides the client's default model when set.
	Model       string
	Temperature float64
	MaxTokens   int
	MaxSteps    int
	// Timeout bounds a single question. Zero means no limit.
	Timeout      time.Duration
	SystemPrompt string
	// History carries earlier questions and answers into later turns.
	History bool
	// Verbose prints the tool trace of every run to Output.
	Verbose bool
	// Output receives the verbose trace. Defaults to os.Stdout.
	Output io.Writer
}

// DefaultConfig returns the configuration of the demo agent.
func DefaultConfig() Config {
	return Config{
		Provider:     ai.ProviderAnthropic,
		Temperature:  0.1,
		MaxTokens:    1000,
		MaxSteps:     10,
		SystemPrompt: DefaultSystemPrompt,
		Verbose:      true,
	}
}
