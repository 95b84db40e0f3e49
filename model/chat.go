package model

import ai "github.com/spetersoncode/toolchat"

// ChatModel represents a chat model from any provider.
type ChatModel struct {
	id       string
	provider ai.Provider
	pricing  ChatPricing
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() ai.Provider { return m.provider }

// Pricing returns the pricing for this model.
func (m ChatModel) Pricing() ChatPricing { return m.pricing }

// Cost estimates the USD cost of the given usage.
func (m ChatModel) Cost(usage ai.Usage) float64 {
	return CalculateCost(usage, m.pricing)
}

// Anthropic Claude models
var (
	Claude37Sonnet = ChatModel{id: "claude-3-7-sonnet-latest", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}}
	Claude35Haiku  = ChatModel{id: "claude-3-5-haiku-latest", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 0.80, OutputPerMillion: 4.00}}
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 1.00, OutputPerMillion: 5.00}}
)

// OpenAI models
var (
	GPT4o     = ChatModel{id: "gpt-4o", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 2.50, OutputPerMillion: 10.00}}
	GPT4oMini = ChatModel{id: "gpt-4o-mini", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60}}
	GPT5Mini  = ChatModel{id: "gpt-5-mini", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.25, OutputPerMillion: 1.00}}
)

// Google Gemini models
var (
	Gemini25Pro   = ChatModel{id: "gemini-2.5-pro", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00}}
	Gemini25Flash = ChatModel{id: "gemini-2.5-flash", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60}}
)

var known = []ChatModel{
	Claude37Sonnet, Claude35Haiku, ClaudeSonnet45, ClaudeHaiku45,
	GPT4o, GPT4oMini, GPT5Mini,
	Gemini25Pro, Gemini25Flash,
}

// Known returns every model with known pricing.
func Known() []ChatModel {
	out := make([]ChatModel, len(known))
	copy(out, known)
	return out
}

// Lookup finds a known model by its API identifier.
func Lookup(id string) (ChatModel, bool) {
	for _, m := range known {
		if m.id == id {
			return m, true
		}
	}
	return ChatModel{}, false
}

// Custom describes a model that has no built-in pricing.
func Custom(id string, provider ai.Provider) ChatModel {
	return ChatModel{id: id, provider: provider}
}

// Resolve returns the known model for id, or a Custom model without pricing.
// An empty id resolves to the provider default.
func Resolve(id string, provider ai.Provider) ChatModel {
	if id == "" {
		return DefaultFor(provider)
	}
	if m, ok := Lookup(id); ok {
		return m
	}
	return Custom(id, provider)
}

// DefaultFor returns the default chat model for a provider.
func DefaultFor(p ai.Provider) ChatModel {
	switch p {
	case ai.ProviderOpenAI:
		return GPT4o
	case ai.ProviderGoogle:
		return Gemini25Flash
	default:
		return Claude37Sonnet
	}
}
