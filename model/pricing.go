package model

import ai "github.com/spetersoncode/toolchat"

// ChatPricing contains pricing per million tokens (USD) for chat models.
type ChatPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Known reports whether any pricing is set.
func (p ChatPricing) Known() bool {
	return p.InputPerMillion > 0 || p.OutputPerMillion > 0
}

// CalculateCost returns the USD cost of usage at the given pricing.
func CalculateCost(usage ai.Usage, pricing ChatPricing) float64 {
	return float64(usage.InputTokens)/1_000_000*pricing.InputPerMillion +
		float64(usage.OutputTokens)/1_000_000*pricing.OutputPerMillion
}
