// Package model provides chat model constants for the supported providers.
//
// Each [ChatModel] knows its provider and pricing, which the assistant uses to
// report an estimated session cost:
//
//	m := model.DefaultFor(ai.ProviderAnthropic)
//	fmt.Printf("%s: $%.4f\n", m, m.Cost(usage))
//
// Unknown identifiers passed through configuration are still usable;
// [Lookup] reports whether pricing is known for them.
package model
