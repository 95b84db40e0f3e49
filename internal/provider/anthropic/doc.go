// Package anthropic adapts the Anthropic Messages API to [toolchat.ChatProvider].
//
// System messages become the request's system blocks, tool results are sent
// as user messages holding tool_result blocks and SDK errors are categorized
// for the retry layer. The SDK's own retries are disabled.
package anthropic
