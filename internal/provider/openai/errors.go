package openai

import (
	"errors"

	"github.com/openai/openai-go"
	"github.com/spetersoncode/toolchat/internal/provider"
)

// wrapError categorizes an OpenAI SDK error by status code.
// Errors without a status (network failures) are returned unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return provider.WrapStatus(err, apiErr.StatusCode, provider.ParseRetryAfter(apiErr.Response))
}
