package anthropic

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spetersoncode/toolchat/internal/provider"
)

// wrapError categorizes an Anthropic SDK error by status code.
// Errors without a status (network failures) are returned unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return provider.WrapStatus(err, apiErr.StatusCode, provider.ParseRetryAfter(apiErr.Response))
}
