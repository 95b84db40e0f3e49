package google

import (
	"errors"
	"fmt"

	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/internal/provider"
	"google.golang.org/genai"
)

// wrapError categorizes a GenAI error by status code.
// genai.APIError carries no headers, so Retry-After is unavailable.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return provider.WrapStatus(err, apiErr.Code, 0)
}

// BlockedError indicates the prompt was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked: %s", e.Reason)
}

func blocked(resp *genai.GenerateContentResponse) error {
	if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return ai.NewUserInputError("google: prompt blocked", 0, &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)})
	}
	return nil
}
