package tool

import (
	"encoding/json"

	ai "github.com/spetersoncode/toolchat"
)

// SchemaFor generates a JSON schema from the struct tags of T.
// It re-exports toolchat.SchemaFor for callers that only import tool.
func SchemaFor[T any]() (json.RawMessage, error) {
	return ai.SchemaFor[T]()
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	return ai.MustSchemaFor[T]()
}
