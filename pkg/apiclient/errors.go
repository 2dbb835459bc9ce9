package apiclient

import (
	"encoding/json"
	"fmt"
)

// Error carries the server's response envelope for a non-2xx response.
// The envelope's Data is left raw because concrete clients decide per
// endpoint whether an error body carries a typed payload.
type Error struct {
	Envelope Envelope[json.RawMessage]
}

func (e *Error) Error() string {
	env := e.Envelope
	if env.Status != "" {
		return fmt.Sprintf("api %d (%s): %s", env.StatusCode, env.Status, env.Message)
	}
	return fmt.Sprintf("api %d: %s", env.StatusCode, env.Message)
}
