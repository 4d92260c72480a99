package llm

import (
	"context"
)

// Message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Format is the response format requested from the service.
type Format int

const (
	// FormatText requests free-form text.
	FormatText Format = iota
	// FormatJSON requests a single JSON object.
	FormatJSON
)

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single-turn completion request.
type Request struct {
	// System is the instruction message.
	System string

	// User is the user message.
	User string

	// Format selects free text or a JSON object.
	Format Format
}

// Messages returns the request as chat messages.
func (r Request) Messages() []Message {
	msgs := make([]Message, 0, 2)
	if r.System != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: r.System})
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: r.User})
	return msgs
}

// Client sends completion requests to a text-generation service.
// Implementations must be safe for concurrent use.
type Client interface {
	// Complete returns the content of the first choice.
	Complete(ctx context.Context, req Request) (string, error)
}
