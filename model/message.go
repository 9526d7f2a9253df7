package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles used throughout the conversation layer. Transports translate these
// into their own vocabulary ("assistant" upstream) when building history.
const (
	RoleUser      = "user"
	RoleAssistant = "model"
	RoleSystem    = "system"
)

// Message represents a chat message in a conversation. Content grows in
// place while the owning reply is still streaming and is immutable after
// the stream completes or fails.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	IsError   bool      `json:"isError,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(role, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewErrorMessage creates an error-flagged assistant message. The UI renders
// these distinctly and transports filter them out of upstream history.
func NewErrorMessage(content string) Message {
	m := NewMessage(RoleAssistant, content)
	m.IsError = true
	return m
}
