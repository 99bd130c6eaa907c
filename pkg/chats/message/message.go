// Package message defines the Message type used in LLM conversations.
package message

import "github.com/germanamz/gptchat/pkg/chats/role"

// Message represents a single message in a conversation.
// It is a value type that copies cheaply and is never modified once it has
// been appended to a chat.
type Message struct {
	Role    role.Role
	Content string
}

// New creates a message with the given role and text content.
func New(r role.Role, content string) Message {
	return Message{Role: r, Content: content}
}

// User creates a user message.
func User(content string) Message {
	return New(role.User, content)
}

// Assistant creates an assistant message.
func Assistant(content string) Message {
	return New(role.Assistant, content)
}

// IsUser reports whether the message was sent by the user.
func (m Message) IsUser() bool {
	return m.Role == role.User
}
