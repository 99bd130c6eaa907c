// Package chat provides an append-only conversation container for LLM
// interactions.
package chat

import (
	"github.com/germanamz/gptchat/pkg/chats/message"
	"github.com/germanamz/gptchat/pkg/chats/role"
)

// Chat is an ordered conversation. Messages are only ever appended; the whole
// conversation can be cleared with Reset. The zero value is ready to use.
// Chat is not safe for concurrent use; callers must synchronize externally.
type Chat struct {
	messages []message.Message
}

// New creates a Chat pre-populated with the given messages.
func New(msgs ...message.Message) *Chat {
	return &Chat{messages: msgs}
}

// Append adds one or more messages to the conversation.
func (c *Chat) Append(msgs ...message.Message) {
	c.messages = append(c.messages, msgs...)
}

// Len returns the number of messages in the conversation.
func (c *Chat) Len() int {
	return len(c.messages)
}

// At returns the message at the given index.
// It panics if the index is out of range.
func (c *Chat) At(index int) message.Message {
	return c.messages[index]
}

// Last returns the most recent message and true, or a zero Message and false
// if the conversation is empty.
func (c *Chat) Last() (message.Message, bool) {
	if len(c.messages) == 0 {
		return message.Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Messages returns a copy of all messages in the conversation.
func (c *Chat) Messages() []message.Message {
	cp := make([]message.Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}

// Since returns a copy of the messages appended at or after index. An index
// past the end yields an empty slice.
func (c *Chat) Since(index int) []message.Message {
	if index < 0 {
		index = 0
	}
	if index >= len(c.messages) {
		return nil
	}
	cp := make([]message.Message, len(c.messages)-index)
	copy(cp, c.messages[index:])
	return cp
}

// Each iterates over messages, calling fn for each one. If fn returns false,
// iteration stops early.
func (c *Chat) Each(fn func(int, message.Message) bool) {
	for i, m := range c.messages {
		if !fn(i, m) {
			return
		}
	}
}

// Reset drops every message.
func (c *Chat) Reset() {
	c.messages = nil
}

// Alternates reports whether roles strictly alternate starting with a user
// message. Nothing enforces this; it is only a health check.
func (c *Chat) Alternates() bool {
	for i, m := range c.messages {
		want := role.User
		if i%2 == 1 {
			want = role.Assistant
		}
		if m.Role != want {
			return false
		}
	}
	return true
}
