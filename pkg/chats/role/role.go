// Package role defines the sender roles used in LLM conversations.
package role

// Role represents the sender of a message in a conversation.
type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case User, Assistant:
		return true
	}
	return false
}

// String returns the underlying string value of the role.
func (r Role) String() string {
	return string(r)
}

// Wire returns the role name sent to chat-completions APIs. Anything that is
// not User is sent as Assistant.
func (r Role) Wire() string {
	if r == User {
		return string(User)
	}
	return string(Assistant)
}
