// Package transcript renders a conversation as a flat "Label: text" transcript
// suitable for download.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/germanamz/gptchat/pkg/chats/chat"
	"github.com/germanamz/gptchat/pkg/chats/message"
)

const (
	// UserLabel prefixes every user message.
	UserLabel = "You"

	// FileName is the name transcripts are saved under.
	FileName = "conversation.txt"

	// MIMEType is the content type of an exported transcript.
	MIMEType = "text/plain"
)

// Export writes one "<Label>: <content>\n" line per message. User messages are
// labelled UserLabel; every other message gets assistantName, whichever model
// actually produced it.
func Export(c *chat.Chat, assistantName string) string {
	if c == nil {
		return ""
	}

	var sb strings.Builder
	c.Each(func(_ int, m message.Message) bool {
		sb.WriteString(Label(m, assistantName))
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteByte('\n')
		return true
	})

	return sb.String()
}

// Label returns the transcript label for m.
func Label(m message.Message, assistantName string) string {
	if m.IsUser() {
		return UserLabel
	}
	return assistantName
}

// Save writes text to FileName inside dir and returns the file path. An empty
// dir means the working directory.
func Save(dir, text string) (string, error) {
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("transcript: create dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", fmt.Errorf("transcript: write: %w", err)
	}

	return path, nil
}
