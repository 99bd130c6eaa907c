package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/gptchat/pkg/chats/message"
	"github.com/germanamz/gptchat/pkg/transcript"
)

// chatViewModel prints committed messages to the terminal scrollback via
// tea.Println and renders only the live spinner itself.
type chatViewModel struct {
	processing    bool
	spinnerIdx    int
	processingMsg string
}

func newChatView() chatViewModel {
	return chatViewModel{}
}

func (m chatViewModel) View() string {
	if !m.processing {
		return ""
	}

	frame := spinnerFrames[m.spinnerIdx%len(spinnerFrames)]
	return fmt.Sprintf("  %s %s\n", spinnerStyle.Render(frame), spinnerStyle.Render(m.processingMsg))
}

// addMessage returns the scrollback command for msg. User messages are
// printed when their submit starts, so only assistant replies print here.
func (m *chatViewModel) addMessage(msg message.Message, assistantName string) tea.Cmd {
	if msg.IsUser() {
		return nil
	}
	return tea.Println(renderAssistantMessage(assistantName, msg.Content) + "\n")
}

func (m *chatViewModel) setProcessing(on bool) {
	m.processing = on
	if on {
		m.spinnerIdx = 0
		m.processingMsg = randomThinkingMessage()
	}
}

func (m *chatViewModel) advanceSpinner() {
	m.spinnerIdx++
}

// renderUserMessage formats a user message for the terminal scrollback,
// indenting continuation lines to align with the first line.
func renderUserMessage(text string) string {
	prefix := userPrefixStyle.Render(transcript.UserLabel + " > ")
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return userBlockStyle.Render(prefix + text)
	}
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(lines[0])
	for _, line := range lines[1:] {
		sb.WriteString("\n  ")
		sb.WriteString(line)
	}
	return userBlockStyle.Render(sb.String())
}

// renderAssistantMessage labels a reply with the model's display name and
// renders its body as markdown.
func renderAssistantMessage(name, text string) string {
	prefix := answerPrefixStyle.Render(name + " >")
	return answerBlockStyle.Render(prefix + "\n" + renderMarkdown(text))
}
