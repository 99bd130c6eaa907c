package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/gptchat/pkg/engine"
)

var (
	keyBorder     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("3"))
	keyTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
)

// keyPromptModel asks for the API key with a masked input.
type keyPromptModel struct {
	input textinput.Model
	width int
}

func newKeyPrompt(width int) keyPromptModel {
	ti := textinput.New()
	ti.Placeholder = "sk-..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Prompt = ""
	ti.Focus()

	return keyPromptModel{input: ti, width: width}
}

// Update returns keyEnteredMsg on Enter. Esc cancels with an empty key, which
// leaves the session credential untouched.
func (m keyPromptModel) Update(msg tea.Msg) (keyPromptModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type { //nolint:exhaustive // only submit and cancel are handled here
		case tea.KeyEnter:
			key := engine.Credential(strings.TrimSpace(m.input.Value()))
			m.input.Reset()
			return m, func() tea.Msg { return keyEnteredMsg{key: key} }
		case tea.KeyEsc:
			m.input.Reset()
			return m, func() tea.Msg { return keyEnteredMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m keyPromptModel) View() string {
	innerWidth := max(m.width-4, 10)
	body := keyTitleStyle.Render("OpenAI API key") + "\n" +
		m.input.View() + "\n" +
		dimStyle.Render("Enter to confirm · Esc to cancel · kept in memory only")

	return keyBorder.Width(innerWidth).Render(body)
}
