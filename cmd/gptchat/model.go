package main

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/gptchat/pkg/engine"
	"github.com/germanamz/gptchat/pkg/models"
	"github.com/germanamz/gptchat/pkg/transcript"
)

// wideLayout is the terminal width from which the sidebar sits next to the
// input instead of above it.
const wideLayout = 80

// appState represents the application state machine.
type appState int

const (
	stateIdle appState = iota
	stateProcessing
)

// appModel is the root bubbletea model.
type appModel struct {
	ctx          context.Context
	sess         *engine.Session
	events       *engine.EventBus
	models       *models.Registry
	exportDir    string
	chatView     chatViewModel
	inputBox     inputModel
	sidebar      sidebarModel
	keyPrompt    *keyPromptModel
	notice       *engine.Notice
	state        appState
	cancelBridge context.CancelFunc
	width        int
	height       int
	submitStart  time.Time
}

func newAppModel(ctx context.Context, eng *engine.Engine, sess *engine.Session) appModel {
	return appModel{
		ctx:       ctx,
		sess:      sess,
		events:    eng.Events(),
		models:    eng.Models(),
		exportDir: eng.Config().ExportDir,
		chatView:  newChatView(),
		inputBox:  newInput(),
		sidebar:   newSidebar(eng.Completer(), sess.Model()),
		state:     stateIdle,
	}
}

func (m appModel) Init() tea.Cmd {
	// Delay focusing the input so that stale terminal escape-sequence
	// responses are drained first.
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return initDrainMsg{}
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case initDrainMsg:
		cmd := m.inputBox.enable()
		return m, cmd

	case programReadyMsg:
		m.cancelBridge = startBridge(m.ctx, msg.program, m.sess, m.events)
		return m, nil

	case inputSubmitMsg:
		return m.handleSubmit(msg)

	case submitStartMsg:
		m.notice = nil
		return m, tea.Println(renderUserMessage(msg.text))

	case chatMessageMsg:
		m.sidebar.messages = m.sess.Len()
		return m, m.chatView.addMessage(msg.msg, m.sess.Model().DisplayName)

	case rejectedMsg:
		m.notice = msg.notice
		if msg.notice.Blocking() && m.keyPrompt == nil {
			m.openKeyPrompt()
		}
		return m, nil

	case submitCompleteMsg:
		m.state = stateIdle
		m.chatView.setProcessing(false)
		focusCmd := m.inputBox.enable()

		var n *engine.Notice
		switch {
		case msg.err == nil:
			m.sidebar.duration = msg.duration
		case errors.As(msg.err, &n):
			// Reported through rejectedMsg.
		case m.ctx.Err() == nil:
			return m, tea.Batch(focusCmd, printError(msg.err))
		}
		return m, focusCmd

	case keyEnteredMsg:
		m.keyPrompt = nil
		if !msg.key.Empty() {
			m.sess.SetCredential(msg.key)
			if m.notice != nil && errors.Is(m.notice, engine.ErrMissingCredential) {
				m.notice = nil
			}
		}
		if m.state == stateIdle {
			return m, m.inputBox.enable()
		}
		return m, nil

	case resetMsg:
		m.notice = nil
		m.sidebar.messages = 0
		m.sidebar.duration = 0
		return m, tea.Println(dimStyle.Render("Conversation cleared.") + "\n")

	case modelSelectedMsg:
		m.sidebar.model = m.sess.Model()
		return m, tea.Println(dimStyle.Render("Model: "+m.sidebar.model.DisplayName) + "\n")

	case tickMsg:
		if m.state == stateProcessing {
			m.chatView.advanceSpinner()
			return m, tickCmd()
		}
		return m, nil
	}

	// Delegate to the active sub-component.
	switch {
	case m.keyPrompt != nil:
		updated, cmd := m.keyPrompt.Update(msg)
		m.keyPrompt = &updated
		return m, cmd
	case m.state == stateIdle:
		var cmd tea.Cmd
		m.inputBox, cmd = m.inputBox.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var bottom string
	if m.keyPrompt != nil {
		bottom = m.keyPrompt.View()
	} else {
		bottom = m.inputBox.View()
	}

	var panel string
	if m.width >= wideLayout {
		panel = lipgloss.JoinHorizontal(lipgloss.Top, bottom, m.sidebar.View())
	} else {
		panel = lipgloss.JoinVertical(lipgloss.Left, m.sidebar.View(), bottom)
	}

	sections := []string{}
	if live := m.chatView.View(); live != "" {
		sections = append(sections, live)
	}
	if line := m.noticeLine(); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, panel)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m appModel) noticeLine() string {
	if m.notice == nil {
		return ""
	}
	if m.notice.Blocking() {
		return blockingStyle.Render("✖ " + m.notice.Text)
	}
	return warningStyle.Render("! " + m.notice.Text)
}

func (m *appModel) inputWidth() int {
	if m.width >= wideLayout {
		return m.width - sidebarWidth
	}
	return m.width
}

func (m *appModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	initMarkdownRenderer(m.width - 4)
	m.inputBox.setWidth(m.inputWidth())
	if m.keyPrompt != nil {
		m.keyPrompt.width = m.inputWidth()
	}

	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.keyPrompt != nil {
		updated, cmd := m.keyPrompt.Update(msg)
		m.keyPrompt = &updated
		return m, cmd
	}

	if m.state != stateIdle {
		return m, nil
	}

	switch msg.Type { //nolint:exhaustive // remaining keys go to the input box
	case tea.KeyTab:
		return m, m.selectModel(m.models.Next(m.sess.Model().Key))
	case tea.KeyCtrlS:
		return m, m.save("")
	}

	var cmd tea.Cmd
	m.inputBox, cmd = m.inputBox.Update(msg)
	return m, cmd
}

func (m *appModel) handleSubmit(msg inputSubmitMsg) (tea.Model, tea.Cmd) {
	c := parseCommand(msg.text)

	switch c.kind {
	case cmdQuit:
		return m.quit()
	case cmdHelp:
		return m, tea.Println(helpText() + "\n")
	case cmdClear:
		if err := m.sess.Reset(); err != nil {
			return m, printError(err)
		}
		return m, nil
	case cmdSave:
		return m, m.save(c.arg)
	case cmdModel:
		key := c.arg
		if key == "" {
			key = m.models.Next(m.sess.Model().Key)
		}
		return m, m.selectModel(key)
	case cmdKey:
		m.openKeyPrompt()
		return m, nil
	}

	m.state = stateProcessing
	m.inputBox.disable()
	m.chatView.setProcessing(true)
	m.submitStart = time.Now()

	sess := m.sess
	ctx := m.ctx
	start := m.submitStart
	text := c.text
	submitCmd := func() tea.Msg {
		err := sess.Submit(ctx, text)
		return submitCompleteMsg{err: err, duration: time.Since(start)}
	}

	return m, tea.Batch(submitCmd, tickCmd())
}

func (m *appModel) openKeyPrompt() {
	p := newKeyPrompt(m.inputWidth())
	m.keyPrompt = &p
	m.inputBox.disable()
}

func (m *appModel) selectModel(key string) tea.Cmd {
	if err := m.sess.SelectModel(key); err != nil {
		return printError(err)
	}
	return nil
}

func (m *appModel) save(dir string) tea.Cmd {
	if dir == "" {
		dir = m.exportDir
	}

	path, err := transcript.Save(dir, m.sess.Export())
	if err != nil {
		return printError(err)
	}

	return tea.Println(dimStyle.Render("Saved conversation to "+path) + "\n")
}

func (m *appModel) quit() (tea.Model, tea.Cmd) {
	if m.cancelBridge != nil {
		m.cancelBridge()
	}
	return m, tea.Quit
}

func printError(err error) tea.Cmd {
	return tea.Println(errorStyle.Render("error: "+err.Error()) + "\n")
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
