package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/gptchat/pkg/chats/message"
	"github.com/germanamz/gptchat/pkg/engine"
)

// chatMessageMsg delivers a new conversation message from the bridge goroutine.
type chatMessageMsg struct {
	msg message.Message
}

// submitStartMsg signals that a submit passed validation.
type submitStartMsg struct {
	text string
}

// rejectedMsg carries the notice of a rejected submit.
type rejectedMsg struct {
	notice *engine.Notice
}

// resetMsg signals that the conversation was cleared.
type resetMsg struct{}

// modelSelectedMsg carries the newly selected model key.
type modelSelectedMsg struct {
	key string
}

// inputSubmitMsg carries the text the user submitted from the input box.
type inputSubmitMsg struct {
	text string
}

// keyEnteredMsg carries a credential typed into the key prompt.
type keyEnteredMsg struct {
	key engine.Credential
}

// submitCompleteMsg is returned by the tea.Cmd that calls sess.Submit.
type submitCompleteMsg struct {
	err      error
	duration time.Duration
}

// programReadyMsg passes the *tea.Program to the model so it can start the bridge.
type programReadyMsg struct {
	program *tea.Program
}

// initDrainMsg fires after a short delay so that stale terminal responses
// are discarded before focusing input.
type initDrainMsg struct{}

// tickMsg drives the spinner while a submit is in flight.
type tickMsg time.Time
