package engine

import (
	"errors"
	"log/slog"
)

var (
	// ErrMissingCredential rejects a submit made without an API key.
	ErrMissingCredential = errors.New("missing API key")
	// ErrEmptyMessage rejects a submit whose text is blank.
	ErrEmptyMessage = errors.New("empty message")
	// ErrBusy is returned when a submit or reset overlaps an active submit.
	ErrBusy = errors.New("another submit is already active")
	// ErrClosed is returned by sessions that were removed from the engine.
	ErrClosed = errors.New("session closed")
)

// Severity tells the frontend how to present a Notice.
type Severity int

const (
	SeverityWarning  Severity = iota // Shown inline; the user can keep typing.
	SeverityBlocking                 // The user must fix something before continuing.
)

func (s Severity) String() string {
	if s == SeverityBlocking {
		return "blocking"
	}
	return "warning"
}

// Notice is an input validation failure. It never reaches the conversation.
type Notice struct {
	Severity Severity
	Text     string // Message for the user.
	Err      error  // One of the Err* sentinels.
}

func (n *Notice) Error() string { return "engine: " + n.Err.Error() }

func (n *Notice) Unwrap() error { return n.Err }

// Blocking reports whether the notice must be resolved before continuing.
func (n *Notice) Blocking() bool { return n.Severity == SeverityBlocking }

var (
	noticeMissingCredential = &Notice{
		Severity: SeverityBlocking,
		Text:     "Please enter your OpenAI API key.",
		Err:      ErrMissingCredential,
	}
	noticeEmptyMessage = &Notice{
		Severity: SeverityWarning,
		Text:     "Please enter a message.",
		Err:      ErrEmptyMessage,
	}
)

// Credential is an API key held in session memory. Its String, GoString and
// LogValue forms are redacted so it can't leak through fmt or slog.
type Credential string

// Reveal returns the raw key for attaching to an outgoing request.
func (c Credential) Reveal() string { return string(c) }

// Empty reports whether no key was supplied.
func (c Credential) Empty() bool { return c == "" }

func (c Credential) String() string {
	if c.Empty() {
		return ""
	}
	return "[redacted]"
}

func (c Credential) GoString() string { return `engine.Credential("` + c.String() + `")` }

// LogValue implements slog.LogValuer.
func (c Credential) LogValue() slog.Value { return slog.StringValue(c.String()) }
