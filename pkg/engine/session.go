package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/germanamz/gptchat/pkg/chats/chat"
	"github.com/germanamz/gptchat/pkg/chats/message"
	"github.com/germanamz/gptchat/pkg/modeladapter"
	"github.com/germanamz/gptchat/pkg/models"
	"github.com/germanamz/gptchat/pkg/transcript"
)

// Input is one submit event as produced by a form: the credential and model
// currently entered in the UI plus the text typed by the user.
type Input struct {
	Credential Credential
	ModelKey   string
	Text       string
}

// Session represents one interactive conversation. It owns the conversation,
// the selected model and the credential. Only one Submit may be active at a
// time; all methods are safe for concurrent use.
type Session struct {
	id        string
	models    *models.Registry
	completer modeladapter.Completer
	events    *EventBus
	log       *slog.Logger

	mu         sync.Mutex
	chat       *chat.Chat
	model      string
	credential Credential
	active     bool
	closed     bool
}

// newSession creates a session with the given ID and collaborators. model
// must be a key of reg.
func newSession(id string, reg *models.Registry, c modeladapter.Completer, events *EventBus, log *slog.Logger, model string) *Session {
	return &Session{
		id:        id,
		models:    reg,
		completer: c,
		events:    events,
		log:       log.With("session", id),
		chat:      chat.New(),
		model:     model,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Messages returns a copy of the conversation.
func (s *Session) Messages() []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chat.Messages()
}

// Len returns the number of messages in the conversation.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chat.Len()
}

// Since returns the messages appended at or after index.
func (s *Session) Since(index int) []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chat.Since(index)
}

// SetCredential replaces the credential used for outgoing requests.
func (s *Session) SetCredential(c Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credential = c
}

// HasCredential reports whether a credential has been supplied.
func (s *Session) HasCredential() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.credential.Empty()
}

// SelectModel switches the model used for the next submit and for export
// labels.
func (s *Session) SelectModel(key string) error {
	if _, err := s.models.Lookup(key); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	s.mu.Lock()
	changed := s.model != key
	s.model = key
	s.mu.Unlock()

	if changed {
		s.publish(EventModelSelected, key)
	}

	return nil
}

// Model returns the descriptor of the selected model.
func (s *Session) Model() models.Descriptor {
	s.mu.Lock()
	key := s.model
	s.mu.Unlock()

	d, err := s.models.Lookup(key)
	if err != nil {
		return models.Descriptor{Key: key, DisplayName: key}
	}
	return d
}

// SubmitWith submits in.Text with the credential and model from in. Nothing
// is applied to the session unless in passes validation and names a known
// model (an empty ModelKey keeps the current one).
func (s *Session) SubmitWith(ctx context.Context, in Input) error {
	if n := validate(in.Credential, in.Text); n != nil {
		s.reject(n)
		return n
	}

	if in.ModelKey != "" {
		if _, err := s.models.Lookup(in.ModelKey); err != nil {
			return fmt.Errorf("engine: %w", err)
		}
	}

	s.SetCredential(in.Credential)

	if in.ModelKey != "" {
		if err := s.SelectModel(in.ModelKey); err != nil {
			return err
		}
	}

	return s.Submit(ctx, in.Text)
}

// Submit validates text, appends it as a user message, asks the model for a
// reply with the whole conversation and appends the reply as an assistant
// message. Validation failures return a *Notice and leave the conversation
// untouched. Remote and transport failures are not errors: their description
// becomes the assistant message.
func (s *Session) Submit(ctx context.Context, text string) error {
	s.mu.Lock()
	closed := s.closed
	cred, model := s.credential, s.model
	s.mu.Unlock()

	if closed {
		return fmt.Errorf("engine: session %s: %w", s.id, ErrClosed)
	}

	if n := validate(cred, text); n != nil {
		s.reject(n)
		return n
	}

	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	s.publish(EventSubmitStart, text)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("engine: session %s: %w", s.id, ErrClosed)
	}
	s.chat.Append(message.User(text))
	snapshot := chat.New(s.chat.Messages()...)
	s.mu.Unlock()

	s.log.Info("submit", "model", model, "messages", snapshot.Len())
	start := time.Now()

	reply := s.completer.Complete(ctx, cred.Reveal(), model, snapshot)

	s.mu.Lock()
	if s.closed {
		// Removed while the request was in flight; the reply is dropped.
		s.mu.Unlock()
		s.log.Info("reply dropped", "model", model, "reason", "session closed")
		return fmt.Errorf("engine: session %s: %w", s.id, ErrClosed)
	}
	s.chat.Append(message.Assistant(reply))
	alternates := s.chat.Alternates()
	s.mu.Unlock()

	if !alternates {
		s.log.Warn("conversation roles do not alternate")
	}

	s.log.Info("reply appended", "model", model, "duration", time.Since(start))
	s.publish(EventChanged, reply)

	return nil
}

// Reset clears the conversation. It fails with ErrBusy while a submit is
// active.
func (s *Session) Reset() error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return fmt.Errorf("engine: session %s: %w", s.id, ErrBusy)
	}
	s.chat.Reset()
	s.mu.Unlock()

	s.log.Info("conversation reset")
	s.publish(EventReset, nil)

	return nil
}

// Export renders the conversation as a transcript labelled with the display
// name of the currently selected model.
func (s *Session) Export() string {
	name := s.Model().DisplayName

	s.mu.Lock()
	defer s.mu.Unlock()

	return transcript.Export(s.chat, name)
}

// close marks the session unusable and drops the conversation and credential.
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.credential = ""
	s.chat.Reset()
	s.mu.Unlock()

	s.publish(EventClosed, nil)
}

func validate(cred Credential, text string) *Notice {
	if cred.Empty() {
		return noticeMissingCredential
	}
	if strings.TrimSpace(text) == "" {
		return noticeEmptyMessage
	}
	return nil
}

func (s *Session) reject(n *Notice) {
	s.log.Debug("submit rejected", "reason", n.Err.Error(), "severity", n.Severity.String())
	s.publish(EventRejected, n)
}

func (s *Session) publish(kind EventKind, data any) {
	s.events.Publish(Event{
		Kind:      kind,
		SessionID: s.id,
		Timestamp: time.Now(),
		Data:      data,
	})
}

func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return fmt.Errorf("engine: session %s: %w", s.id, ErrBusy)
	}
	s.active = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = false
}
