package engine

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/germanamz/gptchat/pkg/modeladapter"
	"github.com/germanamz/gptchat/pkg/models"
	"github.com/google/uuid"
)

// Engine is the composition root. It builds the model registry and the
// completer from configuration and owns every live session.
type Engine struct {
	cfg          Config
	models       *models.Registry
	completer    modeladapter.Completer
	events       *EventBus
	log          *slog.Logger
	defaultModel string

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option customizes an Engine.
type Option func(*options)

type options struct {
	completer modeladapter.Completer
	client    *http.Client
	log       *slog.Logger
}

// WithCompleter replaces the OpenAI completer, mostly for tests.
func WithCompleter(c modeladapter.Completer) Option {
	return func(o *options) { o.completer = c }
}

// WithHTTPClient sets the client used by the OpenAI completer.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithLogger sets the engine logger. Without one, logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// New validates cfg and assembles an Engine. The registry is the built-in
// model table extended with cfg.Models; cfg.DefaultModel must name one of its
// keys when set.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.log == nil {
		o.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	descs := models.Builtin()
	for _, mc := range cfg.Models {
		descs = append(descs, models.Descriptor{Key: mc.Key, DisplayName: mc.Name, Description: mc.Description})
	}

	reg, err := models.New(descs...)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	def := cfg.DefaultModel
	if def == "" {
		def = reg.Keys()[0]
	} else if !reg.Has(def) {
		return nil, fmt.Errorf("engine: default model: %w %q", models.ErrUnknownModel, def)
	}

	e := &Engine{
		cfg:          cfg,
		models:       reg,
		completer:    o.completer,
		events:       NewEventBus(),
		log:          o.log,
		defaultModel: def,
		sessions:     make(map[string]*Session),
	}

	if e.completer == nil {
		e.completer = buildCompleter(cfg, reg, o.client, o.log)
	}

	e.log.Debug("engine ready", "models", reg.Len(), "default_model", def, "base_url", cfg.BaseURL)

	return e, nil
}

// NewSession creates a session with an empty conversation and the default
// model. The credential is prefilled from the configuration when present.
func (e *Engine) NewSession() *Session {
	id := uuid.New().String()
	s := newSession(id, e.models, e.completer, e.events, e.log, e.defaultModel)
	s.SetCredential(e.cfg.APIKey)

	e.mu.Lock()
	e.sessions[id] = s
	e.mu.Unlock()

	e.log.Info("session created", "session", id, "model", e.defaultModel)

	return s
}

// Session returns an existing session by ID.
func (e *Engine) Session(id string) (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	return s, ok
}

// RemoveSession closes the session and forgets it. Its conversation and
// credential are dropped.
func (e *Engine) RemoveSession(id string) bool {
	e.mu.Lock()
	s, ok := e.sessions[id]
	delete(e.sessions, id)
	e.mu.Unlock()

	if !ok {
		return false
	}

	s.close()
	e.log.Info("session removed", "session", id)

	return true
}

// Events returns the engine's event bus.
func (e *Engine) Events() *EventBus { return e.events }

// Models returns the model registry.
func (e *Engine) Models() *models.Registry { return e.models }

// DefaultModel returns the key new sessions start with.
func (e *Engine) DefaultModel() string { return e.defaultModel }

// Completer returns the completer shared by all sessions.
func (e *Engine) Completer() modeladapter.Completer { return e.completer }

// Config returns the configuration the engine was built from.
func (e *Engine) Config() Config { return e.cfg }

// Close removes every session.
func (e *Engine) Close() error {
	e.mu.Lock()
	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	e.mu.Unlock()

	for _, id := range ids {
		e.RemoveSession(id)
	}

	return nil
}
