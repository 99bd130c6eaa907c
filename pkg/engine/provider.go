package engine

import (
	"log/slog"
	"net/http"

	"github.com/germanamz/gptchat/pkg/modeladapter"
	"github.com/germanamz/gptchat/pkg/models"
	"github.com/germanamz/gptchat/pkg/providers/openai"
)

// buildCompleter creates the OpenAI completer for cfg. Model keys are checked
// against reg before any request is sent.
func buildCompleter(cfg Config, reg *models.Registry, client *http.Client, log *slog.Logger) modeladapter.Completer {
	a := openai.New(cfg.BaseURL, reg)
	a.Client = client
	a.Log = log.With("component", "openai")
	a.Headers = cfg.Headers

	return a
}
