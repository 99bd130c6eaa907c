// Package openai provides a Completer for the OpenAI Chat Completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/germanamz/gptchat/pkg/chats/chat"
	"github.com/germanamz/gptchat/pkg/modeladapter"
	"github.com/germanamz/gptchat/pkg/modeladapter/usage"
	"github.com/germanamz/gptchat/pkg/models"
)

const (
	// DefaultBaseURL is the public OpenAI API.
	DefaultBaseURL = "https://api.openai.com"

	completionsPath = "/v1/chat/completions"

	// NoValidResponse is returned when a 200 response carries no choices.
	NoValidResponse = "No valid response found in the API response."
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Kind classifies the outcome of a completion call.
type Kind int

const (
	KindOK             Kind = iota // 200 with at least one choice.
	KindEmpty                      // 200 without choices.
	KindRemoteError                // Non-200 status.
	KindTransportError             // The request could not be built, sent, read or decoded.
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindEmpty:
		return "empty"
	case KindRemoteError:
		return "remote_error"
	case KindTransportError:
		return "transport_error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Result is the tagged outcome of a completion call.
type Result struct {
	Kind   Kind
	Text   string // Trimmed reply text when Kind is KindOK.
	Status int    // HTTP status, zero for transport errors.
	Body   string // Raw response body for remote errors.
	Err    error  // Cause of a transport error.
}

// Message renders the result as the text shown to the user in place of an
// assistant reply.
func (r Result) Message() string {
	switch r.Kind {
	case KindOK:
		return r.Text
	case KindEmpty:
		return NoValidResponse
	case KindRemoteError:
		return fmt.Sprintf("API Error %d: %s", r.Status, r.Body)
	default:
		return fmt.Sprintf("Request failed: %v", r.Err)
	}
}

// Adapter implements modeladapter.Completer for the OpenAI Chat Completions
// API. It performs exactly one POST per call and never retries.
type Adapter struct {
	modeladapter.ModelAdapter

	models *models.Registry
}

// New creates an Adapter. The baseURL should have no trailing slash; an empty
// one selects DefaultBaseURL. When reg is non-nil, model keys are checked
// against it before any request is made.
func New(baseURL string, reg *models.Registry) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	a := &Adapter{
		ModelAdapter: modeladapter.New(strings.TrimRight(baseURL, "/"), nil),
		models:       reg,
	}

	return a
}

// Complete sends the whole conversation and returns the reply text, or a
// human-readable description of what went wrong.
func (a *Adapter) Complete(ctx context.Context, credential, modelKey string, c *chat.Chat) string {
	return a.CompleteResult(ctx, credential, modelKey, c).Message()
}

// CompleteResult is Complete with the outcome left classified.
func (a *Adapter) CompleteResult(ctx context.Context, credential, modelKey string, c *chat.Chat) (res Result) {
	if c == nil {
		c = chat.New()
	}

	log := a.Logger()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res = Result{Kind: KindTransportError, Err: fmt.Errorf("panic: %v", r)}
		}

		log.InfoContext(ctx, "completion finished",
			"model", modelKey,
			"messages", c.Len(),
			"outcome", res.Kind.String(),
			"status", res.Status,
			"duration", time.Since(start),
		)
	}()

	if a.models != nil {
		if _, err := a.models.Lookup(modelKey); err != nil {
			return Result{Kind: KindTransportError, Err: err}
		}
	}

	resp, err := a.PostJSON(ctx, completionsPath, modeladapter.Bearer(credential), buildRequest(modelKey, c))
	if err != nil {
		return Result{Kind: KindTransportError, Err: err}
	}

	if !resp.OK() {
		return Result{Kind: KindRemoteError, Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var body apiResponse
	if err := resp.Decode(&body); err != nil {
		return Result{Kind: KindTransportError, Status: resp.StatusCode, Err: err}
	}

	if body.Usage != nil {
		a.Usage.Add(modelKey, usage.TokenCount{
			InputTokens:  body.Usage.PromptTokens,
			OutputTokens: body.Usage.CompletionTokens,
		})
	}

	if len(body.Choices) == 0 {
		return Result{Kind: KindEmpty, Status: resp.StatusCode}
	}

	content := body.Choices[0].Message.Content
	if content == nil {
		return Result{Kind: KindTransportError, Status: resp.StatusCode, Err: errors.New("first choice has no message content")}
	}

	return Result{Kind: KindOK, Status: resp.StatusCode, Text: strings.TrimSpace(*content)}
}

// --- request types ---

type apiRequest struct {
	Model    string       `json:"model"`
	Messages []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   *apiUsage   `json:"usage"`
}

type apiChoice struct {
	Message apiRespMessage `json:"message"`
}

type apiRespMessage struct {
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// buildRequest maps the conversation 1:1 onto wire messages. Messages is
// never nil so an empty conversation is sent as [].
func buildRequest(modelKey string, c *chat.Chat) apiRequest {
	req := apiRequest{
		Model:    modelKey,
		Messages: make([]apiMessage, 0, c.Len()),
	}

	for _, m := range c.Messages() {
		req.Messages = append(req.Messages, apiMessage{
			Role:    m.Role.Wire(),
			Content: m.Content,
		})
	}

	return req
}
