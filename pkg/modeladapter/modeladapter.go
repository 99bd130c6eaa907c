package modeladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/germanamz/gptchat/pkg/chats/chat"
	"github.com/germanamz/gptchat/pkg/modeladapter/usage"
)

// Completer sends a conversation to an LLM and returns the reply text.
// Implementations never fail: remote and transport problems are reported as
// human-readable text in the returned string.
type Completer interface {
	Complete(ctx context.Context, credential, modelKey string, c *chat.Chat) string
}

// UsageReporter provides token usage information from a completer.
// Completers that embed ModelAdapter implement this interface automatically.
type UsageReporter interface {
	UsageTracker() *usage.Tracker
}

// Auth holds the credential for one request.
type Auth struct {
	Key string // API key sent as "Authorization: Bearer <key>".
}

// Bearer returns Auth for an "Authorization: Bearer <key>" header.
func Bearer(key string) Auth {
	return Auth{Key: key}
}

// apply sets the Authorization header on h. An empty key sets nothing.
func (a Auth) apply(h http.Header) {
	if a.Key == "" {
		return
	}

	h.Set("Authorization", "Bearer "+a.Key)
}

// Response is a fully read HTTP response. The status is not interpreted.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is exactly 200.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Decode unmarshals the body as JSON into dest.
func (r *Response) Decode(dest any) error {
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ModelAdapter holds shared state for chat-completions clients. Embed it in
// concrete provider structs to get HTTP helpers, auth, custom headers, usage
// tracking and logging. Credentials are passed per request and never stored.
type ModelAdapter struct {
	BaseURL string            // API base URL (no trailing slash).
	Client  *http.Client      // HTTP client; falls back to http.DefaultClient.
	Headers map[string]string // Extra headers applied to every request; Authorization is ignored.
	Usage   usage.Tracker     // Token usage tracker.
	Log     *slog.Logger      // Optional logger; nil discards.
}

// New creates a ModelAdapter with the given settings.
// A nil client falls back to http.DefaultClient at call time.
func New(baseURL string, client *http.Client) ModelAdapter {
	return ModelAdapter{
		BaseURL: baseURL,
		Client:  client,
	}
}

// UsageTracker returns the adapter's token usage tracker.
func (a *ModelAdapter) UsageTracker() *usage.Tracker { return &a.Usage }

// Logger returns the configured logger or one that discards everything.
func (a *ModelAdapter) Logger() *slog.Logger {
	if a.Log != nil {
		return a.Log
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// httpClient returns the configured client or http.DefaultClient. No timeout
// is imposed beyond what the client itself carries.
func (a *ModelAdapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}

	return http.DefaultClient
}

// NewRequest builds an *http.Request with the base URL, custom headers and
// auth already applied. Auth is applied last so a configured header can never
// replace the credential.
func (a *ModelAdapter) NewRequest(ctx context.Context, method, path string, auth Auth, body io.Reader) (*http.Request, error) {
	url := a.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	for k, v := range a.Headers {
		if http.CanonicalHeaderKey(k) == "Authorization" {
			continue
		}
		req.Header.Set(k, v)
	}

	auth.apply(req.Header)

	return req, nil
}

// Do sends the request using the configured HTTP client.
func (a *ModelAdapter) Do(req *http.Request) (*http.Response, error) {
	return a.httpClient().Do(req) //nolint:gosec // URL is built from trusted BaseURL config, not user input.
}

// PostJSON marshals payload as JSON, sends a single POST to path and reads the
// whole response. Any status code is returned as a Response; an error means
// the request could not be built, sent or read.
func (a *ModelAdapter) PostJSON(ctx context.Context, path string, auth Auth, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, path, auth, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
