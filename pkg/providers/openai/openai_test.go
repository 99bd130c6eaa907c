package openai_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/germanamz/gptchat/pkg/chats/chat"
	"github.com/germanamz/gptchat/pkg/chats/message"
	"github.com/germanamz/gptchat/pkg/chats/role"
	"github.com/germanamz/gptchat/pkg/models"
	"github.com/germanamz/gptchat/pkg/providers/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *openai.Adapter) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := openai.New(srv.URL, models.Default())
	a.Client = srv.Client()

	return srv, a
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func reply(text string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{
				"message":       map[string]any{"role": "assistant", "content": text},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5},
	}
}

func TestComplete_HelloScenario(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		req := readBody(t, r)
		assert.Equal(t, "gpt-4o", req["model"])

		msgs, _ := req["messages"].([]any)
		if !assert.Len(t, msgs, 1) {
			return
		}

		first, _ := msgs[0].(map[string]any)
		assert.Equal(t, "user", first["role"])
		assert.Equal(t, "Hello", first["content"])

		writeJSON(t, w, reply(" Hi there! "))
	})

	c := chat.New(message.User("Hello"))

	got := adapter.Complete(context.Background(), "sk-test", "gpt-4o", c)
	assert.Equal(t, "Hi there!", got)

	last, ok := adapter.Usage.Last()
	require.True(t, ok)
	assert.Equal(t, 10, last.InputTokens)
	assert.Equal(t, 5, last.OutputTokens)
}

func TestComplete_MultiTurnRoleMapping(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := readBody(t, r)

		msgs, _ := req["messages"].([]any)
		if !assert.Len(t, msgs, 4) {
			return
		}

		wantRoles := []string{"user", "assistant", "assistant", "user"}
		for i, m := range msgs {
			mm, _ := m.(map[string]any)
			assert.Equal(t, wantRoles[i], mm["role"], "message %d", i)
		}

		writeJSON(t, w, reply("Paris."))
	})

	c := chat.New(
		message.User("What is the capital of France?"),
		message.Assistant("Let me think..."),
		message.New(role.Role("narrator"), "aside"),
		message.User("Please answer."),
	)

	assert.Equal(t, "Paris.", adapter.Complete(context.Background(), "sk-test", "o1", c))
}

func TestComplete_EmptyConversation(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := readBody(t, r)

		msgs, ok := req["messages"].([]any)
		assert.True(t, ok, "messages must be an array, not null")
		assert.Empty(t, msgs)

		writeJSON(t, w, reply("ok"))
	})

	assert.Equal(t, "ok", adapter.Complete(context.Background(), "sk-test", "gpt-4o", chat.New()))
	assert.Equal(t, "ok", adapter.Complete(context.Background(), "sk-test", "gpt-4o", nil))
}

func TestComplete_EmptyChoices(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"choices": []any{}})
	})

	got := adapter.Complete(context.Background(), "sk-test", "gpt-4o", chat.New(message.User("hi")))
	assert.Equal(t, "No valid response found in the API response.", got)
	assert.Equal(t, openai.NoValidResponse, got)
}

func TestComplete_MissingChoices(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"id": "chatcmpl-1"})
	})

	res := adapter.CompleteResult(context.Background(), "sk-test", "gpt-4o", chat.New(message.User("hi")))
	assert.Equal(t, openai.KindEmpty, res.Kind)
	assert.Equal(t, openai.NoValidResponse, res.Message())
}

func TestComplete_HTTPError(t *testing.T) {
	var calls atomic.Int32
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid key"))
	})

	got := adapter.Complete(context.Background(), "sk-bad", "gpt-4o", chat.New(message.User("hi")))
	assert.Equal(t, "API Error 401: invalid key", got)
	assert.Equal(t, int32(1), calls.Load(), "no retries")
}

func TestComplete_ServerErrorResult(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	})

	res := adapter.CompleteResult(context.Background(), "sk", "gpt-4o", chat.New(message.User("hi")))
	assert.Equal(t, openai.KindRemoteError, res.Kind)
	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, `{"error":{"message":"boom"}}`, res.Body)
	assert.Equal(t, `API Error 500: {"error":{"message":"boom"}}`, res.Message())
}

func TestComplete_NonOKSuccessStatusIsRemoteError(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})

	got := adapter.Complete(context.Background(), "sk", "gpt-4o", chat.New(message.User("hi")))
	assert.Equal(t, "API Error 201: created", got)
}

func TestComplete_MalformedBody(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	res := adapter.CompleteResult(context.Background(), "sk", "gpt-4o", chat.New(message.User("hi")))
	assert.Equal(t, openai.KindTransportError, res.Kind)
	assert.Contains(t, res.Message(), "Request failed: decode response")
}

func TestComplete_NullContent(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": nil}}},
		})
	})

	got := adapter.Complete(context.Background(), "sk", "gpt-4o", chat.New(message.User("hi")))
	assert.Contains(t, got, "Request failed:")
}

func TestComplete_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	adapter := openai.New(url, models.Default())

	res := adapter.CompleteResult(context.Background(), "sk", "gpt-4o", chat.New(message.User("hi")))
	assert.Equal(t, openai.KindTransportError, res.Kind)
	assert.Zero(t, res.Status)
	assert.Contains(t, res.Message(), "Request failed: do request")
}

func TestComplete_UnknownModelSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(t, w, reply("x"))
	})

	got := adapter.Complete(context.Background(), "sk", "gpt-2", chat.New(message.User("hi")))
	assert.Contains(t, got, "Request failed:")
	assert.Contains(t, got, "unknown model")
	assert.Zero(t, calls.Load())
}

func TestComplete_NilRegistryAcceptsAnyModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := readBody(t, r)
		assert.Equal(t, "custom-model", req["model"])
		writeJSON(t, w, reply("fine"))
	}))
	t.Cleanup(srv.Close)

	adapter := openai.New(srv.URL+"/", nil)
	assert.Equal(t, srv.URL, adapter.BaseURL)

	assert.Equal(t, "fine", adapter.Complete(context.Background(), "sk", "custom-model", chat.New()))
}

func TestComplete_CredentialNotLogged(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, reply("hi"))
	})

	var buf bytes.Buffer
	adapter.Log = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	adapter.Complete(context.Background(), "sk-very-secret", "gpt-4o", chat.New(message.User("hi")))

	assert.Contains(t, buf.String(), "completion finished")
	assert.Contains(t, buf.String(), "outcome=ok")
	assert.NotContains(t, buf.String(), "sk-very-secret")
}

func TestNew_DefaultBaseURL(t *testing.T) {
	a := openai.New("", nil)
	assert.Equal(t, openai.DefaultBaseURL, a.BaseURL)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "ok", openai.KindOK.String())
	assert.Equal(t, "empty", openai.KindEmpty.String())
	assert.Equal(t, "remote_error", openai.KindRemoteError.String())
	assert.Equal(t, "transport_error", openai.KindTransportError.String())
	assert.Equal(t, "kind(9)", openai.Kind(9).String())
}
