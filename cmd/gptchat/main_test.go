package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears gptchat's environment and runs the test in an empty
// directory so no local config or .env is picked up.
func isolate(t *testing.T) {
	t.Helper()

	for _, k := range []string{
		"OPENAI_API_KEY",
		"GPTCHAT_BASE_URL",
		"GPTCHAT_MODEL",
		"GPTCHAT_LOG_FILE",
		"GPTCHAT_LOG_LEVEL",
		"GPTCHAT_EXPORT_DIR",
	} {
		t.Setenv(k, "")
	}

	t.Chdir(t.TempDir())
}

func testCLIConfig() (cliConfig, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer

	conf := newCLIConfig()
	conf.Stdout = &stdout
	conf.Stderr = &stderr
	conf.Exit = func(int) {}

	return conf, &stdout, &stderr
}

func TestWithDefaultCommand(t *testing.T) {
	assert.Equal(t, []string{"chat"}, withDefaultCommand(nil))
	assert.Equal(t, []string{"chat", "-c", "x.yaml"}, withDefaultCommand([]string{"-c", "x.yaml"}))
	assert.Equal(t, []string{"models"}, withDefaultCommand([]string{"models"}))
	assert.Equal(t, []string{"--help"}, withDefaultCommand([]string{"--help"}))
	assert.Equal(t, []string{"ask", "hi"}, withDefaultCommand([]string{"ask", "hi"}))
}

func TestRunCLI_Models(t *testing.T) {
	isolate(t)

	conf, stdout, stderr := testCLIConfig()

	require.Equal(t, 0, runCLI([]string{"models"}, conf), stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "* o3-mini")
	assert.Contains(t, out, "o3 Mini")
	assert.Contains(t, out, "ChatGPT 4o")
	assert.Contains(t, out, "  o1")
}

func TestRunCLI_ModelsWithConfig(t *testing.T) {
	isolate(t)

	cfg := "default_model: local\nmodels:\n  - key: local\n    name: Local Llama\n    description: Runs at home.\n"
	require.NoError(t, os.WriteFile("gptchat.yaml", []byte(cfg), 0o600))

	conf, stdout, stderr := testCLIConfig()

	require.Equal(t, 0, runCLI([]string{"models"}, conf), stderr.String())
	assert.Contains(t, stdout.String(), "* local")
	assert.Contains(t, stdout.String(), "Runs at home.")
}

func TestRunCLI_BadConfig(t *testing.T) {
	isolate(t)

	conf, _, stderr := testCLIConfig()

	assert.Equal(t, 1, runCLI([]string{"models", "--config", filepath.Join(t.TempDir(), "missing.yaml")}, conf))
	assert.Contains(t, stderr.String(), "engine: load config")
}

func TestRunCLI_Ask(t *testing.T) {
	isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-cli", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":" Hi there! "}}]}`))
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "sk-cli")
	t.Setenv("GPTCHAT_BASE_URL", srv.URL)

	conf, stdout, stderr := testCLIConfig()

	require.Equal(t, 0, runCLI([]string{"ask", "-m", "gpt-4o", "Hello"}, conf), stderr.String())
	assert.Equal(t, "Hi there!\n", stdout.String())
}

func TestRunCLI_AskRemoteError(t *testing.T) {
	isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid key"))
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "sk-bad")
	t.Setenv("GPTCHAT_BASE_URL", srv.URL)

	conf, stdout, _ := testCLIConfig()

	assert.Equal(t, 0, runCLI([]string{"ask", "Hello"}, conf))
	assert.Equal(t, "API Error 401: invalid key\n", stdout.String())
}

func TestRunCLI_AskMissingKey(t *testing.T) {
	isolate(t)

	conf, stdout, stderr := testCLIConfig()

	assert.Equal(t, 2, runCLI([]string{"ask", "Hello"}, conf))
	assert.Empty(t, stdout.String())
	assert.Equal(t, "Please enter your OpenAI API key.\n", stderr.String())
}

func TestRunCLI_AskBlank(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk")

	conf, _, stderr := testCLIConfig()

	assert.Equal(t, 2, runCLI([]string{"ask", "  "}, conf))
	assert.Equal(t, "Please enter a message.\n", stderr.String())
}

func TestRunCLI_AskUnknownModel(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk")

	conf, _, stderr := testCLIConfig()

	assert.Equal(t, 1, runCLI([]string{"ask", "-m", "gpt-2", "hi"}, conf))
	assert.Contains(t, stderr.String(), "unknown model")
}

func TestRunCLI_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-dotenv", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	t.Setenv("GPTCHAT_BASE_URL", srv.URL)
	require.NoError(t, os.WriteFile("local.env", []byte("OPENAI_API_KEY=sk-dotenv\n"), 0o600))

	conf, stdout, stderr := testCLIConfig()

	require.Equal(t, 0, runCLI([]string{"ask", "--env", "local.env", "hi"}, conf), stderr.String())
	assert.Equal(t, "ok\n", stdout.String())
}
