// Package modeladapter defines the Completer interface and the embeddable
// HTTP base used by chat-completions clients.
//
// It contains:
//   - [Completer] interface and embeddable [ModelAdapter] base struct with HTTP helpers, per-request auth, and custom headers
//   - [github.com/germanamz/gptchat/pkg/modeladapter/usage]: thread-safe token usage tracker
//
// This package contains no provider-specific code; concrete clients live in
// separate packages that import modeladapter.
package modeladapter
