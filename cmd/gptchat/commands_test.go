package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		kind  commandKind
		arg   string
		text  string
	}{
		{"hello", cmdNone, "", "hello"},
		{"  what is /help?", cmdNone, "", "  what is /help?"},
		{"/help", cmdHelp, "", ""},
		{"/quit", cmdQuit, "", ""},
		{"/exit", cmdQuit, "", ""},
		{"/clear", cmdClear, "", ""},
		{"/save", cmdSave, "", ""},
		{"/save  /tmp/out ", cmdSave, "/tmp/out", ""},
		{"/model gpt-4o", cmdModel, "gpt-4o", ""},
		{"/model", cmdModel, "", ""},
		{"/key", cmdKey, "", ""},
		{"/etc/hosts looks wrong, why?", cmdNone, "", "/etc/hosts looks wrong, why?"},
		{"/frobnicate now", cmdNone, "", "/frobnicate now"},
		{"/helpme", cmdNone, "", "/helpme"},
		{"//help", cmdNone, "", "/help"},
		{"  //quit now ", cmdNone, "", "/quit now"},
		{"//", cmdNone, "", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := parseCommand(tt.input)
			assert.Equal(t, tt.kind, c.kind)
			assert.Equal(t, tt.arg, c.arg)
			assert.Equal(t, tt.text, c.text)
		})
	}
}

func TestHelpText(t *testing.T) {
	h := helpText()
	for _, want := range []string{"/model", "/save", "/clear", "/quit", "Tab", "Ctrl+S", "//text"} {
		assert.Contains(t, h, want)
	}
}
