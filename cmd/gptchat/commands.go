package main

import "strings"

// commandKind identifies a slash command typed into the input box.
type commandKind int

const (
	cmdNone commandKind = iota // Plain message.
	cmdHelp
	cmdQuit
	cmdClear
	cmdSave
	cmdModel
	cmdKey
)

var commandKinds = map[string]commandKind{
	"/help":  cmdHelp,
	"/quit":  cmdQuit,
	"/exit":  cmdQuit,
	"/clear": cmdClear,
	"/save":  cmdSave,
	"/model": cmdModel,
	"/key":   cmdKey,
}

// command is a parsed slash command. For cmdNone, text is the message to
// submit.
type command struct {
	kind commandKind
	name string
	arg  string
	text string
}

// parseCommand recognizes the known slash commands. Everything else is a
// plain message submitted as typed, including text such as "/etc/hosts" whose
// first word is not a command. A leading "//" sends the rest with a single
// slash, so "//help" submits "/help".
func parseCommand(text string) command {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "//") {
		return command{kind: cmdNone, text: trimmed[1:]}
	}

	name, arg, _ := strings.Cut(trimmed, " ")

	kind, ok := commandKinds[name]
	if !ok {
		return command{kind: cmdNone, text: text}
	}

	return command{kind: kind, name: name, arg: strings.TrimSpace(arg)}
}

func helpText() string {
	return dimStyle.Render(
		"Commands:\n" +
			"  /model [key]   Switch model (no key: cycle)\n" +
			"  /key           Enter the OpenAI API key\n" +
			"  /save [dir]    Save the conversation as conversation.txt\n" +
			"  /clear         Start a new conversation\n" +
			"  /help          Show this help message\n" +
			"  /quit          Exit the chat\n" +
			"  //text         Send text starting with a slash\n\n" +
			"Shortcuts:\n" +
			"  Enter          Submit message\n" +
			"  Alt+Enter      New line\n" +
			"  Tab            Next model\n" +
			"  Ctrl+S         Save the conversation\n" +
			"  Ctrl+C         Exit",
	)
}
