// Package chats provides the data model for a single chat conversation.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/gptchat/pkg/chats/role]: conversation roles (user, assistant)
//   - [github.com/germanamz/gptchat/pkg/chats/message]: immutable role-tagged messages
//   - [github.com/germanamz/gptchat/pkg/chats/chat]: append-only conversation container
//
// No provider or API code is included; chats is a foundation layer
// that adapters can build on.
package chats
