// Package engine is the composition root of gptchat. It builds the model
// registry and completion client from configuration and hands out Sessions.
// A Session owns one conversation and runs the submit transition; frontends
// observe it through an EventBus and re-render on EventChanged.
package engine
