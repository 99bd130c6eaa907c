// Package providers groups the concrete completion clients. Each sub-package
// embeds [github.com/germanamz/gptchat/pkg/modeladapter.ModelAdapter] and
// implements its Completer interface; gptchat ships only
// [github.com/germanamz/gptchat/pkg/providers/openai].
package providers
