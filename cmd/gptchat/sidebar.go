package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/germanamz/gptchat/pkg/modeladapter"
	"github.com/germanamz/gptchat/pkg/models"
)

const sidebarWidth = 30

// sidebarModel shows the selected model, token usage and timing information.
type sidebarModel struct {
	completer modeladapter.Completer
	model     models.Descriptor
	messages  int
	duration  time.Duration
}

func newSidebar(completer modeladapter.Completer, model models.Descriptor) sidebarModel {
	return sidebarModel{completer: completer, model: model}
}

func (m sidebarModel) View() string {
	inner := sidebarWidth - 4

	var sb strings.Builder
	sb.WriteString(sidebarTitleStyle.Render(truncate(m.model.DisplayName, inner)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(m.model.Key))

	if m.model.Description != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.model.Description)
	}

	if line := m.usageLine(); line != "" {
		sb.WriteString("\n\n")
		sb.WriteString(dimStyle.Render(line))
	}

	return sidebarBorder.Width(inner).Render(sb.String())
}

func (m sidebarModel) usageLine() string {
	var parts []string

	if m.messages > 0 {
		parts = append(parts, fmt.Sprintf("%d messages", m.messages))
	}

	if ur, ok := m.completer.(modeladapter.UsageReporter); ok {
		total := ur.UsageTracker().Total()
		if total.Total() > 0 {
			parts = append(parts, fmt.Sprintf("↑%s ↓%s tokens",
				fmtTokens(total.InputTokens),
				fmtTokens(total.OutputTokens),
			))
		}
	}

	if m.duration > 0 {
		parts = append(parts, "last reply "+fmtDuration(m.duration))
	}

	return strings.Join(parts, "\n")
}
