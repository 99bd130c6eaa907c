package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/germanamz/gptchat/pkg/engine"
	"github.com/germanamz/gptchat/pkg/models"
)

// setupValues holds what the setup form collects before the chat starts.
type setupValues struct {
	Key   string //nolint:gosec // held in memory only
	Model string
}

// modelOptions lists the registry as select options labelled with display
// names.
func modelOptions(reg *models.Registry) []huh.Option[string] {
	descs := reg.Descriptors()
	opts := make([]huh.Option[string], len(descs))
	for i, d := range descs {
		label := d.DisplayName
		if d.DisplayName != d.Key {
			label = fmt.Sprintf("%s (%s)", d.DisplayName, d.Key)
		}
		opts[i] = huh.NewOption(label, d.Key)
	}
	return opts
}

func newSetupForm(reg *models.Registry, v *setupValues) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("OpenAI API key").
			Description("Kept in memory for this session only.").
			EchoMode(huh.EchoModePassword).
			Value(&v.Key),
		huh.NewSelect[string]().
			Title("Model").
			Options(modelOptions(reg)...).
			Value(&v.Model),
	))
}

// runSetupForm asks for the credential and the model, prefilled from the
// session. An empty key is accepted; submitting without one shows a blocking
// notice in the chat.
func runSetupForm(reg *models.Registry, sess *engine.Session) error {
	v := setupValues{Model: sess.Model().Key}

	if err := newSetupForm(reg, &v).Run(); err != nil {
		return err
	}

	if key := strings.TrimSpace(v.Key); key != "" {
		sess.SetCredential(engine.Credential(key))
	}

	return sess.SelectModel(v.Model)
}
