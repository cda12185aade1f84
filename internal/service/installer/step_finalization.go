package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep reconciles the collected values before they are saved
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	// Telegram cannot start without a token
	if state.EnvVars["TELEGRAM_TOKEN"] == "" {
		state.EnvVars["ENABLE_TELEGRAM"] = "false"
	}

	// The remote URL only matters for the remote provider
	if state.EnvVars["NLP_PROVIDER"] != "remote" {
		delete(state.EnvVars, "NLP_REMOTE_URL")
	}

	// Set defaults
	if state.EnvVars["CONVERSIFY_MODE"] == "" {
		state.EnvVars["CONVERSIFY_MODE"] = "casual"
	}
	if state.EnvVars["ENABLE_CLI"] == "" {
		state.EnvVars["ENABLE_CLI"] = "true"
	}

	// Signal completion
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}
