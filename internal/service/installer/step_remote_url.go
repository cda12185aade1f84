package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RemoteURLStep collects the annotation endpoint, skipped for the
// built-in lexicon provider.
type RemoteURLStep struct {
	input textinput.Model
}

func NewRemoteURLStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Placeholder = "http://127.0.0.1:8090/annotate"
	ti.Width = 50
	return &RemoteURLStep{input: ti}
}

func (s *RemoteURLStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *RemoteURLStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if state.EnvVars["NLP_PROVIDER"] != "remote" {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.input.Placeholder
		}
		state.EnvVars["NLP_REMOTE_URL"] = val
		return nil, nil
	}

	return s, cmd
}

func (s *RemoteURLStep) View(state *InstallState) string {
	return "Enter the remote annotation URL:\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
