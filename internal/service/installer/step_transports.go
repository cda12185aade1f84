package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// TransportsStep selects which chat surfaces to enable. The CLI is
// always on; the choice adds WebSocket and Telegram on top of it.
type TransportsStep struct {
	choices []string
	cursor  int
}

func NewTransportsStep() Step {
	return &TransportsStep{
		choices: []string{
			"CLI only",
			"CLI + WebSocket",
			"CLI + Telegram",
			"CLI + WebSocket + Telegram",
		},
		cursor: 0,
	}
}

func (s *TransportsStep) Init() tea.Cmd {
	return nil
}

func (s *TransportsStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			choice := s.choices[s.cursor]
			state.EnvVars["ENABLE_CLI"] = "true"
			state.EnvVars["ENABLE_WEB"] = fmt.Sprintf("%t", strings.Contains(choice, "WebSocket"))
			state.EnvVars["ENABLE_TELEGRAM"] = fmt.Sprintf("%t", strings.Contains(choice, "Telegram"))
			return nil, nil
		}
	}
	return s, nil
}

func (s *TransportsStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select the chat surfaces to enable:\n\n")
	for i, choice := range s.choices {
		cursor := " "
		if s.cursor == i {
			cursor = "❯"
			b.WriteString(selStyle.Render(fmt.Sprintf("%s %s", cursor, choice)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("%s %s", cursor, choice)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
