package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel is a yes/no prompt that defaults to no.
type ConfirmModel struct {
	Prompt string
	Help   string

	answered bool
	yes      bool
}

// NewConfirm returns a prompt with an optional help line.
func NewConfirm(prompt, help string) *ConfirmModel {
	return &ConfirmModel{Prompt: prompt, Help: help}
}

// Confirm asks prompt on out and reads the answer from in.
func Confirm(prompt, help string, in io.Reader, out io.Writer) (bool, error) {
	m := NewConfirm(prompt, help)
	prog := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))
	if _, err := prog.Run(); err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	return m.Yes(), nil
}

// Yes reports whether the user answered yes.
func (m *ConfirmModel) Yes() bool { return m.answered && m.yes }

// Init implements tea.Model.
func (m *ConfirmModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "y":
		m.yes = true
	case "n", "enter", "esc", "q", "ctrl+c":
		m.yes = false
	default:
		return m, nil
	}
	m.answered = true
	return m, tea.Quit
}

// View implements tea.Model.
func (m *ConfirmModel) View() string {
	if m.answered {
		return ""
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.Prompt + " [y/N] "))
	if m.Help != "" {
		b.WriteByte('\n')
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(m.Help))
	}
	return b.String()
}
