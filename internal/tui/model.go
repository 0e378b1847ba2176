package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ziro/internal/ports"
)

// Stage is where the picker is in its flow.
type Stage int

const (
	StageSelect Stage = iota
	StageConfirm
	StageDone
)

// PickModel lets the user choose which port owners to kill. Every
// candidate starts selected; the choice is confirmed before returning.
type PickModel struct {
	list       list.Model
	candidates []ports.Info
	selected   map[int]bool

	stage     Stage
	confirmed bool
	statusMsg string

	width  int
	height int
}

// NewPicker constructs a picker over candidates.
func NewPicker(candidates []ports.Info) *PickModel {
	delegate := list.NewDefaultDelegate()
	items := make([]list.Item, 0, len(candidates))
	selected := make(map[int]bool, len(candidates))
	for i, c := range candidates {
		selected[i] = true
		items = append(items, processItem{Info: c, Selected: true})
	}
	lst := list.New(items, delegate, 0, 0)
	lst.Title = "Select processes to kill"
	lst.SetShowHelp(false)
	lst.SetFilteringEnabled(false)
	lst.DisableQuitKeybindings()

	return &PickModel{
		list:       lst,
		candidates: candidates,
		selected:   selected,
	}
}

// Pick runs the picker and returns the confirmed subset. A cancelled
// picker returns nil.
func Pick(candidates []ports.Info, in io.Reader, out io.Writer) ([]ports.Info, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	m := NewPicker(candidates)
	prog := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))
	if _, err := prog.Run(); err != nil {
		return nil, fmt.Errorf("select processes: %w", err)
	}
	return m.Result(), nil
}

// Result returns the chosen candidates in their original order, or nil
// unless the choice was confirmed.
func (m *PickModel) Result() []ports.Info {
	if !m.confirmed {
		return nil
	}
	var out []ports.Info
	for i, c := range m.candidates {
		if m.selected[i] {
			out = append(out, c)
		}
	}
	return out
}

// Stage reports the current stage.
func (m *PickModel) Stage() Stage { return m.stage }

// Init implements tea.Model.
func (m *PickModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *PickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.height > 4 {
			m.list.SetSize(msg.Width, msg.Height-4)
		}

	case tea.KeyMsg:
		if m.stage == StageConfirm {
			return m, m.confirmKey(msg.String())
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.stage = StageDone
			return m, tea.Quit
		case " ":
			m.toggleCurrentSelection()
			return m, nil
		case "a":
			m.toggleAll()
			return m, nil
		case "enter":
			if len(m.selected) == 0 {
				m.statusMsg = "Nothing selected."
				return m, nil
			}
			m.stage = StageConfirm
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *PickModel) confirmKey(key string) tea.Cmd {
	switch strings.ToLower(key) {
	case "y":
		m.confirmed = true
	case "n", "enter", "esc", "q", "ctrl+c":
	default:
		return nil
	}
	m.stage = StageDone
	return tea.Quit
}

// View implements tea.Model.
func (m *PickModel) View() string {
	if m.stage == StageDone {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteByte('\n')

	if m.statusMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(m.statusMsg))
		b.WriteByte('\n')
	}
	if m.stage == StageConfirm {
		prompt := fmt.Sprintf("Kill %d selected process(es)? [y/N]", len(m.selected))
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("204")).Render(prompt))
		return b.String()
	}

	help := fmt.Sprintf("space toggle • a toggle all • enter confirm • q cancel • selected=%d", len(m.selected))
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(help))
	return b.String()
}

// processItem adapts ports.Info to the bubbles list item interface.
type processItem struct {
	Info     ports.Info
	Selected bool
}

func (p processItem) Title() string {
	mark := " "
	if p.Selected {
		mark = "x"
	}
	return fmt.Sprintf("[%s] port %d - %s (pid %d)", mark, p.Info.Port, p.Info.Process.DisplayName(), p.Info.Process.PID)
}

func (p processItem) Description() string {
	return valueOrDash(p.Info.Process.CommandLine())
}

func (p processItem) FilterValue() string {
	return strconv.Itoa(int(p.Info.Port)) + " " + p.Info.Process.DisplayName()
}

func (m *PickModel) toggleCurrentSelection() {
	idx := m.list.Index()
	if idx < 0 || idx >= len(m.candidates) {
		return
	}
	item, ok := m.list.Items()[idx].(processItem)
	if !ok {
		return
	}
	if item.Selected {
		delete(m.selected, idx)
	} else {
		m.selected[idx] = true
	}
	item.Selected = !item.Selected
	m.list.SetItem(idx, item)
	m.statusMsg = ""
}

func (m *PickModel) toggleAll() {
	all := len(m.selected) != len(m.candidates)
	m.selected = make(map[int]bool)
	for i, it := range m.list.Items() {
		pi, ok := it.(processItem)
		if !ok {
			continue
		}
		pi.Selected = all
		if all {
			m.selected[i] = true
		}
		m.list.SetItem(i, pi)
	}
	m.statusMsg = ""
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
