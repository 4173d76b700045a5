package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("205"))
	quitTextStyle     = lipgloss.NewStyle().Margin(1, 0, 2, 4)
)

type selectItem string

func (i selectItem) FilterValue() string { return string(i) }

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(selectItem)
	if !ok {
		return
	}

	line := fmt.Sprintf("%d. %s", index+1, string(i))
	if index == m.Index() {
		fmt.Fprint(w, selectedItemStyle.Render("> "+line))
		return
	}
	fmt.Fprint(w, itemStyle.Render(line))
}

type selectModel struct {
	list     list.Model
	choice   string
	quitting bool
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if i, ok := m.list.SelectedItem().(selectItem); ok {
				m.choice = string(i)
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.choice != "" || m.quitting {
		return ""
	}
	return "\n" + m.list.View()
}

// SelectProfile shows an interactive picker and returns the chosen option.
func SelectProfile(title string, options []string) (string, error) {
	items := make([]list.Item, 0, len(options))
	for _, option := range options {
		items = append(items, selectItem(option))
	}

	l := list.New(items, itemDelegate{}, 40, len(items)+6)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	// Use stderr to avoid polluting stdout
	p := tea.NewProgram(selectModel{list: l}, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	if m, ok := finalModel.(selectModel); ok && m.choice != "" {
		return m.choice, nil
	}
	return "", fmt.Errorf("cancelled")
}
