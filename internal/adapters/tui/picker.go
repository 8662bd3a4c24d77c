package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/kaizen/internal/config"
	"github.com/xvierd/kaizen/internal/domain"
)

// narrowWidth is the width below which choices render on a single row.
const narrowWidth = 40

// Option is one entry of a choice list.
type Option struct {
	Value string
	Label string
	Hint  string
}

type choiceOutcome int

const (
	choicePending choiceOutcome = iota
	choicePicked
	choiceCancelled
)

// choiceList is a keyboard-driven list of options. It never quits the
// program; the owning model reacts to the outcome of each key.
type choiceList struct {
	title   string
	options []Option
	cursor  int
}

// newChoiceList builds a list with the cursor on the option whose value is
// current, or on the first option.
func newChoiceList(title string, options []Option, current string) choiceList {
	l := choiceList{title: title, options: options}
	for i, o := range options {
		if o.Value == current {
			l.cursor = i
			break
		}
	}
	return l
}

func (l choiceList) update(msg tea.KeyMsg) (choiceList, choiceOutcome) {
	switch k := msg.String(); k {
	case "up", "k", "left", "h":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j", "right", "l":
		if l.cursor < len(l.options)-1 {
			l.cursor++
		}
	case "home", "g":
		l.cursor = 0
	case "end", "G":
		l.cursor = len(l.options) - 1
	case "enter":
		if len(l.options) > 0 {
			return l, choicePicked
		}
	case "esc", "q":
		return l, choiceCancelled
	default:
		// 1-9 picks directly
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			if i := int(k[0] - '1'); i < len(l.options) {
				l.cursor = i
				return l, choicePicked
			}
		}
	}
	return l, choicePending
}

// selected returns the option under the cursor.
func (l choiceList) selected() Option {
	if len(l.options) == 0 {
		return Option{}
	}
	return l.options[l.cursor]
}

func (l choiceList) view(theme config.ThemeConfig, width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorAccent))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp))

	if width < narrowWidth {
		parts := []string{titleStyle.Render(l.title)}
		for i, o := range l.options {
			if i == l.cursor {
				parts = append(parts, activeStyle.Render("▸ "+o.Label))
			} else {
				parts = append(parts, dimStyle.Render("  "+o.Label))
			}
		}
		return strings.Join(parts, " ")
	}

	labelWidth := 0
	for _, o := range l.options {
		if n := lipgloss.Width(o.Label); n > labelWidth {
			labelWidth = n
		}
	}

	lines := []string{titleStyle.Render(l.title), ""}
	for i, o := range l.options {
		row := fmt.Sprintf("%d %-*s  %s", i+1, labelWidth, o.Label, o.Hint)
		if i == l.cursor {
			lines = append(lines, activeStyle.Render("▸ "+row))
		} else {
			lines = append(lines, dimStyle.Render("  "+row))
		}
	}
	return strings.Join(lines, "\n")
}

// categoryOptions lists "all" followed by every category, each with its
// task count across the whole collection.
func categoryOptions(tasks []*domain.Task, categories []string) []Option {
	counts := make(map[string]int, len(categories))
	for _, t := range tasks {
		counts[t.Category]++
	}
	options := []Option{{Value: domain.AllCategories, Label: domain.AllCategories, Hint: taskCount(len(tasks))}}
	for _, c := range categories {
		options = append(options, Option{Value: c, Label: c, Hint: taskCount(counts[c])})
	}
	return options
}

func taskCount(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

// choiceProgram runs a choice list on its own, outside the board.
type choiceProgram struct {
	list    choiceList
	footer  string
	theme   config.ThemeConfig
	width   int
	outcome choiceOutcome
}

func (m choiceProgram) Init() tea.Cmd { return nil }

func (m choiceProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.outcome = choiceCancelled
			return m, tea.Quit
		}
		m.list, m.outcome = m.list.update(msg)
		if m.outcome != choicePending {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m choiceProgram) View() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	out := "\n" + m.list.view(m.theme, m.width) + "\n"
	if m.footer != "" {
		out += "\n" + dimStyle.Render(m.footer) + "\n"
	}
	return out + "\n" + dimStyle.Render("↑/↓ move · 1-9 or enter pick · esc back") + "\n"
}

// RunChoice asks the user to pick one of options and returns its value.
// ok is false when the user backs out.
func RunChoice(title string, options []Option, footer string, theme *config.ThemeConfig) (value string, ok bool) {
	m := choiceProgram{
		list:   newChoiceList(title, options, ""),
		footer: footer,
		theme:  resolveTheme(theme),
		width:  getTerminalWidth(),
	}
	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", false
	}
	final := result.(choiceProgram)
	if final.outcome != choicePicked {
		return "", false
	}
	return final.list.selected().Value, true
}

// promptProgram reads one line of text.
type promptProgram struct {
	title     string
	input     textinput.Model
	theme     config.ThemeConfig
	cancelled bool
}

func (m promptProgram) Init() tea.Cmd { return textinput.Blink }

func (m promptProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, isKey := msg.(tea.KeyMsg); isKey {
		switch k.String() {
		case "enter":
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptProgram) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	return "\n" + titleStyle.Render(m.title) + " " + m.input.View() + "\n\n" +
		dimStyle.Render("enter confirm · esc back") + "\n"
}

// RunTextPrompt reads a line of text. ok is false when the user backs out.
func RunTextPrompt(title, placeholder string, theme *config.ThemeConfig) (value string, ok bool) {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 200
	input.Width = 50
	input.Focus()

	result, err := tea.NewProgram(promptProgram{title: title, input: input, theme: resolveTheme(theme)}).Run()
	if err != nil {
		return "", false
	}
	final := result.(promptProgram)
	if final.cancelled {
		return "", false
	}
	return strings.TrimSpace(final.input.Value()), true
}
