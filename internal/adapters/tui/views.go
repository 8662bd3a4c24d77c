package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/xvierd/kaizen/internal/domain"
)

const (
	minWidth    = 40
	listPercent = 40
)

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < minWidth {
		return 80
	}
	return w
}

func progressWidth(width int) int {
	w := width - 24
	if w < 10 {
		return 10
	}
	if w > 60 {
		return 60
	}
	return w
}

func formWidth(width int) int {
	w := width*(100-listPercent)/100 - 18
	if w < 20 {
		return 20
	}
	return w
}

// statusIcon returns the theme icon for a task status.
func (m Model) statusIcon(s domain.TaskStatus) string {
	switch s {
	case domain.StatusDone:
		return m.theme.IconDone
	case domain.StatusInProgress:
		return m.theme.IconInProgress
	default:
		return m.theme.IconTodo
	}
}

func (m Model) statusColor(s domain.TaskStatus) lipgloss.Color {
	switch s {
	case domain.StatusDone:
		return lipgloss.Color(m.theme.ColorDone)
	case domain.StatusInProgress:
		return lipgloss.Color(m.theme.ColorInProgress)
	default:
		return lipgloss.Color(m.theme.ColorTask)
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.snap == nil {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.viewHeader())
	sections = append(sections, m.viewFilters())

	listWidth := m.width * listPercent / 100
	detailWidth := m.width - listWidth - 2
	var right string
	switch m.mode {
	case modeForm:
		right = m.viewForm(detailWidth)
	case modePickCategory:
		right = m.picker.view(m.theme, detailWidth)
	default:
		right = m.viewDetail(detailWidth)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewList(listWidth), "  ", right)
	sections = append(sections, body)

	sections = append(sections, "", m.viewFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	p := m.snap.Progress
	pct := p.Percentage / 100
	if pct > 1 {
		pct = 1
	}
	title := titleStyle.Render(fmt.Sprintf("%s Kaizen", m.theme.IconApp))
	counts := countStyle.Render(fmt.Sprintf("%d/%d today", p.CompletedToday, p.TotalToday))
	line := fmt.Sprintf("%s  %s  %s", title, m.progress.ViewAs(pct), counts)
	if p.GoalReached() {
		doneStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorDone))
		line += " " + doneStyle.Render(m.theme.IconGoalReached)
	}
	return lipgloss.NewStyle().MarginBottom(1).Render(line)
}

func (m Model) viewFilters() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorAccent))

	if m.mode == modeSearch {
		return m.search.View()
	}

	ws := m.snap.Workspace
	search := dimStyle.Render("search: -")
	if ws.SearchTerm != "" {
		search = dimStyle.Render("search: ") + accentStyle.Render(fmt.Sprintf("%q", ws.SearchTerm))
	}
	category := dimStyle.Render("category: ") + accentStyle.Render(ws.Category)
	return search + "   " + category
}

func (m Model) viewList(width int) string {
	box := lipgloss.NewStyle().Width(width)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	if len(m.snap.Visible) == 0 {
		return box.Render(dimStyle.Render("No tasks match."))
	}

	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorAccent)).Bold(true)
	var b strings.Builder
	for i, task := range m.snap.Visible {
		style := lipgloss.NewStyle().Foreground(m.statusColor(task.Status))
		if task.IsDone() {
			style = style.Strikethrough(true)
		}
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("▸ ")
			style = style.Bold(true)
		}
		title := truncate(task.Title, width-4)
		b.WriteString(prefix + style.Render(m.statusIcon(task.Status)+" "+title))
		if i < len(m.snap.Visible)-1 {
			b.WriteString("\n")
		}
	}
	return box.Render(b.String())
}

func (m Model) viewDetail(width int) string {
	box := lipgloss.NewStyle().Width(width)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	task := m.snap.Selected
	if task == nil {
		return box.Render(dimStyle.Render("Select a task to see its details."))
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorAccent))
	statusStyle := lipgloss.NewStyle().Foreground(m.statusColor(task.Status))

	lines := []string{
		titleStyle.Render(task.Title),
		statusStyle.Render(m.statusIcon(task.Status) + " " + task.Status.Label()),
	}
	if task.Category != "" {
		lines = append(lines, dimStyle.Render("Category: ")+task.Category)
	}
	if task.Description != "" {
		lines = append(lines, "", task.Description)
	}
	lines = append(lines, "", dimStyle.Render("Created:   "+task.CreatedAt.Format("2006-01-02 15:04")))
	lines = append(lines, dimStyle.Render("Updated:   "+task.UpdatedAt.Format("2006-01-02 15:04")))
	if task.CompletedAt != nil {
		lines = append(lines, dimStyle.Render("Completed: "+task.CompletedAt.Format("2006-01-02 15:04")))
	}
	return box.Render(strings.Join(lines, "\n"))
}

func (m Model) viewForm(width int) string {
	box := lipgloss.NewStyle().Width(width)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorAccent))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp)).Width(13)
	activeLabel := labelStyle.Foreground(lipgloss.Color(m.theme.ColorAccent)).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorError))

	heading := "New task"
	if m.snap.Workspace.Form.Mode == domain.FormEditing {
		heading = "Edit task"
	}
	lines := []string{titleStyle.Render(heading), ""}

	for i := 0; i < fieldCount; i++ {
		label := labelStyle.Render(fieldLabels[i])
		if i == m.form.focus {
			label = activeLabel.Render(fieldLabels[i])
		}
		var value string
		if i == fieldStatus {
			statusStyle := lipgloss.NewStyle().Foreground(m.statusColor(m.form.status))
			value = statusStyle.Render(fmt.Sprintf("‹ %s %s ›", m.statusIcon(m.form.status), m.form.status.Label()))
		} else {
			value = m.form.inputs[i].View()
		}
		lines = append(lines, label+value)
	}

	if m.form.err != "" {
		lines = append(lines, "", errStyle.Render(m.form.err))
	}
	return box.Render(strings.Join(lines, "\n"))
}

func (m Model) viewFooter() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorError)).Bold(true)

	var lines []string
	if m.mode == modeConfirmDelete {
		if task := m.current(); task != nil {
			lines = append(lines, warnStyle.Render(fmt.Sprintf("Delete %q? [y/N]", task.Title)))
		}
	} else if m.status != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorDone))
		if m.statusErr {
			style = warnStyle
		}
		lines = append(lines, style.Render(m.status))
	}

	var help string
	switch m.mode {
	case modeSearch:
		help = "type to filter · enter keep · esc clear"
	case modeForm:
		help = "tab/↑↓ fields · space cycle status · ctrl+s save · esc cancel"
	case modeConfirmDelete:
		help = "y delete · any other key cancels"
	case modePickCategory:
		help = "↑/↓ move · 1-9 or enter pick · esc back"
	default:
		help = "↑/↓ move · n new · e edit · space done · s status · d delete · / search · c category · tab next category · q quit"
	}
	lines = append(lines, helpStyle.Render(help))
	return strings.Join(lines, "\n")
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
