// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/kaizen/internal/config"
	"github.com/xvierd/kaizen/internal/domain"
	"github.com/xvierd/kaizen/internal/services"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirmDelete
	modePickCategory
)

// tickMsg refreshes the view so progress follows the calendar day.
type tickMsg time.Time

// snapshotMsg carries a freshly read snapshot.
type snapshotMsg struct {
	snap *domain.Snapshot
	err  error
}

// Model represents the TUI state. All task state lives in the workspace;
// the model keeps only what it needs to render and the input widgets.
type Model struct {
	ctx       context.Context
	workspace *services.WorkspaceService
	snap      *domain.Snapshot

	mode     mode
	cursor   int
	search   textinput.Model
	form     taskForm
	picker   choiceList
	progress progress.Model
	theme    config.ThemeConfig

	width  int
	height int

	// status is a one-line message shown above the help line.
	status    string
	statusErr bool
}

// NewModel creates a new TUI model over a workspace.
func NewModel(ctx context.Context, workspace *services.WorkspaceService, theme *config.ThemeConfig) Model {
	resolved := resolveTheme(theme)

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.Prompt = "/ "
	search.CharLimit = 80

	m := Model{
		ctx:       ctx,
		workspace: workspace,
		search:    search,
		progress:  progress.New(progress.WithGradient(resolved.ProgressGradStart, resolved.ProgressGradEnd)),
		theme:     resolved,
		width:     getTerminalWidth(),
	}
	m.progress.Width = progressWidth(m.width)
	m.refresh()
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd creates a command that sends a tick message once a minute.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchSnapshotCmd reads a snapshot off the update loop.
func fetchSnapshotCmd(ctx context.Context, ws *services.WorkspaceService) tea.Cmd {
	return func() tea.Msg {
		snap, err := ws.Snapshot(ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

// refresh re-reads the snapshot after an intent and keeps the cursor on the
// selected task when it is visible.
func (m *Model) refresh() {
	snap, err := m.workspace.Snapshot(m.ctx)
	if err != nil {
		m.setError(err)
		return
	}
	m.applySnapshot(snap)
}

func (m *Model) applySnapshot(snap *domain.Snapshot) {
	m.snap = snap
	if snap.Selected != nil {
		for i, t := range snap.Visible {
			if t.ID == snap.Selected.ID {
				m.cursor = i
				break
			}
		}
	}
	if m.cursor >= len(snap.Visible) {
		m.cursor = len(snap.Visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// current returns the task under the cursor, or nil.
func (m Model) current() *domain.Task {
	if m.snap == nil || m.cursor < 0 || m.cursor >= len(m.snap.Visible) {
		return nil
	}
	return m.snap.Visible[m.cursor]
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = progressWidth(msg.Width)
		return m, nil

	case tickMsg:
		return m, tea.Batch(tickCmd(), fetchSnapshotCmd(m.ctx, m.workspace))

	case snapshotMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else if msg.snap != nil {
			m.applySnapshot(msg.snap)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modePickCategory:
			return m.updatePickCategory(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd, _ = m.form.update(msg)
		return m, cmd
	}
	if m.mode == modeSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.statusErr = "", false

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.selectCurrent()
		}

	case "down", "j":
		if m.snap != nil && m.cursor < len(m.snap.Visible)-1 {
			m.cursor++
			m.selectCurrent()
		}

	case "enter":
		m.selectCurrent()

	case "esc":
		m.workspace.ClearSelection()
		m.refresh()

	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.workspace.Workspace().SearchTerm)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case "c":
		m.openCategoryPicker()

	case "tab":
		m.cycleCategory()

	case "n":
		m.workspace.StartCreate()
		m.form = formFor(nil, formWidth(m.width))
		m.mode = modeForm
		m.refresh()
		return m, textinput.Blink

	case "e":
		task := m.current()
		if task == nil {
			return m, nil
		}
		m.workspace.Select(task.ID)
		m.workspace.StartEdit(task.ID)
		m.form = formFor(task, formWidth(m.width))
		m.mode = modeForm
		m.refresh()
		return m, textinput.Blink

	case " ":
		task := m.current()
		if task == nil {
			return m, nil
		}
		updated, err := m.workspace.ToggleDone(m.ctx, task.ID)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.workspace.Select(task.ID)
		m.announce(updated)

	case "s":
		task := m.current()
		if task == nil {
			return m, nil
		}
		updated, err := m.workspace.SetStatus(m.ctx, task.ID, task.Status.Next())
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.workspace.Select(task.ID)
		m.announce(updated)

	case "d":
		if m.current() != nil {
			m.mode = modeConfirmDelete
		}
	}

	return m, nil
}

// announce refreshes after a status change and reports it.
func (m *Model) announce(task *domain.Task) {
	m.refresh()
	if m.statusErr {
		return
	}
	m.setStatus(task.Title + " → " + task.Status.Label())
	if task.IsDone() && m.snap != nil && m.snap.Progress.GoalReached() {
		m.setStatus(m.theme.IconGoalReached + " Daily goal reached!")
	}
}

func (m *Model) selectCurrent() {
	if task := m.current(); task != nil {
		m.workspace.Select(task.ID)
		m.refresh()
	}
}

// cycleCategory moves the category filter to the next known category,
// wrapping back to all.
func (m *Model) cycleCategory() {
	categories, err := m.workspace.Categories(m.ctx)
	if err != nil {
		m.setError(err)
		return
	}
	options := append([]string{domain.AllCategories}, categories...)
	current := m.workspace.Workspace().Category
	next := options[0]
	for i, c := range options {
		if c == current {
			next = options[(i+1)%len(options)]
			break
		}
	}
	m.workspace.SetCategory(next)
	m.cursor = 0
	m.refresh()
}

// openCategoryPicker lists the categories with their task counts, the
// cursor on the active filter.
func (m *Model) openCategoryPicker() {
	categories, err := m.workspace.Categories(m.ctx)
	if err != nil {
		m.setError(err)
		return
	}
	tasks, err := m.workspace.Tasks().List(m.ctx)
	if err != nil {
		m.setError(err)
		return
	}
	current := m.workspace.Workspace().Category
	m.picker = newChoiceList("Category", categoryOptions(tasks, categories), current)
	m.mode = modePickCategory
}

func (m Model) updatePickCategory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var outcome choiceOutcome
	m.picker, outcome = m.picker.update(msg)
	switch outcome {
	case choicePicked:
		m.mode = modeBrowse
		category := m.picker.selected().Value
		m.workspace.SetCategory(category)
		m.cursor = 0
		m.refresh()
		m.setStatus("Category: " + category)
	case choiceCancelled:
		m.mode = modeBrowse
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeBrowse
		m.search.Blur()
		m.search.SetValue("")
		m.workspace.SetSearch("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.workspace.SetSearch(m.search.Value())
	m.cursor = 0
	m.refresh()
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.workspace.CloseForm()
		m.mode = modeBrowse
		m.refresh()
		return m, nil
	}

	var (
		cmd    tea.Cmd
		submit bool
	)
	m.form, cmd, submit = m.form.update(msg)
	if !submit {
		return m, cmd
	}

	task, err := m.workspace.Save(m.ctx, m.form.input())
	if err != nil {
		// The form stays open so the user can fix the input.
		m.form.err = err.Error()
		if services.IsNotFound(err) || errors.Is(err, domain.ErrNoActiveForm) {
			m.workspace.CloseForm()
			m.mode = modeBrowse
			m.setError(err)
		}
		m.refresh()
		return m, nil
	}

	m.mode = modeBrowse
	m.refresh()
	m.setStatus("Saved " + task.Title)
	if task.IsDone() && m.snap != nil && m.snap.Progress.GoalReached() {
		m.setStatus(m.theme.IconGoalReached + " Daily goal reached!")
	}
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	task := m.current()
	if task == nil {
		return m, nil
	}

	switch msg.String() {
	case "y", "d":
		if err := m.workspace.Delete(m.ctx, task.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.refresh()
		m.setStatus("Deleted " + task.Title)
	default:
		m.setStatus("Delete cancelled")
	}
	return m, nil
}

// Run starts the full-screen TUI and blocks until the user quits.
func Run(ctx context.Context, workspace *services.WorkspaceService, theme *config.ThemeConfig) error {
	p := tea.NewProgram(NewModel(ctx, workspace, theme), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
