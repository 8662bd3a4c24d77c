package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/kaizen/internal/domain"
)

// Form field order. The status field is not a text input; it cycles.
const (
	fieldTitle = iota
	fieldDescription
	fieldCategory
	fieldStatus
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Category", "Status"}

// taskForm holds the inputs of the create/edit form.
type taskForm struct {
	inputs [fieldStatus]textinput.Model
	status domain.TaskStatus
	focus  int
	err    string
}

func newTaskForm(width int) taskForm {
	var f taskForm
	placeholders := [fieldStatus]string{"What needs doing?", "Optional details", "work, personal, ..."}
	limits := [fieldStatus]int{120, 500, 40}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = width
		f.inputs[i] = ti
	}
	f.status = domain.StatusTodo
	f.setFocus(fieldTitle)
	return f
}

// formFor returns a form prefilled from task, or an empty one when task is nil.
func formFor(task *domain.Task, width int) taskForm {
	f := newTaskForm(width)
	if task == nil {
		return f
	}
	f.inputs[fieldTitle].SetValue(task.Title)
	f.inputs[fieldDescription].SetValue(task.Description)
	f.inputs[fieldCategory].SetValue(task.Category)
	for i := range f.inputs {
		f.inputs[i].CursorEnd()
	}
	f.status = task.Status
	return f
}

func (f *taskForm) setFocus(field int) {
	f.focus = field
	for i := range f.inputs {
		if i == field {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *taskForm) next() {
	f.setFocus((f.focus + 1) % fieldCount)
}

func (f *taskForm) prev() {
	f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

// input returns the form contents as a task input.
func (f taskForm) input() domain.TaskInput {
	return domain.TaskInput{
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Category:    strings.TrimSpace(f.inputs[fieldCategory].Value()),
		Status:      f.status,
	}
}

// update routes a message to the focused field. It reports submit when the
// user asks to save.
func (f taskForm) update(msg tea.Msg) (taskForm, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.next()
			return f, nil, false
		case "shift+tab", "up":
			f.prev()
			return f, nil, false
		case "ctrl+s":
			return f, nil, true
		case "enter":
			if f.focus == fieldStatus {
				return f, nil, true
			}
			f.next()
			return f, nil, false
		}
		if f.focus == fieldStatus {
			switch key.String() {
			case " ", "right", "l":
				f.status = f.status.Next()
			}
			return f, nil, false
		}
	}

	if f.focus == fieldStatus {
		return f, nil, false
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}
