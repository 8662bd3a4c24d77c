package domain

// FormMode describes whether the create/edit form is open.
type FormMode string

const (
	FormClosed   FormMode = "closed"
	FormCreating FormMode = "creating"
	FormEditing  FormMode = "editing"
)

// FormSession tracks the create/edit form. TaskID is set only while editing.
type FormSession struct {
	Mode   FormMode
	TaskID string
}

// ClosedForm returns a closed form session.
func ClosedForm() FormSession {
	return FormSession{Mode: FormClosed}
}

// IsOpen returns true while a create or edit is in progress.
func (f FormSession) IsOpen() bool {
	return f.Mode == FormCreating || f.Mode == FormEditing
}

// IsEditing reports whether the form is editing the task with id.
func (f FormSession) IsEditing(id string) bool {
	return f.Mode == FormEditing && f.TaskID == id
}

// Workspace is the ephemeral selection and form state of a session.
// It is not part of the task collection.
type Workspace struct {
	SelectedTaskID *string
	Form           FormSession
	SearchTerm     string
	Category       string
}

// NewWorkspace returns the initial workspace: nothing selected, form closed,
// empty search, every category.
func NewWorkspace() Workspace {
	return Workspace{
		Form:     ClosedForm(),
		Category: AllCategories,
	}
}

// IsSelected reports whether id is the selected task.
func (w Workspace) IsSelected(id string) bool {
	return w.SelectedTaskID != nil && *w.SelectedTaskID == id
}

// Snapshot captures every derived view of a session at a point in time.
type Snapshot struct {
	Workspace Workspace
	Visible   []*Task
	Selected  *Task
	Editing   *Task
	Progress  DailyProgress
}
