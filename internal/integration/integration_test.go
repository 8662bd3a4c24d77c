package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/xvierd/kaizen/internal/adapters/clock"
	"github.com/xvierd/kaizen/internal/adapters/storage"
	"github.com/xvierd/kaizen/internal/config"
	"github.com/xvierd/kaizen/internal/domain"
	"github.com/xvierd/kaizen/internal/seed"
	"github.com/xvierd/kaizen/internal/services"
)

var day = time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)

var drivers = []string{config.DriverMemory, config.DriverSQLite}

// goalCounter records goal notifications.
type goalCounter struct {
	mu    sync.Mutex
	count int
}

func (g *goalCounter) NotifyGoalReached(domain.DailyProgress) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count++
	return nil
}

// setupSession opens a store for driver, seeds it with the built-in data and
// returns the workspace over it.
func setupSession(t *testing.T, driver string, initial []*domain.Task) (*services.WorkspaceService, *clock.Stepped) {
	t.Helper()

	store, err := storage.Open(driver)
	if err != nil {
		t.Fatalf("failed to open %s storage: %v", driver, err)
	}
	t.Cleanup(func() { _ = store.Close() })

	clk := clock.NewStepped(day, time.Second)
	tasks := services.NewTaskService(store, clk, zap.NewNop())
	if err := tasks.Seed(context.Background(), initial); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return services.NewWorkspaceService(tasks, zap.NewNop()), clk
}

// TestSessionLifecycle walks a full session: browse, create, edit, complete,
// reach the goal, delete.
func TestSessionLifecycle(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			ws, _ := setupSession(t, driver, seed.Builtin(day))
			goals := &goalCounter{}
			ws.SetNotifier(goals)

			// 1. Seeded session
			snap, err := ws.Snapshot(ctx)
			if err != nil {
				t.Fatalf("snapshot: %v", err)
			}
			if len(snap.Visible) != 6 {
				t.Fatalf("expected 6 seeded tasks, got %d", len(snap.Visible))
			}
			if snap.Progress.CompletedToday != 2 || snap.Progress.TotalToday != 3 {
				t.Errorf("expected 2/3 today, got %d/%d", snap.Progress.CompletedToday, snap.Progress.TotalToday)
			}

			// 2. Create through the form
			ws.StartCreate()
			created, err := ws.Save(ctx, domain.TaskInput{Title: "Write report", Category: "work"})
			if err != nil {
				t.Fatalf("save new task: %v", err)
			}
			if created.Status != domain.StatusTodo {
				t.Errorf("expected todo, got %s", created.Status)
			}
			snap, _ = ws.Snapshot(ctx)
			if snap.Visible[0].ID != created.ID {
				t.Error("expected the new task first")
			}
			if snap.Selected == nil || snap.Selected.ID != created.ID {
				t.Error("expected the new task selected")
			}
			if snap.Progress.TotalToday != 4 {
				t.Errorf("expected 4 tasks created today, got %d", snap.Progress.TotalToday)
			}

			// 3. Edit it
			ws.StartEdit(created.ID)
			edited, err := ws.Save(ctx, domain.TaskInput{
				Title:       "Write quarterly report",
				Description: "Numbers from finance",
				Category:    "work",
				Status:      domain.StatusInProgress,
			})
			if err != nil {
				t.Fatalf("save edit: %v", err)
			}
			if edited.Title != "Write quarterly report" || edited.CompletedAt != nil {
				t.Errorf("unexpected edit result: %+v", edited)
			}
			if !edited.UpdatedAt.After(edited.CreatedAt) {
				t.Error("expected updatedAt to move forward")
			}

			// 4. Complete everything created today
			for _, id := range []string{"1", "3", created.ID} {
				if _, err := ws.SetStatus(ctx, id, domain.StatusDone); err != nil {
					t.Fatalf("complete %s: %v", id, err)
				}
			}
			p, _ := ws.Progress(ctx)
			if !p.GoalReached() {
				t.Errorf("expected goal reached, got %+v", p)
			}
			if goals.count != 1 {
				t.Errorf("expected 1 goal notification, got %d", goals.count)
			}

			// 5. Filter
			work, _ := ws.ListTasks(ctx, "report", "work")
			if len(work) != 1 || work[0].ID != created.ID {
				t.Errorf("expected only the report, got %d tasks", len(work))
			}

			// 6. Delete the selection
			if err := ws.Delete(ctx, created.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			snap, _ = ws.Snapshot(ctx)
			if snap.Selected != nil || snap.Workspace.SelectedTaskID != nil {
				t.Error("expected selection cleared after delete")
			}
			if len(snap.Visible) != 6 {
				t.Errorf("expected 6 tasks after delete, got %d", len(snap.Visible))
			}
			if err := ws.Delete(ctx, created.ID); err != nil {
				t.Errorf("expected repeated delete to succeed, got %v", err)
			}
		})
	}
}

// TestExportReseed checks that a TOML export seeds an identical session.
func TestExportReseed(t *testing.T) {
	ctx := context.Background()
	ws, _ := setupSession(t, config.DriverMemory, seed.Builtin(day))

	if _, err := ws.ToggleDone(ctx, "1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	original, _ := ws.Tasks().List(ctx)

	data, err := seed.Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	parsed, err := seed.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			reseeded, _ := setupSession(t, driver, parsed)
			tasks, _ := reseeded.Tasks().List(ctx)
			if len(tasks) != len(original) {
				t.Fatalf("expected %d tasks, got %d", len(original), len(tasks))
			}
			for i := range tasks {
				if tasks[i].ID != original[i].ID || tasks[i].Status != original[i].Status {
					t.Errorf("task %d: got %s/%s, want %s/%s", i, tasks[i].ID, tasks[i].Status, original[i].ID, original[i].Status)
				}
				if (tasks[i].CompletedAt == nil) != (original[i].CompletedAt == nil) {
					t.Errorf("task %d: completedAt presence differs", i)
				}
			}
			want := domain.ComputeProgress(original, day)
			got := domain.ComputeProgress(tasks, day)
			if got.CompletedToday != want.CompletedToday || got.TotalToday != want.TotalToday {
				t.Errorf("progress %d/%d, want %d/%d", got.CompletedToday, got.TotalToday, want.CompletedToday, want.TotalToday)
			}
		})
	}
}

// TestConcurrentIntents mirrors MCP tool calls arriving on separate goroutines.
func TestConcurrentIntents(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			ws, _ := setupSession(t, driver, nil)

			const workers = 8
			const perWorker = 10

			var wg sync.WaitGroup
			errs := make(chan error, workers*perWorker*3)
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						task, err := ws.CreateTask(ctx, domain.TaskInput{Title: fmt.Sprintf("task %d-%d", w, i)})
						if err != nil {
							errs <- err
							continue
						}
						if i%2 == 0 {
							if _, err := ws.ToggleDone(ctx, task.ID); err != nil {
								errs <- err
							}
						}
						if _, err := ws.Snapshot(ctx); err != nil {
							errs <- err
						}
					}
				}(w)
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				t.Errorf("concurrent intent failed: %v", err)
			}

			tasks, _ := ws.Tasks().List(ctx)
			if len(tasks) != workers*perWorker {
				t.Fatalf("expected %d tasks, got %d", workers*perWorker, len(tasks))
			}
			seen := make(map[string]bool)
			for _, task := range tasks {
				if seen[task.ID] {
					t.Errorf("duplicate id %s", task.ID)
				}
				seen[task.ID] = true
				if task.IsDone() != (task.CompletedAt != nil) {
					t.Errorf("task %s: status %s with completedAt %v", task.ID, task.Status, task.CompletedAt)
				}
			}

			p, _ := ws.Progress(ctx)
			if p.TotalToday != workers*perWorker || p.CompletedToday != workers*perWorker/2 {
				t.Errorf("progress %d/%d, want %d/%d", p.CompletedToday, p.TotalToday, workers*perWorker/2, workers*perWorker)
			}
		})
	}
}

// TestConcurrentIntentsSameTask sends an edit and a status change for one task
// at the same time; both must land.
func TestConcurrentIntentsSameTask(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			ws, _ := setupSession(t, driver, nil)
			goals := &goalCounter{}
			ws.SetNotifier(goals)

			const rounds = 50
			for i := 0; i < rounds; i++ {
				task, err := ws.CreateTask(ctx, domain.TaskInput{Title: fmt.Sprintf("task %d", i), Category: "work"})
				if err != nil {
					t.Fatalf("create: %v", err)
				}

				title := fmt.Sprintf("renamed %d", i)
				var wg sync.WaitGroup
				wg.Add(2)
				go func() {
					defer wg.Done()
					if _, err := ws.UpdateTask(ctx, task.ID, domain.TaskPatch{Title: &title}); err != nil {
						t.Errorf("update: %v", err)
					}
				}()
				go func() {
					defer wg.Done()
					if _, err := ws.SetStatus(ctx, task.ID, domain.StatusDone); err != nil {
						t.Errorf("set status: %v", err)
					}
				}()
				wg.Wait()

				stored, err := ws.GetTask(ctx, task.ID)
				if err != nil {
					t.Fatalf("get: %v", err)
				}
				if stored.Title != title || stored.Status != domain.StatusDone {
					t.Fatalf("round %d: got %q/%s, want %q/done", i, stored.Title, stored.Status, title)
				}
			}

			// Every round starts below the goal and ends on it.
			goals.mu.Lock()
			defer goals.mu.Unlock()
			if goals.count != rounds {
				t.Errorf("expected %d goal notifications, got %d", rounds, goals.count)
			}
		})
	}
}
