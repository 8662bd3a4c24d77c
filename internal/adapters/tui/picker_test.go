package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/kaizen/internal/config"
	"github.com/xvierd/kaizen/internal/domain"
)

func testOptions() []Option {
	return []Option{
		{Value: "a", Label: "Alpha"},
		{Value: "b", Label: "Beta"},
		{Value: "c", Label: "Gamma"},
	}
}

func TestNewChoiceList_CursorOnCurrent(t *testing.T) {
	if got := newChoiceList("T", testOptions(), "b").selected().Value; got != "b" {
		t.Errorf("selected = %q, want b", got)
	}
	if got := newChoiceList("T", testOptions(), "zzz").selected().Value; got != "a" {
		t.Errorf("unknown current: selected = %q, want a", got)
	}
	if got := newChoiceList("T", nil, "").selected(); got != (Option{}) {
		t.Errorf("empty list: selected = %+v, want zero", got)
	}
}

func TestChoiceList_Update(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		want    string
		outcome choiceOutcome
	}{
		{"down then enter", []string{"down", "enter"}, "b", choicePicked},
		{"clamped at the end", []string{"down", "down", "down", "enter"}, "c", choicePicked},
		{"clamped at the start", []string{"up", "enter"}, "a", choicePicked},
		{"digit picks", []string{"3"}, "c", choicePicked},
		{"digit out of range", []string{"9"}, "a", choicePending},
		{"esc cancels", []string{"down", "esc"}, "b", choiceCancelled},
		{"end jumps", []string{"G"}, "c", choicePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newChoiceList("T", testOptions(), "")
			outcome := choicePending
			for _, k := range tt.keys {
				l, outcome = l.update(key(k).(tea.KeyMsg))
			}
			if outcome != tt.outcome {
				t.Errorf("outcome = %v, want %v", outcome, tt.outcome)
			}
			if got := l.selected().Value; got != tt.want {
				t.Errorf("selected = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChoiceList_View(t *testing.T) {
	theme := config.DefaultThemeConfig()
	l := newChoiceList("Pick", []Option{{Value: "a", Label: "Alpha", Hint: "first"}}, "a")

	wide := l.view(theme, 80)
	if !strings.Contains(wide, "Alpha") || !strings.Contains(wide, "first") {
		t.Errorf("wide view should show label and hint, got %q", wide)
	}
	narrow := l.view(theme, 30)
	if strings.Contains(narrow, "\n") || strings.Contains(narrow, "first") {
		t.Errorf("narrow view should be one row without hints, got %q", narrow)
	}
}

func TestCategoryOptions(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "1", Category: "work"},
		{ID: "2", Category: "work"},
		{ID: "3", Category: "home"},
	}
	got := categoryOptions(tasks, []string{"home", "work"})
	want := []Option{
		{Value: domain.AllCategories, Label: domain.AllCategories, Hint: "3 tasks"},
		{Value: "home", Label: "home", Hint: "1 task"},
		{Value: "work", Label: "work", Hint: "2 tasks"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d options, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("option %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestChoiceProgram_QuitsOnOutcome(t *testing.T) {
	m := choiceProgram{list: newChoiceList("T", testOptions(), ""), theme: config.DefaultThemeConfig(), width: 80}

	result, cmd := m.Update(key("down"))
	if isQuit(cmd) {
		t.Fatal("moving should not quit")
	}
	result, cmd = result.(choiceProgram).Update(key("enter"))
	if !isQuit(cmd) {
		t.Fatal("enter should quit")
	}
	final := result.(choiceProgram)
	if final.outcome != choicePicked || final.list.selected().Value != "b" {
		t.Errorf("outcome %v selected %q, want picked b", final.outcome, final.list.selected().Value)
	}

	_, cmd = m.Update(key("ctrl+c"))
	if !isQuit(cmd) {
		t.Error("ctrl+c should quit")
	}
}
