package domain

import "testing"

func filterFixture() []*Task {
	return []*Task{
		{ID: "1", Title: "Buy Milk", Description: "", Category: "personal", Status: StatusTodo},
		{ID: "2", Title: "Quarterly report", Description: "Include MILK sales", Category: "work", Status: StatusDone},
		{ID: "3", Title: "Gym", Description: "leg day", Category: "health", Status: StatusInProgress},
		{ID: "4", Title: "Plan sprint", Description: "", Category: "work", Status: StatusTodo},
	}
}

func ids(tasks []*Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestFilterTasks(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{"identity", "", AllCategories, []string{"1", "2", "3", "4"}},
		{"case-insensitive title", "milk", AllCategories, []string{"1", "2"}},
		{"matches description", "LEG", AllCategories, []string{"3"}},
		{"category only", "", "work", []string{"2", "4"}},
		{"search and category", "milk", "work", []string{"2"}},
		{"category is exact", "", "Work", []string{}},
		{"no match", "zzz", AllCategories, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterTasks(filterFixture(), tt.search, tt.category))
			if len(got) != len(tt.want) {
				t.Fatalf("FilterTasks() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FilterTasks() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestFilterTasks_Empty(t *testing.T) {
	if got := FilterTasks(nil, "x", AllCategories); len(got) != 0 {
		t.Errorf("FilterTasks(nil) = %v, want empty", got)
	}
}
