package domain

import "strings"

// AllCategories is the category selector value that matches every task.
const AllCategories = "all"

// FilterTasks returns the tasks whose title or description contains
// searchTerm (case-insensitive) and whose category matches category.
// The input order is preserved.
func FilterTasks(tasks []*Task, searchTerm, category string) []*Task {
	term := strings.ToLower(searchTerm)
	result := make([]*Task, 0, len(tasks))
	for _, task := range tasks {
		if matchesSearch(task, term) && matchesCategory(task, category) {
			result = append(result, task)
		}
	}
	return result
}

func matchesSearch(task *Task, lowerTerm string) bool {
	if lowerTerm == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Title), lowerTerm) ||
		strings.Contains(strings.ToLower(task.Description), lowerTerm)
}

func matchesCategory(task *Task, category string) bool {
	return category == AllCategories || task.Category == category
}
