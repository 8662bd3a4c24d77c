package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/kaizen/internal/domain"
)

var (
	listSearch   string
	listCategory string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List the tasks of the session, most recent first.
--search matches title or description, ignoring case; --category keeps one category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := app.workspace.ListTasks(cmd.Context(), listSearch, listCategory)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, tasksToJSON(tasks))
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Tasks (%d):", len(tasks))))
		fmt.Fprintln(out)
		writeTasks(out, tasks)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only tasks whose title or description contains this text")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", domain.AllCategories, "Only tasks in this category")
}
