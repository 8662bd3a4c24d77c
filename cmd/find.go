package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Fuzzy-find tasks by title",
	Long:  `Rank task titles against a fuzzy query, best match first.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		tasks, err := app.workspace.FindTasks(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to find tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			data := tasksToJSON(tasks)
			data["query"] = query
			return writeJSON(out, data)
		}

		if len(tasks) == 0 {
			fmt.Fprintf(out, "No tasks match %q.\n", query)
			return nil
		}
		writeTasks(out, tasks)
		return nil
	},
}
