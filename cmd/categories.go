package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List task categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := app.workspace.Categories(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, map[string]interface{}{
				"categories": categories,
				"count":      len(categories),
			})
		}

		if len(categories) == 0 {
			fmt.Fprintln(out, "No categories yet.")
			return nil
		}
		for _, c := range categories {
			fmt.Fprintln(out, c)
		}
		return nil
	},
}
