package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/kaizen/internal/domain"
	"github.com/xvierd/kaizen/internal/seed"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the task collection",
	Long: `Export the tasks of the session in markdown, CSV or TOML format.
TOML output can be fed back with --seed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := app.tasks.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		switch exportFormat {
		case "csv":
			return exportCSV(out, tasks)
		case "toml":
			return exportTOML(out, tasks)
		case "md", "":
			p, err := app.workspace.Progress(cmd.Context())
			if err != nil {
				return err
			}
			return exportMarkdown(out, tasks, p)
		default:
			return fmt.Errorf("unknown format %q (want md, csv or toml)", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md, csv or toml")
}

func exportMarkdown(w io.Writer, tasks []*domain.Task, p domain.DailyProgress) error {
	fmt.Fprintf(w, "# Kaizen Task Export\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Today: %d/%d completed (%.0f%%)\n\n", p.CompletedToday, p.TotalToday, p.Percentage)

	for _, t := range tasks {
		check := " "
		if t.IsDone() {
			check = "x"
		}
		fmt.Fprintf(w, "- [%s] %s", check, t.Title)
		if t.Category != "" {
			fmt.Fprintf(w, " `%s`", t.Category)
		}
		fmt.Fprintln(w)
		if t.Description != "" {
			fmt.Fprintf(w, "  - %s\n", t.Description)
		}
		fmt.Fprintf(w, "  - Status: %s\n", t.Status.Label())
		if t.CompletedAt != nil {
			fmt.Fprintf(w, "  - Completed: %s\n", t.CompletedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func exportCSV(w io.Writer, tasks []*domain.Task) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{
		"id", "title", "description", "category", "status",
		"created_at", "updated_at", "completed_at",
	})

	for _, t := range tasks {
		completedAt := ""
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.Format(time.RFC3339)
		}
		_ = cw.Write([]string{
			t.ID,
			t.Title,
			t.Description,
			t.Category,
			string(t.Status),
			t.CreatedAt.Format(time.RFC3339),
			t.UpdatedAt.Format(time.RFC3339),
			completedAt,
		})
	}
	cw.Flush()
	return cw.Error()
}

func exportTOML(w io.Writer, tasks []*domain.Task) error {
	data, err := seed.Encode(tasks)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
