package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/kaizen/internal/domain"
)

var progressDate string

// progressCmd represents the progress command
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show daily progress",
	Long: `Show how many tasks were completed on a day against how many were created
on it. Defaults to today.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var (
			p   domain.DailyProgress
			err error
		)
		if progressDate == "" {
			p, err = app.workspace.Progress(ctx)
		} else {
			p, err = progressOn(cmd, progressDate)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, progressToJSON(p))
		}

		fmt.Fprintln(out, titleStyle.Render(formatDate(p.Date)))
		fmt.Fprintf(out, "%s %3.0f%%  %d/%d\n", progressBar(p.Percentage, 20), p.Percentage, p.CompletedToday, p.TotalToday)
		if p.GoalReached() {
			fmt.Fprintln(out, doneStyle.Render("🎉 Daily goal reached!"))
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().StringVar(&progressDate, "date", "", "Day to report on (YYYY-MM-DD, default today)")
}

// progressOn computes the progress for a calendar day in local time.
func progressOn(cmd *cobra.Command, date string) (domain.DailyProgress, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return domain.DailyProgress{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	tasks, err := app.tasks.List(cmd.Context())
	if err != nil {
		return domain.DailyProgress{}, err
	}
	return domain.ComputeProgress(tasks, day), nil
}
