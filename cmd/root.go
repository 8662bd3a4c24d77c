// Package cmd provides the CLI commands for the Kaizen application.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xvierd/kaizen/internal/adapters/tui"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath    string
	seedPath      string
	storageDriver string
	jsonOutput    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kaizen",
	Short: "Kaizen - a daily task tracker",
	Long: `Kaizen keeps a list of tasks for the current session: create, edit,
categorize, search and complete them, and watch today's progress fill up.

Run "kaizen" with no arguments to open the interactive task board.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices(cmd == cmd.Root() || cmd.Name() == "mcp")
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runBoard,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.kaizen/config.toml)")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "TOML file with the tasks to start the session with")
	rootCmd.PersistentFlags().StringVar(&storageDriver, "storage", "", "Task store for the session: memory or sqlite")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Kaizen\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
}

// runBoard opens the fullscreen task board on the seeded session.
func runBoard(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()
	if err := tui.Run(ctx, app.workspace, &app.config.Theme); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
