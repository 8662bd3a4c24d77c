package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/kaizen/internal/adapters/tui"
	"github.com/xvierd/kaizen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit the configuration file",
	Long:  `Show the effective configuration, print the config file path, or walk through the main settings interactively.`,
	// Config subcommands work on the file only; no session is needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCmd.RunE(cmd, args)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, map[string]interface{}{
				"storage":       map[string]interface{}{"driver": cfg.Storage.Driver},
				"seed":          map[string]interface{}{"file": cfg.Seed.File, "builtin": cfg.Seed.Builtin},
				"notifications": map[string]interface{}{"enabled": cfg.Notifications.Enabled, "sound": cfg.Notifications.Sound},
				"logging":       map[string]interface{}{"level": cfg.Logging.Level, "file": cfg.Logging.File, "development": cfg.Logging.Development},
			})
		}

		seedFile := cfg.Seed.File
		if seedFile == "" {
			seedFile = "-"
		}
		logFile := cfg.Logging.File
		if logFile == "" {
			logFile = "-"
		}

		fmt.Fprintln(out, titleStyle.Render("Current configuration:"))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Storage:        %s\n", cfg.Storage.Driver)
		fmt.Fprintf(out, "  Seed file:      %s\n", seedFile)
		fmt.Fprintf(out, "  Built-in seed:  %s\n", onOff(cfg.Seed.Builtin))
		fmt.Fprintf(out, "  Notifications:  %s\n", notificationLabel(cfg.Notifications))
		fmt.Fprintf(out, "  Log level:      %s\n", cfg.Logging.Level)
		fmt.Fprintf(out, "  Log file:       %s\n", logFile)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Walk through the main settings and save them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		updated, ok := runConfigWizard(cfg)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "  No changes made.")
			return nil
		}

		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		if err := config.SaveTo(path, updated); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n  Saved: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// runConfigWizard asks for each setting with the interactive pickers. It
// returns false when the user backs out.
func runConfigWizard(cfg *config.Config) (*config.Config, bool) {
	updated := *cfg
	theme := &cfg.Theme

	driver, ok := tui.RunChoice("Storage:", []tui.Option{
		{Value: config.DriverMemory, Label: "Memory", Hint: "Plain in-process list"},
		{Value: config.DriverSQLite, Label: "SQLite", Hint: "In-memory SQLite database"},
	}, "Either way the session ends when kaizen exits.", theme)
	if !ok {
		return nil, false
	}
	updated.Storage.Driver = driver

	seedFile, ok := tui.RunTextPrompt("Seed file:", "Enter to use the built-in tasks", theme)
	if !ok {
		return nil, false
	}
	updated.Seed.File = seedFile
	updated.Seed.Builtin = true

	notify, ok := tui.RunChoice("Goal notifications:", []tui.Option{
		{Value: "off", Label: "Off"},
		{Value: "on", Label: "On", Hint: "visual only"},
		{Value: "sound", Label: "On", Hint: "with sound"},
	}, "", theme)
	if !ok {
		return nil, false
	}
	updated.Notifications.Enabled = notify != "off"
	updated.Notifications.Sound = notify == "sound"

	return &updated, true
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func notificationLabel(n config.NotificationConfig) string {
	if !n.Enabled {
		return "off"
	}
	if n.Sound {
		return "on (with sound)"
	}
	return "on"
}
