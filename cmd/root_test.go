package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/kaizen/internal/config"
	"github.com/xvierd/kaizen/internal/domain"
	"github.com/xvierd/kaizen/internal/seed"
)

// executeCmd is a helper to execute a cobra command in tests
func executeCmd(cmd *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	bufOut := new(bytes.Buffer)
	bufErr := new(bytes.Buffer)

	cmd.SetOut(bufOut)
	cmd.SetErr(bufErr)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

// resetFlags restores flag variables, which outlive a single Execute.
func resetFlags() {
	configPath, seedPath, storageDriver, jsonOutput = "", "", "", false
	listSearch, listCategory = "", domain.AllCategories
	progressDate = ""
	exportFormat = "md"
}

// setupConfig writes a quiet config into a temp dir and returns its path.
func setupConfig(t *testing.T) string {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	cfg := config.DefaultConfig()
	cfg.Logging.Level = "off"
	cfg.Notifications.Enabled = false
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, config.SaveTo(path, cfg))
	return path
}

// run executes the root command against the config at path.
func run(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := executeCmd(rootCmd, append([]string{"--config", path}, args...)...)
	return stdout, err
}

func decodeJSON(t *testing.T, out string) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &data), out)
	return data
}

func titles(t *testing.T, data map[string]interface{}) []string {
	t.Helper()
	raw, ok := data["tasks"].([]interface{})
	require.True(t, ok)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		out = append(out, item.(map[string]interface{})["title"].(string))
	}
	return out
}

func TestRootCmd_Structure(t *testing.T) {
	require.NotNil(t, rootCmd)
	assert.Equal(t, "kaizen", rootCmd.Use)

	for _, name := range []string{"config", "seed", "storage", "json"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "--%s should be registered", name)
	}

	for _, name := range []string{"list", "find", "progress", "categories", "export", "mcp", "config"} {
		found, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, found.Name())
	}
}

func TestRootCmd_Help(t *testing.T) {
	resetFlags()
	stdout, _, err := executeCmd(rootCmd, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "kaizen")
}

func TestListCmd(t *testing.T) {
	path := setupConfig(t)

	out, err := run(t, path, "list", "--json")
	require.NoError(t, err)
	data := decodeJSON(t, out)
	assert.EqualValues(t, 6, data["count"])
	assert.Equal(t, "Review pull requests", titles(t, data)[0])

	out, err = run(t, path, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks (6):")
	assert.Contains(t, out, "● Morning run")
	assert.Contains(t, out, "(2 · health)")
}

func TestListCmd_Filters(t *testing.T) {
	path := setupConfig(t)

	out, err := run(t, path, "list", "--json", "--search", "RUN")
	require.NoError(t, err)
	assert.Equal(t, []string{"Morning run"}, titles(t, decodeJSON(t, out)))

	out, err = run(t, path, "list", "--json", "--search", "", "--category", "work")
	require.NoError(t, err)
	assert.Equal(t, []string{"Review pull requests", "Prepare sprint planning"}, titles(t, decodeJSON(t, out)))

	out, err = run(t, path, "list", "--search", "nothing like this", "--category", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")
}

func TestFindCmd(t *testing.T) {
	path := setupConfig(t)

	out, err := run(t, path, "find", "grocer", "--json")
	require.NoError(t, err)
	data := decodeJSON(t, out)
	assert.Equal(t, "grocer", data["query"])
	found := titles(t, data)
	require.NotEmpty(t, found)
	assert.Equal(t, "Buy groceries", found[0])

	out, err = run(t, path, "find", "zzzz")
	require.NoError(t, err)
	assert.Contains(t, out, `No tasks match "zzzz".`)

	_, err = run(t, path, "find")
	assert.Error(t, err, "find needs a query")
}

func TestProgressCmd(t *testing.T) {
	path := setupConfig(t)

	out, err := run(t, path, "progress", "--json")
	require.NoError(t, err)
	data := decodeJSON(t, out)
	assert.EqualValues(t, 2, data["completed_today"])
	assert.EqualValues(t, 3, data["total_today"])
	assert.Equal(t, false, data["goal_reached"])
	assert.Equal(t, time.Now().Format("2006-01-02"), data["date"])

	out, err = run(t, path, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "2/3")
}

func TestProgressCmd_Date(t *testing.T) {
	path := setupConfig(t)

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	out, err := run(t, path, "progress", "--json", "--date", yesterday)
	require.NoError(t, err)
	data := decodeJSON(t, out)
	assert.EqualValues(t, 0, data["completed_today"])
	assert.EqualValues(t, 1, data["total_today"])
	assert.Equal(t, yesterday, data["date"])

	_, err = run(t, path, "progress", "--date", "15/03/2024")
	assert.ErrorContains(t, err, "invalid date")
}

func TestCategoriesCmd(t *testing.T) {
	path := setupConfig(t)

	out, err := run(t, path, "categories")
	require.NoError(t, err)
	assert.Equal(t, "health\nlearning\npersonal\nwork\n", out)

	out, err = run(t, path, "categories", "--json")
	require.NoError(t, err)
	assert.EqualValues(t, 4, decodeJSON(t, out)["count"])
}

func TestExportCmd(t *testing.T) {
	path := setupConfig(t)

	out, err := run(t, path, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "# Kaizen Task Export")
	assert.Contains(t, out, "Today: 2/3 completed (67%)")
	assert.Contains(t, out, "- [x] Morning run `health`")
	assert.Contains(t, out, "- [ ] Buy groceries `personal`")

	out, err = run(t, path, "export", "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "id,title,description,category,status,created_at,updated_at,completed_at", lines[0])

	out, err = run(t, path, "export", "--format", "toml")
	require.NoError(t, err)
	tasks, err := seed.Parse([]byte(out))
	require.NoError(t, err)
	require.Len(t, tasks, 6)
	assert.Equal(t, "1", tasks[0].ID)

	_, err = run(t, path, "export", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestStorageFlag(t *testing.T) {
	path := setupConfig(t)

	out, err := run(t, path, "--storage", "sqlite", "list", "--json")
	require.NoError(t, err)
	assert.EqualValues(t, 6, decodeJSON(t, out)["count"])

	_, err = run(t, path, "--storage", "postgres", "list")
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestSeedFlag(t *testing.T) {
	path := setupConfig(t)

	seedFile := filepath.Join(t.TempDir(), "tasks.toml")
	require.NoError(t, os.WriteFile(seedFile, []byte(`
[[tasks]]
id = "a"
title = "Only task"
category = "misc"
status = "todo"
created_at = 2024-03-15T09:00:00Z
updated_at = 2024-03-15T09:00:00Z
`), 0o600))

	out, err := run(t, path, "--seed", seedFile, "list", "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"Only task"}, titles(t, decodeJSON(t, out)))

	_, err = run(t, path, "--seed", filepath.Join(t.TempDir(), "missing.toml"), "list")
	assert.ErrorContains(t, err, "failed to read seed file")
}

func TestConfigCmd(t *testing.T) {
	path := setupConfig(t)

	out, err := run(t, path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	out, err = run(t, path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Storage:        memory")
	assert.Contains(t, out, "Notifications:  off")

	out, err = run(t, path, "config", "show", "--json")
	require.NoError(t, err)
	data := decodeJSON(t, out)
	assert.Equal(t, "memory", data["storage"].(map[string]interface{})["driver"])
}

func TestNotificationLabel(t *testing.T) {
	assert.Equal(t, "off", notificationLabel(config.NotificationConfig{}))
	assert.Equal(t, "on", notificationLabel(config.NotificationConfig{Enabled: true}))
	assert.Equal(t, "on (with sound)", notificationLabel(config.NotificationConfig{Enabled: true, Sound: true}))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░", progressBar(0, 4))
	assert.Equal(t, "██░░", progressBar(50, 4))
	assert.Equal(t, "████", progressBar(150, 4))
}
