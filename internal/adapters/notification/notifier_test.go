package notification

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/kaizen/internal/config"
	"github.com/xvierd/kaizen/internal/domain"
)

type sent struct {
	title, message string
}

func newTestNotifier(cfg *config.NotificationConfig) (*Notifier, *[]sent, *int) {
	var got []sent
	beeps := 0
	n := New(cfg)
	n.notify = func(title, message string) error {
		got = append(got, sent{title, message})
		return nil
	}
	n.beep = func() error {
		beeps++
		return nil
	}
	return n, &got, &beeps
}

func TestNotifier_Disabled(t *testing.T) {
	n, got, _ := newTestNotifier(&config.NotificationConfig{Enabled: false})
	require.NoError(t, n.Notify("t", "m"))
	assert.Empty(t, *got)
	assert.False(t, n.IsEnabled())

	nilCfg := New(nil)
	assert.False(t, nilCfg.IsEnabled())
	assert.NoError(t, nilCfg.Notify("t", "m"))
}

func TestNotifier_GoalReached(t *testing.T) {
	n, got, beeps := newTestNotifier(&config.NotificationConfig{Enabled: true, Sound: true})

	err := n.NotifyGoalReached(domain.DailyProgress{CompletedToday: 3, TotalToday: 3, Percentage: 100})
	require.NoError(t, err)
	require.Len(t, *got, 1)
	assert.Contains(t, (*got)[0].title, "Daily goal reached")
	assert.Equal(t, "You completed 3 of 3 tasks created today.", (*got)[0].message)
	assert.Equal(t, 1, *beeps)
}

func TestNotifier_NoSound(t *testing.T) {
	n, got, beeps := newTestNotifier(&config.NotificationConfig{Enabled: true})
	require.NoError(t, n.Notify("t", "m"))
	assert.Len(t, *got, 1)
	assert.Equal(t, 0, *beeps)
}

func TestNotifier_Error(t *testing.T) {
	n := New(&config.NotificationConfig{Enabled: true})
	n.notify = func(string, string) error { return errors.New("no dbus") }
	assert.ErrorContains(t, n.Notify("t", "m"), "no dbus")
}
