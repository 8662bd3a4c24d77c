// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/kaizen/internal/config"
	"github.com/xvierd/kaizen/internal/domain"
	"github.com/xvierd/kaizen/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg    *config.NotificationConfig
	notify func(title, message string) error
	beep   func() error
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	n := &Notifier{cfg: cfg}
	n.notify = func(title, message string) error {
		return beeep.Notify(title, message, "")
	}
	n.beep = func() error {
		return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
	}
	return n
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}

	if err := n.notify(title, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if n.cfg.Sound {
		return n.beep()
	}
	return nil
}

// NotifyGoalReached displays a notification when today's tasks are all done.
func (n *Notifier) NotifyGoalReached(progress domain.DailyProgress) error {
	title := "🎉 Daily goal reached!"
	message := fmt.Sprintf("You completed %d of %d tasks created today.", progress.CompletedToday, progress.TotalToday)
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)
