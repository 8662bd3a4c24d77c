package ports

import "github.com/xvierd/kaizen/internal/domain"

// Notifier announces progress milestones to the user.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// NotifyGoalReached is called when every task created today has been
	// matched by a completion today.
	NotifyGoalReached(progress domain.DailyProgress) error
}
