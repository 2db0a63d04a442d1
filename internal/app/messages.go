package app

import (
	"time"

	"github.com/j-veylop/ai-footprint-tui/internal/models"
	"github.com/j-veylop/ai-footprint-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StateLoadedMsg carries the result of a getState query.
type StateLoadedMsg struct {
	State models.State
	Err   error
}

// ResetRequestedMsg asks for confirmation before resetting totals.
type ResetRequestedMsg struct{}

// ResetResultMsg contains the result of a resetTotals request.
type ResetResultMsg struct {
	Err error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}
