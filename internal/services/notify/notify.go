// Package notify delivers reminder notifications.
package notify

import (
	"github.com/gen2brain/beeep"
)

// AppName is the application name shown by notification daemons that display one.
const AppName = "AI Footprint"

// Desktop sends OS notifications through beeep.
type Desktop struct{}

// NewDesktop creates a desktop notifier.
func NewDesktop() *Desktop {
	beeep.AppName = AppName
	return &Desktop{}
}

// Notify shows a desktop notification.
func (d *Desktop) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Discard drops notifications.
type Discard struct{}

// Notify does nothing.
func (Discard) Notify(string, string) error { return nil }
