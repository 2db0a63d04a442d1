package models

// Trigger is the reason a reconciliation runs.
type Trigger int

const (
	// TriggerPeriodicTick is the recurring timer.
	TriggerPeriodicTick Trigger = iota
	// TriggerTabActivated fires when another tab becomes active.
	TriggerTabActivated
	// TriggerTabUpdated fires when the active tab navigates or reloads.
	TriggerTabUpdated
	// TriggerFocusChanged fires when OS window focus changes.
	TriggerFocusChanged
)

// String returns the string representation of a Trigger.
func (t Trigger) String() string {
	switch t {
	case TriggerPeriodicTick:
		return "periodic_tick"
	case TriggerTabActivated:
		return "tab_activated"
	case TriggerTabUpdated:
		return "tab_updated"
	case TriggerFocusChanged:
		return "focus_changed"
	default:
		return "unknown"
	}
}

// ParseTrigger maps a bridge event name onto a Trigger. Unknown names are
// reported as a focus change, which reconciles the same way.
func ParseTrigger(name string) Trigger {
	switch name {
	case "tab_activated":
		return TriggerTabActivated
	case "tab_updated":
		return TriggerTabUpdated
	case "periodic_tick":
		return TriggerPeriodicTick
	default:
		return TriggerFocusChanged
	}
}
