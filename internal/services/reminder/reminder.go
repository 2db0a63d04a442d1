// Package reminder raises a notification each time cumulative usage crosses a
// new multiple of the reminder step.
package reminder

import (
	"context"
	"fmt"

	"github.com/j-veylop/ai-footprint-tui/internal/impact"
	"github.com/j-veylop/ai-footprint-tui/internal/logger"
	"github.com/j-veylop/ai-footprint-tui/internal/models"
)

// Title is the notification title.
const Title = "AI Footprint Reminder"

// Notifier delivers a user-visible notification.
type Notifier interface {
	Notify(title, message string) error
}

// Store persists the last reminded milestone.
type Store interface {
	WriteState(ctx context.Context, update models.StateUpdate) error
}

// Event describes a fired reminder.
type Event struct {
	MilestoneMs int64
	Title       string
	Message     string
}

// Scheduler checks milestones and notifies once per milestone.
type Scheduler struct {
	store    Store
	notifier Notifier
	onFire   func(Event)
}

// New creates a scheduler. onFire may be nil.
func New(store Store, notifier Notifier, onFire func(Event)) *Scheduler {
	return &Scheduler{
		store:    store,
		notifier: notifier,
		onFire:   onFire,
	}
}

// Milestone returns the largest multiple of step not exceeding cumulativeMs.
// A non-positive step falls back to the default step.
func Milestone(cumulativeMs, stepMs int64) int64 {
	if stepMs <= 0 {
		stepMs = models.DefaultReminderStepMs
	}
	if cumulativeMs <= 0 {
		return 0
	}
	return (cumulativeMs / stepMs) * stepMs
}

// Check fires a reminder when state has crossed a milestone above the last
// reminded one. Delivery is best-effort; the milestone is persisted either way
// so the same milestone never fires twice.
func (s *Scheduler) Check(ctx context.Context, state models.State) (bool, error) {
	milestone := Milestone(state.CumulativeMs, state.ReminderStepMs)
	if milestone == 0 || milestone <= state.LastReminderAtMs {
		return false, nil
	}

	ev := Event{
		MilestoneMs: milestone,
		Title:       Title,
		Message:     Message(state.CumulativeMs),
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ev.Title, ev.Message); err != nil {
			logger.Warn("reminder notification failed", "milestone_ms", milestone, "error", err)
		}
	}

	if err := s.store.WriteState(ctx, models.StateUpdate{LastReminderAtMs: &milestone}); err != nil {
		return true, fmt.Errorf("failed to persist reminder milestone: %w", err)
	}

	logger.Info("reminder fired", "milestone_ms", milestone, "cumulative_ms", state.CumulativeMs)

	if s.onFire != nil {
		s.onFire(ev)
	}

	return true, nil
}

// Message renders the reminder body for the given cumulative usage.
func Message(cumulativeMs int64) string {
	est := impact.Calculate(cumulativeMs)
	return fmt.Sprintf(
		"You've used AI sites for %s. Estimated impact: %.1f g CO₂, %.1f ml water, %.2f Wh.",
		impact.FormatDuration(cumulativeMs), est.CO2Grams, est.WaterMl, est.EnergyWh,
	)
}
