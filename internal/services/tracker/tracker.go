// Package tracker attributes focused time on tracked sites to the persisted totals.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/j-veylop/ai-footprint-tui/internal/logger"
	"github.com/j-veylop/ai-footprint-tui/internal/models"
)

// BadgeColor is the badge background while a session is active.
const BadgeColor = "#1a73e8"

// ErrUnknownTrigger is returned by Handle for triggers with no handler.
var ErrUnknownTrigger = errors.New("unknown trigger")

// Store is the durable state the tracker reads and writes.
type Store interface {
	ReadState(ctx context.Context) (models.State, error)
	WriteState(ctx context.Context, update models.StateUpdate) error
	ResetState(ctx context.Context, now time.Time) error
}

// FocusInspector reports the URL of the active tab in the OS-focused window.
// An empty URL means nothing is focused.
type FocusInspector interface {
	FocusedTabURL(ctx context.Context) (string, error)
}

// Classifier maps a URL to a tracked site.
type Classifier interface {
	Classify(rawURL string) (models.TrackedSite, bool)
}

// Badge paints the elapsed-time indicator.
type Badge interface {
	SetBadge(text, color string)
	ClearBadge()
}

// ReminderChecker is invoked after time is credited.
type ReminderChecker interface {
	Check(ctx context.Context, state models.State) (fired bool, err error)
}

// Clock abstracts time to keep reconciliation deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Outcome describes what a reconciliation did.
type Outcome int

const (
	// OutcomeIdle means no tracked site was focused.
	OutcomeIdle Outcome = iota
	// OutcomeStarted means a new session instance began; no time was credited.
	OutcomeStarted
	// OutcomeAccumulated means elapsed time was credited to the current session.
	OutcomeAccumulated
)

// String returns the string representation of an Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeStarted:
		return "started"
	case OutcomeAccumulated:
		return "accumulated"
	default:
		return "unknown"
	}
}

// Result is the outcome of one reconciliation.
type Result struct {
	Trigger       models.Trigger
	Outcome       Outcome
	Session       models.Session
	DeltaMs       int64
	CumulativeMs  int64
	ReminderFired bool
}

// Config holds the tracker collaborators. Reminders, Badge and Clock are optional.
type Config struct {
	Store      Store
	Inspector  FocusInspector
	Classifier Classifier
	Badge      Badge
	Reminders  ReminderChecker
	Clock      Clock
}

// Tracker runs the session state machine.
type Tracker struct {
	mu         sync.Mutex
	store      Store
	inspector  FocusInspector
	classifier Classifier
	badge      Badge
	reminders  ReminderChecker
	clock      Clock
}

// New creates a tracker.
func New(cfg Config) *Tracker {
	t := &Tracker{
		store:      cfg.Store,
		inspector:  cfg.Inspector,
		classifier: cfg.Classifier,
		badge:      cfg.Badge,
		reminders:  cfg.Reminders,
		clock:      cfg.Clock,
	}
	if t.badge == nil {
		t.badge = noopBadge{}
	}
	if t.clock == nil {
		t.clock = SystemClock{}
	}
	return t
}

// handlers maps every trigger onto the same reconciliation.
var handlers = map[models.Trigger]func(*Tracker, context.Context) (Result, error){
	models.TriggerPeriodicTick: (*Tracker).Reconcile,
	models.TriggerTabActivated: (*Tracker).Reconcile,
	models.TriggerTabUpdated:   (*Tracker).Reconcile,
	models.TriggerFocusChanged: (*Tracker).Reconcile,
}

// Handle dispatches trigger to its handler.
func (t *Tracker) Handle(ctx context.Context, trigger models.Trigger) (Result, error) {
	h, ok := handlers[trigger]
	if !ok {
		return Result{Trigger: trigger}, fmt.Errorf("%w: %d", ErrUnknownTrigger, int(trigger))
	}
	res, err := h(t, ctx)
	res.Trigger = trigger
	return res, err
}

// Reconcile inspects focus and advances the persisted session and totals.
// A store failure aborts the reconciliation and leaves the store at its last
// successful write.
func (t *Tracker) Reconcile(ctx context.Context) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()

	state, err := t.store.ReadState(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read state: %w", err)
	}

	site, focused := t.focusedSite(ctx)
	if !focused {
		return t.goIdle(ctx, state, now)
	}

	session := state.CurrentSession
	if !session.Active || session.Host != site.Host {
		return t.startSession(ctx, state, site, now)
	}

	return t.accumulate(ctx, state, now)
}

func (t *Tracker) goIdle(ctx context.Context, state models.State, now time.Time) (Result, error) {
	idle := models.IdleSession()
	if err := t.store.WriteState(ctx, models.StateUpdate{
		CurrentSession: &idle,
		LastTickAt:     &now,
	}); err != nil {
		return Result{}, fmt.Errorf("failed to persist idle session: %w", err)
	}

	t.badge.ClearBadge()

	return Result{
		Outcome:      OutcomeIdle,
		Session:      idle,
		CumulativeMs: state.CumulativeMs,
	}, nil
}

// startSession begins a new session instance. The time since the previous tick
// is discarded because it cannot be attributed to the new site.
func (t *Tracker) startSession(ctx context.Context, state models.State, site models.TrackedSite, now time.Time) (Result, error) {
	session := models.NewSession(site, now)
	if err := t.store.WriteState(ctx, models.StateUpdate{
		CurrentSession: &session,
		LastTickAt:     &now,
	}); err != nil {
		return Result{}, fmt.Errorf("failed to persist new session: %w", err)
	}

	t.badge.SetBadge(BadgeText(session.ElapsedMs), BadgeColor)
	logger.Debug("session started", "host", site.Host, "site", site.SiteName)

	return Result{
		Outcome:      OutcomeStarted,
		Session:      session,
		CumulativeMs: state.CumulativeMs,
	}, nil
}

func (t *Tracker) accumulate(ctx context.Context, state models.State, now time.Time) (Result, error) {
	var delta int64
	if !state.LastTickAt.IsZero() {
		delta = max(0, now.Sub(state.LastTickAt).Milliseconds())
	}

	session := state.CurrentSession
	session.ElapsedMs += delta

	cumulative := state.CumulativeMs + delta

	perHost := maps.Clone(state.PerHostMs)
	if perHost == nil {
		perHost = make(map[string]int64, 1)
	}
	perHost[session.Host] += delta

	if err := t.store.WriteState(ctx, models.StateUpdate{
		CurrentSession: &session,
		CumulativeMs:   &cumulative,
		PerHostMs:      perHost,
		LastTickAt:     &now,
	}); err != nil {
		return Result{}, fmt.Errorf("failed to persist accumulated time: %w", err)
	}

	t.badge.SetBadge(BadgeText(session.ElapsedMs), BadgeColor)

	res := Result{
		Outcome:      OutcomeAccumulated,
		Session:      session,
		DeltaMs:      delta,
		CumulativeMs: cumulative,
	}

	if t.reminders != nil {
		next := state.Apply(models.StateUpdate{
			CurrentSession: &session,
			CumulativeMs:   &cumulative,
			PerHostMs:      perHost,
			LastTickAt:     &now,
		})
		fired, err := t.reminders.Check(ctx, next)
		if err != nil {
			// Totals are already persisted; the next crossing check retries.
			logger.Error("reminder check failed", "error", err)
		}
		res.ReminderFired = fired
	}

	return res, nil
}

// Reset restores the totals to their defaults. It is serialized with
// reconciliation so an in-flight cycle cannot write back pre-reset totals.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.ResetState(ctx, t.clock.Now()); err != nil {
		return fmt.Errorf("failed to reset state: %w", err)
	}

	t.badge.ClearBadge()
	logger.Info("totals reset")
	return nil
}

// focusedSite resolves the focused tab to a tracked site. Inspection failures
// count as nothing focused.
func (t *Tracker) focusedSite(ctx context.Context) (models.TrackedSite, bool) {
	if t.inspector == nil || t.classifier == nil {
		return models.TrackedSite{}, false
	}

	url, err := t.inspector.FocusedTabURL(ctx)
	if err != nil {
		logger.Debug("focus inspection failed", "error", err)
		return models.TrackedSite{}, false
	}
	if url == "" {
		return models.TrackedSite{}, false
	}

	return t.classifier.Classify(url)
}

// BadgeText renders the whole elapsed minutes of a session.
func BadgeText(elapsedMs int64) string {
	return fmt.Sprintf("%dm", elapsedMs/60000)
}

type noopBadge struct{}

func (noopBadge) SetBadge(string, string) {}
func (noopBadge) ClearBadge()             {}
