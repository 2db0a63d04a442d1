// Package services wires the tracker, its collaborators and the event routing for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/ai-footprint-tui/internal/config"
	"github.com/j-veylop/ai-footprint-tui/internal/db"
	"github.com/j-veylop/ai-footprint-tui/internal/logger"
	"github.com/j-veylop/ai-footprint-tui/internal/models"
	"github.com/j-veylop/ai-footprint-tui/internal/services/badge"
	"github.com/j-veylop/ai-footprint-tui/internal/services/focus"
	"github.com/j-veylop/ai-footprint-tui/internal/services/notify"
	"github.com/j-veylop/ai-footprint-tui/internal/services/reminder"
	"github.com/j-veylop/ai-footprint-tui/internal/services/tracker"
	"github.com/j-veylop/ai-footprint-tui/internal/sites"
)

type (
	// StateChangedEvent is emitted after every successful reconciliation or reset.
	StateChangedEvent struct {
		Result tracker.Result
		State  models.State
	}

	// ReminderEvent is emitted when a usage milestone fires a reminder.
	ReminderEvent struct {
		Reminder reminder.Event
	}

	// BadgeChangedEvent is emitted when the badge text or color changes.
	BadgeChangedEvent struct {
		Badge badge.State
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (StateChangedEvent) isServiceEvent() {}
func (ReminderEvent) isServiceEvent()     {}
func (BadgeChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()        {}

// Option customizes a Manager.
type Option func(*options)

type options struct {
	clock    tracker.Clock
	notifier reminder.Notifier
}

// WithClock replaces the wall clock.
func WithClock(c tracker.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithNotifier replaces the notifier chosen from the configuration.
func WithNotifier(n reminder.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	database    *db.DB
	classifier  *sites.Classifier
	inspector   *focus.FileInspector
	badge       *badge.Badge
	reminders   *reminder.Scheduler
	tracker     *tracker.Tracker
	stopChan    chan struct{}
	wg          sync.WaitGroup
	subscribers []chan ServiceEvent
	started     bool
	closed      bool
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	o := options{clock: tracker.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.notifier == nil {
		if cfg.NotificationsEnabled {
			o.notifier = notify.NewDesktop()
		} else {
			o.notifier = notify.Discard{}
		}
	}

	classifier, err := sites.Load(cfg.SitesPath)
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m := &Manager{
		cfg:        cfg,
		database:   database,
		classifier: classifier,
		inspector:  focus.NewFileInspector(cfg.FocusPath),
		stopChan:   make(chan struct{}),
	}

	m.badge = badge.New(func(s badge.State) {
		m.broadcast(BadgeChangedEvent{Badge: s})
	})
	m.reminders = reminder.New(database, o.notifier, func(e reminder.Event) {
		m.broadcast(ReminderEvent{Reminder: e})
	})
	m.tracker = tracker.New(tracker.Config{
		Store:      database,
		Inspector:  m.inspector,
		Classifier: classifier,
		Badge:      m.badge,
		Reminders:  m.reminders,
		Clock:      o.clock,
	})

	logger.Info("services initialized",
		"database", cfg.DatabasePath,
		"focus", cfg.FocusPath,
		"sites", classifier.Len(),
	)

	return m, nil
}

// Install writes the default state when the store is empty. It reports whether
// it did so.
func (m *Manager) Install(ctx context.Context) (bool, error) {
	has, err := m.database.HasState(ctx)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}
	if err := m.tracker.Reset(ctx); err != nil {
		return false, err
	}
	logger.Info("installed default state")
	return true, nil
}

// Start installs defaults if needed, runs one reconciliation and then keeps
// reconciling on every tick and focus change until ctx is done or Close is called.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.New("manager is closed")
	}
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	m.mu.Unlock()

	if _, err := m.Install(ctx); err != nil {
		return fmt.Errorf("failed to install default state: %w", err)
	}

	var triggers <-chan models.Trigger
	watcher, err := focus.NewWatcher(m.cfg.FocusPath, focus.DefaultDebounce)
	if err != nil {
		// The periodic tick alone still keeps the totals current.
		logger.Warn("focus watcher unavailable", "error", err)
		m.broadcast(ErrorEvent{Service: "focus", Error: err})
	} else {
		triggers = watcher.Triggers()
	}

	m.dispatch(ctx, models.TriggerPeriodicTick)

	m.wg.Add(1)
	go m.run(ctx, watcher, triggers)

	return nil
}

// run drives the tracker from the ticker and the focus watcher.
func (m *Manager) run(ctx context.Context, watcher *focus.Watcher, triggers <-chan models.Trigger) {
	defer m.wg.Done()

	if watcher != nil {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Error("failed to close focus watcher", "error", err)
			}
		}()
	}

	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.dispatch(ctx, models.TriggerPeriodicTick)

		case trigger, ok := <-triggers:
			if !ok {
				triggers = nil
				continue
			}
			m.dispatch(ctx, trigger)

		case <-ctx.Done():
			return

		case <-m.stopChan:
			return
		}
	}
}

// Tick runs one reconciliation for trigger and broadcasts the outcome.
func (m *Manager) Tick(ctx context.Context, trigger models.Trigger) (tracker.Result, error) {
	res, err := m.tracker.Handle(ctx, trigger)
	if err != nil {
		return res, err
	}

	state, err := m.database.ReadState(ctx)
	if err == nil {
		m.broadcast(StateChangedEvent{Result: res, State: state})
	}
	return res, nil
}

func (m *Manager) dispatch(ctx context.Context, trigger models.Trigger) {
	res, err := m.Tick(ctx, trigger)
	if err != nil {
		logger.Error("reconciliation failed", "trigger", trigger.String(), "error", err)
		m.broadcast(ErrorEvent{Service: "tracker", Error: err})
		return
	}
	logger.Debug("reconciled",
		"trigger", trigger.String(),
		"outcome", res.Outcome.String(),
		"host", res.Session.Host,
		"delta_ms", res.DeltaMs,
	)
}

// publishState broadcasts the current state without reconciling.
func (m *Manager) publishState(ctx context.Context) {
	state, err := m.database.ReadState(ctx)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "db", Error: err})
		return
	}
	m.broadcast(StateChangedEvent{State: state})
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
// It yields nil once the channel is closed.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Badge returns the current badge.
func (m *Manager) Badge() badge.State {
	return m.badge.Current()
}

// Classifier returns the active site classifier.
func (m *Manager) Classifier() *sites.Classifier {
	return m.classifier
}

// Tracker returns the session tracker.
func (m *Manager) Tracker() *tracker.Tracker {
	return m.tracker
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Close stops the background loop and closes the database.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.stopChan)
	m.mu.Unlock()

	m.wg.Wait()

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	if m.database != nil {
		return m.database.Close()
	}
	return nil
}
