package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/ai-footprint-tui/internal/models"
	"github.com/j-veylop/ai-footprint-tui/internal/sites"
)

type memStore struct {
	mu       sync.Mutex
	state    models.State
	readErr  error
	writeErr error
	writes   int
}

func newMemStore(lastTick time.Time) *memStore {
	s := models.DefaultState()
	s.LastTickAt = lastTick
	return &memStore{state: s}
}

func (m *memStore) ReadState(context.Context) (models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return models.State{}, m.readErr
	}
	return m.state.Clone(), nil
}

func (m *memStore) WriteState(_ context.Context, u models.StateUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.state = m.state.Apply(u)
	return nil
}

func (m *memStore) ResetState(_ context.Context, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.state = models.DefaultState()
	m.state.LastTickAt = now
	return nil
}

type fakeFocus struct {
	url string
	err error
}

func (f *fakeFocus) FocusedTabURL(context.Context) (string, error) {
	return f.url, f.err
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recordingBadge struct {
	text    string
	color   string
	cleared int
}

func (b *recordingBadge) SetBadge(text, color string) {
	b.text = text
	b.color = color
}

func (b *recordingBadge) ClearBadge() {
	b.text = ""
	b.color = ""
	b.cleared++
}

type countingReminders struct {
	calls int
	last  models.State
	fire  bool
	err   error
}

func (r *countingReminders) Check(_ context.Context, s models.State) (bool, error) {
	r.calls++
	r.last = s
	return r.fire, r.err
}

type fixture struct {
	store     *memStore
	focus     *fakeFocus
	clock     *fakeClock
	badge     *recordingBadge
	reminders *countingReminders
	tracker   *Tracker
}

func newFixture() *fixture {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f := &fixture{
		store:     newMemStore(start),
		focus:     &fakeFocus{},
		clock:     &fakeClock{now: start},
		badge:     &recordingBadge{},
		reminders: &countingReminders{},
	}
	f.tracker = New(Config{
		Store:      f.store,
		Inspector:  f.focus,
		Classifier: sites.Default(),
		Badge:      f.badge,
		Reminders:  f.reminders,
		Clock:      f.clock,
	})
	return f
}

func (f *fixture) tick(t *testing.T, after time.Duration, url string) Result {
	t.Helper()
	f.clock.Advance(after)
	f.focus.url = url
	res, err := f.tracker.Handle(context.Background(), models.TriggerPeriodicTick)
	require.NoError(t, err)
	return res
}

func TestReconcile_Scenario(t *testing.T) {
	f := newFixture()

	res := f.tick(t, 0, "https://chatgpt.com/c/1")
	assert.Equal(t, OutcomeStarted, res.Outcome)
	assert.Equal(t, "chatgpt.com", res.Session.Host)
	assert.Equal(t, "ChatGPT", res.Session.SiteName)
	assert.Equal(t, "0m", f.badge.text)
	assert.Equal(t, BadgeColor, f.badge.color)

	res = f.tick(t, 30*time.Second, "https://chatgpt.com/c/1")
	assert.Equal(t, OutcomeAccumulated, res.Outcome)
	assert.Equal(t, int64(30000), res.DeltaMs)
	assert.Equal(t, int64(30000), f.store.state.CumulativeMs)
	assert.Equal(t, int64(30000), f.store.state.PerHostMs["chatgpt.com"])
	assert.Equal(t, "0m", f.badge.text)

	res = f.tick(t, 45*time.Second, "https://chatgpt.com/c/2")
	assert.Equal(t, int64(75000), res.Session.ElapsedMs)
	assert.Equal(t, "1m", f.badge.text)

	res = f.tick(t, 10*time.Second, "https://example.org/")
	assert.Equal(t, OutcomeIdle, res.Outcome)
	assert.True(t, f.store.state.CurrentSession.IsIdle())
	assert.Equal(t, "", f.badge.text)
	assert.Equal(t, 1, f.badge.cleared)
	assert.Equal(t, int64(75000), f.store.state.CumulativeMs)
	assert.Equal(t, f.clock.now, f.store.state.LastTickAt)
}

func TestReconcile_SwitchDiscardsDelta(t *testing.T) {
	f := newFixture()

	f.tick(t, 0, "https://chatgpt.com/")
	f.tick(t, 20*time.Second, "https://chatgpt.com/")

	res := f.tick(t, 40*time.Second, "https://claude.ai/chat")
	assert.Equal(t, OutcomeStarted, res.Outcome)
	assert.Equal(t, "claude.ai", res.Session.Host)
	assert.Zero(t, res.Session.ElapsedMs)
	assert.Zero(t, res.DeltaMs)

	state := f.store.state
	assert.Equal(t, int64(20000), state.CumulativeMs)
	assert.Equal(t, int64(20000), state.PerHostMs["chatgpt.com"])
	_, counted := state.PerHostMs["claude.ai"]
	assert.False(t, counted)
	assert.Equal(t, f.clock.now, state.LastTickAt)
}

func TestReconcile_ReturnAfterIdleStartsNewSession(t *testing.T) {
	f := newFixture()

	f.tick(t, 0, "https://gemini.google.com/app")
	f.tick(t, time.Minute, "https://gemini.google.com/app")
	f.tick(t, time.Minute, "")

	res := f.tick(t, 5*time.Minute, "https://gemini.google.com/app")
	assert.Equal(t, OutcomeStarted, res.Outcome)
	assert.Zero(t, res.Session.ElapsedMs)
	assert.Equal(t, int64(60000), f.store.state.CumulativeMs)
}

func TestReconcile_IdleIsIdempotent(t *testing.T) {
	f := newFixture()

	f.tick(t, time.Second, "")
	first := f.store.state

	f.tick(t, time.Second, "")
	second := f.store.state

	assert.Equal(t, first.CurrentSession, second.CurrentSession)
	assert.Equal(t, first.CumulativeMs, second.CumulativeMs)
	assert.Equal(t, first.PerHostMs, second.PerHostMs)
	assert.True(t, second.LastTickAt.After(first.LastTickAt))
	assert.Zero(t, f.reminders.calls)
}

func TestReconcile_AbsentLastTickCreditsNothing(t *testing.T) {
	f := newFixture()

	f.tick(t, 0, "https://claude.ai/")
	f.store.state.LastTickAt = time.Time{}

	res := f.tick(t, 10*time.Minute, "https://claude.ai/")
	assert.Equal(t, OutcomeAccumulated, res.Outcome)
	assert.Zero(t, res.DeltaMs)
	assert.Zero(t, f.store.state.CumulativeMs)
	assert.Equal(t, int64(0), f.store.state.PerHostMs["claude.ai"])
}

func TestReconcile_ClockBackwardsClampsToZero(t *testing.T) {
	f := newFixture()

	f.tick(t, 0, "https://claude.ai/")
	res := f.tick(t, -time.Minute, "https://claude.ai/")
	assert.Zero(t, res.DeltaMs)
	assert.Zero(t, f.store.state.CumulativeMs)
}

func TestReconcile_Monotonic(t *testing.T) {
	f := newFixture()

	urls := []string{
		"https://chatgpt.com/", "https://chatgpt.com/", "", "https://claude.ai/",
		"https://claude.ai/", "https://www.perplexity.ai/", "https://www.perplexity.ai/",
		"https://x.com/i/grok", "https://x.com/home", "https://claude.ai/",
	}

	var prevCum int64
	prevHosts := map[string]int64{}
	for i, u := range urls {
		f.tick(t, time.Duration(i+1)*7*time.Second, u)
		state := f.store.state

		assert.GreaterOrEqual(t, state.CumulativeMs, prevCum)
		for host, ms := range prevHosts {
			assert.GreaterOrEqual(t, state.PerHostMs[host], ms, host)
		}

		var sum int64
		for _, ms := range state.PerHostMs {
			sum += ms
		}
		assert.Equal(t, state.CumulativeMs, sum)

		prevCum = state.CumulativeMs
		prevHosts = state.PerHostMs
	}
}

func TestReconcile_ResetThenZeroDelta(t *testing.T) {
	f := newFixture()

	f.tick(t, 0, "https://chatgpt.com/")
	f.tick(t, time.Minute, "https://chatgpt.com/")
	require.Equal(t, int64(60000), f.store.state.CumulativeMs)

	require.NoError(t, f.tracker.Reset(context.Background()))
	assert.Zero(t, f.store.state.CumulativeMs)
	assert.Empty(t, f.store.state.PerHostMs)
	assert.True(t, f.store.state.CurrentSession.IsIdle())
	assert.Zero(t, f.store.state.LastReminderAtMs)
	assert.Equal(t, f.clock.now, f.store.state.LastTickAt)
	assert.Equal(t, 1, f.badge.cleared)

	res := f.tick(t, 0, "https://chatgpt.com/")
	assert.Equal(t, OutcomeStarted, res.Outcome)

	res = f.tick(t, 0, "https://chatgpt.com/")
	assert.Equal(t, OutcomeAccumulated, res.Outcome)
	assert.Zero(t, res.DeltaMs)
	assert.Zero(t, f.store.state.CumulativeMs)
}

func TestReset_StoreFailure(t *testing.T) {
	f := newFixture()
	f.store.writeErr = errors.New("read-only")
	require.Error(t, f.tracker.Reset(context.Background()))
	assert.Zero(t, f.badge.cleared)
}

func TestReconcile_ReminderSeesCreditedState(t *testing.T) {
	f := newFixture()
	f.reminders.fire = true

	f.tick(t, 0, "https://claude.ai/")
	assert.Zero(t, f.reminders.calls)

	res := f.tick(t, 2*time.Minute, "https://claude.ai/")
	assert.True(t, res.ReminderFired)
	assert.Equal(t, 1, f.reminders.calls)
	assert.Equal(t, int64(120000), f.reminders.last.CumulativeMs)
}

func TestReconcile_ReminderErrorDoesNotFail(t *testing.T) {
	f := newFixture()
	f.reminders.err = errors.New("notify boom")

	f.tick(t, 0, "https://claude.ai/")
	res := f.tick(t, time.Minute, "https://claude.ai/")
	assert.Equal(t, int64(60000), res.CumulativeMs)
	assert.Equal(t, int64(60000), f.store.state.CumulativeMs)
}

func TestReconcile_StoreFailures(t *testing.T) {
	t.Run("ReadFails", func(t *testing.T) {
		f := newFixture()
		f.store.readErr = errors.New("disk gone")
		f.focus.url = "https://claude.ai/"

		_, err := f.tracker.Reconcile(context.Background())
		require.Error(t, err)
		assert.Zero(t, f.store.writes)
		assert.Equal(t, "", f.badge.text)
	})

	t.Run("WriteFails", func(t *testing.T) {
		f := newFixture()
		f.tick(t, 0, "https://claude.ai/")
		before := f.store.state

		f.store.writeErr = errors.New("disk full")
		f.clock.Advance(time.Minute)
		_, err := f.tracker.Reconcile(context.Background())
		require.Error(t, err)
		assert.Equal(t, before, f.store.state)
		assert.Zero(t, f.reminders.calls)
	})
}

func TestReconcile_InspectorErrorIsIdle(t *testing.T) {
	f := newFixture()
	f.tick(t, 0, "https://claude.ai/")

	f.focus.err = errors.New("bridge unreadable")
	f.clock.Advance(time.Minute)
	res, err := f.tracker.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeIdle, res.Outcome)
	assert.True(t, f.store.state.CurrentSession.IsIdle())
}

func TestHandle_AllTriggersReconcile(t *testing.T) {
	triggers := []models.Trigger{
		models.TriggerPeriodicTick,
		models.TriggerTabActivated,
		models.TriggerTabUpdated,
		models.TriggerFocusChanged,
	}

	for _, trig := range triggers {
		t.Run(trig.String(), func(t *testing.T) {
			f := newFixture()
			f.focus.url = "https://claude.ai/"
			res, err := f.tracker.Handle(context.Background(), trig)
			require.NoError(t, err)
			assert.Equal(t, trig, res.Trigger)
			assert.Equal(t, OutcomeStarted, res.Outcome)
		})
	}
}

func TestHandle_UnknownTrigger(t *testing.T) {
	f := newFixture()
	_, err := f.tracker.Handle(context.Background(), models.Trigger(99))
	require.ErrorIs(t, err, ErrUnknownTrigger)
	assert.Zero(t, f.store.writes)
}

func TestReconcile_Concurrent(t *testing.T) {
	f := newFixture()
	f.focus.url = "https://claude.ai/"
	f.tick(t, 0, "https://claude.ai/")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.tracker.Reconcile(context.Background())
		}()
	}
	wg.Wait()

	assert.True(t, f.store.state.CurrentSession.Active)
	assert.Zero(t, f.store.state.CumulativeMs)
}

func TestBadgeText(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0m"},
		{59999, "0m"},
		{60000, "1m"},
		{75000, "1m"},
		{3600000, "60m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BadgeText(tt.ms))
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "idle", OutcomeIdle.String())
	assert.Equal(t, "started", OutcomeStarted.String())
	assert.Equal(t, "accumulated", OutcomeAccumulated.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
