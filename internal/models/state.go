package models

import (
	"maps"
	"sort"
	"time"
)

// DefaultReminderStepMs is the milestone granularity applied on install and reset.
const DefaultReminderStepMs int64 = 30 * 60 * 1000

// Session is the single in-flight tracking record.
// An inactive session carries no host, site name or start time and zero elapsed time.
type Session struct {
	Active    bool      `json:"active"`
	Host      string    `json:"host,omitempty"`
	SiteName  string    `json:"siteName,omitempty"`
	StartedAt time.Time `json:"startedAt,omitzero"`
	ElapsedMs int64     `json:"elapsedMs"`
}

// IdleSession returns the session value used while no tracked site is focused.
func IdleSession() Session {
	return Session{}
}

// NewSession starts a fresh session instance for the given site.
func NewSession(site TrackedSite, now time.Time) Session {
	return Session{
		Active:    true,
		Host:      site.Host,
		SiteName:  site.SiteName,
		StartedAt: now,
		ElapsedMs: 0,
	}
}

// IsIdle reports whether the session satisfies the idle invariant.
func (s Session) IsIdle() bool {
	return !s.Active && s.Host == "" && s.SiteName == "" && s.StartedAt.IsZero() && s.ElapsedMs == 0
}

// State is the durable aggregate kept by the state store.
type State struct {
	CumulativeMs     int64            `json:"cumulativeMs"`
	PerHostMs        map[string]int64 `json:"perHostMs"`
	CurrentSession   Session          `json:"currentSession"`
	LastTickAt       time.Time        `json:"lastTickAt,omitzero"`
	ReminderStepMs   int64            `json:"reminderStepMs"`
	LastReminderAtMs int64            `json:"lastReminderAtMs"`
}

// DefaultState returns the state written on install and reset, before lastTickAt is applied.
func DefaultState() State {
	return State{
		CumulativeMs:     0,
		PerHostMs:        map[string]int64{},
		CurrentSession:   IdleSession(),
		ReminderStepMs:   DefaultReminderStepMs,
		LastReminderAtMs: 0,
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.PerHostMs = maps.Clone(s.PerHostMs)
	if out.PerHostMs == nil {
		out.PerHostMs = map[string]int64{}
	}
	return out
}

// Apply merges a partial update into a copy of the state.
func (s State) Apply(u StateUpdate) State {
	out := s.Clone()
	if u.CumulativeMs != nil {
		out.CumulativeMs = *u.CumulativeMs
	}
	if u.PerHostMs != nil {
		out.PerHostMs = maps.Clone(u.PerHostMs)
	}
	if u.CurrentSession != nil {
		out.CurrentSession = *u.CurrentSession
	}
	if u.LastTickAt != nil {
		out.LastTickAt = *u.LastTickAt
	}
	if u.ReminderStepMs != nil {
		out.ReminderStepMs = *u.ReminderStepMs
	}
	if u.LastReminderAtMs != nil {
		out.LastReminderAtMs = *u.LastReminderAtMs
	}
	return out
}

// StateUpdate is a partial write. Nil fields are left untouched; set fields are
// replaced as a whole.
type StateUpdate struct {
	CumulativeMs     *int64
	PerHostMs        map[string]int64
	CurrentSession   *Session
	LastTickAt       *time.Time
	ReminderStepMs   *int64
	LastReminderAtMs *int64
}

// IsEmpty reports whether the update touches no field.
func (u StateUpdate) IsEmpty() bool {
	return u.CumulativeMs == nil && u.PerHostMs == nil && u.CurrentSession == nil &&
		u.LastTickAt == nil && u.ReminderStepMs == nil && u.LastReminderAtMs == nil
}

// HostUsage is one row of the per-site breakdown.
type HostUsage struct {
	Host string
	Ms   int64
}

// SortedHosts returns per-host totals ordered by descending time, then host name.
func (s State) SortedHosts() []HostUsage {
	rows := make([]HostUsage, 0, len(s.PerHostMs))
	for host, ms := range s.PerHostMs {
		rows = append(rows, HostUsage{Host: host, Ms: ms})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Ms != rows[j].Ms {
			return rows[i].Ms > rows[j].Ms
		}
		return rows[i].Host < rows[j].Host
	})
	return rows
}
