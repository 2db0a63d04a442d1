// Package badge holds the elapsed-time indicator painted while a session is active.
package badge

import "sync"

// State is the rendered badge. Empty text means the badge is cleared.
type State struct {
	Text  string
	Color string
}

// Badge is a thread-safe badge surface. It implements the tracker's Badge.
type Badge struct {
	mu       sync.RWMutex
	state    State
	onChange func(State)
}

// New creates a cleared badge. onChange, when non-nil, is called after every change.
func New(onChange func(State)) *Badge {
	return &Badge{onChange: onChange}
}

// SetBadge paints text on the given background color.
func (b *Badge) SetBadge(text, color string) {
	b.set(State{Text: text, Color: color})
}

// ClearBadge removes the badge.
func (b *Badge) ClearBadge() {
	b.set(State{})
}

// Current returns the badge as last painted.
func (b *Badge) Current() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Badge) set(s State) {
	b.mu.Lock()
	changed := b.state != s
	b.state = s
	b.mu.Unlock()

	if changed && b.onChange != nil {
		b.onChange(s)
	}
}
