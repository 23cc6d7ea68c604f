package agenda

import "sync"

// Ticket orders week loads. Later tickets come from later requests.
type Ticket uint64

// View holds the week currently on screen. Loads may complete out of
// order; a response is only shown if no later request has been shown.
type View struct {
	mu        sync.Mutex
	issued    Ticket
	committed Ticket
	layout    WeekLayout
	loaded    bool
}

// Begin issues the ticket for a new load.
func (v *View) Begin() Ticket {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.issued++
	return v.issued
}

// Commit shows layout if t is newer than what is on screen. It reports
// whether the layout was accepted.
func (v *View) Commit(t Ticket, layout WeekLayout) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if t <= v.committed || t > v.issued {
		return false
	}
	v.committed = t
	v.layout = layout
	v.loaded = true
	return true
}

// Current returns the layout on screen. ok is false before the first commit.
func (v *View) Current() (layout WeekLayout, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.layout, v.loaded
}

// Pending reports whether a load was issued after the one on screen.
func (v *View) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.issued > v.committed
}
