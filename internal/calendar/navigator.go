package calendar

import "github.com/javiermolinar/agenda/internal/dateutil"

// Navigator keeps three consecutive weeks (previous, current, next) so the
// agenda can move one week at a time and prefetch its neighbours.
type Navigator struct {
	weeks [3]Week // [0]=prev, [1]=current, [2]=next
}

// NewNavigator centres the window on the week containing ref.
func NewNavigator(ref dateutil.Date, hours Hours) *Navigator {
	n := &Navigator{}
	n.center(ComputeWeek(ref, hours))
	return n
}

func (n *Navigator) center(current Week) {
	n.weeks = [3]Week{current.Prev(), current, current.Next()}
}

// Current returns the focused week.
func (n *Navigator) Current() Week {
	return n.weeks[1]
}

// Previous returns the week before current.
func (n *Navigator) Previous() Week {
	return n.weeks[0]
}

// Next returns the week after current.
func (n *Navigator) Next() Week {
	return n.weeks[2]
}

// Forward moves the window one week ahead and returns the new current week.
func (n *Navigator) Forward() Week {
	n.weeks[0] = n.weeks[1]
	n.weeks[1] = n.weeks[2]
	n.weeks[2] = n.weeks[1].Next()
	return n.weeks[1]
}

// Backward moves the window one week back and returns the new current week.
func (n *Navigator) Backward() Week {
	n.weeks[2] = n.weeks[1]
	n.weeks[1] = n.weeks[0]
	n.weeks[0] = n.weeks[1].Prev()
	return n.weeks[1]
}

// Today jumps back to the week containing today.
func (n *Navigator) Today(today dateutil.Date) Week {
	n.center(ComputeWeek(today, n.weeks[1].Hours))
	return n.weeks[1]
}

// Goto jumps to the week containing d.
func (n *Navigator) Goto(d dateutil.Date) Week {
	if n.weeks[1].Contains(d) {
		return n.weeks[1]
	}
	return n.Today(d)
}
