// Package calendar computes the visible week, its slot grid, and the
// column packing and geometry of the events shown on it.
package calendar

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/agenda/internal/dateutil"
)

// DaysPerWeek is the number of columns of the agenda.
const DaysPerWeek = 7

// Default visible range: 08:00 to 20:00 in 30 minute slots.
const (
	DefaultOpenMinute      = 8 * 60
	DefaultCloseMinute     = 20 * 60
	DefaultSlotSizeMinutes = 30
)

// ErrInvalidHours is returned by Hours.Validate.
var ErrInvalidHours = errors.New("invalid grid hours")

// Hours is the visible time range of every day of the grid.
type Hours struct {
	OpenMinute      int
	CloseMinute     int
	SlotSizeMinutes int
}

// DefaultHours returns 08:00-20:00 with 30 minute slots.
func DefaultHours() Hours {
	return Hours{
		OpenMinute:      DefaultOpenMinute,
		CloseMinute:     DefaultCloseMinute,
		SlotSizeMinutes: DefaultSlotSizeMinutes,
	}
}

// Validate checks that the range is non-empty and lies inside one day.
func (h Hours) Validate() error {
	switch {
	case h.SlotSizeMinutes <= 0:
		return fmt.Errorf("%w: slot size must be positive, got %d", ErrInvalidHours, h.SlotSizeMinutes)
	case h.OpenMinute < 0 || h.CloseMinute > 24*60:
		return fmt.Errorf("%w: range %s-%s outside the day", ErrInvalidHours, MinutesToClock(h.OpenMinute), MinutesToClock(h.CloseMinute))
	case h.CloseMinute <= h.OpenMinute:
		return fmt.Errorf("%w: close %s must be after open %s", ErrInvalidHours, MinutesToClock(h.CloseMinute), MinutesToClock(h.OpenMinute))
	}
	return nil
}

// Contains reports whether minute falls on the grid, closing boundary included.
func (h Hours) Contains(minute int) bool {
	return minute >= h.OpenMinute && minute <= h.CloseMinute
}

// Week is the seven days shown by the agenda, Sunday first.
type Week struct {
	Days [DaysPerWeek]dateutil.Date
	Hours
}

// ComputeWeek returns the week containing ref. Index 0 is the Sunday.
func ComputeWeek(ref dateutil.Date, hours Hours) Week {
	w := Week{Hours: hours}
	start := dateutil.WeekStart(ref)
	for i := range w.Days {
		w.Days[i] = start.AddDays(i)
	}
	return w
}

// Start returns the first day of the week.
func (w Week) Start() dateutil.Date {
	return w.Days[0]
}

// End returns the last day of the week.
func (w Week) End() dateutil.Date {
	return w.Days[DaysPerWeek-1]
}

// DayIndex returns the column of d, or -1 if d is outside the week.
func (w Week) DayIndex(d dateutil.Date) int {
	if d.Before(w.Start()) || d.After(w.End()) {
		return -1
	}
	return w.Start().DaysUntil(d)
}

// Contains reports whether d is one of the week's days.
func (w Week) Contains(d dateutil.Date) bool {
	return w.DayIndex(d) >= 0
}

// Prev returns the week before w with the same hours.
func (w Week) Prev() Week {
	return ComputeWeek(w.Start().AddDays(-DaysPerWeek), w.Hours)
}

// Next returns the week after w with the same hours.
func (w Week) Next() Week {
	return ComputeWeek(w.Start().AddDays(DaysPerWeek), w.Hours)
}

// String formats the week as "YYYY-MM-DD..YYYY-MM-DD".
func (w Week) String() string {
	return w.Start().String() + ".." + w.End().String()
}
