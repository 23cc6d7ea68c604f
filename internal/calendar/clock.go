package calendar

import (
	"errors"
	"fmt"
)

// ErrInvalidClock is returned by ParseClock.
var ErrInvalidClock = errors.New("time must be in HH:MM format")

// ParseClock converts "HH:MM" to minutes since midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if mins > 59 || hours > 24 || (hours == 24 && mins != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return hours*60 + mins, nil
}

// MinutesToClock converts minutes since midnight to "HH:MM".
// Values past midnight keep counting hours ("24:30") so that events
// overflowing the day stay readable.
func MinutesToClock(m int) string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Overlaps reports whether [s1, e1) and [s2, e2) intersect.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// OverlapMinutes returns how many minutes [s1, e1) and [s2, e2) share.
func OverlapMinutes(s1, e1, s2, e2 int) int {
	start := max(s1, s2)
	end := min(e1, e2)
	if end <= start {
		return 0
	}
	return end - start
}
