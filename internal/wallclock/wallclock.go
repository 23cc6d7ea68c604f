// Package wallclock parses and formats naive local date-times.
//
// A WallClock is what the clinic backend stores in fecha_hora: plain
// calendar and clock fields with no offset. Parsing never goes through a
// time.Location, so the result does not depend on the TZ of the process.
package wallclock

import (
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/agenda/internal/dateutil"
)

// ErrTimeParse is matched by every *TimeParseError.
var ErrTimeParse = errors.New("invalid date-time")

// TimeParseError describes why a raw date-time string was rejected.
type TimeParseError struct {
	Input  string
	Reason string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid date-time %q: %s", e.Input, e.Reason)
}

// Is reports whether target is ErrTimeParse.
func (e *TimeParseError) Is(target error) bool {
	return target == ErrTimeParse
}

// MinutesPerDay is 24 hours * 60 minutes.
const MinutesPerDay = 24 * 60

// WallClock is a local date-time expressed as plain fields.
type WallClock struct {
	Year   int
	Month  int // 1-12
	Day    int
	Hour   int // 0-23
	Minute int // 0-59
}

// New builds a WallClock from a date and a minute of day.
func New(d dateutil.Date, minuteOfDay int) WallClock {
	return WallClock{
		Year:   d.Year,
		Month:  int(d.Month),
		Day:    d.Day,
		Hour:   minuteOfDay / 60,
		Minute: minuteOfDay % 60,
	}
}

// Date returns the calendar day part.
func (w WallClock) Date() dateutil.Date {
	return dateutil.Date{Year: w.Year, Month: time.Month(w.Month), Day: w.Day}
}

// MinuteOfDay returns minutes since midnight.
func (w WallClock) MinuteOfDay() int {
	return w.Hour*60 + w.Minute
}

// Compare orders wall clocks chronologically: -1, 0 or 1.
func (w WallClock) Compare(other WallClock) int {
	if c := w.Date().Compare(other.Date()); c != 0 {
		return c
	}
	switch a, b := w.MinuteOfDay(), other.MinuteOfDay(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String is Format(w).
func (w WallClock) String() string {
	return Format(w)
}

// MarshalText implements encoding.TextMarshaler.
func (w WallClock) MarshalText() ([]byte, error) {
	return []byte(Format(w)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WallClock) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Format renders w as YYYY-MM-DDTHH:MM:00, the form Parse reads back.
func Format(w WallClock) string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:00", w.Year, w.Month, w.Day, w.Hour, w.Minute)
}

// Parse reads YYYY-MM-DD[T| ]HH:MM[:SS[.fff]] into its fields.
// A trailing zone designator (Z, +hh:mm, -hhmm) is accepted and ignored:
// the value is a wall clock, not an instant.
func Parse(raw string) (WallClock, error) {
	fail := func(reason string) (WallClock, error) {
		return WallClock{}, &TimeParseError{Input: raw, Reason: reason}
	}

	s := raw
	year, s, ok := readInt(s, 4)
	if !ok {
		return fail("missing year")
	}
	if s, ok = expect(s, '-'); !ok {
		return fail("expected '-' after year")
	}
	month, s, ok := readInt(s, 2)
	if !ok {
		return fail("missing month")
	}
	if s, ok = expect(s, '-'); !ok {
		return fail("expected '-' after month")
	}
	day, s, ok := readInt(s, 2)
	if !ok {
		return fail("missing day")
	}
	if len(s) == 0 || (s[0] != 'T' && s[0] != 't' && s[0] != ' ') {
		return fail("missing time component")
	}
	s = s[1:]
	hour, s, ok := readInt(s, 2)
	if !ok {
		return fail("missing hour")
	}
	if s, ok = expect(s, ':'); !ok {
		return fail("expected ':' after hour")
	}
	minute, s, ok := readInt(s, 2)
	if !ok {
		return fail("missing minute")
	}

	if rest, isColon := expect(s, ':'); isColon {
		var sec int
		sec, s, ok = readInt(rest, 2)
		if !ok {
			return fail("missing seconds")
		}
		if sec > 59 {
			return fail("seconds out of range")
		}
		if rest, isDot := expect(s, '.'); isDot {
			s = skipDigits(rest)
		}
	}

	if !isZoneSuffix(s) {
		return fail(fmt.Sprintf("unexpected trailing %q", s))
	}

	switch {
	case month < 1 || month > 12:
		return fail("month out of range")
	case day < 1 || day > dateutil.DaysIn(year, time.Month(month)):
		return fail("day out of range")
	case hour > 23:
		return fail("hour out of range")
	case minute > 59:
		return fail("minute out of range")
	}

	return WallClock{Year: year, Month: month, Day: day, Hour: hour, Minute: minute}, nil
}

// readInt reads exactly n ASCII digits.
func readInt(s string, n int) (int, string, bool) {
	if len(s) < n {
		return 0, s, false
	}
	v := 0
	for i := 0; i < n; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, s, false
		}
		v = v*10 + int(c-'0')
	}
	return v, s[n:], true
}

func expect(s string, c byte) (string, bool) {
	if len(s) == 0 || s[0] != c {
		return s, false
	}
	return s[1:], true
}

func skipDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[i:]
}

func isZoneSuffix(s string) bool {
	switch {
	case s == "":
		return true
	case s == "Z" || s == "z":
		return true
	case s[0] != '+' && s[0] != '-':
		return false
	}
	zone := s[1:]
	if len(zone) == 5 && zone[2] == ':' {
		zone = zone[:2] + zone[3:]
	}
	if len(zone) != 4 && len(zone) != 2 {
		return false
	}
	_, rest, ok := readInt(zone, len(zone))
	return ok && rest == ""
}
