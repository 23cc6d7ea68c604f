package wallclock

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/agenda/internal/dateutil"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  WallClock
	}{
		{name: "canonical with seconds", input: "2024-05-10T14:30:00", want: WallClock{2024, 5, 10, 14, 30}},
		{name: "without seconds", input: "2024-05-10T14:30", want: WallClock{2024, 5, 10, 14, 30}},
		{name: "space separator", input: "2024-05-10 08:05:00", want: WallClock{2024, 5, 10, 8, 5}},
		{name: "fractional seconds", input: "2024-05-10T14:30:59.123456", want: WallClock{2024, 5, 10, 14, 30}},
		{name: "zulu suffix is ignored", input: "2024-05-10T23:30:00Z", want: WallClock{2024, 5, 10, 23, 30}},
		{name: "offset suffix is ignored", input: "2024-05-10T00:15:00-06:00", want: WallClock{2024, 5, 10, 0, 15}},
		{name: "compact offset", input: "2024-05-10T00:15:00+0530", want: WallClock{2024, 5, 10, 0, 15}},
		{name: "leap day", input: "2024-02-29T09:00", want: WallClock{2024, 2, 29, 9, 0}},
		{name: "midnight", input: "2024-12-31T00:00:00", want: WallClock{2024, 12, 31, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	inputs := []string{
		"",
		"2024-05-10",
		"2024/05/10T14:30",
		"24-05-10T14:30",
		"2024-5-10T14:30",
		"2024-05-10T1:30",
		"2024-05-10T14",
		"2024-05-10T14:3",
		"2024-05-10T14:30:",
		"2024-05-10Tab:30",
		"2024-13-10T14:30",
		"2024-00-10T14:30",
		"2023-02-29T14:30",
		"2024-04-31T14:30",
		"2024-05-10T24:00",
		"2024-05-10T14:60",
		"2024-05-10T14:30:61",
		"2024-05-10T14:30:00junk",
		"2024-05-10T14:30:00+5",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got nil", input)
			}
			if !errors.Is(err, ErrTimeParse) {
				t.Errorf("expected ErrTimeParse, got %v", err)
			}
			var perr *TimeParseError
			if !errors.As(err, &perr) || perr.Input != input {
				t.Errorf("expected *TimeParseError with input %q, got %v", input, err)
			}
		})
	}
}

func TestParse_IndependentOfLocalTimezone(t *testing.T) {
	original := time.Local
	t.Cleanup(func() { time.Local = original })

	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC-6", -6*60*60),
		time.FixedZone("UTC+14", 14*60*60),
		time.FixedZone("UTC+5:45", 5*60*60+45*60),
	}

	want := WallClock{Year: 2024, Month: 5, Day: 10, Hour: 14, Minute: 30}
	for _, loc := range zones {
		t.Run(loc.String(), func(t *testing.T) {
			time.Local = loc
			got, err := Parse("2024-05-10T14:30:00")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != want {
				t.Errorf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	// Walk every minute of a leap year's first two days and a sample of others.
	start := dateutil.NewDate(2024, time.February, 28)
	for day := 0; day < 3; day++ {
		d := start.AddDays(day)
		for m := 0; m < MinutesPerDay; m += 7 {
			w := New(d, m)
			got, err := Parse(Format(w))
			if err != nil {
				t.Fatalf("Parse(Format(%+v)) error: %v", w, err)
			}
			if got != w {
				t.Fatalf("round trip mismatch: got %+v, want %+v", got, w)
			}
		}
	}
}

func TestFormat(t *testing.T) {
	w := WallClock{Year: 2024, Month: 5, Day: 1, Hour: 8, Minute: 5}
	if got := Format(w); got != "2024-05-01T08:05:00" {
		t.Errorf("Format() = %q", got)
	}
}

func TestWallClock_Helpers(t *testing.T) {
	w := WallClock{Year: 2024, Month: 5, Day: 10, Hour: 9, Minute: 30}

	if got := w.MinuteOfDay(); got != 570 {
		t.Errorf("MinuteOfDay() = %d, want 570", got)
	}
	if got := w.Date(); got != dateutil.NewDate(2024, 5, 10) {
		t.Errorf("Date() = %v", got)
	}
	if got := New(w.Date(), 570); got != w {
		t.Errorf("New() = %+v, want %+v", got, w)
	}

	later := WallClock{Year: 2024, Month: 5, Day: 10, Hour: 9, Minute: 31}
	nextDay := WallClock{Year: 2024, Month: 5, Day: 11, Hour: 0, Minute: 0}
	if w.Compare(later) != -1 || later.Compare(w) != 1 || w.Compare(w) != 0 {
		t.Error("Compare within a day is wrong")
	}
	if later.Compare(nextDay) != -1 {
		t.Error("Compare across days is wrong")
	}
}

func TestWallClock_TextRoundTrip(t *testing.T) {
	var w WallClock
	if err := w.UnmarshalText([]byte("2024-05-10T14:30:00")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	b, err := w.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(b) != "2024-05-10T14:30:00" {
		t.Errorf("MarshalText() = %s", b)
	}
	if err := w.UnmarshalText([]byte("nope")); !errors.Is(err, ErrTimeParse) {
		t.Errorf("expected ErrTimeParse, got %v", err)
	}
}
