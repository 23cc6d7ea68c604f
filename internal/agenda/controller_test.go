package agenda

import (
	"errors"
	"reflect"
	"testing"

	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/calendar"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/wallclock"
)

var (
	friday  = dateutil.NewDate(2024, 5, 10) // week of 2024-05-05..2024-05-11
	session = Session{UserID: 1, TenantID: 1, Role: appointment.RoleAdmin}
)

func record(id int64, fecha string, duration int, estado string) appointment.Record {
	return appointment.Record{ID: id, PatientID: 10 + id, DoctorID: 1, FechaHora: fecha, DuracionMinutos: duration, Estado: estado}
}

func TestLoadWeek_ScenarioA(t *testing.T) {
	c := New(session, Options{})
	layout := c.LoadWeek(friday, []appointment.Record{
		record(1, "2024-05-10T09:00:00", 60, "Agendada"),
		record(2, "2024-05-10T09:30:00", 60, "Agendada"),
		record(3, "2024-05-10T10:30:00", 30, "Agendada"),
	})

	if len(layout.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", layout.Failures)
	}
	day := layout.Days[5]
	if day.Date != friday {
		t.Fatalf("Days[5] = %v, want friday", day.Date)
	}
	if day.ColumnCount != 2 {
		t.Fatalf("ColumnCount = %d, want 2", day.ColumnCount)
	}
	a, _ := layout.Find(1)
	b, _ := layout.Find(2)
	if a.Column == b.Column {
		t.Error("A and B share a column")
	}
	if a.ID != 1 || a.Appointment.ID != 1 {
		t.Errorf("positioned id = %d, appointment id = %d", a.ID, a.Appointment.ID)
	}
	if !approx(a.TopPx, 80) || !approx(a.HeightPx, 80) || !approx(b.LeftFraction, 0.5) {
		t.Errorf("A top %v height %v, B left %v", a.TopPx, a.HeightPx, b.LeftFraction)
	}
	for i, d := range layout.Days {
		if i != 5 && (len(d.Appointments) != 0 || d.ColumnCount != 0) {
			t.Errorf("day %d should be empty: %+v", i, d)
		}
	}
}

func TestLoadWeek_IsolatesBadRecords(t *testing.T) {
	c := New(session, Options{})
	layout := c.LoadWeek(friday, []appointment.Record{
		record(1, "2024-05-06T09:00:00", 30, "Agendada"),
		record(2, "not a date", 30, "Agendada"),
		record(3, "2024-05-06T10:00:00", -5, "Agendada"),
		record(4, "2024-05-06T11:00:00", 30, "Borrada"),
		record(5, "2024-05-07T08:00:00", 0, "Cancelada"),
	})

	if layout.Len() != 2 {
		t.Fatalf("laid out %d appointments, want 2", layout.Len())
	}
	var ids []int64
	for _, f := range layout.Failures {
		ids = append(ids, f.ID)
	}
	if !reflect.DeepEqual(ids, []int64{2, 3, 4}) {
		t.Fatalf("failure ids = %v", ids)
	}
	if !errors.Is(layout.Failures[0], wallclock.ErrTimeParse) {
		t.Errorf("failure 2 = %v, want ErrTimeParse", layout.Failures[0])
	}
	if !errors.Is(layout.Failures[1], appointment.ErrValidation) {
		t.Errorf("failure 3 = %v, want ErrValidation", layout.Failures[1])
	}

	defaulted, ok := layout.Find(5)
	if !ok || defaulted.Appointment.DurationMinutes != appointment.DefaultDurationMinutes {
		t.Errorf("missing duration not defaulted: %+v", defaulted.Appointment)
	}
}

func TestLoadWeek_IgnoresOtherWeeks(t *testing.T) {
	c := New(session, Options{})
	layout := c.LoadWeek(friday, []appointment.Record{
		record(1, "2024-05-04T09:00:00", 30, "Agendada"), // previous Saturday
		record(2, "2024-05-05T09:00:00", 30, "Agendada"), // Sunday
		record(3, "2024-05-11T19:30:00", 90, "Agendada"), // Saturday, runs past close
		record(4, "2024-05-12T09:00:00", 30, "Agendada"), // next Sunday
	})

	if layout.Len() != 2 || len(layout.Failures) != 0 {
		t.Fatalf("Len = %d failures = %v", layout.Len(), layout.Failures)
	}
	if len(layout.Days[0].Appointments) != 1 || len(layout.Days[6].Appointments) != 1 {
		t.Errorf("expected one appointment on Sunday and Saturday")
	}
	late := layout.Days[6].Appointments[0]
	if !approx(late.HeightPx, 120) {
		t.Errorf("late appointment height %v, want unclipped 120", late.HeightPx)
	}
}

func TestLoadWeek_HeapAndMemoMatchScan(t *testing.T) {
	records := []appointment.Record{
		record(1, "2024-05-08T09:00:00", 45, "Agendada"),
		record(2, "2024-05-08T09:00:00", 30, "En proceso"),
		record(3, "2024-05-08T09:15:00", 60, "Agendada"),
		record(4, "2024-05-08T09:30:00", 30, "Cancelada"),
		record(5, "2024-05-08T10:15:00", 30, "Finalizada"),
	}

	scan := New(session, Options{}).LoadWeek(friday, records)
	heap := New(session, Options{UseHeap: true}).LoadWeek(friday, records)
	if !reflect.DeepEqual(scan, heap) {
		t.Fatalf("heap layout differs from scan layout")
	}

	c := New(session, Options{})
	first := c.LoadWeek(friday, records)
	second := c.LoadWeek(friday, records)
	if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(first, scan) {
		t.Fatal("memoized layout differs")
	}
	if hits, _ := c.memo.stats(); hits == 0 {
		t.Error("second load did not hit the memo")
	}

	// Same intervals with different appointments reuse the geometry but
	// keep their own identity.
	renamed := append([]appointment.Record(nil), records...)
	for i := range renamed {
		renamed[i].ID += 100
	}
	third := c.LoadWeek(friday, renamed)
	if _, ok := third.Find(101); !ok {
		t.Error("memo leaked ids from a previous load")
	}
}

func TestLoadWeek_CustomGrid(t *testing.T) {
	c := New(session, Options{
		Hours:        calendar.Hours{OpenMinute: 7 * 60, CloseMinute: 15 * 60, SlotSizeMinutes: 15},
		CellHeightPx: 30,
	})
	layout := c.LoadWeek(friday, []appointment.Record{record(1, "2024-05-10T08:00:00", 30, "Agendada")})
	p, _ := layout.Find(1)
	// 2px per minute: 60 minutes after open, 30 long.
	if !approx(p.TopPx, 120) || !approx(p.HeightPx, 60) {
		t.Errorf("top %v height %v", p.TopPx, p.HeightPx)
	}
}

func TestRequestCreate(t *testing.T) {
	c := New(session, Options{})

	draft, err := c.RequestCreate(CreateInput{Day: friday, SlotMinute: 9 * 60, PatientID: 3, DoctorID: 2, DurationMinutes: 30, Reason: "Control"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Status != appointment.StatusScheduled {
		t.Errorf("draft status %q", draft.Status)
	}
	if got := draft.Request().FechaHora; got != "2024-05-10T09:00:00" {
		t.Errorf("FechaHora = %q", got)
	}

	tests := []struct {
		name string
		in   CreateInput
	}{
		{name: "zero duration", in: CreateInput{Day: friday, SlotMinute: 540, PatientID: 3, DoctorID: 2}},
		{name: "negative duration", in: CreateInput{Day: friday, SlotMinute: 540, PatientID: 3, DoctorID: 2, DurationMinutes: -30}},
		{name: "no patient", in: CreateInput{Day: friday, SlotMinute: 540, DoctorID: 2, DurationMinutes: 30}},
		{name: "no doctor", in: CreateInput{Day: friday, SlotMinute: 540, PatientID: 3, DurationMinutes: 30}},
		{name: "no day", in: CreateInput{SlotMinute: 540, PatientID: 3, DoctorID: 2, DurationMinutes: 30}},
		{name: "before open", in: CreateInput{Day: friday, SlotMinute: 7 * 60, PatientID: 3, DoctorID: 2, DurationMinutes: 30}},
		{name: "after close", in: CreateInput{Day: friday, SlotMinute: 20*60 + 30, PatientID: 3, DoctorID: 2, DurationMinutes: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := c.RequestCreate(tt.in)
			if !errors.Is(err, appointment.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if d != (appointment.Draft{}) {
				t.Errorf("draft produced on error: %+v", d)
			}
		})
	}
}

func TestRequestCancel_ScenarioC(t *testing.T) {
	c := New(session, Options{})
	a := appointment.Appointment{ID: 1, DurationMinutes: 30, Status: appointment.StatusScheduled}

	cancelled, err := c.RequestCancel(a)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != appointment.StatusCancelled {
		t.Fatalf("status = %q", cancelled.Status)
	}

	_, err = c.RequestCancel(cancelled)
	if !errors.Is(err, appointment.ErrInvalidTransition) {
		t.Fatalf("second cancel: expected ErrInvalidTransition, got %v", err)
	}
}

func TestLifecycleRequests(t *testing.T) {
	c := New(session, Options{})
	a := appointment.Appointment{ID: 1, DurationMinutes: 30, Status: appointment.StatusScheduled}

	started, err := c.RequestStart(a)
	if err != nil || started.Status != appointment.StatusInProgress {
		t.Fatalf("start: %q, %v", started.Status, err)
	}
	if _, err := c.RequestCancel(started); !errors.Is(err, appointment.ErrInvalidTransition) {
		t.Errorf("cancel after start: %v", err)
	}
	if same, err := c.RequestFinalize(started, false); !errors.Is(err, appointment.ErrInvalidTransition) || same != started {
		t.Errorf("finalize without note: %q, %v", same.Status, err)
	}
	done, err := c.RequestFinalize(started, true)
	if err != nil || done.Status != appointment.StatusFinished {
		t.Fatalf("finalize: %q, %v", done.Status, err)
	}

	noShow, err := c.ApplyNoShow(a)
	if err != nil || noShow.Status != appointment.StatusNoShow {
		t.Fatalf("no-show: %q, %v", noShow.Status, err)
	}

	for _, terminal := range []appointment.Appointment{done, noShow, {Status: appointment.StatusCancelled}} {
		if _, err := c.RequestCancel(terminal); !errors.Is(err, appointment.ErrInvalidTransition) {
			t.Errorf("cancel from %q: %v", terminal.Status, err)
		}
		if _, err := c.RequestStart(terminal); !errors.Is(err, appointment.ErrInvalidTransition) {
			t.Errorf("start from %q: %v", terminal.Status, err)
		}
		if _, err := c.RequestFinalize(terminal, true); !errors.Is(err, appointment.ErrInvalidTransition) {
			t.Errorf("finalize from %q: %v", terminal.Status, err)
		}
		if _, err := c.ApplyNoShow(terminal); !errors.Is(err, appointment.ErrInvalidTransition) {
			t.Errorf("no-show from %q: %v", terminal.Status, err)
		}
	}
}

func TestSuggestSlot(t *testing.T) {
	c := New(session, Options{})
	layout := c.LoadWeek(friday, []appointment.Record{
		{ID: 1, PatientID: 1, DoctorID: 7, FechaHora: "2024-05-10T08:00:00", DuracionMinutos: 60, Estado: "Agendada"},
		{ID: 2, PatientID: 2, DoctorID: 7, FechaHora: "2024-05-10T09:00:00", DuracionMinutos: 30, Estado: "Cancelada"},
		{ID: 3, PatientID: 3, DoctorID: 7, FechaHora: "2024-05-10T09:30:00", DuracionMinutos: 30, Estado: "En proceso"},
		{ID: 4, PatientID: 4, DoctorID: 8, FechaHora: "2024-05-10T08:00:00", DuracionMinutos: 240, Estado: "Agendada"},
	})
	day := layout.Days[5]

	tests := []struct {
		name     string
		doctor   int64
		duration int
		want     int
		wantOK   bool
	}{
		{name: "cancelled slot is free", doctor: 7, duration: 30, want: 9 * 60, wantOK: true},
		{name: "longer visit skips in-progress", doctor: 7, duration: 60, want: 10 * 60, wantOK: true},
		{name: "other doctor", doctor: 8, duration: 30, want: 12 * 60, wantOK: true},
		{name: "free doctor gets opening slot", doctor: 9, duration: 30, want: 8 * 60, wantOK: true},
		{name: "invalid duration", doctor: 9, duration: 0, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.SuggestSlot(day, tt.doctor, tt.duration)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("SuggestSlot() = %s, %v; want %s, %v", calendar.MinutesToClock(got), ok, calendar.MinutesToClock(tt.want), tt.wantOK)
			}
		})
	}
}

func TestDayKey(t *testing.T) {
	h := calendar.DefaultHours()
	a := []calendar.Event{{ID: 0, StartMinute: 540, EndMinute: 600}, {ID: 1, StartMinute: 560, EndMinute: 620}}
	b := []calendar.Event{{ID: 0, StartMinute: 560, EndMinute: 620}, {ID: 1, StartMinute: 540, EndMinute: 600}}

	if dayKey(h, 40, a) != dayKey(h, 40, a) {
		t.Error("key is not stable")
	}
	if dayKey(h, 40, a) == dayKey(h, 40, b) {
		t.Error("input order must change the key")
	}
	if dayKey(h, 40, a) == dayKey(h, 48, a) {
		t.Error("cell height must change the key")
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
