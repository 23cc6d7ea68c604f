package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/dateutil"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{90, "1h30m"},
		{150, "2h30m"},
	}

	for _, tc := range tests {
		if got := FormatDuration(tc.minutes); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Limpieza", 20, "Limpieza"},
		{"Control de ortodoncia", 10, "Control..."},
		{"Extracción de muela", 12, "Extracció..."},
	}

	for _, tc := range tests {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func weekWith(records ...appointment.Record) agenda.WeekLayout {
	ctrl := agenda.New(agenda.Session{TenantID: 1}, agenda.Options{})
	return ctrl.LoadWeek(dateutil.NewDate(2024, 5, 10), records)
}

func TestWeekStats(t *testing.T) {
	layout := weekWith(
		appointment.Record{ID: 1, PatientID: 1, DoctorID: 1, FechaHora: "2024-05-10T09:00:00", DuracionMinutos: 60, Estado: "Agendada"},
		appointment.Record{ID: 2, PatientID: 1, DoctorID: 1, FechaHora: "2024-05-10T09:30:00", DuracionMinutos: 30, Estado: "Cancelada"},
		appointment.Record{ID: 3, PatientID: 1, DoctorID: 1, FechaHora: "2024-05-08T11:00:00", DuracionMinutos: 45, Estado: "Finalizada"},
		appointment.Record{ID: 4, PatientID: 1, DoctorID: 1, FechaHora: "2024-05-10T12:00:00", DuracionMinutos: 20, Estado: "No asistió"},
	)

	s := WeekStats(layout)
	if s.Total != 4 {
		t.Errorf("Total = %d", s.Total)
	}
	if s.BookedMinutes != 105 {
		t.Errorf("BookedMinutes = %d, want 105", s.BookedMinutes)
	}
	if s.BusiestDay != "Friday" || s.BusiestCount != 3 {
		t.Errorf("busiest = %s (%d)", s.BusiestDay, s.BusiestCount)
	}
	if s.MaxColumns != 2 {
		t.Errorf("MaxColumns = %d", s.MaxColumns)
	}
	if s.ByStatus[appointment.StatusCancelled] != 1 || s.ByStatus[appointment.StatusScheduled] != 1 {
		t.Errorf("ByStatus = %v", s.ByStatus)
	}
}

func TestPrintWeek_Failures(t *testing.T) {
	DisableColor()
	layout := weekWith(
		appointment.Record{ID: 1, PatientID: 1, DoctorID: 7, FechaHora: "2024-05-10T09:00:00", DuracionMinutos: 30, Estado: "Agendada"},
		appointment.Record{ID: 2, PatientID: 1, DoctorID: 1, FechaHora: "ayer", DuracionMinutos: 30, Estado: "Agendada"},
	)

	var buf bytes.Buffer
	PrintWeek(&buf, layout, PrintOpts{MaxReasonWidth: 10})
	out := buf.String()

	for _, want := range []string{
		"Fri 2024-05-10",
		"Paciente #1",
		"#7",
		"1 record(s) could not be shown:",
		"record 2:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
