package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/calendar"
)

// Stats holds aggregated statistics for a week.
type Stats struct {
	Total         int
	BookedMinutes int
	ByStatus      map[appointment.Status]int
	BusiestDay    string
	BusiestCount  int
	MaxColumns    int
}

// WeekStats counts the appointments of a layout. Cancelled appointments
// and no-shows do not add booked minutes.
func WeekStats(w agenda.WeekLayout) Stats {
	s := Stats{ByStatus: map[appointment.Status]int{}}
	for _, d := range w.Days {
		if n := len(d.Appointments); n > s.BusiestCount {
			s.BusiestCount = n
			s.BusiestDay = d.Date.Weekday().String()
		}
		s.MaxColumns = max(s.MaxColumns, d.ColumnCount)
		for _, p := range d.Appointments {
			a := p.Appointment
			s.Total++
			s.ByStatus[a.Status]++
			switch a.Status {
			case appointment.StatusCancelled, appointment.StatusNoShow:
			default:
				s.BookedMinutes += a.DurationMinutes
			}
		}
	}
	return s
}

// PrintOpts configures appointment printing.
type PrintOpts struct {
	Verbose        bool // Show full reasons
	MaxReasonWidth int  // Maximum reason width (0 = auto)
	// Doctors maps doctor ids to display names.
	Doctors map[int64]string
}

// CalcMaxReasonWidth calculates the maximum reason width based on options.
func (o PrintOpts) CalcMaxReasonWidth(defaultWidth int) int {
	if o.MaxReasonWidth > 0 {
		return o.MaxReasonWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "    HH:MM-HH:MM  [c/n]  status      #id  patient  doctor  " is ~70 chars
	available := termWidth() - 70
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

func (o PrintOpts) doctorName(id int64) string {
	if name, ok := o.Doctors[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// PrintAppointmentRow prints one positioned appointment.
func PrintAppointmentRow(w io.Writer, p agenda.PositionedAppointment, opts PrintOpts, maxReasonWidth int) {
	a := p.Appointment
	column := formatMuted(fmt.Sprintf("[%d/%d]", p.Column+1, p.ColumnCount))
	// Pad before coloring so escape codes do not break alignment.
	status := statusColor(a.Status).Sprintf("%-10s", a.Status.Wire())
	fmt.Fprintf(w, "    %s-%s  %s  %s  #%-4d %-20s %-10s %s\n",
		calendar.MinutesToClock(a.StartMinute()),
		calendar.MinutesToClock(a.EndMinute()),
		column,
		status,
		a.ID,
		truncate(a.DisplayPatient(), 20),
		truncate(opts.doctorName(a.DoctorID), 10),
		truncate(a.Reason, maxReasonWidth),
	)
}

// PrintWeek prints every day of the layout that has appointments.
func PrintWeek(w io.Writer, layout agenda.WeekLayout, opts PrintOpts) {
	week := layout.Week
	header := fmt.Sprintf("WEEK: %s - %s", week.Start().String(), week.End().String())
	hours := fmt.Sprintf("%s-%s, %d min slots",
		calendar.MinutesToClock(week.OpenMinute),
		calendar.MinutesToClock(week.CloseMinute),
		week.SlotSizeMinutes)
	fmt.Fprintf(w, "\n  %s  %s\n", formatHeader(header), formatMuted(hours))
	fmt.Fprintln(w, strings.Repeat("─", 74))

	maxReasonWidth := opts.CalcMaxReasonWidth(24)
	if layout.Len() == 0 {
		fmt.Fprintln(w, "  No appointments this week.")
	}

	first := true
	for _, d := range layout.Days {
		if len(d.Appointments) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false

		dayName := fmt.Sprintf("%s %s", d.Date.Weekday().String()[:3], d.Date)
		cols := ""
		if d.ColumnCount > 1 {
			cols = formatMuted(fmt.Sprintf("  %d columns", d.ColumnCount))
		}
		fmt.Fprintf(w, "  %s%s\n", formatHeader(dayName), cols)
		for _, p := range d.Appointments {
			PrintAppointmentRow(w, p, opts, maxReasonWidth)
		}
	}

	fmt.Fprintln(w, strings.Repeat("─", 74))
	PrintStats(w, WeekStats(layout))

	if len(layout.Failures) > 0 {
		fmt.Fprintf(w, "  %s\n", formatError(fmt.Sprintf("%d record(s) could not be shown:", len(layout.Failures))))
		for _, f := range layout.Failures {
			fmt.Fprintf(w, "    %s\n", formatMuted(f.Error()))
		}
	}
}

// PrintStats prints the stats summary line.
func PrintStats(w io.Writer, s Stats) {
	parts := make([]string, 0, len(appointment.Statuses))
	for _, st := range appointment.Statuses {
		if n := s.ByStatus[st]; n > 0 {
			parts = append(parts, statusColor(st).Sprintf("%s: %d", st.Wire(), n))
		}
	}
	fmt.Fprintf(w, "  Total: %d  |  Booked: %s", s.Total, formatStats(FormatDuration(s.BookedMinutes)))
	if len(parts) > 0 {
		fmt.Fprintf(w, "  |  %s", strings.Join(parts, "  "))
	}
	fmt.Fprintln(w)
	if s.BusiestCount > 0 {
		fmt.Fprintf(w, "  Busiest day: %s (%d)  |  Max overlap columns: %d\n", s.BusiestDay, s.BusiestCount, s.MaxColumns)
	}
}
