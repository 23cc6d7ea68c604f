// Package agenda turns a week of appointment records into per-day packed
// layouts and gates every status change through the appointment lifecycle.
package agenda

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/calendar"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/wallclock"
)

// DefaultCellHeightPx is the height of one slot row.
const DefaultCellHeightPx = 40

// Session identifies who is looking at the agenda and for which clinic.
type Session struct {
	UserID   int64
	TenantID int64
	Role     string
}

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	Hours        calendar.Hours
	CellHeightPx float64
	// UseHeap selects calendar.PackHeap instead of the column scan.
	UseHeap bool
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Controller owns the layout of the visible week. Its methods do no I/O.
type Controller struct {
	session Session
	hours   calendar.Hours
	cellPx  float64
	pack    func([]calendar.Event) (calendar.PackResult, error)
	memo    *layoutMemo
	log     zerolog.Logger
}

// New creates a Controller for session.
func New(session Session, opts Options) *Controller {
	if opts.Hours == (calendar.Hours{}) {
		opts.Hours = calendar.DefaultHours()
	}
	if opts.CellHeightPx <= 0 {
		opts.CellHeightPx = DefaultCellHeightPx
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	pack := calendar.Pack
	if opts.UseHeap {
		pack = calendar.PackHeap
	}
	return &Controller{
		session: session,
		hours:   opts.Hours,
		cellPx:  opts.CellHeightPx,
		pack:    pack,
		memo:    newLayoutMemo(defaultMemoSize),
		log: logger.With().
			Int64("tenant_id", session.TenantID).
			Int64("user_id", session.UserID).
			Logger(),
	}
}

// Session returns the session the controller was built with.
func (c *Controller) Session() Session {
	return c.session
}

// Hours returns the visible range of each day.
func (c *Controller) Hours() calendar.Hours {
	return c.hours
}

// CellHeightPx returns the height of one slot row.
func (c *Controller) CellHeightPx() float64 {
	return c.cellPx
}

// RecordError reports a record excluded from a load.
type RecordError struct {
	ID  int64
	Err error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.ID, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// PositionedAppointment is an appointment with its place on the grid.
type PositionedAppointment struct {
	Appointment appointment.Appointment
	calendar.Positioned
}

// DayLayout is one column of the week.
type DayLayout struct {
	Date         dateutil.Date
	Appointments []PositionedAppointment
	ColumnCount  int
}

// WeekLayout is the result of a load.
type WeekLayout struct {
	Week     calendar.Week
	Days     [calendar.DaysPerWeek]DayLayout
	Failures []RecordError
}

// Len returns the number of appointments laid out.
func (w WeekLayout) Len() int {
	n := 0
	for _, d := range w.Days {
		n += len(d.Appointments)
	}
	return n
}

// Find returns the positioned appointment with the given id.
func (w WeekLayout) Find(id int64) (PositionedAppointment, bool) {
	for _, d := range w.Days {
		for _, p := range d.Appointments {
			if p.Appointment.ID == id {
				return p, true
			}
		}
	}
	return PositionedAppointment{}, false
}

// LoadWeek lays out the week containing ref. Records that fail to parse
// are reported in Failures and left out; records outside the week are
// ignored.
func (c *Controller) LoadWeek(ref dateutil.Date, records []appointment.Record) WeekLayout {
	week := calendar.ComputeWeek(ref, c.hours)
	out := WeekLayout{Week: week}

	var buckets [calendar.DaysPerWeek][]appointment.Appointment
	for _, r := range records {
		a, err := r.Parse()
		if err != nil {
			c.log.Debug().Int64("id", r.ID).Str("fecha_hora", r.FechaHora).Err(err).Msg("skipping record")
			out.Failures = append(out.Failures, RecordError{ID: r.ID, Err: err})
			continue
		}
		idx := week.DayIndex(a.Start.Date())
		if idx < 0 {
			continue
		}
		buckets[idx] = append(buckets[idx], a)
	}

	for i, appts := range buckets {
		day, err := c.layoutDay(appts)
		if err != nil {
			// Parse already rejects empty intervals; keep the rest of the week.
			c.log.Error().Err(err).Stringer("date", week.Days[i]).Msg("packing failed")
			var perr *calendar.PackingInputError
			id := int64(0)
			if errors.As(err, &perr) {
				id = appts[perr.ID].ID
			}
			out.Failures = append(out.Failures, RecordError{ID: id, Err: err})
		}
		day.Date = week.Days[i]
		out.Days[i] = day
	}

	c.log.Debug().
		Stringer("week", week).
		Int("records", len(records)).
		Int("laid_out", out.Len()).
		Int("failures", len(out.Failures)).
		Msg("week loaded")
	return out
}

// layoutDay packs one day. Event ids are indexes into appts so that the
// memoized geometry only depends on the intervals.
func (c *Controller) layoutDay(appts []appointment.Appointment) (DayLayout, error) {
	if len(appts) == 0 {
		return DayLayout{}, nil
	}
	events := make([]calendar.Event, len(appts))
	for i, a := range appts {
		events[i] = calendar.Event{ID: int64(i), StartMinute: a.StartMinute(), EndMinute: a.EndMinute()}
	}

	key := dayKey(c.hours, c.cellPx, events)
	positioned, ok := c.memo.get(key)
	if !ok {
		packed, err := c.pack(events)
		if err != nil {
			return DayLayout{}, err
		}
		positioned = calendar.Layout(packed, c.hours, c.cellPx)
		c.memo.put(key, positioned)
		hits, misses := c.memo.stats()
		c.log.Debug().
			Int("events", len(events)).
			Int("memo_hits", hits).
			Int("memo_misses", misses).
			Int("columns", packed.ColumnCount).
			Int("max_overlap", calendar.MaxOverlap(events)).
			Msg("day packed")
	}

	day := DayLayout{Appointments: make([]PositionedAppointment, len(positioned))}
	for i, p := range positioned {
		a := appts[p.ID]
		p.ID = a.ID
		day.Appointments[i] = PositionedAppointment{Appointment: a, Positioned: p}
		day.ColumnCount = p.ColumnCount
	}
	return day, nil
}

// CreateInput is what the create form collects.
type CreateInput struct {
	Day             dateutil.Date
	SlotMinute      int
	PatientID       int64
	DoctorID        int64
	DurationMinutes int
	Reason          string
}

// RequestCreate validates a new appointment and returns its draft.
// Persisting the draft is up to the caller.
func (c *Controller) RequestCreate(in CreateInput) (appointment.Draft, error) {
	if in.Day.IsZero() {
		return appointment.Draft{}, &appointment.ValidationError{Field: "fecha_hora", Reason: "day is required"}
	}
	if !c.hours.Contains(in.SlotMinute) {
		return appointment.Draft{}, &appointment.ValidationError{
			Field:  "fecha_hora",
			Reason: fmt.Sprintf("%s is outside %s-%s", calendar.MinutesToClock(in.SlotMinute), calendar.MinutesToClock(c.hours.OpenMinute), calendar.MinutesToClock(c.hours.CloseMinute)),
		}
	}
	draft, err := appointment.NewDraft(in.PatientID, in.DoctorID, wallclock.New(in.Day, in.SlotMinute), in.DurationMinutes, in.Reason)
	if err != nil {
		c.log.Debug().Err(err).Msg("create rejected")
		return appointment.Draft{}, err
	}
	return draft, nil
}

// RequestCancel cancels a scheduled appointment.
func (c *Controller) RequestCancel(a appointment.Appointment) (appointment.Appointment, error) {
	return c.apply(a, appointment.EventCancel, appointment.Guard{})
}

// RequestStart opens the consultation of a scheduled appointment.
func (c *Controller) RequestStart(a appointment.Appointment) (appointment.Appointment, error) {
	return c.apply(a, appointment.EventStart, appointment.Guard{})
}

// RequestFinalize closes a consultation. hasNote reports whether the
// subjective note has been written.
func (c *Controller) RequestFinalize(a appointment.Appointment, hasNote bool) (appointment.Appointment, error) {
	return c.apply(a, appointment.EventFinalize, appointment.Guard{HasNote: hasNote})
}

// ApplyNoShow records a no-show reported by another module. The agenda
// never raises it on its own.
func (c *Controller) ApplyNoShow(a appointment.Appointment) (appointment.Appointment, error) {
	return c.apply(a, appointment.EventNoShow, appointment.Guard{})
}

func (c *Controller) apply(a appointment.Appointment, ev appointment.Event, g appointment.Guard) (appointment.Appointment, error) {
	next, err := a.Apply(ev, g)
	if err != nil {
		c.log.Debug().Int64("id", a.ID).Str("event", string(ev)).Err(err).Msg("transition rejected")
		return a, err
	}
	c.log.Debug().Int64("id", a.ID).Str("from", a.Status.Wire()).Str("to", next.Status.Wire()).Msg("transition")
	return next, nil
}

// SuggestSlot returns the first slot of day where the doctor has no active
// appointment for durationMinutes. Cancelled and closed appointments do not
// block a slot.
func (c *Controller) SuggestSlot(day DayLayout, doctorID int64, durationMinutes int) (int, bool) {
	if durationMinutes <= 0 {
		return 0, false
	}
	for _, m := range calendar.DaySlots(c.hours) {
		if c.doctorFree(day, doctorID, m, m+durationMinutes) {
			return m, true
		}
	}
	return 0, false
}

func (c *Controller) doctorFree(day DayLayout, doctorID int64, start, end int) bool {
	for _, p := range day.Appointments {
		a := p.Appointment
		if a.DoctorID != doctorID || a.Status.IsTerminal() {
			continue
		}
		if calendar.Overlaps(start, end, a.StartMinute(), a.EndMinute()) {
			return false
		}
	}
	return true
}
