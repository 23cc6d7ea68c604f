package agenda

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/dateutil"
)

// Service connects a Controller to the backend store. It performs the I/O
// the controller delegates and keeps the View current.
type Service struct {
	store appointment.Store
	ctrl  *Controller
	view  *View
}

// NewService creates a Service.
func NewService(store appointment.Store, ctrl *Controller) *Service {
	return &Service{store: store, ctrl: ctrl, view: &View{}}
}

// Controller returns the underlying controller.
func (s *Service) Controller() *Controller {
	return s.ctrl
}

// View returns the week currently on screen.
func (s *Service) View() *View {
	return s.view
}

func (s *Service) tenant() int64 {
	return s.ctrl.session.TenantID
}

// Week loads and lays out the week containing ref. The result is always
// returned; it only replaces the View if no newer load has landed.
func (s *Service) Week(ctx context.Context, ref dateutil.Date) (WeekLayout, error) {
	ticket := s.view.Begin()
	start, end := dateutil.WeekRange(ref)

	records, err := s.store.ListRange(ctx, s.tenant(), start, end)
	if err != nil {
		return WeekLayout{}, fmt.Errorf("listing appointments: %w", err)
	}

	layout := s.ctrl.LoadWeek(ref, records)
	if !s.view.Commit(ticket, layout) {
		s.ctrl.log.Debug().Uint64("ticket", uint64(ticket)).Stringer("week", layout.Week).Msg("stale load discarded")
	}
	return layout, nil
}

// Create validates in and stores the new appointment.
func (s *Service) Create(ctx context.Context, in CreateInput) (appointment.Appointment, error) {
	draft, err := s.ctrl.RequestCreate(in)
	if err != nil {
		return appointment.Appointment{}, err
	}
	rec, err := s.store.Create(ctx, s.tenant(), draft.Request())
	if err != nil {
		return appointment.Appointment{}, fmt.Errorf("creating appointment: %w", err)
	}
	return rec.Parse()
}

// Get returns a stored appointment.
func (s *Service) Get(ctx context.Context, id int64) (appointment.Appointment, error) {
	rec, err := s.store.Get(ctx, s.tenant(), id)
	if err != nil {
		return appointment.Appointment{}, err
	}
	return rec.Parse()
}

// Cancel cancels a scheduled appointment.
func (s *Service) Cancel(ctx context.Context, id int64) (appointment.Appointment, error) {
	return s.change(ctx, id, s.ctrl.RequestCancel)
}

// Start opens the consultation of a scheduled appointment.
func (s *Service) Start(ctx context.Context, id int64) (appointment.Appointment, error) {
	return s.change(ctx, id, s.ctrl.RequestStart)
}

// Finalize closes a consultation once its subjective note is written.
func (s *Service) Finalize(ctx context.Context, id int64, note string) (appointment.Appointment, error) {
	hasNote := strings.TrimSpace(note) != ""
	return s.change(ctx, id, func(a appointment.Appointment) (appointment.Appointment, error) {
		return s.ctrl.RequestFinalize(a, hasNote)
	})
}

// NoShow records a no-show reported by another module.
func (s *Service) NoShow(ctx context.Context, id int64) (appointment.Appointment, error) {
	return s.change(ctx, id, s.ctrl.ApplyNoShow)
}

func (s *Service) change(ctx context.Context, id int64, fn func(appointment.Appointment) (appointment.Appointment, error)) (appointment.Appointment, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return appointment.Appointment{}, err
	}
	next, err := fn(current)
	if err != nil {
		return current, err
	}
	if err := s.store.UpdateStatus(ctx, s.tenant(), id, current.Status, next.Status); err != nil {
		return current, fmt.Errorf("updating appointment %d: %w", id, err)
	}
	return next, nil
}

// Doctors returns the roster members who can hold appointments.
func (s *Service) Doctors(ctx context.Context) ([]appointment.Doctor, error) {
	roster, err := s.store.ListDoctors(ctx, s.tenant())
	if err != nil {
		return nil, fmt.Errorf("listing doctors: %w", err)
	}
	return appointment.FilterRoster(roster), nil
}

// PatientHistory returns a patient's appointments, newest first. Records
// that fail to parse are reported separately.
func (s *Service) PatientHistory(ctx context.Context, patientID int64) ([]appointment.Appointment, []RecordError, error) {
	records, err := s.store.ListByPatient(ctx, s.tenant(), patientID)
	if err != nil {
		return nil, nil, err
	}
	var (
		out      []appointment.Appointment
		failures []RecordError
	)
	for _, r := range records {
		a, err := r.Parse()
		if err != nil {
			failures = append(failures, RecordError{ID: r.ID, Err: err})
			continue
		}
		out = append(out, a)
	}
	return out, failures, nil
}
