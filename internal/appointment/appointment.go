// Package appointment defines clinic appointments, their wire records and
// the lifecycle every module shares.
package appointment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/agenda/internal/wallclock"
)

// DefaultDurationMinutes is assumed when a record carries no duration.
const DefaultDurationMinutes = 60

// Domain errors.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("appointment not found")
	ErrPatientNotFound = errors.New("patient not found")
)

// ValidationError reports a rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Appointment is an immutable snapshot of a backend appointment.
// Transitions return a modified copy.
type Appointment struct {
	ID              int64
	PatientID       int64
	DoctorID        int64
	Start           wallclock.WallClock
	DurationMinutes int
	Reason          string
	Status          Status
	PatientName     string
}

// StartMinute returns the minute of day the appointment starts.
func (a Appointment) StartMinute() int {
	return a.Start.MinuteOfDay()
}

// EndMinute returns the exclusive end minute. It may exceed one day.
func (a Appointment) EndMinute() int {
	return a.StartMinute() + a.DurationMinutes
}

// DisplayPatient returns the patient name, or "Paciente #id" when unknown.
func (a Appointment) DisplayPatient() string {
	if name := strings.TrimSpace(a.PatientName); name != "" {
		return name
	}
	return fmt.Sprintf("Paciente #%d", a.PatientID)
}

// Apply runs event through the lifecycle and returns the updated copy.
// On error a is returned unchanged.
func (a Appointment) Apply(event Event, guard Guard) (Appointment, error) {
	to, err := Transition(a.Status, event, guard)
	if err != nil {
		return a, fmt.Errorf("appointment %d: %w", a.ID, err)
	}
	a.Status = to
	return a, nil
}

// Validate checks the invariants of a loaded appointment.
func (a Appointment) Validate() error {
	if a.DurationMinutes <= 0 {
		return &ValidationError{Field: "duracion_minutos", Reason: fmt.Sprintf("must be positive, got %d", a.DurationMinutes)}
	}
	if !a.Status.Valid() {
		return &ValidationError{Field: "estado", Reason: fmt.Sprintf("unknown status %q", string(a.Status))}
	}
	return nil
}

// Draft is an appointment that has been validated but not persisted.
type Draft struct {
	PatientID       int64
	DoctorID        int64
	Start           wallclock.WallClock
	DurationMinutes int
	Reason          string
	Status          Status
}

// NewDraft validates the fields of a new appointment. Drafts always start
// in StatusScheduled.
func NewDraft(patientID, doctorID int64, start wallclock.WallClock, durationMinutes int, reason string) (Draft, error) {
	switch {
	case patientID <= 0:
		return Draft{}, &ValidationError{Field: "patient_id", Reason: "is required"}
	case doctorID <= 0:
		return Draft{}, &ValidationError{Field: "doctor_id", Reason: "is required"}
	case durationMinutes <= 0:
		return Draft{}, &ValidationError{Field: "duracion_minutos", Reason: fmt.Sprintf("must be positive, got %d", durationMinutes)}
	}
	return Draft{
		PatientID:       patientID,
		DoctorID:        doctorID,
		Start:           start,
		DurationMinutes: durationMinutes,
		Reason:          strings.TrimSpace(reason),
		Status:          StatusScheduled,
	}, nil
}

// Request returns the wire shape sent to the backend.
func (d Draft) Request() CreateRequest {
	return CreateRequest{
		PatientID:       d.PatientID,
		DoctorID:        d.DoctorID,
		FechaHora:       wallclock.Format(d.Start),
		Motivo:          d.Reason,
		DuracionMinutos: d.DurationMinutes,
	}
}

// Doctor is a roster member who can hold appointments.
type Doctor struct {
	ID          int64
	DisplayName string
	Role        string
}

// ShortName returns the first word of the display name.
func (d Doctor) ShortName() string {
	fields := strings.Fields(d.DisplayName)
	if len(fields) == 0 {
		return fmt.Sprintf("#%d", d.ID)
	}
	return fields[0]
}
