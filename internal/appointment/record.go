package appointment

import (
	"fmt"

	"github.com/javiermolinar/agenda/internal/wallclock"
)

// Record is an appointment as the backend serializes it.
type Record struct {
	ID              int64  `json:"id"`
	PatientID       int64  `json:"patient_id"`
	DoctorID        int64  `json:"doctor_id"`
	FechaHora       string `json:"fecha_hora"`
	Motivo          string `json:"motivo"`
	DuracionMinutos int    `json:"duracion_minutos"`
	Estado          string `json:"estado"`
	PatientName     string `json:"patient_name,omitempty"`
}

// Parse converts the record into an Appointment. A zero duration means the
// backend stored none and becomes DefaultDurationMinutes.
func (r Record) Parse() (Appointment, error) {
	start, err := wallclock.Parse(r.FechaHora)
	if err != nil {
		return Appointment{}, fmt.Errorf("fecha_hora: %w", err)
	}
	status, err := ParseStatus(r.Estado)
	if err != nil {
		return Appointment{}, &ValidationError{Field: "estado", Reason: err.Error()}
	}
	duration := r.DuracionMinutos
	if duration == 0 {
		duration = DefaultDurationMinutes
	}

	a := Appointment{
		ID:              r.ID,
		PatientID:       r.PatientID,
		DoctorID:        r.DoctorID,
		Start:           start,
		DurationMinutes: duration,
		Reason:          r.Motivo,
		Status:          status,
		PatientName:     r.PatientName,
	}
	if err := a.Validate(); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// ToRecord converts an Appointment back into its wire shape.
func ToRecord(a Appointment) Record {
	return Record{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		FechaHora:       wallclock.Format(a.Start),
		Motivo:          a.Reason,
		DuracionMinutos: a.DurationMinutes,
		Estado:          a.Status.Wire(),
		PatientName:     a.PatientName,
	}
}

// CreateRequest is the body of a create call.
type CreateRequest struct {
	PatientID       int64  `json:"patient_id"`
	DoctorID        int64  `json:"doctor_id"`
	FechaHora       string `json:"fecha_hora"`
	Motivo          string `json:"motivo"`
	DuracionMinutos int    `json:"duracion_minutos"`
}

// Draft validates the request into a Draft.
func (r CreateRequest) Draft() (Draft, error) {
	start, err := wallclock.Parse(r.FechaHora)
	if err != nil {
		return Draft{}, fmt.Errorf("fecha_hora: %w", err)
	}
	return NewDraft(r.PatientID, r.DoctorID, start, r.DuracionMinutos, r.Motivo)
}

// StatusUpdate is the body of a status change call.
type StatusUpdate struct {
	Estado Status `json:"estado"`
}

// RosterEntry is a clinic user as listed by the backend.
type RosterEntry struct {
	ID             int64  `json:"id"`
	NombreCompleto string `json:"nombre_completo"`
	Rol            string `json:"rol"`
}

// Roles that can hold appointments.
const (
	RoleAdmin   = "admin"
	RoleDentist = "dentista"
	RoleDoctor  = "medico"
)

// FilterRoster keeps the users whose role can hold appointments, in order.
func FilterRoster(entries []RosterEntry) []Doctor {
	var out []Doctor
	for _, e := range entries {
		switch e.Rol {
		case RoleAdmin, RoleDentist, RoleDoctor:
			out = append(out, Doctor{ID: e.ID, DisplayName: e.NombreCompleto, Role: e.Rol})
		}
	}
	return out
}
