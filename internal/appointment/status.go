package appointment

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus is returned when a wire token maps to no Status.
var ErrUnknownStatus = errors.New("unknown appointment status")

// Status is the lifecycle state of an appointment. Its value is the wire
// token exchanged with the backend.
type Status string

const (
	StatusScheduled  Status = "Agendada"
	StatusInProgress Status = "En proceso"
	StatusFinished   Status = "Finalizada"
	StatusCancelled  Status = "Cancelada"
	StatusNoShow     Status = "No asistió"
)

// legacyScheduled is written by the backend's create path.
const legacyScheduled = "programada"

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusScheduled, StatusInProgress, StatusFinished, StatusCancelled, StatusNoShow}

// ParseStatus maps a wire token to a Status.
func ParseStatus(token string) (Status, error) {
	if s := Status(token); s.Valid() {
		return s, nil
	}
	if strings.EqualFold(strings.TrimSpace(token), legacyScheduled) {
		return StatusScheduled, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, token)
}

// Valid returns true if s is one of the five statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusFinished, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// Wire returns the token sent to the backend.
func (s Status) Wire() string {
	return string(s)
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusFinished, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrUnknownStatus, src)
	}
}

// Destination is where a click on an appointment leads.
type Destination string

const (
	DestinationConsultation  Destination = "consultation"
	DestinationPatientRecord Destination = "patient"
)

// Destination returns the consultation for live appointments and the
// patient record once the appointment is closed.
func (s Status) Destination() Destination {
	if s.IsTerminal() {
		return DestinationPatientRecord
	}
	return DestinationConsultation
}
