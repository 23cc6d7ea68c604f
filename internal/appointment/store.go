package appointment

import (
	"context"

	"github.com/javiermolinar/agenda/internal/dateutil"
)

// Store is the backend the agenda reads from and delegates writes to.
// Every call is scoped to one clinic (tenant).
type Store interface {
	// ListRange returns the appointments starting on a day in [from, to],
	// ordered by start.
	ListRange(ctx context.Context, tenantID int64, from, to dateutil.Date) ([]Record, error)

	// ListByPatient returns a patient's appointments, newest first.
	// Returns ErrPatientNotFound if the patient is not in the tenant.
	ListByPatient(ctx context.Context, tenantID, patientID int64) ([]Record, error)

	// Get returns ErrNotFound if the appointment is not in the tenant.
	Get(ctx context.Context, tenantID, id int64) (Record, error)

	// Create stores a new appointment in StatusScheduled.
	// Returns ErrPatientNotFound if the patient is not in the tenant.
	Create(ctx context.Context, tenantID int64, req CreateRequest) (Record, error)

	// UpdateStatus moves an appointment from `from` to `to`. If the stored
	// status is no longer `from` it returns ErrInvalidTransition.
	UpdateStatus(ctx context.Context, tenantID, id int64, from, to Status) error

	// ListDoctors returns the tenant's users with their roles.
	ListDoctors(ctx context.Context, tenantID int64) ([]RosterEntry, error)

	// Close releases any resources held by the store.
	Close() error
}
