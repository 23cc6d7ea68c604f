// Package seed fills a store with fake patients, doctors and appointments.
package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/calendar"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/wallclock"
)

// Store is what seeding writes to.
type Store interface {
	CreatePatient(ctx context.Context, tenantID int64, name string) (int64, error)
	CreateUser(ctx context.Context, tenantID int64, name, role string) (int64, error)
	Create(ctx context.Context, tenantID int64, req appointment.CreateRequest) (appointment.Record, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, from, to appointment.Status) error
}

// Options controls how much data is generated.
type Options struct {
	TenantID     int64
	Patients     int
	Doctors      int
	Appointments int
	// Week is any day of the week the appointments fall in.
	Week  dateutil.Date
	Hours calendar.Hours
	// Seed makes the output reproducible. Zero picks a random seed.
	Seed   uint64
	Logger *zerolog.Logger
}

// Result counts what was created.
type Result struct {
	Patients     int
	Doctors      int
	Staff        int
	Appointments int
	ByStatus     map[appointment.Status]int
}

var (
	durations = []int{30, 30, 45, 60, 60, 90}
	reasons   = []string{
		"Limpieza dental",
		"Revisión general",
		"Dolor de muelas",
		"Control de ortodoncia",
		"Extracción",
		"Consulta de seguimiento",
		"Resultados de análisis",
		"Vacunación",
	}
	clinicalRoles = []string{appointment.RoleDentist, appointment.RoleDoctor}
)

// Run creates opts.Doctors clinicians plus one receptionist, opts.Patients
// patients and opts.Appointments appointments spread over the week.
// A share of the appointments is moved along the lifecycle so every status
// shows up.
func Run(ctx context.Context, store Store, opts Options) (Result, error) {
	if opts.Patients <= 0 || opts.Doctors <= 0 {
		return Result{}, fmt.Errorf("seed needs at least one patient and one doctor")
	}
	if opts.Hours == (calendar.Hours{}) {
		opts.Hours = calendar.DefaultHours()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	faker := gofakeit.New(opts.Seed)
	res := Result{ByStatus: map[appointment.Status]int{}}

	doctors := make([]int64, 0, opts.Doctors)
	for i := 0; i < opts.Doctors; i++ {
		role := clinicalRoles[faker.Number(0, len(clinicalRoles)-1)]
		id, err := store.CreateUser(ctx, opts.TenantID, faker.Name(), role)
		if err != nil {
			return res, fmt.Errorf("seeding doctors: %w", err)
		}
		doctors = append(doctors, id)
		res.Doctors++
	}
	if _, err := store.CreateUser(ctx, opts.TenantID, faker.Name(), "recepcion"); err != nil {
		return res, fmt.Errorf("seeding staff: %w", err)
	}
	res.Staff++
	logger.Info().Int("doctors", res.Doctors).Msg("doctors seeded")

	patients := make([]int64, 0, opts.Patients)
	for i := 0; i < opts.Patients; i++ {
		id, err := store.CreatePatient(ctx, opts.TenantID, faker.Name())
		if err != nil {
			return res, fmt.Errorf("seeding patients: %w", err)
		}
		patients = append(patients, id)
		res.Patients++
	}
	logger.Info().Int("patients", res.Patients).Msg("patients seeded")

	week := calendar.ComputeWeek(opts.Week, opts.Hours)
	slots := calendar.DaySlots(opts.Hours)
	// The closing row is not bookable for a full appointment.
	slots = slots[:len(slots)-1]

	for i := 0; i < opts.Appointments; i++ {
		// Monday to Saturday.
		day := week.Days[faker.Number(1, calendar.DaysPerWeek-1)]
		start := wallclock.New(day, slots[faker.Number(0, len(slots)-1)])

		draft, err := appointment.NewDraft(
			patients[faker.Number(0, len(patients)-1)],
			doctors[faker.Number(0, len(doctors)-1)],
			start,
			durations[faker.Number(0, len(durations)-1)],
			reasons[faker.Number(0, len(reasons)-1)],
		)
		if err != nil {
			return res, err
		}
		rec, err := store.Create(ctx, opts.TenantID, draft.Request())
		if err != nil {
			return res, fmt.Errorf("seeding appointment: %w", err)
		}

		status, err := advance(ctx, store, opts.TenantID, rec.ID, faker.Number(0, 9))
		if err != nil {
			return res, err
		}
		res.Appointments++
		res.ByStatus[status]++
	}
	logger.Info().Int("appointments", res.Appointments).Stringer("week", week).Msg("appointments seeded")

	return res, nil
}

// advance walks a new appointment along the lifecycle. Rolls 0-5 leave it
// scheduled.
func advance(ctx context.Context, store Store, tenantID, id int64, roll int) (appointment.Status, error) {
	var path []appointment.Status
	switch roll {
	case 6:
		path = []appointment.Status{appointment.StatusInProgress}
	case 7:
		path = []appointment.Status{appointment.StatusInProgress, appointment.StatusFinished}
	case 8:
		path = []appointment.Status{appointment.StatusCancelled}
	case 9:
		path = []appointment.Status{appointment.StatusNoShow}
	}

	current := appointment.StatusScheduled
	for _, next := range path {
		if err := store.UpdateStatus(ctx, tenantID, id, current, next); err != nil {
			return current, fmt.Errorf("seeding status of appointment %d: %w", id, err)
		}
		current = next
	}
	return current, nil
}
