// Package db provides SQLite and PostgreSQL implementations of
// appointment.Store.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/wallclock"
)

// SQLite implements appointment.Store using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ appointment.Store = (*SQLite)(nil)

// New creates a new SQLite store and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const selectAppointment = `
	SELECT a.id, a.patient_id, a.doctor_id, a.fecha_hora, a.motivo,
	       a.duracion_minutos, a.estado, COALESCE(p.nombre_completo, '')
	FROM appointments a
	LEFT JOIN patients p ON p.id = a.patient_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (appointment.Record, error) {
	var (
		r        appointment.Record
		duration sql.NullInt64
	)
	err := row.Scan(
		&r.ID,
		&r.PatientID,
		&r.DoctorID,
		&r.FechaHora,
		&r.Motivo,
		&duration,
		&r.Estado,
		&r.PatientName,
	)
	if err != nil {
		return appointment.Record{}, err
	}
	// NULL duration is left at zero; parsing applies the default.
	r.DuracionMinutos = int(duration.Int64)
	return r, nil
}

// dayBounds returns the half-open text range [from 00:00, to+1 00:00).
func dayBounds(from, to dateutil.Date) (string, string) {
	return wallclock.Format(wallclock.New(from, 0)), wallclock.Format(wallclock.New(to.AddDays(1), 0))
}

// ListRange returns the appointments starting on a day in [from, to].
func (s *SQLite) ListRange(ctx context.Context, tenantID int64, from, to dateutil.Date) ([]appointment.Record, error) {
	lo, hi := dayBounds(from, to)
	query := selectAppointment + `
		WHERE a.tenant_id = ? AND a.fecha_hora >= ? AND a.fecha_hora < ?
		ORDER BY a.fecha_hora ASC, a.id ASC
	`
	return s.list(ctx, query, tenantID, lo, hi)
}

// ListByPatient returns a patient's appointments, newest first.
func (s *SQLite) ListByPatient(ctx context.Context, tenantID, patientID int64) ([]appointment.Record, error) {
	if _, err := s.patientName(ctx, s.db, tenantID, patientID); err != nil {
		return nil, err
	}
	query := selectAppointment + `
		WHERE a.tenant_id = ? AND a.patient_id = ?
		ORDER BY a.fecha_hora DESC, a.id DESC
	`
	return s.list(ctx, query, tenantID, patientID)
}

func (s *SQLite) list(ctx context.Context, query string, args ...any) ([]appointment.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []appointment.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning appointment: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appointments: %w", err)
	}
	return records, nil
}

// Get retrieves an appointment by ID.
func (s *SQLite) Get(ctx context.Context, tenantID, id int64) (appointment.Record, error) {
	row := s.db.QueryRowContext(ctx, selectAppointment+` WHERE a.tenant_id = ? AND a.id = ?`, tenantID, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return appointment.Record{}, fmt.Errorf("appointment %d: %w", id, appointment.ErrNotFound)
	}
	if err != nil {
		return appointment.Record{}, fmt.Errorf("querying appointment: %w", err)
	}
	return r, nil
}

// Create stores a new appointment in StatusScheduled.
func (s *SQLite) Create(ctx context.Context, tenantID int64, req appointment.CreateRequest) (appointment.Record, error) {
	start, err := wallclock.Parse(req.FechaHora)
	if err != nil {
		return appointment.Record{}, fmt.Errorf("fecha_hora: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return appointment.Record{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	name, err := s.patientName(ctx, tx, tenantID, req.PatientID)
	if err != nil {
		return appointment.Record{}, err
	}

	query := `
		INSERT INTO appointments (
			tenant_id, patient_id, doctor_id, fecha_hora, motivo, duracion_minutos, estado
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, query,
		tenantID,
		req.PatientID,
		req.DoctorID,
		wallclock.Format(start),
		req.Motivo,
		req.DuracionMinutos,
		appointment.StatusScheduled,
	)
	if err != nil {
		return appointment.Record{}, fmt.Errorf("inserting appointment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return appointment.Record{}, fmt.Errorf("getting last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return appointment.Record{}, fmt.Errorf("committing transaction: %w", err)
	}

	return appointment.Record{
		ID:              id,
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		FechaHora:       wallclock.Format(start),
		Motivo:          req.Motivo,
		DuracionMinutos: req.DuracionMinutos,
		Estado:          appointment.StatusScheduled.Wire(),
		PatientName:     name,
	}, nil
}

// UpdateStatus moves an appointment from `from` to `to` only if it is still
// in `from`.
func (s *SQLite) UpdateStatus(ctx context.Context, tenantID, id int64, from, to appointment.Status) error {
	query := `UPDATE appointments SET estado = ? WHERE tenant_id = ? AND id = ? AND estado IN (?, ?)`

	result, err := s.db.ExecContext(ctx, query, to, tenantID, id, from, storedAlias(from))
	if err != nil {
		return fmt.Errorf("updating appointment status: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var current string
	err = s.db.QueryRowContext(ctx, `SELECT estado FROM appointments WHERE tenant_id = ? AND id = ?`, tenantID, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("appointment %d: %w", id, appointment.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("querying appointment status: %w", err)
	}
	return staleStatus(current, from)
}

// ListDoctors returns the tenant's users.
func (s *SQLite) ListDoctors(ctx context.Context, tenantID int64) ([]appointment.RosterEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, nombre_completo, rol FROM users WHERE tenant_id = ? ORDER BY id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var roster []appointment.RosterEntry
	for rows.Next() {
		var e appointment.RosterEntry
		if err := rows.Scan(&e.ID, &e.NombreCompleto, &e.Rol); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		roster = append(roster, e)
	}
	return roster, rows.Err()
}

// CreatePatient adds a patient to a tenant and returns its id.
func (s *SQLite) CreatePatient(ctx context.Context, tenantID int64, name string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `INSERT INTO patients (tenant_id, nombre_completo) VALUES (?, ?)`, tenantID, name)
	if err != nil {
		return 0, fmt.Errorf("inserting patient: %w", err)
	}
	return result.LastInsertId()
}

// CreateUser adds a roster member to a tenant and returns its id.
func (s *SQLite) CreateUser(ctx context.Context, tenantID int64, name, role string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `INSERT INTO users (tenant_id, nombre_completo, rol) VALUES (?, ?, ?)`, tenantID, name, role)
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return result.LastInsertId()
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLite) patientName(ctx context.Context, q queryer, tenantID, patientID int64) (string, error) {
	var name string
	err := q.QueryRowContext(ctx, `SELECT nombre_completo FROM patients WHERE tenant_id = ? AND id = ?`, tenantID, patientID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("patient %d: %w", patientID, appointment.ErrPatientNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("querying patient: %w", err)
	}
	return name, nil
}

// storedAlias returns the other token a status may be stored under.
func storedAlias(s appointment.Status) string {
	if s == appointment.StatusScheduled {
		return "programada"
	}
	return s.Wire()
}

func staleStatus(stored string, expected appointment.Status) error {
	current, err := appointment.ParseStatus(stored)
	if err != nil {
		return fmt.Errorf("stored status: %w", err)
	}
	return &appointment.InvalidTransitionError{
		From:   current,
		Event:  "update",
		Reason: fmt.Sprintf("expected %q", expected),
	}
}
