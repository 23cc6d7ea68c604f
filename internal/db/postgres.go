package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/wallclock"
)

// Postgres implements appointment.Store on a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ appointment.Store = (*Postgres)(nil)

// ConnectPostgres opens a pool, checks connectivity and runs migrations.
func ConnectPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// toTimestamp carries a wall clock into a timestamp column. UTC is only a
// carrier: the column has no zone and pgx writes the fields as given.
func toTimestamp(w wallclock.WallClock) time.Time {
	return time.Date(w.Year, time.Month(w.Month), w.Day, w.Hour, w.Minute, 0, 0, time.UTC)
}

func fromTimestamp(t time.Time) string {
	return wallclock.Format(wallclock.WallClock{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	})
}

func scanPgRecord(row pgx.Row) (appointment.Record, error) {
	var (
		r        appointment.Record
		start    time.Time
		duration *int32
	)
	err := row.Scan(
		&r.ID,
		&r.PatientID,
		&r.DoctorID,
		&start,
		&r.Motivo,
		&duration,
		&r.Estado,
		&r.PatientName,
	)
	if err != nil {
		return appointment.Record{}, err
	}
	r.FechaHora = fromTimestamp(start)
	if duration != nil {
		r.DuracionMinutos = int(*duration)
	}
	return r, nil
}

// ListRange returns the appointments starting on a day in [from, to].
func (p *Postgres) ListRange(ctx context.Context, tenantID int64, from, to dateutil.Date) ([]appointment.Record, error) {
	lo := toTimestamp(wallclock.New(from, 0))
	hi := toTimestamp(wallclock.New(to.AddDays(1), 0))
	return p.list(ctx, selectAppointment+`
		WHERE a.tenant_id = $1 AND a.fecha_hora >= $2 AND a.fecha_hora < $3
		ORDER BY a.fecha_hora ASC, a.id ASC
	`, tenantID, lo, hi)
}

// ListByPatient returns a patient's appointments, newest first.
func (p *Postgres) ListByPatient(ctx context.Context, tenantID, patientID int64) ([]appointment.Record, error) {
	if _, err := p.patientName(ctx, p.pool, tenantID, patientID); err != nil {
		return nil, err
	}
	return p.list(ctx, selectAppointment+`
		WHERE a.tenant_id = $1 AND a.patient_id = $2
		ORDER BY a.fecha_hora DESC, a.id DESC
	`, tenantID, patientID)
}

func (p *Postgres) list(ctx context.Context, query string, args ...any) ([]appointment.Record, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer rows.Close()

	var records []appointment.Record
	for rows.Next() {
		r, err := scanPgRecord(rows)
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
func (p *Postgres) Get(ctx context.Context, tenantID, id int64) (appointment.Record, error) {
	row := p.pool.QueryRow(ctx, selectAppointment+` WHERE a.tenant_id = $1 AND a.id = $2`, tenantID, id)
	r, err := scanPgRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return appointment.Record{}, fmt.Errorf("appointment %d: %w", id, appointment.ErrNotFound)
	}
	if err != nil {
		return appointment.Record{}, fmt.Errorf("querying appointment: %w", err)
	}
	return r, nil
}

// Create stores a new appointment in StatusScheduled.
func (p *Postgres) Create(ctx context.Context, tenantID int64, req appointment.CreateRequest) (appointment.Record, error) {
	start, err := wallclock.Parse(req.FechaHora)
	if err != nil {
		return appointment.Record{}, fmt.Errorf("fecha_hora: %w", err)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return appointment.Record{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	name, err := p.patientName(ctx, tx, tenantID, req.PatientID)
	if err != nil {
		return appointment.Record{}, err
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO appointments (tenant_id, patient_id, doctor_id, fecha_hora, motivo, duracion_minutos, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, tenantID, req.PatientID, req.DoctorID, toTimestamp(start), req.Motivo, req.DuracionMinutos, appointment.StatusScheduled.Wire()).Scan(&id)
	if err != nil {
		return appointment.Record{}, fmt.Errorf("insert appointment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return appointment.Record{}, fmt.Errorf("commit tx: %w", err)
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
func (p *Postgres) UpdateStatus(ctx context.Context, tenantID, id int64, from, to appointment.Status) error {
	var stored string
	err := p.pool.QueryRow(ctx, `
		UPDATE appointments
		SET estado = $1
		WHERE tenant_id = $2 AND id = $3 AND estado IN ($4, $5)
		RETURNING estado
	`, to.Wire(), tenantID, id, from.Wire(), storedAlias(from)).Scan(&stored)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update appointment status: %w", err)
	}

	err = p.pool.QueryRow(ctx, `SELECT estado FROM appointments WHERE tenant_id = $1 AND id = $2`, tenantID, id).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("appointment %d: %w", id, appointment.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("query appointment status: %w", err)
	}
	return staleStatus(stored, from)
}

// ListDoctors returns the tenant's users.
func (p *Postgres) ListDoctors(ctx context.Context, tenantID int64) ([]appointment.RosterEntry, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, nombre_completo, rol FROM users WHERE tenant_id = $1 ORDER BY id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var roster []appointment.RosterEntry
	for rows.Next() {
		var e appointment.RosterEntry
		if err := rows.Scan(&e.ID, &e.NombreCompleto, &e.Rol); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		roster = append(roster, e)
	}
	return roster, rows.Err()
}

// CreatePatient adds a patient to a tenant and returns its id.
func (p *Postgres) CreatePatient(ctx context.Context, tenantID int64, name string) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `INSERT INTO patients (tenant_id, nombre_completo) VALUES ($1, $2) RETURNING id`, tenantID, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert patient: %w", err)
	}
	return id, nil
}

// CreateUser adds a roster member to a tenant and returns its id.
func (p *Postgres) CreateUser(ctx context.Context, tenantID int64, name, role string) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `INSERT INTO users (tenant_id, nombre_completo, rol) VALUES ($1, $2, $3) RETURNING id`, tenantID, name, role).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

type pgQueryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (p *Postgres) patientName(ctx context.Context, q pgQueryer, tenantID, patientID int64) (string, error) {
	var name string
	err := q.QueryRow(ctx, `SELECT nombre_completo FROM patients WHERE tenant_id = $1 AND id = $2`, tenantID, patientID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("patient %d: %w", patientID, appointment.ErrPatientNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("query patient: %w", err)
	}
	return name, nil
}
