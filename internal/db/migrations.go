package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS patients (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant_id       INTEGER NOT NULL,
			nombre_completo TEXT NOT NULL,
			created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS users (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant_id       INTEGER NOT NULL,
			nombre_completo TEXT NOT NULL,
			rol             TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS appointments (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant_id        INTEGER NOT NULL,
			patient_id       INTEGER NOT NULL REFERENCES patients(id),
			doctor_id        INTEGER NOT NULL,
			fecha_hora       TEXT NOT NULL,
			motivo           TEXT NOT NULL DEFAULT '',
			duracion_minutos INTEGER,
			estado           TEXT NOT NULL DEFAULT 'Agendada',
			created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_appointments_tenant_fecha ON appointments(tenant_id, fecha_hora);
		CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);
		CREATE INDEX IF NOT EXISTS idx_users_tenant ON users(tenant_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}

// postgresSchema mirrors the SQLite tables. fecha_hora is a timestamp
// without time zone: the backend stores wall clocks.
const postgresSchema = `
	CREATE TABLE IF NOT EXISTS patients (
		id              BIGSERIAL PRIMARY KEY,
		tenant_id       BIGINT NOT NULL,
		nombre_completo TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS users (
		id              BIGSERIAL PRIMARY KEY,
		tenant_id       BIGINT NOT NULL,
		nombre_completo TEXT NOT NULL,
		rol             TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS appointments (
		id               BIGSERIAL PRIMARY KEY,
		tenant_id        BIGINT NOT NULL,
		patient_id       BIGINT NOT NULL REFERENCES patients(id),
		doctor_id        BIGINT NOT NULL,
		fecha_hora       TIMESTAMP NOT NULL,
		motivo           TEXT NOT NULL DEFAULT '',
		duracion_minutos INTEGER,
		estado           TEXT NOT NULL DEFAULT 'Agendada',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_appointments_tenant_fecha ON appointments(tenant_id, fecha_hora);
	CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);
	CREATE INDEX IF NOT EXISTS idx_users_tenant ON users(tenant_id);
`
