package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/javiermolinar/agenda/internal/appointment"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is an appointment.Store that can also register patients and
// roster members. Both implementations satisfy it.
type Store interface {
	appointment.Store
	CreatePatient(ctx context.Context, tenantID int64, name string) (int64, error)
	CreateUser(ctx context.Context, tenantID int64, name, role string) (int64, error)
}

// Options selects and locates the backing database.
type Options struct {
	Driver      string
	Path        string
	PostgresDSN string
}

// Open connects to the configured database.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		if dir := filepath.Dir(opts.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		return New(opts.Path)
	case DriverPostgres:
		return ConnectPostgres(ctx, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
