// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/agenda/internal/calendar"
)

// Config holds the application configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
}

// GridConfig holds the visible calendar grid.
type GridConfig struct {
	Open       string  `toml:"open"`        // e.g., "08:00"
	Close      string  `toml:"close"`       // e.g., "20:00", last visible row
	SlotSize   int     `toml:"slot"`        // minutes per row
	CellHeight float64 `toml:"cell_height"` // pixels per row
}

// StorageConfig holds database settings.
type StorageConfig struct {
	Driver      string `toml:"driver"` // "sqlite" or "postgres"
	DBPath      string `toml:"db_path"`
	PostgresDSN string `toml:"postgres_dsn"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// SessionConfig identifies who the local user is acting as.
type SessionConfig struct {
	UserID   int64  `toml:"user"`
	TenantID int64  `toml:"tenant"`
	Role     string `toml:"role"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Open:       "08:00",
			Close:      "20:00",
			SlotSize:   30,
			CellHeight: 40,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DBPath: defaultDBPath(),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Session: SessionConfig{
			UserID:   1,
			TenantID: 1,
			Role:     "admin",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "agenda.db"
	}
	return filepath.Join(home, ".local", "share", "agenda", "agenda.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "agenda", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then a .env
// file in the working directory, then AGENDA_* environment variables.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	// Grid overrides
	if v := os.Getenv("AGENDA_GRID_OPEN"); v != "" {
		cfg.Grid.Open = v
	}
	if v := os.Getenv("AGENDA_GRID_CLOSE"); v != "" {
		cfg.Grid.Close = v
	}
	if v := os.Getenv("AGENDA_GRID_SLOT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AGENDA_GRID_SLOT: %w", err)
		}
		cfg.Grid.SlotSize = n
	}
	if v := os.Getenv("AGENDA_GRID_CELL_HEIGHT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("AGENDA_GRID_CELL_HEIGHT: %w", err)
		}
		cfg.Grid.CellHeight = f
	}

	// Storage overrides
	if v := os.Getenv("AGENDA_DB_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("AGENDA_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("AGENDA_POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}

	if v := os.Getenv("AGENDA_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	// Session overrides
	if v := os.Getenv("AGENDA_USER"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("AGENDA_USER: %w", err)
		}
		cfg.Session.UserID = n
	}
	if v := os.Getenv("AGENDA_TENANT"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("AGENDA_TENANT: %w", err)
		}
		cfg.Session.TenantID = n
	}
	if v := os.Getenv("AGENDA_ROLE"); v != "" {
		cfg.Session.Role = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Hours(); err != nil {
		return err
	}
	if c.Grid.CellHeight <= 0 {
		return errors.New("cell_height must be positive")
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return errors.New("postgres_dsn must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s", c.Storage.Driver)
	}

	if c.Session.TenantID <= 0 {
		return errors.New("session tenant must be positive")
	}
	return nil
}

// Hours converts the grid section into calendar hours.
func (c *Config) Hours() (calendar.Hours, error) {
	open, err := calendar.ParseClock(c.Grid.Open)
	if err != nil {
		return calendar.Hours{}, fmt.Errorf("open: %w", err)
	}
	closing, err := calendar.ParseClock(c.Grid.Close)
	if err != nil {
		return calendar.Hours{}, fmt.Errorf("close: %w", err)
	}
	h := calendar.Hours{OpenMinute: open, CloseMinute: closing, SlotSizeMinutes: c.Grid.SlotSize}
	if err := h.Validate(); err != nil {
		return calendar.Hours{}, err
	}
	return h, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
