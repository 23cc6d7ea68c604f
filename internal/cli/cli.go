// Package cli implements the agenda command line.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/config"
	"github.com/javiermolinar/agenda/internal/db"
	"github.com/javiermolinar/agenda/internal/logging"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	store    db.Store
	config   *config.Config
	svc      *agenda.Service
	root     *cobra.Command
	debug    bool // Enable debug logging
	useHeap  bool
	log      zerolog.Logger
	closeLog func() error
	now      func() time.Time
}

// NewApp creates a new CLI application. A nil store is opened from the
// configuration on first use.
func NewApp(store db.Store, cfg *config.Config) *App {
	a := &App{
		store:    store,
		config:   cfg,
		log:      zerolog.Nop(),
		closeLog: func() error { return nil },
		now:      time.Now,
	}

	a.root = &cobra.Command{
		Use:   "agenda",
		Short: "A weekly appointment calendar for clinics",
		Long: `Agenda shows a clinic's week of appointments laid out as a calendar grid,
books new appointments and moves them through their lifecycle.

Without a subcommand it prints the current week.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			log, closeFn, err := logging.OpenDebug(a.debug)
			if err != nil {
				return err
			}
			a.log, a.closeLog = log, closeFn
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWeek(cmd, "", 0, false)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (writes "+logging.DebugLogPath+")")
	a.root.PersistentFlags().BoolVar(&a.useHeap, "heap", false, "Pack overlapping appointments with the heap packer")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.startCmd())
	a.root.AddCommand(a.finalizeCmd())
	a.root.AddCommand(a.cancelCmd())
	a.root.AddCommand(a.noShowCmd())
	a.root.AddCommand(a.historyCmd())
	a.root.AddCommand(a.doctorsCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.seedCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agenda %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureService opens the store if needed and builds the agenda service.
func (a *App) ensureService(ctx context.Context) (*agenda.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	if a.store == nil {
		store, err := db.Open(ctx, db.Options{
			Driver:      a.config.Storage.Driver,
			Path:        a.config.Storage.DBPath,
			PostgresDSN: a.config.Storage.PostgresDSN,
		})
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		a.store = store
	}

	hours, err := a.config.Hours()
	if err != nil {
		return nil, err
	}
	session := agenda.Session{
		UserID:   a.config.Session.UserID,
		TenantID: a.config.Session.TenantID,
		Role:     a.config.Session.Role,
	}
	ctrl := agenda.New(session, agenda.Options{
		Hours:        hours,
		CellHeightPx: a.config.Grid.CellHeight,
		UseHeap:      a.useHeap,
		Logger:       &a.log,
	})
	a.svc = agenda.NewService(a.store, ctrl)
	return a.svc, nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the store and the debug log.
func (a *App) Close() error {
	logErr := a.closeLog()
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return err
		}
	}
	return logErr
}
