package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/api"
	"github.com/javiermolinar/agenda/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func (a *App) serveCmd() *cobra.Command {
	var (
		addr    string
		jsonLog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the agenda over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  GET  /agenda?date=YYYY-MM-DD
  GET  /agenda/sugerencia?date=&doctor_id=&duracion_minutos=
  POST /citas
  GET  /citas/{id}
  PUT  /citas/{id}/iniciar | cancelar | finalizar | no-asistio
  GET  /citas/paciente/{id}
  GET  /doctores
  GET  /health/live`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.config.Server.Addr
			}

			logger := logging.Console(a.debug, cmd.ErrOrStderr())
			if jsonLog {
				logger = logging.New(a.debug, cmd.OutOrStdout())
			}
			if a.debug {
				// Layout diagnostics go to the server log as well.
				a.log = logger
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := a.ensureService(ctx)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewRouter(api.RouterConfig{Service: svc, Logger: logger, Version: Version, Now: a.now}),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", addr).Int64("tenant_id", a.config.Session.TenantID).Msg("agenda api listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&jsonLog, "json", false, "Log requests as JSON lines on stdout")
	return cmd
}
