package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/appointment"
)

type change func(ctx context.Context, svc *agenda.Service, id int64) (appointment.Appointment, error)

// statusCmd builds a command that applies one lifecycle change to an
// appointment given by ID.
func (a *App) statusCmd(use, short, example, verb string, fn change) *cobra.Command {
	return &cobra.Command{
		Use:     use + " [appointment-id]",
		Short:   short,
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid appointment ID: %w", err)
			}

			ctx := context.Background()
			svc, err := a.ensureService(ctx)
			if err != nil {
				return err
			}

			appt, err := fn(ctx, svc, id)
			if err != nil {
				return fmt.Errorf("%s appointment #%d: %w", verb, id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Appointment #%d is now %s\n", appt.ID, formatStatus(appt.Status))
			return nil
		},
	}
}

func (a *App) startCmd() *cobra.Command {
	return a.statusCmd("start", "Start the consultation of a scheduled appointment", "  agenda start 42", "starting",
		func(ctx context.Context, svc *agenda.Service, id int64) (appointment.Appointment, error) {
			return svc.Start(ctx, id)
		})
}

func (a *App) cancelCmd() *cobra.Command {
	return a.statusCmd("cancel", "Cancel a scheduled appointment", "  agenda cancel 42", "cancelling",
		func(ctx context.Context, svc *agenda.Service, id int64) (appointment.Appointment, error) {
			return svc.Cancel(ctx, id)
		})
}

func (a *App) noShowCmd() *cobra.Command {
	return a.statusCmd("no-show", "Record that the patient did not attend", "  agenda no-show 42", "marking",
		func(ctx context.Context, svc *agenda.Service, id int64) (appointment.Appointment, error) {
			return svc.NoShow(ctx, id)
		})
}

func (a *App) finalizeCmd() *cobra.Command {
	var note string
	cmd := a.statusCmd("finalize", "Finish a consultation in progress", `  agenda finalize 42 --note="Refiere dolor leve"`, "finalizing",
		func(ctx context.Context, svc *agenda.Service, id int64) (appointment.Appointment, error) {
			return svc.Finalize(ctx, id, note)
		})
	cmd.Flags().StringVar(&note, "note", "", "Subjective note of the consultation (required to finish)")
	return cmd
}
