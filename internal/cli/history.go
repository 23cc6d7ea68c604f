package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/calendar"
)

func (a *App) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [patient-id]",
		Short: "List a patient's appointments, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patientID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid patient ID: %w", err)
			}

			ctx := context.Background()
			svc, err := a.ensureService(ctx)
			if err != nil {
				return err
			}

			appts, failures, err := svc.PatientHistory(ctx, patientID)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(appts) == 0 {
				fmt.Fprintln(w, "No appointments.")
			}
			for _, appt := range appts {
				fmt.Fprintf(w, "  #%-4d %s %s  %s  %s\n",
					appt.ID,
					appt.Start.Date(),
					calendar.MinutesToClock(appt.StartMinute()),
					statusColor(appt.Status).Sprintf("%-10s", appt.Status.Wire()),
					appt.Reason,
				)
			}
			for _, f := range failures {
				fmt.Fprintf(w, "  %s\n", formatMuted(f.Error()))
			}
			return nil
		},
	}
}
