package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/logging"
	"github.com/javiermolinar/agenda/internal/seed"
)

func (a *App) seedCmd() *cobra.Command {
	var (
		patients     int
		doctors      int
		appointments int
		date         string
		seedValue    uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with fake patients, doctors and appointments",
		Long: `Create fake data for the configured tenant.

Appointments are spread from Monday to Saturday of the week containing --date.

Example:
  agenda seed --patients=50 --doctors=4 --appointments=80 --date=2024-05-10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			if _, err := a.ensureService(ctx); err != nil {
				return err
			}

			week, err := dateutil.ParseRelativeDate(date, dateutil.Today(a.now()))
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", date, err)
			}
			hours, err := a.config.Hours()
			if err != nil {
				return err
			}

			logger := logging.Console(a.debug, cmd.ErrOrStderr())
			res, err := seed.Run(ctx, a.store, seed.Options{
				TenantID:     a.config.Session.TenantID,
				Patients:     patients,
				Doctors:      doctors,
				Appointments: appointments,
				Week:         week,
				Hours:        hours,
				Seed:         seedValue,
				Logger:       &logger,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Seeded %d patients, %d doctors, %d staff and %d appointments\n",
				res.Patients, res.Doctors, res.Staff, res.Appointments)
			for _, s := range appointment.Statuses {
				if n := res.ByStatus[s]; n > 0 {
					fmt.Fprintf(w, "  %s %d\n", statusColor(s).Sprintf("%-10s", s.Wire()), n)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&patients, "patients", 30, "Number of patients")
	cmd.Flags().IntVar(&doctors, "doctors", 3, "Number of doctors")
	cmd.Flags().IntVar(&appointments, "appointments", 40, "Number of appointments")
	cmd.Flags().StringVar(&date, "date", "", "Any day of the target week (default: today)")
	cmd.Flags().Uint64Var(&seedValue, "seed", 0, "Random seed (0 picks one)")
	return cmd
}
