package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/calendar"
	"github.com/javiermolinar/agenda/internal/dateutil"
)

func (a *App) weekCmd() *cobra.Command {
	var (
		offset  int
		verbose bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "week [date]",
		Short: "Show a week of appointments",
		Long: `Display the week (Sunday to Saturday) containing the given date,
with every appointment's time, overlap column and status.

The date accepts YYYY-MM-DD, "today", "tomorrow", "next-week" or a weekday name.

Example:
  agenda week 2024-05-10
  agenda week --offset=-1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			return a.runWeek(cmd, date, offset, verbose)
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Weeks to move forward (negative for back)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full reasons")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) runWeek(cmd *cobra.Command, date string, offset int, verbose bool) error {
	ctx := context.Background()
	svc, err := a.ensureService(ctx)
	if err != nil {
		return err
	}

	ref, err := dateutil.ParseRelativeDate(date, dateutil.Today(a.now()))
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	nav := calendar.NewNavigator(ref, svc.Controller().Hours())
	for ; offset > 0; offset-- {
		nav.Forward()
	}
	for ; offset < 0; offset++ {
		nav.Backward()
	}

	layout, err := svc.Week(ctx, nav.Current().Start())
	if err != nil {
		return err
	}

	opts := PrintOpts{Verbose: verbose, Doctors: map[int64]string{}}
	if doctors, err := svc.Doctors(ctx); err == nil {
		for _, d := range doctors {
			opts.Doctors[d.ID] = d.ShortName()
		}
	} else {
		a.log.Warn().Err(err).Msg("listing doctors")
	}

	PrintWeek(cmd.OutOrStdout(), layout, opts)
	return nil
}
