package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) doctorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctors",
		Short: "List the users who can hold appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			svc, err := a.ensureService(ctx)
			if err != nil {
				return err
			}

			doctors, err := svc.Doctors(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(doctors) == 0 {
				fmt.Fprintln(w, "No doctors.")
			}
			for _, d := range doctors {
				fmt.Fprintf(w, "  #%-4d %-30s %s\n", d.ID, d.DisplayName, formatMuted(d.Role))
			}
			return nil
		},
	}
}
