package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/appointment"
	"github.com/javiermolinar/agenda/internal/calendar"
	"github.com/javiermolinar/agenda/internal/dateutil"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date      string
		at        string
		patientID int64
		doctorID  int64
		duration  int
		reason    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Book a new appointment",
		Long: `Book an appointment for a patient with a doctor.

Without --time the first slot of the day where the doctor is free is used.

Example:
  agenda add --patient=3 --doctor=1 --date=2024-05-10 --time=09:30 --duration=45 --reason="Limpieza"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			svc, err := a.ensureService(ctx)
			if err != nil {
				return err
			}

			day, err := dateutil.ParseRelativeDate(date, dateutil.Today(a.now()))
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", date, err)
			}

			var slot int
			if at != "" {
				slot, err = calendar.ParseClock(at)
				if err != nil {
					return err
				}
			} else {
				layout, err := svc.Week(ctx, day)
				if err != nil {
					return err
				}
				var ok bool
				slot, ok = svc.Controller().SuggestSlot(layout.Days[layout.Week.DayIndex(day)], doctorID, duration)
				if !ok {
					return fmt.Errorf("doctor %d has no free %s slot on %s", doctorID, FormatDuration(duration), day)
				}
			}

			appt, err := svc.Create(ctx, agenda.CreateInput{
				Day:             day,
				SlotMinute:      slot,
				PatientID:       patientID,
				DoctorID:        doctorID,
				DurationMinutes: duration,
				Reason:          reason,
			})
			if err != nil {
				return fmt.Errorf("booking appointment: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Booked appointment #%d: %s %s-%s %s [%s]\n",
				appt.ID,
				appt.Start.Date(),
				calendar.MinutesToClock(appt.StartMinute()),
				calendar.MinutesToClock(appt.EndMinute()),
				appt.DisplayPatient(),
				formatStatus(appt.Status),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&at, "time", "", "Start time (HH:MM, default: first free slot)")
	cmd.Flags().Int64Var(&patientID, "patient", 0, "Patient ID (required)")
	cmd.Flags().Int64Var(&doctorID, "doctor", 0, "Doctor ID (required)")
	cmd.Flags().IntVar(&duration, "duration", appointment.DefaultDurationMinutes, "Duration in minutes")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the visit")

	_ = cmd.MarkFlagRequired("patient")
	_ = cmd.MarkFlagRequired("doctor")

	return cmd
}
