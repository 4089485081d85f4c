package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/service"
)

const restartHint = "changes take effect in a running server after it restarts"

func alarmsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alarms",
		Short: "Manage alarms",
		Long:  "Manage alarms. Changes take effect in a running server after it restarts.",
	}

	cmd.AddCommand(alarmsListCmd(), alarmsAddCmd(), alarmsRemoveCmd(), alarmsToggleCmd())
	return cmd
}

func alarmsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List alarms with their next trigger time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			alarms, err := a.Alarms.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(alarms) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no alarms")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tDAYS\tENABLED\tNEXT\tLABEL")
			for _, alarm := range alarms {
				next := "-"
				if alarm.IsEnabled {
					next = a.Alarms.NextTrigger(alarm).Format("Mon 02 Jan 15:04")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\t%s\n",
					alarm.ID, alarm.TimeString(), alarm.Days, alarm.IsEnabled, next, alarm.Label)
			}
			return tw.Flush()
		},
	}
}

func alarmsAddCmd() *cobra.Command {
	var (
		days  string
		label string
	)

	cmd := &cobra.Command{
		Use:   "add HH:MM",
		Short: "Add an alarm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hour, minute, err := entities.ParseClock(args[0])
			if err != nil {
				return err
			}
			weekdays, err := entities.ParseWeekdays(days)
			if err != nil {
				return err
			}

			a, cleanup, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			alarm, err := a.Alarms.Create(cmd.Context(), service.AlarmInput{
				Hour:   hour,
				Minute: minute,
				Days:   weekdays,
				Label:  label,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "alarm %s at %s (%s), next %s\n",
				alarm.ID, alarm.TimeString(), alarm.Days,
				a.Alarms.NextTrigger(alarm).Format("Mon 02 Jan 15:04"))
			fmt.Fprintln(cmd.OutOrStdout(), restartHint)
			return nil
		},
	}

	cmd.Flags().StringVar(&days, "days", "", `repeat days such as "mon,wed,fri", "weekdays" or "daily" (default once)`)
	cmd.Flags().StringVar(&label, "label", "", "alarm label")
	return cmd
}

func alarmsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove an alarm",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid alarm id %q: %w", args[0], err)
			}

			a, cleanup, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Alarms.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "alarm %s removed\n", id)
			return nil
		},
	}
}

func alarmsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Enable or disable an alarm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid alarm id %q: %w", args[0], err)
			}

			a, cleanup, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			alarm, err := a.Alarms.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "alarm %s enabled: %t\n", id, alarm.IsEnabled)
			return nil
		},
	}
}
