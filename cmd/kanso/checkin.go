package main

import (
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
)

func newCheckInCmd(opts *options) *cobra.Command {
	var date string
	var undo bool

	cmd := &cobra.Command{
		Use:   "checkin <habit>",
		Short: "Flip a day of a habit between done and not done",
		Long: `checkin marks the day done, or back to not done when it already is.
With --undo the day is cleared regardless of its state. Unknown habits are
created with an everyday schedule.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			day, err := s.checkInDay(date)
			if err != nil {
				return err
			}

			done := false
			if undo {
				err = s.store.Set(args[0], day, false)
			} else {
				done, err = s.store.Toggle(args[0], day)
			}
			if err != nil {
				return err
			}

			mark := mutedStyle.Render("not done")
			if done {
				mark = doneStyle.Render("done")
			}
			cmd.Printf("%s %s: %s\n", args[0], analytics.FormatDate(day), mark)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to change as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&undo, "undo", false, "mark the day as not done")
	return cmd
}
