package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func newHabitsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habits",
		Short: "List the local habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			habits, err := s.store.ListHabits()
			if err != nil {
				return err
			}
			if len(habits) == 0 {
				cmd.Println(mutedStyle.Render("No habits yet. Try: kanso checkin <habit>"))
				return nil
			}
			for _, h := range habits {
				cmd.Printf("%s  %s\n", titleStyle.Render(h.Name), mutedStyle.Render(scheduleLabel(h.Weekdays)))
			}
			return nil
		},
	}
	cmd.AddCommand(newHabitsAddCmd(opts), newHabitsRemoveCmd(opts))
	return cmd
}

func newHabitsAddCmd(opts *options) *cobra.Command {
	var weekdays []string

	cmd := &cobra.Command{
		Use:   "add <habit>",
		Short: "Create a habit or change its schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := parseWeekdays(weekdays)
			if err != nil {
				return err
			}

			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			h, err := s.store.PutHabit(args[0], days)
			if err != nil {
				return err
			}
			cmd.Printf("Saved %s (%s)\n", h.Name, scheduleLabel(h.Weekdays))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&weekdays, "weekdays", nil, "scheduled days, e.g. mon,wed,fri (default every day)")
	return cmd
}

func newHabitsRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <habit>",
		Aliases: []string{"remove"},
		Short:   "Delete a habit and its history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.store.DeleteHabit(args[0]); err != nil {
				return err
			}
			cmd.Printf("Removed %s\n", args[0])
			return nil
		},
	}
}

func parseWeekdays(names []string) ([]int, error) {
	var days []int
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if len(key) > 3 {
			key = key[:3]
		}
		wd, ok := weekdayNames[key]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", n)
		}
		days = append(days, int(wd))
	}
	return days, nil
}

func scheduleLabel(weekdays []int) string {
	if len(weekdays) == 0 {
		return "every day"
	}
	labels := make([]string, len(weekdays))
	for i, d := range weekdays {
		labels[i] = time.Weekday(d).String()[:3]
	}
	return strings.Join(labels, ", ")
}
