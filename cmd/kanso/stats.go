package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
)

var (
	accent = lipgloss.Color("#4F46E5")
	green  = lipgloss.Color("#a6e3a1")
	peach  = lipgloss.Color("#fab387")
	subtle = lipgloss.Color("#a6adc8")

	titleStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	doneStyle  = lipgloss.NewStyle().Foreground(green).Bold(true)
	hotStyle   = lipgloss.NewStyle().Foreground(peach).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(subtle)
	labelStyle = lipgloss.NewStyle().Foreground(subtle).Width(22)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
)

func newStatsCmd(opts *options) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:   "stats <habit>",
		Short: "Show streaks and consistency figures for a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			day, err := s.day(today)
			if err != nil {
				return err
			}
			habit, err := s.store.GetHabit(args[0])
			if err != nil {
				return err
			}
			record, err := s.store.Record(habit.Name)
			if err != nil {
				return err
			}

			report := analytics.Analyze(record, habit.Weekdays, day)
			cmd.Println(renderReport(habit.Name, scheduleLabel(habit.Weekdays), report))
			return nil
		},
	}
	cmd.Flags().StringVar(&today, "today", "", "reference day as YYYY-MM-DD (default today)")
	return cmd
}

func renderReport(name, schedule string, r analytics.Report) string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + value
	}

	current := fmt.Sprintf("%d days", r.CurrentStreak.Count)
	if r.CurrentStreak.Count > 0 {
		current = hotStyle.Render(current)
	}

	gap := "none"
	if r.LongestGap.Days > 0 {
		gap = fmt.Sprintf("%d days (%s)", r.LongestGap.Days, strings.Join(r.LongestGap.Bounds, " to "))
	}

	weekday := r.BestWeekday.Label
	if weekday != analytics.NoWeekday {
		weekday = fmt.Sprintf("%s (%d%%)", weekday, r.BestWeekday.Percent)
	}

	lines := []string{
		titleStyle.Render(name) + "  " + mutedStyle.Render(schedule+", as of "+r.AsOf),
		"",
		row("Total completions", fmt.Sprint(r.TotalCompletions)),
		row("Current streak", current),
		row("Best streak", streakLabel(r.BestStreak)),
		row("Completion rate", percent(r.CompletionRate)),
		row("Scheduled rate", percent(r.ScheduledRate)),
		row("Consistent weeks", fmt.Sprint(r.WeeklyConsistency)),
		row("Best weekday", weekday),
		row("Longest gap", gap),
		row("Trend vs last week", trendLabel(r.ImprovementTrend)),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func streakLabel(s analytics.Streak) string {
	if s.Count == 0 {
		return "0 days"
	}
	return fmt.Sprintf("%d days (%s to %s)", s.Count, s.Dates[0], s.Dates[len(s.Dates)-1])
}

func percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

func trendLabel(trend int) string {
	switch {
	case trend > 0:
		return doneStyle.Render(fmt.Sprintf("+%d%%", trend))
	case trend < 0:
		return hotStyle.Render(fmt.Sprintf("%d%%", trend))
	default:
		return "0%"
	}
}
