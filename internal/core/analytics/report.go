package analytics

import "time"

// Report bundles every figure for one habit as of one day.
type Report struct {
	AsOf              string       `json:"as_of"`
	TotalCompletions  int          `json:"total_completions"`
	CurrentStreak     Streak       `json:"current_streak"`
	BestStreak        Streak       `json:"best_streak"`
	CompletionRate    float64      `json:"completion_rate"`
	ScheduledRate     float64      `json:"scheduled_completion_rate"`
	WeeklyConsistency int          `json:"weekly_consistency"`
	BestWeekday       WeekdayFocus `json:"best_weekday"`
	LongestGap        Gap          `json:"longest_gap"`
	ImprovementTrend  int          `json:"improvement_trend"`
}

// Analyze computes a Report over the default 30 day window.
func Analyze(c Completions, weekdays []int, today time.Time) Report {
	return Report{
		AsOf:              FormatDate(today),
		TotalCompletions:  len(c.doneSet()),
		CurrentStreak:     CurrentStreak(c, today),
		BestStreak:        BestStreak(c),
		CompletionRate:    CompletionRate(c, today, DefaultWindowDays),
		ScheduledRate:     ScheduledCompletionRate(c, weekdays, today, DefaultWindowDays),
		WeeklyConsistency: WeeklyConsistency(c),
		BestWeekday:       BestWeekday(c),
		LongestGap:        LongestGap(c),
		ImprovementTrend:  ImprovementTrend(c, today),
	}
}
