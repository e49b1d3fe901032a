package analytics

import (
	"math"
	"time"
)

// CompletionRate is the share of the windowDays days ending today (inclusive)
// that were completed. It is 0 for a non-positive window.
func CompletionRate(c Completions, today time.Time, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	completed := countInWindow(c.doneSet(), Day(today), 0, windowDays)
	return ratio(completed, windowDays)
}

// ScheduledCompletionRate is like CompletionRate but only counts the days of
// the window that fall on one of the scheduled weekdays (0=Sunday..6).
// An empty schedule means every day is scheduled. Completions on
// unscheduled days are ignored.
func ScheduledCompletionRate(c Completions, weekdays []int, today time.Time, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	scheduled := make(map[time.Weekday]bool, len(weekdays))
	for _, wd := range weekdays {
		if wd >= 0 && wd <= 6 {
			scheduled[time.Weekday(wd)] = true
		}
	}

	set := c.doneSet()
	day := Day(today)
	total, completed := 0, 0
	for i := 0; i < windowDays; i++ {
		d := day.AddDate(0, 0, -i)
		if len(scheduled) > 0 && !scheduled[d.Weekday()] {
			continue
		}
		total++
		if _, ok := set[d.Format(DateLayout)]; ok {
			completed++
		}
	}
	return ratio(completed, total)
}

// ImprovementTrend compares the completions of the last 30 days with the 30
// days before them, as a signed percentage. With nothing to compare against
// it is 100 when there is recent activity and 0 otherwise.
func ImprovementTrend(c Completions, today time.Time) int {
	set := c.doneSet()
	day := Day(today)
	recent := countInWindow(set, day, 0, DefaultWindowDays)
	previous := countInWindow(set, day, DefaultWindowDays, DefaultWindowDays)

	if previous == 0 {
		if recent > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(recent-previous) / float64(previous) * 100))
}

// WeeklyConsistency is the percentage of observed ISO weeks with at least
// four distinct completed weekdays. Weeks are keyed by ISO year and number,
// so week 1 of two different years never merge.
func WeeklyConsistency(c Completions) int {
	type isoWeek struct{ year, week int }

	weeks := make(map[isoWeek]map[time.Weekday]struct{})
	for _, d := range c.sortedDays() {
		y, w := d.ISOWeek()
		key := isoWeek{y, w}
		if weeks[key] == nil {
			weeks[key] = make(map[time.Weekday]struct{})
		}
		weeks[key][d.Weekday()] = struct{}{}
	}
	if len(weeks) == 0 {
		return 0
	}

	consistent := 0
	for _, days := range weeks {
		if len(days) >= 4 {
			consistent++
		}
	}
	return percent(consistent, len(weeks))
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

func percent(part, total int) int {
	return int(math.Round(ratio(part, total) * 100))
}
