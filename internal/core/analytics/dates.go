// Package analytics derives streak and consistency figures from a habit's
// completion record. Every function is pure: it reads the record and the
// reference day it is given and nothing else.
package analytics

import (
	"sort"
	"time"
)

// DateLayout is the calendar date format used as completion record key.
const DateLayout = "2006-01-02"

const (
	DefaultWindowDays = 30
	MaxStreakLookback = 365
)

// Completions maps a YYYY-MM-DD date to whether the habit was done that day.
type Completions map[string]bool

// Day truncates t to its calendar date, keeping the date t has in its own
// location. The result is midnight UTC so that day arithmetic never crosses
// a DST boundary.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as a completion record key.
func FormatDate(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// ParseDate parses a completion record key.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// doneSet returns the set of completed days, keyed by normalized date string.
// Keys that do not parse are dropped.
func (c Completions) doneSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c))
	for key, done := range c {
		if !done {
			continue
		}
		t, err := ParseDate(key)
		if err != nil {
			continue
		}
		set[t.Format(DateLayout)] = struct{}{}
	}
	return set
}

// sortedDays returns the completed days in ascending order.
func (c Completions) sortedDays() []time.Time {
	set := c.doneSet()
	days := make([]time.Time, 0, len(set))
	for key := range set {
		t, _ := ParseDate(key)
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
	return days
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func formatAll(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Format(DateLayout)
	}
	return out
}

// countInWindow counts completed days in [today-offset-length+1, today-offset].
func countInWindow(set map[string]struct{}, today time.Time, offset, length int) int {
	count := 0
	for i := offset; i < offset+length; i++ {
		if _, ok := set[today.AddDate(0, 0, -i).Format(DateLayout)]; ok {
			count++
		}
	}
	return count
}
