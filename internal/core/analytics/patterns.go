package analytics

import "time"

// NoWeekday is the label BestWeekday reports for an empty history.
const NoWeekday = "None"

type WeekdayFocus struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

// Gap is the widest distance in days between two consecutive completions.
type Gap struct {
	Days   int      `json:"days"`
	Bounds []string `json:"bounds"`
}

// BestWeekday finds the weekday with the most completions and its share of
// all completions. Ties go to the lowest weekday index, Sunday first.
func BestWeekday(c Completions) WeekdayFocus {
	var buckets [7]int
	total := 0
	for _, d := range c.sortedDays() {
		buckets[d.Weekday()]++
		total++
	}
	if total == 0 {
		return WeekdayFocus{Label: NoWeekday}
	}

	best := time.Sunday
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if buckets[wd] > buckets[best] {
			best = wd
		}
	}
	return WeekdayFocus{
		Label:   best.String(),
		Percent: percent(buckets[best], total),
	}
}

// LongestGap scans consecutive completions in date order and keeps the
// first pair with the largest day difference.
func LongestGap(c Completions) Gap {
	days := c.sortedDays()
	if len(days) < 2 {
		return Gap{Bounds: []string{}}
	}

	gap := Gap{Bounds: []string{}}
	for i := 1; i < len(days); i++ {
		diff := daysBetween(days[i-1], days[i])
		if diff > gap.Days {
			gap.Days = diff
			gap.Bounds = formatAll(days[i-1 : i+1])
		}
	}
	return gap
}
