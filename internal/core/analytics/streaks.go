package analytics

import "time"

// Streak is a run of consecutive completed days, oldest date first.
type Streak struct {
	Count int      `json:"count"`
	Dates []string `json:"dates"`
}

// CurrentStreak counts the unbroken run of completed days ending today.
// A day that has not been checked in yet counts as a break, so the streak is
// 0 until today is done. The walk stops after MaxStreakLookback days.
func CurrentStreak(c Completions, today time.Time) Streak {
	set := c.doneSet()
	day := Day(today)

	var run []time.Time
	for i := 0; i < MaxStreakLookback; i++ {
		d := day.AddDate(0, 0, -i)
		if _, ok := set[d.Format(DateLayout)]; !ok {
			break
		}
		run = append(run, d)
	}

	dates := make([]string, len(run))
	for i, d := range run {
		dates[len(run)-1-i] = d.Format(DateLayout)
	}
	return Streak{Count: len(run), Dates: dates}
}

// BestStreak returns the longest run of consecutive completed days in the
// whole history. When two runs have the same length the earlier one wins.
func BestStreak(c Completions) Streak {
	days := c.sortedDays()
	if len(days) == 0 {
		return Streak{Dates: []string{}}
	}

	bestStart, bestLen := 0, 1
	runStart, runLen := 0, 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1], days[i]) == 1 {
			runLen++
		} else {
			runStart, runLen = i, 1
		}
		if runLen > bestLen {
			bestStart, bestLen = runStart, runLen
		}
	}

	return Streak{
		Count: bestLen,
		Dates: formatAll(days[bestStart : bestStart+bestLen]),
	}
}
