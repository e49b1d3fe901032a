package analytics_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
)

func TestAnalyze(t *testing.T) {
	today := time.Date(2024, 1, 4, 8, 30, 0, 0, time.UTC)
	c := analytics.Completions{
		"2024-01-01": true,
		"2024-01-02": true,
		"2024-01-03": false,
		"2024-01-04": true,
		"garbage":    true,
	}

	r := analytics.Analyze(c, []int{int(time.Monday), int(time.Thursday)}, today)

	assert.Equal(t, "2024-01-04", r.AsOf)
	assert.Equal(t, 3, r.TotalCompletions)
	assert.Equal(t, analytics.Streak{Count: 1, Dates: []string{"2024-01-04"}}, r.CurrentStreak)
	assert.Equal(t, analytics.Streak{Count: 2, Dates: []string{"2024-01-01", "2024-01-02"}}, r.BestStreak)
	assert.InDelta(t, 0.1, r.CompletionRate, 1e-9)
	assert.Equal(t, 0, r.WeeklyConsistency)
	assert.Equal(t, analytics.WeekdayFocus{Label: "Monday", Percent: 33}, r.BestWeekday)
	assert.Equal(t, analytics.Gap{Days: 2, Bounds: []string{"2024-01-02", "2024-01-04"}}, r.LongestGap)
	assert.Equal(t, 100, r.ImprovementTrend)
}

func TestAnalyze_EmptyRecord(t *testing.T) {
	r := analytics.Analyze(nil, nil, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC))

	assert.Zero(t, r.TotalCompletions)
	assert.Equal(t, analytics.Streak{Dates: []string{}}, r.CurrentStreak)
	assert.Equal(t, analytics.Streak{Dates: []string{}}, r.BestStreak)
	assert.Zero(t, r.CompletionRate)
	assert.Zero(t, r.ScheduledRate)
	assert.Zero(t, r.WeeklyConsistency)
	assert.Equal(t, analytics.NoWeekday, r.BestWeekday.Label)
	assert.Equal(t, analytics.Gap{Bounds: []string{}}, r.LongestGap)
	assert.Zero(t, r.ImprovementTrend)
}

func TestAnalyze_IsPure(t *testing.T) {
	today := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	c := lastDays(today, 0, 1, 2, 5, 6, 9, 12, 13, 14, 15, 33, 34, 50)
	c["2024-02-07"] = false

	snapshot := make(analytics.Completions, len(c))
	for k, v := range c {
		snapshot[k] = v
	}

	first := analytics.Analyze(c, []int{1, 3, 5}, today)
	second := analytics.Analyze(c, []int{1, 3, 5}, today)

	assert.Equal(t, first, second, "same inputs give the same report")
	assert.Equal(t, snapshot, c, "the record is never modified")
}

func TestAnalyze_ConcurrentReaders(t *testing.T) {
	today := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	c := lastDays(today, span(0, 40)...)
	want := analytics.Analyze(c, nil, today)

	var wg sync.WaitGroup
	results := make([]analytics.Report, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = analytics.Analyze(c, nil, today)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, want, got)
	}
}
