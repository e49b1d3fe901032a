package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

func TestCalculateStreaks(t *testing.T) {
	today := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)
	daysAgo := func(n int) string {
		return analytics.FormatDate(today.AddDate(0, 0, -n))
	}

	tests := []struct {
		name        string
		record      analytics.Completions
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "Empty record",
			record:      analytics.Completions{},
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "Single check-in today",
			record:      analytics.Completions{daysAgo(0): true},
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "Yesterday only (no grace day)",
			record:      analytics.Completions{daysAgo(1): true},
			wantCurrent: 0,
			wantLongest: 1,
		},
		{
			name:        "Perfect streak (Today, Yesterday, 2 days ago)",
			record:      analytics.Completions{daysAgo(0): true, daysAgo(1): true, daysAgo(2): true},
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "Broken streak with gap",
			record:      analytics.Completions{daysAgo(0): true, daysAgo(1): true, daysAgo(4): true},
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name: "Longest streak in the past",
			record: analytics.Completions{
				daysAgo(0): true, daysAgo(10): true, daysAgo(11): true, daysAgo(12): true,
			},
			wantCurrent: 1,
			wantLongest: 3,
		},
		{
			name:        "Unticked day breaks the run",
			record:      analytics.Completions{daysAgo(0): true, daysAgo(1): false, daysAgo(2): true},
			wantCurrent: 1,
			wantLongest: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCurrent, gotLongest := calculateStreaks(tt.record, today)
			assert.Equal(t, tt.wantCurrent, gotCurrent, "Current Streak mismatch")
			assert.Equal(t, tt.wantLongest, gotLongest, "Longest Streak mismatch")
		})
	}
}

type fakeHabitRepo struct {
	mu      sync.Mutex
	habits  map[string]*domain.Habit
	updates int
	getErr  error
	updated chan struct{}
}

func (f *fakeHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	h, ok := f.habits[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	clone := *h
	return &clone, nil
}

func (f *fakeHabitRepo) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	f.mu.Lock()
	f.habits[id].CurrentStreak = current
	f.habits[id].LongestStreak = longest
	f.updates++
	f.mu.Unlock()
	if f.updated != nil {
		f.updated <- struct{}{}
	}
	return nil
}

type fakeCheckInRepo struct {
	checkIns []*domain.CheckIn
	err      error
}

func (f *fakeCheckInRepo) ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.CheckIn, error) {
	return f.checkIns, f.err
}

type fixedDay time.Time

func (d fixedDay) Today() time.Time { return analytics.Day(time.Time(d)) }

func newFixture(t *testing.T, days ...int) (*StreakWorker, *fakeHabitRepo, time.Time) {
	t.Helper()
	today := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	habit, err := domain.NewHabit("Stretch", "u1")
	require.NoError(t, err)
	habit.ID = "h1"

	var checkIns []*domain.CheckIn
	for _, d := range days {
		checkIns = append(checkIns, domain.NewCheckIn("h1", "u1", today.AddDate(0, 0, -d), true))
	}

	hRepo := &fakeHabitRepo{habits: map[string]*domain.Habit{"h1": habit}}
	w := NewStreakWorker(hRepo, &fakeCheckInRepo{checkIns: checkIns}, fixedDay(today))
	return w, hRepo, today
}

func TestStreakWorker_ProcessJob(t *testing.T) {
	t.Run("Persists changed streaks", func(t *testing.T) {
		w, hRepo, _ := newFixture(t, 0, 1, 2, 5, 6, 7, 8)

		w.processJob(context.Background(), StreakJob{HabitID: "h1"})

		assert.Equal(t, 1, hRepo.updates)
		assert.Equal(t, 3, hRepo.habits["h1"].CurrentStreak)
		assert.Equal(t, 4, hRepo.habits["h1"].LongestStreak)
	})

	t.Run("Skips the write when nothing changed", func(t *testing.T) {
		w, hRepo, _ := newFixture(t, 0)
		hRepo.habits["h1"].CurrentStreak = 1
		hRepo.habits["h1"].LongestStreak = 1

		w.processJob(context.Background(), StreakJob{HabitID: "h1"})

		assert.Zero(t, hRepo.updates)
	})

	t.Run("Fetch errors are swallowed", func(t *testing.T) {
		w, hRepo, _ := newFixture(t, 0)
		hRepo.getErr = errors.New("db down")

		assert.NotPanics(t, func() {
			w.processJob(context.Background(), StreakJob{HabitID: "h1"})
		})
		assert.Zero(t, hRepo.updates)
	})

	t.Run("Counts up to the clock's today", func(t *testing.T) {
		w, hRepo, today := newFixture(t, 0, 1, 2)
		w.processJob(context.Background(), StreakJob{HabitID: "h1"})
		require.Equal(t, 3, hRepo.habits["h1"].CurrentStreak)

		w.clock = fixedDay(today.AddDate(0, 0, 1))
		w.processJob(context.Background(), StreakJob{HabitID: "h1"})

		assert.Equal(t, 0, hRepo.habits["h1"].CurrentStreak, "no check-in on the next day")
		assert.Equal(t, 3, hRepo.habits["h1"].LongestStreak)
	})
}

func TestStreakWorker_Enqueue(t *testing.T) {
	t.Run("Drops jobs when the queue is full", func(t *testing.T) {
		w, _, _ := newFixture(t)

		for i := 0; i < QueueSize+10; i++ {
			w.Enqueue("h1")
		}

		assert.Equal(t, QueueSize, w.Pending())
	})

	t.Run("Started worker drains the queue", func(t *testing.T) {
		w, hRepo, _ := newFixture(t, 0, 1)
		hRepo.updated = make(chan struct{}, 1)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		w.Start(ctx)
		w.Enqueue("h1")

		select {
		case <-hRepo.updated:
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not process the job")
		}

		hRepo.mu.Lock()
		defer hRepo.mu.Unlock()
		assert.Equal(t, 2, hRepo.habits["h1"].CurrentStreak)
	})
}
