package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

// refreshCurrentStreaks sets CurrentStreak on every habit to the streak as
// of today. The stored value is only as fresh as the last check-in, so a
// day without one would otherwise still show yesterday's count. All habits
// must belong to userID.
func refreshCurrentStreaks(ctx context.Context, checkIns domain.CheckInRepository, userID string, today time.Time, habits ...*domain.Habit) error {
	if len(habits) == 0 {
		return nil
	}

	// CurrentStreak never looks further back than this.
	from := today.AddDate(0, 0, -analytics.MaxStreakLookback)

	var list []*domain.CheckIn
	var err error
	if len(habits) == 1 {
		list, err = checkIns.ListByHabitID(ctx, habits[0].ID, from, today)
	} else {
		list, err = checkIns.ListByUserID(ctx, userID, from, today)
	}
	if err != nil {
		return err
	}

	byHabit := make(map[string][]*domain.CheckIn)
	for _, c := range list {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	for _, h := range habits {
		h.CurrentStreak = analytics.CurrentStreak(domain.CompletionRecord(byHabit[h.ID]), today).Count
	}
	return nil
}
