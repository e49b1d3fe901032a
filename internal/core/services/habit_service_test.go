package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

func newHabitSvc(repo *memHabitRepo) *HabitService {
	return NewHabitService(repo, newMemCheckInRepo(), FixedClock(testToday))
}

func TestHabitService_Create(t *testing.T) {
	t.Run("Success: Should create and persist a valid habit (Auto-ID)", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)
		ctx := context.Background()

		created, err := svc.Create(ctx, CreateHabitInput{
			UserID:     "user-1",
			Title:      "Read Book",
			Motivation: "ten pages a day",
			Weekdays:   []int{5, 1},
		})

		require.NoError(t, err)
		assert.Equal(t, "Read Book", created.Title)
		assert.Equal(t, "ten pages a day", created.Motivation)
		assert.Equal(t, []int{1, 5}, created.Weekdays)
		assert.Equal(t, 1, created.Version)

		stored, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, stored.ID)
	})

	t.Run("Success: Should create habit with PROVIDED ID (Offline Sync)", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)

		customID := uuid.NewString()
		created, err := svc.Create(context.Background(), CreateHabitInput{ID: customID, UserID: "user-1", Title: "Offline Habit"})

		require.NoError(t, err)
		assert.Equal(t, customID, created.ID)
	})

	t.Run("Idempotency: Should return existing habit if ID exists (Sync Retry)", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)
		ctx := context.Background()

		input := CreateHabitInput{ID: uuid.NewString(), UserID: "user-1", Title: "Retry Habit"}
		first, err := svc.Create(ctx, input)
		require.NoError(t, err)

		second, err := svc.Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.CreatedAt, second.CreatedAt)
		assert.Len(t, repo.store, 1)
	})

	t.Run("Fail: Provided ID owned by another user", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)
		id := uuid.NewString()

		_, err := svc.Create(context.Background(), CreateHabitInput{ID: id, UserID: "user-1", Title: "Mine"})
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), CreateHabitInput{ID: id, UserID: "user-2", Title: "Theirs"})
		assert.ErrorIs(t, err, domain.ErrHabitConflict)
	})

	t.Run("Fail: Provided ID is not a UUID", func(t *testing.T) {
		svc := newHabitSvc(newMemHabitRepo())

		_, err := svc.Create(context.Background(), CreateHabitInput{ID: "not-a-uuid", UserID: "user-1", Title: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidHabitID)
	})

	t.Run("Fail: Domain Validation Error (Blocked BEFORE DB)", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)

		_, err := svc.Create(context.Background(), CreateHabitInput{UserID: "user-1", Title: "Gym", Color: "red"})

		assert.ErrorIs(t, err, domain.ErrInvalidColor)
		assert.Empty(t, repo.store)
	})

	t.Run("Fail: Repository error is propagated", func(t *testing.T) {
		repo := newMemHabitRepo()
		repo.simulateError = errors.New("db down")
		svc := newHabitSvc(repo)

		_, err := svc.Create(context.Background(), CreateHabitInput{UserID: "user-1", Title: "Gym"})
		assert.EqualError(t, err, "db down")
	})
}

func TestHabitService_Update(t *testing.T) {
	seed := func(t *testing.T, repo *memHabitRepo) *domain.Habit {
		t.Helper()
		h, err := domain.NewHabit("Old Title", "user-1")
		require.NoError(t, err)
		require.NoError(t, h.Apply(domain.HabitDetails{Title: "Old Title", Description: "keep me", Weekdays: []int{1}}))
		require.NoError(t, repo.Create(context.Background(), h))
		return h
	}

	t.Run("Success: Should update existing habit (Owner)", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)
		existing := seed(t, repo)

		updated, err := svc.Update(context.Background(), UpdateHabitInput{
			ID:      existing.ID,
			UserID:  "user-1",
			Title:   "New Title",
			Color:   "#FFFFFF",
			Version: 1,
		})

		require.NoError(t, err)
		assert.Equal(t, "New Title", updated.Title)
		assert.Equal(t, "#FFFFFF", updated.Color)
		assert.Equal(t, "keep me", updated.Description, "empty fields keep the stored value")
		assert.Equal(t, []int{1}, updated.Weekdays, "nil weekdays keep the stored schedule")
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("Success: Empty weekdays slice clears the schedule", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)
		existing := seed(t, repo)

		updated, err := svc.Update(context.Background(), UpdateHabitInput{ID: existing.ID, UserID: "user-1", Weekdays: []int{}})

		require.NoError(t, err)
		assert.Empty(t, updated.Weekdays)
	})

	t.Run("Reminder: Absent keeps it, empty clears it", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)
		existing := seed(t, repo)
		ctx := context.Background()
		at := "07:30"
		cleared := ""

		updated, err := svc.Update(ctx, UpdateHabitInput{ID: existing.ID, UserID: "user-1", ReminderTime: &at})
		require.NoError(t, err)
		require.NotNil(t, updated.ReminderTime)

		updated, err = svc.Update(ctx, UpdateHabitInput{ID: existing.ID, UserID: "user-1", Title: "Renamed"})
		require.NoError(t, err)
		require.NotNil(t, updated.ReminderTime, "a partial update keeps the reminder")
		assert.Equal(t, "07:30", *updated.ReminderTime)

		updated, err = svc.Update(ctx, UpdateHabitInput{ID: existing.ID, UserID: "user-1", ReminderTime: &cleared})
		require.NoError(t, err)
		assert.Nil(t, updated.ReminderTime)
	})

	t.Run("Fail: Security - Cannot update other user's habit (IDOR)", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)
		existing := seed(t, repo)

		_, err := svc.Update(context.Background(), UpdateHabitInput{ID: existing.ID, UserID: "user-2", Title: "Hacked"})

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Optimistic Locking: Should fail if client has old version", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)
		existing := seed(t, repo)
		repo.store[existing.ID].Version = 2

		_, err := svc.Update(context.Background(), UpdateHabitInput{ID: existing.ID, UserID: "user-1", Title: "Override", Version: 1})

		assert.ErrorIs(t, err, domain.ErrHabitConflict)
	})

	t.Run("Fail: Habit Not Found", func(t *testing.T) {
		svc := newHabitSvc(newMemHabitRepo())

		_, err := svc.Update(context.Background(), UpdateHabitInput{ID: "ghost-id", UserID: "user-1", Title: "x"})

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestHabitService_Delete(t *testing.T) {
	t.Run("Success: Should soft-delete", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)
		h, _ := domain.NewHabit("To Delete", "user-1")
		require.NoError(t, repo.Create(context.Background(), h))

		require.NoError(t, svc.Delete(context.Background(), h.ID, "user-1"))

		_, err := repo.GetByID(context.Background(), h.ID)
		assert.Equal(t, domain.ErrHabitNotFound, err)
		assert.NotNil(t, repo.store[h.ID].DeletedAt)
	})

	t.Run("Fail: Security - Cannot delete other user's habit (IDOR)", func(t *testing.T) {
		repo := newMemHabitRepo()
		svc := newHabitSvc(repo)
		h, _ := domain.NewHabit("Don't Touch", "user-1")
		require.NoError(t, repo.Create(context.Background(), h))

		err := svc.Delete(context.Background(), h.ID, "user-2")

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
		assert.Nil(t, repo.store[h.ID].DeletedAt)
	})
}

func TestHabitService_ListAndSync(t *testing.T) {
	repo := newMemHabitRepo()
	svc := newHabitSvc(repo)
	ctx := context.Background()

	h1, _ := domain.NewHabit("H1", "user-1")
	h1.UpdatedAt = time.Now().Add(-1 * time.Hour)
	h2, _ := domain.NewHabit("H2", "user-1")
	h2.UpdatedAt = time.Now().Add(1 * time.Minute)
	h3, _ := domain.NewHabit("H3", "user-2")
	for _, h := range []*domain.Habit{h1, h2, h3} {
		require.NoError(t, repo.Create(ctx, h))
	}

	t.Run("ListByUserID returns only user's habits", func(t *testing.T) {
		list, err := svc.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("GetDelta: Should return only changed items", func(t *testing.T) {
		deltas, err := svc.GetDelta(ctx, "user-1", time.Now())
		require.NoError(t, err)
		require.Len(t, deltas, 1)
		assert.Equal(t, h2.ID, deltas[0].ID)
	})

	t.Run("Get hides other users' habits", func(t *testing.T) {
		_, err := svc.Get(ctx, h3.ID, "user-1")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestHabitService_CurrentStreakIsAsOfToday(t *testing.T) {
	repo := newMemHabitRepo()
	checkIns := newMemCheckInRepo()
	ctx := context.Background()

	h, err := domain.NewHabit("Stretch", "user-1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, h))
	other, err := domain.NewHabit("Water", "user-1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	checkIns.seed(h.ID, "user-1", "2024-01-02", "2024-01-03", "2024-01-04")
	checkIns.seed(other.ID, "user-1", "2024-01-04", "2024-01-05")
	// The worker stored the counter after the last check-in.
	require.NoError(t, repo.UpdateStreaks(ctx, h.ID, 3, 3))

	tests := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"Same day as the last check-in", testToday, 3},
		{"Next day without a check-in", testToday.AddDate(0, 0, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHabitService(repo, checkIns, FixedClock(tt.today))

			got, err := svc.Get(ctx, h.ID, "user-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.CurrentStreak)
			assert.Equal(t, 3, got.LongestStreak, "the best streak does not decay")

			list, err := svc.ListByUserID(ctx, "user-1")
			require.NoError(t, err)
			for _, l := range list {
				if l.ID == h.ID {
					assert.Equal(t, tt.want, l.CurrentStreak)
				}
			}
		})
	}

	t.Run("Habits are counted from their own check-ins", func(t *testing.T) {
		svc := NewHabitService(repo, checkIns, FixedClock(testToday.AddDate(0, 0, 1)))

		got, err := svc.Get(ctx, other.ID, "user-1")

		require.NoError(t, err)
		assert.Equal(t, 2, got.CurrentStreak)
	})

	t.Run("Fail: Check-in load error", func(t *testing.T) {
		failing := newMemCheckInRepo()
		failing.simulateError = errors.New("timeout")
		svc := NewHabitService(repo, failing, FixedClock(testToday))

		_, err := svc.ListByUserID(ctx, "user-1")

		assert.ErrorContains(t, err, "habit service")
	})
}
