package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

type HabitService struct {
	repo     domain.HabitRepository
	checkIns domain.CheckInRepository
	clock    Clock
}

// NewHabitService reads check-ins to report each habit's current streak as
// of the clock's today.
func NewHabitService(repo domain.HabitRepository, checkIns domain.CheckInRepository, clock Clock) *HabitService {
	return &HabitService{
		repo:     repo,
		checkIns: checkIns,
		clock:    clock,
	}
}

type CreateHabitInput struct {
	// ID is set by offline clients that generated the habit locally.
	ID           string
	UserID       string
	Title        string
	Description  string
	Motivation   string
	Color        string
	Icon         string
	ReminderTime string
	Weekdays     []int
}

type UpdateHabitInput struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	Motivation   string
	Color        string
	Icon         string
	// ReminderTime nil keeps the stored reminder, "" clears it.
	ReminderTime *string
	Weekdays     []int
	Version      int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

// Create stores a new habit. Retrying with a client supplied ID that already
// exists for the same user returns the stored habit unchanged.
func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.Title, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.ID != "" {
		if _, err := uuid.Parse(input.ID); err != nil {
			return nil, domain.ErrInvalidHabitID
		}
		existing, err := s.repo.GetByID(ctx, input.ID)
		switch {
		case err == nil && existing.UserID == input.UserID:
			return existing, nil
		case err == nil:
			return nil, domain.ErrHabitConflict
		case !errors.Is(err, domain.ErrHabitNotFound):
			return nil, err
		}
		habit.ID = input.ID
	}

	err = habit.Apply(domain.HabitDetails{
		Title:       input.Title,
		Description: input.Description,
		Motivation:  input.Motivation,
		Color:       input.Color,
		Icon:        input.Icon,
		Reminder:    input.ReminderTime,
		Weekdays:    input.Weekdays,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) owned(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) withStreaks(ctx context.Context, userID string, habits []*domain.Habit) ([]*domain.Habit, error) {
	if err := refreshCurrentStreaks(ctx, s.checkIns, userID, s.clock.Today(), habits...); err != nil {
		return nil, fmt.Errorf("habit service: current streaks: %w", err)
	}
	return habits, nil
}

// Get returns a habit owned by userID. Habits of other users look missing.
func (s *HabitService) Get(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.withStreaks(ctx, userID, []*domain.Habit{habit}); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withStreaks(ctx, userID, habits)
}

func (s *HabitService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.Habit, error) {
	habits, err := s.repo.GetChanges(ctx, userID, lastSync)
	if err != nil {
		return nil, err
	}
	return s.withStreaks(ctx, userID, habits)
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.owned(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && habit.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	current := habit.Details()
	weekdays := current.Weekdays
	if input.Weekdays != nil {
		weekdays = input.Weekdays
	}
	reminder := current.Reminder
	if input.ReminderTime != nil {
		reminder = *input.ReminderTime
	}

	err = habit.Apply(domain.HabitDetails{
		Title:       mergeString(input.Title, current.Title),
		Description: mergeString(input.Description, current.Description),
		Motivation:  mergeString(input.Motivation, current.Motivation),
		Color:       mergeString(input.Color, current.Color),
		Icon:        mergeString(input.Icon, current.Icon),
		Reminder:    reminder,
		Weekdays:    weekdays,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}
	if _, err := s.withStreaks(ctx, input.UserID, []*domain.Habit{habit}); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
