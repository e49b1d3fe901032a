package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/platform/metrics"
)

// StreakQueue receives the habits whose record just changed.
type StreakQueue interface {
	Enqueue(habitID string)
}

type CheckInService struct {
	repo      domain.CheckInRepository
	habitRepo domain.HabitRepository
	worker    StreakQueue
	clock     Clock
}

func NewCheckInService(repo domain.CheckInRepository, habitRepo domain.HabitRepository, worker StreakQueue, clock Clock) *CheckInService {
	return &CheckInService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
		clock:     clock,
	}
}

// Toggle flips the done flag of one day. A day without a check-in becomes done.
// An empty date means today.
func (s *CheckInService) Toggle(ctx context.Context, habitID, userID, date string) (*domain.CheckIn, error) {
	return s.write(ctx, habitID, userID, date, func(existing *domain.CheckIn) bool {
		if existing == nil {
			return true
		}
		return !existing.Done
	})
}

// Set stores an explicit done flag for one day. Setting the current value
// again is a no-op.
func (s *CheckInService) Set(ctx context.Context, habitID, userID, date string, done bool) (*domain.CheckIn, error) {
	return s.write(ctx, habitID, userID, date, func(*domain.CheckIn) bool {
		return done
	})
}

func (s *CheckInService) write(ctx context.Context, habitID, userID, date string, next func(*domain.CheckIn) bool) (*domain.CheckIn, error) {
	today := s.clock.Today()
	if date == "" {
		date = today.Format("2006-01-02")
	}
	day, err := domain.ParseCheckInDate(date, today)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, habitID, userID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByDate(ctx, habitID, day)
	if err != nil && !errors.Is(err, domain.ErrCheckInNotFound) {
		return nil, fmt.Errorf("checkin service: load %s: %w", date, err)
	}

	var checkIn *domain.CheckIn
	if existing == nil {
		checkIn = domain.NewCheckIn(habitID, userID, day, next(nil))
	} else {
		checkIn = existing
		if !checkIn.Set(next(existing)) {
			return checkIn, nil
		}
	}

	if err := s.repo.Upsert(ctx, checkIn); err != nil {
		return nil, err
	}

	metrics.RecordCheckIn(checkIn.Done)
	s.worker.Enqueue(habitID)
	return checkIn, nil
}

// ListRecord returns the check-ins of a habit between from and to inclusive.
func (s *CheckInService) ListRecord(ctx context.Context, habitID, userID string, from, to time.Time) ([]*domain.CheckIn, error) {
	if err := s.authorize(ctx, habitID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByHabitID(ctx, habitID, from, to)
}

func (s *CheckInService) authorize(ctx context.Context, habitID, userID string) error {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return err
	}
	if habit.UserID != userID {
		return domain.ErrUnauthorized
	}
	return nil
}
