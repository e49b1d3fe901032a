package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

// DashboardConcurrency bounds the parallel record loads of a dashboard.
const DashboardConcurrency = 4

// FriendChecker answers whether two users are accepted friends.
type FriendChecker interface {
	AreFriends(ctx context.Context, a, b string) (bool, error)
}

type AnalyticsService struct {
	habitRepo   domain.HabitRepository
	checkInRepo domain.CheckInRepository
	friends     FriendChecker
	clock       Clock
}

func NewAnalyticsService(habitRepo domain.HabitRepository, checkInRepo domain.CheckInRepository, friends FriendChecker, clock Clock) *AnalyticsService {
	return &AnalyticsService{
		habitRepo:   habitRepo,
		checkInRepo: checkInRepo,
		friends:     friends,
		clock:       clock,
	}
}

func (s *AnalyticsService) today(override time.Time) time.Time {
	if override.IsZero() {
		return s.clock.Today()
	}
	return analytics.Day(override)
}

// HabitReport runs every engine figure over the full record of one of the
// user's habits. A zero today means the clock's today.
func (s *AnalyticsService) HabitReport(ctx context.Context, userID, habitID string, today time.Time) (*domain.HabitAnalytics, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return s.report(ctx, habit, s.today(today))
}

// FriendHabitReport is HabitReport for a habit owned by a friend of viewerID.
func (s *AnalyticsService) FriendHabitReport(ctx context.Context, viewerID, friendID, habitID string, today time.Time) (*domain.HabitAnalytics, error) {
	ok, err := s.friends.AreFriends(ctx, viewerID, friendID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFriends
	}
	return s.HabitReport(ctx, friendID, habitID, today)
}

func (s *AnalyticsService) Dashboard(ctx context.Context, userID string, today time.Time) (*domain.Dashboard, error) {
	day := s.today(today)

	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	reports := make([]domain.HabitAnalytics, len(habits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DashboardConcurrency)
	for i, h := range habits {
		g.Go(func() error {
			r, err := s.report(gctx, h, day)
			if err != nil {
				return err
			}
			reports[i] = *r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dash := &domain.Dashboard{
		AsOf:        analytics.FormatDate(day),
		TotalHabits: len(habits),
		Habits:      reports,
	}
	for _, r := range reports {
		if r.Report.CurrentStreak.Count > 0 {
			dash.DoneToday++
		}
		if r.Report.CurrentStreak.Count > dash.BestCurrentStreak {
			dash.BestCurrentStreak = r.Report.CurrentStreak.Count
		}
	}
	return dash, nil
}

func (s *AnalyticsService) report(ctx context.Context, habit *domain.Habit, today time.Time) (*domain.HabitAnalytics, error) {
	checkIns, err := s.checkInRepo.ListByHabitID(ctx, habit.ID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("analytics service: load record of %s: %w", habit.ID, err)
	}

	return &domain.HabitAnalytics{
		HabitID:    habit.ID,
		Title:      habit.Title,
		Color:      habit.Color,
		Icon:       habit.Icon,
		Motivation: habit.Motivation,
		Weekdays:   habit.Weekdays,
		Report:     analytics.Analyze(domain.CompletionRecord(checkIns), habit.Weekdays, today),
	}, nil
}

// WeeklyStats lays out a per-day grid for every habit between the two dates
// and the share of scheduled days that were done.
func (s *AnalyticsService) WeeklyStats(ctx context.Context, input domain.StatsInput) (*domain.WeeklyStats, error) {
	loc := input.Location
	if loc == nil {
		loc = time.UTC
	}
	startDate := analytics.Day(input.StartDate.In(loc))
	endDate := analytics.Day(input.EndDate.In(loc))
	if endDate.Before(startDate) {
		return nil, domain.ErrInvalidDate
	}

	habits, err := s.habitRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	checkIns, err := s.checkInRepo.ListByUserID(ctx, input.UserID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	done := make(map[string]map[string]bool)
	for _, c := range checkIns {
		if done[c.HabitID] == nil {
			done[c.HabitID] = make(map[string]bool)
		}
		done[c.HabitID][c.DateKey()] = c.Done
	}

	stats := &domain.WeeklyStats{
		StartDate:   analytics.FormatDate(startDate),
		EndDate:     analytics.FormatDate(endDate),
		TotalHabits: len(habits),
		HabitStats:  make([]domain.HabitStat, 0, len(habits)),
	}

	totalScheduled, totalCompleted := 0, 0
	for _, h := range habits {
		hStat := domain.HabitStat{
			HabitID:       h.ID,
			HabitTitle:    h.Title,
			Color:         h.Color,
			Icon:          h.Icon,
			DailyProgress: make([]bool, 0),
		}

		for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
			isDone := done[h.ID][analytics.FormatDate(d)]
			hStat.DailyProgress = append(hStat.DailyProgress, isDone)

			if !h.IsScheduledOn(d.Weekday()) {
				continue
			}
			hStat.DaysScheduled++
			if isDone {
				hStat.DaysCompleted++
			}
		}

		if hStat.DaysScheduled > 0 {
			hStat.CompletionRate = float64(hStat.DaysCompleted) / float64(hStat.DaysScheduled) * 100
		}
		totalScheduled += hStat.DaysScheduled
		totalCompleted += hStat.DaysCompleted

		stats.HabitStats = append(stats.HabitStats, hStat)
	}

	if totalScheduled > 0 {
		stats.OverallRate = float64(totalCompleted) / float64(totalScheduled) * 100
	}

	return stats, nil
}
