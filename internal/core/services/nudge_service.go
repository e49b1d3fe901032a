package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/platform/metrics"
)

const DefaultNudgeListLimit = 50

// Notifier delivers a nudge to its recipient.
type Notifier interface {
	NotifyNudge(ctx context.Context, notice domain.NudgeNotice) error
}

type NudgeService struct {
	repo     domain.NudgeRepository
	friends  FriendChecker
	habits   domain.HabitRepository
	checkIns domain.CheckInRepository
	users    domain.UserRepository
	notifier Notifier
	clock    Clock
}

func NewNudgeService(repo domain.NudgeRepository, friends FriendChecker, habits domain.HabitRepository, checkIns domain.CheckInRepository, users domain.UserRepository, notifier Notifier, clock Clock) *NudgeService {
	return &NudgeService{
		repo:     repo,
		friends:  friends,
		habits:   habits,
		checkIns: checkIns,
		users:    users,
		notifier: notifier,
		clock:    clock,
	}
}

type SendNudgeInput struct {
	SenderID    string
	RecipientID string
	HabitID     string
	Message     string
}

// Send stores a nudge and hands it to the notifier. A failed delivery is
// logged and does not fail the call.
func (s *NudgeService) Send(ctx context.Context, input SendNudgeInput) (*domain.Nudge, error) {
	nudge, err := domain.NewNudge(input.SenderID, input.RecipientID, input.HabitID, input.Message, s.clock.Today())
	if err != nil {
		return nil, err
	}

	ok, err := s.friends.AreFriends(ctx, input.SenderID, input.RecipientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFriends
	}

	habit, err := s.habits.GetByID(ctx, input.HabitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != input.RecipientID {
		return nil, domain.ErrHabitNotFound
	}

	if err := s.repo.Create(ctx, nudge); err != nil {
		return nil, err
	}

	s.deliver(ctx, nudge, habit)
	return nudge, nil
}

func (s *NudgeService) deliver(ctx context.Context, nudge *domain.Nudge, habit *domain.Habit) {
	logger := log.With().Str("nudge_id", nudge.ID).Str("habit_id", habit.ID).Logger()

	sender, err := s.users.GetByID(ctx, nudge.SenderID)
	if err != nil {
		metrics.RecordNudge("skipped")
		logger.Warn().Err(err).Msg("nudge: sender lookup failed, not delivering")
		return
	}
	recipient, err := s.users.GetByID(ctx, nudge.RecipientID)
	if err != nil {
		metrics.RecordNudge("skipped")
		logger.Warn().Err(err).Msg("nudge: recipient lookup failed, not delivering")
		return
	}

	if err := refreshCurrentStreaks(ctx, s.checkIns, habit.UserID, s.clock.Today(), habit); err != nil {
		metrics.RecordNudge("skipped")
		logger.Warn().Err(err).Msg("nudge: streak lookup failed, not delivering")
		return
	}

	notice := domain.NudgeNotice{
		Nudge:          nudge,
		SenderName:     sender.DisplayName,
		RecipientName:  recipient.DisplayName,
		RecipientEmail: recipient.Email,
		HabitTitle:     habit.Title,
		CurrentStreak:  habit.CurrentStreak,
	}
	if err := s.notifier.NotifyNudge(ctx, notice); err != nil {
		metrics.RecordNudge("failed")
		logger.Error().Err(err).Msg("nudge: delivery failed")
		return
	}
	metrics.RecordNudge("delivered")
}

func (s *NudgeService) ListReceived(ctx context.Context, userID string, limit int) ([]*domain.Nudge, error) {
	if limit <= 0 || limit > DefaultNudgeListLimit {
		limit = DefaultNudgeListLimit
	}
	return s.repo.ListByRecipient(ctx, userID, limit)
}
