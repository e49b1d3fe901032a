package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

// LogNotifier writes nudges to the log. It stands in for email when no
// Resend key is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

func (l *LogNotifier) NotifyNudge(ctx context.Context, notice domain.NudgeNotice) error {
	event := l.logger.Info().
		Str("to", notice.RecipientEmail).
		Str("from", notice.SenderName).
		Str("habit", notice.HabitTitle).
		Int("streak", notice.CurrentStreak)
	if notice.Nudge != nil {
		event = event.Str("nudge_id", notice.Nudge.ID).Str("message", notice.Nudge.Message)
	}
	event.Msg("nudge delivered to log")
	return nil
}
