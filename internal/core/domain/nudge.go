package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
)

var (
	ErrNudgeSelf        = errors.New("cannot nudge yourself")
	ErrNudgeTooSoon     = errors.New("this habit was already nudged today")
	ErrNudgeMessageLong = errors.New("nudge message is too long (max 140 chars)")
)

const MaxNudgeMessageLen = 140

type Nudge struct {
	ID          string    `json:"id" db:"id"`
	SenderID    string    `json:"sender_id" db:"sender_id"`
	RecipientID string    `json:"recipient_id" db:"recipient_id"`
	HabitID     string    `json:"habit_id" db:"habit_id"`
	Message     string    `json:"message,omitempty" db:"message"`
	NudgeDate   time.Time `json:"-" db:"nudge_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// NewNudge builds a nudge for the given day. The message is trimmed.
func NewNudge(senderID, recipientID, habitID, message string, day time.Time) (*Nudge, error) {
	if senderID == recipientID {
		return nil, ErrNudgeSelf
	}
	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) > MaxNudgeMessageLen {
		return nil, ErrNudgeMessageLong
	}

	return &Nudge{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		HabitID:     habitID,
		Message:     message,
		NudgeDate:   analytics.Day(day),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// NudgeNotice is what a notifier needs to tell the recipient.
type NudgeNotice struct {
	Nudge          *Nudge
	SenderName     string
	RecipientName  string
	RecipientEmail string
	HabitTitle     string
	CurrentStreak  int
}
