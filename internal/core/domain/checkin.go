package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
)

var (
	ErrInvalidCheckIn   = errors.New("invalid check-in data")
	ErrInvalidDate      = errors.New("invalid date (must be YYYY-MM-DD)")
	ErrFutureDate       = errors.New("cannot check in on a future date")
	ErrCheckInNotFound  = errors.New("check-in not found")
	ErrCheckInConflict  = errors.New("check-in version conflict")
	ErrCheckInDuplicate = errors.New("check-in already exists for this date")
)

// CheckIn records whether a habit was done on one calendar day.
// (HabitID, Date) is unique.
type CheckIn struct {
	ID      string    `json:"id" db:"id"`
	HabitID string    `json:"habit_id" db:"habit_id"`
	UserID  string    `json:"user_id" db:"user_id"`
	Date    time.Time `json:"-" db:"check_date"`
	Done    bool      `json:"done" db:"done"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewCheckIn(habitID, userID string, date time.Time, done bool) *CheckIn {
	now := time.Now().UTC()
	return &CheckIn{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		UserID:    userID,
		Date:      analytics.Day(date),
		Done:      done,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *CheckIn) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" || strings.TrimSpace(c.UserID) == "" {
		return ErrInvalidCheckIn
	}
	if c.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// DateKey is the YYYY-MM-DD form of the check-in day.
func (c *CheckIn) DateKey() string {
	return analytics.FormatDate(c.Date)
}

func (c CheckIn) MarshalJSON() ([]byte, error) {
	type plain CheckIn
	return json.Marshal(struct {
		plain
		Date string `json:"date"`
	}{plain(c), c.DateKey()})
}

// Set changes the done flag and reports whether it actually changed.
func (c *CheckIn) Set(done bool) bool {
	if c.Done == done {
		return false
	}
	c.Done = done
	c.Version++
	c.UpdatedAt = time.Now().UTC()
	return true
}

// ParseCheckInDate parses a YYYY-MM-DD day and refuses anything after
// today plus one day of timezone slack.
func ParseCheckInDate(s string, today time.Time) (time.Time, error) {
	d, err := analytics.ParseDate(s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	if d.After(analytics.Day(today).AddDate(0, 0, 1)) {
		return time.Time{}, ErrFutureDate
	}
	return d, nil
}

// CompletionRecord folds check-ins into the date keyed record the analytics
// engine reads. Later entries for the same day win.
func CompletionRecord(checkIns []*CheckIn) analytics.Completions {
	record := make(analytics.Completions, len(checkIns))
	for _, c := range checkIns {
		record[c.DateKey()] = c.Done
	}
	return record
}
