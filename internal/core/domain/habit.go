package domain

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty     = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong   = errors.New("habit title is too long (max 100 chars)")
	ErrHabitDescTooLong    = errors.New("habit description is too long (max 500 chars)")
	ErrHabitMotivationLong = errors.New("habit motivation is too long (max 500 chars)")
	ErrHabitInvalidUserID  = errors.New("invalid user id")
	ErrInvalidHabitID      = errors.New("invalid habit id (must be a UUID)")
	ErrInvalidColor        = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidWeekdays     = errors.New("invalid weekdays (must be 0-6)")
	ErrInvalidReminder     = errors.New("invalid reminder format (must be HH:MM 24h)")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
var reminderRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

const (
	DefaultIcon   = "default_icon"
	DefaultColor  = "#4F46E5"
	MaxTitleLen   = 100
	MaxDescLen    = 500
	MaxMotivation = 500
)

type Habit struct {
	ID           string  `json:"id" db:"id"`
	UserID       string  `json:"user_id" db:"user_id"`
	Title        string  `json:"title" db:"title"`
	Description  string  `json:"description,omitempty" db:"description"`
	Motivation   string  `json:"motivation,omitempty" db:"motivation"`
	Color        string  `json:"color" db:"color"`
	Icon         string  `json:"icon" db:"icon"`
	ReminderTime *string `json:"reminder_time,omitempty" db:"reminder_time"`
	// Weekdays uses 0=Sunday..6. Empty means every day.
	Weekdays []int `json:"weekdays,omitempty" db:"-"`

	CurrentStreak int `json:"current_streak" db:"current_streak"`
	LongestStreak int `json:"longest_streak" db:"longest_streak"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// HabitDetails carries the user editable fields of a habit.
type HabitDetails struct {
	Title       string
	Description string
	Motivation  string
	Color       string
	Icon        string
	Reminder    string
	Weekdays    []int
}

func normalizeWeekdays(days []int) []int {
	if len(days) == 0 {
		return nil
	}

	seen := make(map[int]bool)
	var unique []int
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			unique = append(unique, d)
		}
	}

	sort.Ints(unique)
	return unique
}

func (d HabitDetails) validate() error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return ErrHabitTitleEmpty
	}
	if len(title) > MaxTitleLen {
		return ErrHabitTitleTooLong
	}
	if len(strings.TrimSpace(d.Description)) > MaxDescLen {
		return ErrHabitDescTooLong
	}
	if len(strings.TrimSpace(d.Motivation)) > MaxMotivation {
		return ErrHabitMotivationLong
	}
	if d.Reminder != "" && !reminderRegex.MatchString(d.Reminder) {
		return ErrInvalidReminder
	}
	for _, day := range d.Weekdays {
		if day < 0 || day > 6 {
			return ErrInvalidWeekdays
		}
	}
	if d.Color != "" && !colorRegex.MatchString(d.Color) {
		return ErrInvalidColor
	}
	return nil
}

func NewHabit(title, userID string) (*Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrHabitTitleEmpty
	}
	if len(title) > MaxTitleLen {
		return nil, ErrHabitTitleTooLong
	}

	now := time.Now().UTC()
	return &Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Color:     DefaultColor,
		Icon:      DefaultIcon,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply validates d and replaces every editable field with it.
func (h *Habit) Apply(d HabitDetails) error {
	if err := d.validate(); err != nil {
		return err
	}

	var reminder *string
	if d.Reminder != "" {
		r := d.Reminder
		reminder = &r
	}

	color := d.Color
	if color == "" {
		color = DefaultColor
	}
	icon := d.Icon
	if icon == "" {
		icon = DefaultIcon
	}

	h.Title = strings.TrimSpace(d.Title)
	h.Description = strings.TrimSpace(d.Description)
	h.Motivation = strings.TrimSpace(d.Motivation)
	h.Color = color
	h.Icon = icon
	h.ReminderTime = reminder
	h.Weekdays = normalizeWeekdays(d.Weekdays)
	h.UpdatedAt = time.Now().UTC()
	return nil
}

// Details returns the editable fields, the inverse of Apply.
func (h *Habit) Details() HabitDetails {
	d := HabitDetails{
		Title:       h.Title,
		Description: h.Description,
		Motivation:  h.Motivation,
		Color:       h.Color,
		Icon:        h.Icon,
		Weekdays:    h.Weekdays,
	}
	if h.ReminderTime != nil {
		d.Reminder = *h.ReminderTime
	}
	return d
}

func (h *Habit) IsScheduledOn(wd time.Weekday) bool {
	if len(h.Weekdays) == 0 {
		return true
	}
	for _, d := range h.Weekdays {
		if time.Weekday(d) == wd {
			return true
		}
	}
	return false
}

// SetStreaks stores freshly computed streaks and reports whether anything changed.
func (h *Habit) SetStreaks(current, longest int) bool {
	if h.CurrentStreak == current && h.LongestStreak == longest {
		return false
	}
	h.CurrentStreak = current
	h.LongestStreak = longest
	return true
}
