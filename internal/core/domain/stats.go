package domain

import (
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
)

type WeeklyStats struct {
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	TotalHabits int         `json:"total_habits"`
	OverallRate float64     `json:"overall_completion_rate"`
	HabitStats  []HabitStat `json:"habits"`
}

type HabitStat struct {
	HabitID        string  `json:"habit_id"`
	HabitTitle     string  `json:"habit_title"`
	Color          string  `json:"color"`
	Icon           string  `json:"icon"`
	CompletionRate float64 `json:"completion_rate"`
	DaysScheduled  int     `json:"days_scheduled"`
	DaysCompleted  int     `json:"days_completed"`
	DailyProgress  []bool  `json:"daily_progress"`
}

type StatsInput struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	Location  *time.Location
}

// HabitAnalytics pairs a habit with its computed report.
type HabitAnalytics struct {
	HabitID    string           `json:"habit_id"`
	Title      string           `json:"title"`
	Color      string           `json:"color"`
	Icon       string           `json:"icon"`
	Motivation string           `json:"motivation,omitempty"`
	Weekdays   []int            `json:"weekdays,omitempty"`
	Report     analytics.Report `json:"report"`
}

type Dashboard struct {
	AsOf              string           `json:"as_of"`
	TotalHabits       int              `json:"total_habits"`
	DoneToday         int              `json:"done_today"`
	BestCurrentStreak int              `json:"best_current_streak"`
	Habits            []HabitAnalytics `json:"habits"`
}
