package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

const habitColumns = `id, user_id, title, description, motivation, color, icon, reminder_time,
	weekdays, current_streak, longest_streak, version, created_at, updated_at, deleted_at`

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanHabit(row scannable) (*domain.Habit, error) {
	var h domain.Habit
	var weekdaysJSON []byte

	err := row.Scan(
		&h.ID, &h.UserID, &h.Title, &h.Description, &h.Motivation, &h.Color, &h.Icon, &h.ReminderTime,
		&weekdaysJSON, &h.CurrentStreak, &h.LongestStreak, &h.Version,
		&h.CreatedAt, &h.UpdatedAt, &h.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(weekdaysJSON) > 0 {
		if err := json.Unmarshal(weekdaysJSON, &h.Weekdays); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weekdays: %w", err)
		}
	}
	if len(h.Weekdays) == 0 {
		h.Weekdays = nil
	}
	return &h, nil
}

// marshalWeekdays returns text: lib/pq sends []byte parameters as bytea.
func marshalWeekdays(days []int) (string, error) {
	if days == nil {
		days = []int{}
	}
	b, err := json.Marshal(days)
	return string(b), err
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	weekdaysJSON, err := marshalWeekdays(h.Weekdays)
	if err != nil {
		return fmt.Errorf("failed to marshal weekdays: %w", err)
	}

	query := `
        INSERT INTO habits (
            id, user_id, title, description, motivation, color, icon, reminder_time,
            weekdays, current_streak, longest_streak, version, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, $12, $13)`

	_, err = r.db.ExecContext(ctx, query,
		h.ID, h.UserID, h.Title, h.Description, h.Motivation, h.Color, h.Icon, h.ReminderTime,
		weekdaysJSON, h.CurrentStreak, h.LongestStreak, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrHabitConflict
		case isForeignKeyViolation(err):
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	h.Version = 1
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1 AND deleted_at IS NULL`

	h, err := scanHabit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return h, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY created_at ASC`

	return r.query(ctx, query, userID)
}

func (r *PostgresHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1 AND updated_at > $2
        ORDER BY updated_at ASC`

	return r.query(ctx, query, userID, since)
}

func (r *PostgresHabitRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Habit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	habits := []*domain.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	weekdaysJSON, err := marshalWeekdays(h.Weekdays)
	if err != nil {
		return err
	}

	query := `
        UPDATE habits SET
            title=$1, description=$2, motivation=$3, color=$4, icon=$5,
            reminder_time=$6, weekdays=$7,
            updated_at=NOW(), version = version + 1
        WHERE id=$8 AND version=$9 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		h.Title, h.Description, h.Motivation, h.Color, h.Icon,
		h.ReminderTime, weekdaysJSON,
		h.ID, h.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time
	if err := row.Scan(&newVersion, &newUpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var count int
			existsQuery := `SELECT count(*) FROM habits WHERE id = $1 AND deleted_at IS NULL`
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, h.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}
			if count == 0 {
				return domain.ErrHabitNotFound
			}
			return domain.ErrHabitConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	h.Version = newVersion
	h.UpdatedAt = newUpdatedAt
	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE habits
        SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
        WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}
	return expectOneRow(res, domain.ErrHabitNotFound)
}

// UpdateStreaks leaves version and updated_at alone so streak refreshes do
// not show up as client edits in sync deltas.
func (r *PostgresHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	query := `
        UPDATE habits SET current_streak = $1, longest_streak = $2
        WHERE id = $3 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, current, longest, id)
	if err != nil {
		return fmt.Errorf("streak update failed: %w", err)
	}
	return expectOneRow(res, domain.ErrHabitNotFound)
}

func expectOneRow(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
