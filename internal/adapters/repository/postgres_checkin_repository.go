package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var _ domain.CheckInRepository = (*PostgresCheckInRepository)(nil)

type PostgresCheckInRepository struct {
	db *sqlx.DB
}

func NewPostgresCheckInRepository(db *sqlx.DB) *PostgresCheckInRepository {
	return &PostgresCheckInRepository{db: db}
}

// dateArg sends days as YYYY-MM-DD text so the server session timezone
// cannot shift them. A zero time becomes NULL.
func dateArg(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return analytics.FormatDate(t)
}

func (r *PostgresCheckInRepository) Upsert(ctx context.Context, c *domain.CheckIn) error {
	if err := c.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO check_ins (id, habit_id, user_id, check_date, done, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (habit_id, check_date) DO UPDATE
		SET done = EXCLUDED.done, version = EXCLUDED.version, updated_at = EXCLUDED.updated_at
		WHERE check_ins.version = EXCLUDED.version - 1
		RETURNING id`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.HabitID, c.UserID, dateArg(c.Date), c.Done, c.Version, c.CreatedAt, c.UpdatedAt,
	).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return domain.ErrCheckInConflict
		case isForeignKeyViolation(err):
			return domain.ErrHabitNotFound
		case isUniqueViolation(err):
			return domain.ErrCheckInDuplicate
		}
		return fmt.Errorf("repository: upsert check-in: %w", err)
	}

	c.ID = id
	return nil
}

func (r *PostgresCheckInRepository) GetByDate(ctx context.Context, habitID string, date time.Time) (*domain.CheckIn, error) {
	var c domain.CheckIn
	query := `SELECT * FROM check_ins WHERE habit_id = $1 AND check_date = $2`

	if err := r.db.GetContext(ctx, &c, query, habitID, dateArg(date)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCheckInNotFound
		}
		return nil, fmt.Errorf("repository: get check-in: %w", err)
	}
	c.Date = analytics.Day(c.Date)
	return &c, nil
}

func (r *PostgresCheckInRepository) ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.CheckIn, error) {
	query := `
		SELECT * FROM check_ins
		WHERE habit_id = $1
		  AND ($2::date IS NULL OR check_date >= $2::date)
		  AND ($3::date IS NULL OR check_date <= $3::date)
		ORDER BY check_date ASC`

	return r.list(ctx, query, habitID, dateArg(from), dateArg(to))
}

func (r *PostgresCheckInRepository) ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*domain.CheckIn, error) {
	query := `
		SELECT * FROM check_ins
		WHERE user_id = $1
		  AND ($2::date IS NULL OR check_date >= $2::date)
		  AND ($3::date IS NULL OR check_date <= $3::date)
		ORDER BY check_date ASC`

	return r.list(ctx, query, userID, dateArg(from), dateArg(to))
}

func (r *PostgresCheckInRepository) list(ctx context.Context, query string, args ...any) ([]*domain.CheckIn, error) {
	checkIns := []*domain.CheckIn{}
	if err := r.db.SelectContext(ctx, &checkIns, query, args...); err != nil {
		return nil, fmt.Errorf("repository: list check-ins: %w", err)
	}
	for _, c := range checkIns {
		c.Date = analytics.Day(c.Date)
	}
	return checkIns, nil
}
